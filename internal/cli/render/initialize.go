package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

// InitializeRenderer renders signed batches and their broadcast
type InitializeRenderer struct {
	out     io.Writer
	verbose bool
}

// NewInitializeRenderer creates a new initialize renderer
func NewInitializeRenderer(out io.Writer, verbose bool) *InitializeRenderer {
	return &InitializeRenderer{out: out, verbose: verbose}
}

// RenderSigned renders the batch built by the initialization run
func (r *InitializeRenderer) RenderSigned(result *usecase.InitializeResult) error {
	headerStyle.Fprintf(r.out, "Signer %s on chain %s\n", result.Signer, result.ChainID)
	fmt.Fprintf(r.out, "Signed %d transactions, nonces %d..%d\n",
		result.Batch.Len(), result.StartNonce, lastNonce(result.StartNonce, result.NextNonce))

	if r.verbose && result.Batch.Len() > 0 {
		t := newTable(table.Row{"KEY", "TO", "HASH"})
		for _, tx := range result.Batch.Transactions() {
			t.AppendRow(table.Row{tx.Key, addressStyle.Sprint(tx.To), faintStyle.Sprint(tx.Hash)})
		}
		fmt.Fprintln(r.out, t.Render())
	}

	if len(result.NoPlan) > 0 {
		faintStyle.Fprintf(r.out, "No initialization plan: %s\n", strings.Join(result.NoPlan, ", "))
	}

	if len(result.Failures) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%d calls skipped:", len(result.Failures))))
		for _, f := range result.Failures {
			errorStyle.Fprintf(r.out, "  ✗ %s.%s: %v\n", f.Contract, f.Function, f.Err)
		}
	}
	return nil
}

// RenderBroadcast renders per-transaction outcomes and totals
func (r *InitializeRenderer) RenderBroadcast(result *usecase.BroadcastResult) error {
	if result.Declined {
		fmt.Fprintln(r.out, FormatWarning("Broadcast cancelled, nothing was sent"))
		return nil
	}
	if len(result.Outcomes) == 0 {
		fmt.Fprintln(r.out, "Nothing to broadcast")
		return nil
	}

	t := newTable(table.Row{"KEY", "STATUS", "BLOCK", "HASH"})
	for _, o := range result.Outcomes {
		if !r.verbose && o.Status == usecase.OutcomeSucceeded {
			continue
		}
		block := ""
		if o.Receipt != nil {
			block = fmt.Sprint(o.Receipt.BlockNumber)
		}
		t.AppendRow(table.Row{o.Key, outcomeCell(o), orDash(block), faintStyle.Sprint(orDash(o.Hash))})
	}
	if t.Length() > 0 {
		fmt.Fprintln(r.out, t.Render())
		fmt.Fprintln(r.out)
	}

	summary := fmt.Sprintf("Broadcast complete: %d/%d successful, %d failed", result.Succeeded, len(result.Outcomes), result.Failed)
	switch {
	case result.Aborted:
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s, aborted with %d not submitted", summary, len(result.NotSubmitted()))))
	case result.Failed > 0:
		fmt.Fprintln(r.out, FormatWarning(summary))
	default:
		fmt.Fprintln(r.out, FormatSuccess(summary))
	}
	return nil
}

func outcomeCell(o usecase.TransactionOutcome) string {
	switch o.Status {
	case usecase.OutcomeSucceeded:
		return successStyle.Sprint("✓ succeeded")
	case usecase.OutcomeReverted:
		return errorStyle.Sprint("✗ reverted")
	case usecase.OutcomeNotSubmitted:
		return faintStyle.Sprint("- not submitted")
	default:
		if o.Err != nil {
			return errorStyle.Sprintf("✗ %v", o.Err)
		}
		return errorStyle.Sprint("✗ failed")
	}
}

func lastNonce(start, next uint64) uint64 {
	if next == start {
		return start
	}
	return next - 1
}
