package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rosx-labs/perp-deployer/internal/domain/models"
	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

// DeployRenderer renders the outcome of a deployment run
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// Render renders one row per contract followed by a summary
func (r *DeployRenderer) Render(result *usecase.DeployResult) error {
	if len(result.Records) == 0 {
		fmt.Fprintln(r.out, "Nothing to deploy")
		return nil
	}

	t := newTable(table.Row{"CONTRACT", "STATUS", "ADDRESS", "IMPLEMENTATION", "NOTES"})
	for _, rec := range result.Records {
		t.AppendRow(table.Row{
			nameStyle.Sprint(rec.Entry.Name),
			statusCell(rec.Status),
			addressStyle.Sprint(orDash(rec.Address)),
			orDash(rec.ImplementationAddress),
			recordNotes(rec),
		})
	}
	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintln(r.out)

	failed := len(result.Failed())
	deployed := len(result.Records) - failed
	switch {
	case result.DryRun:
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Dry run: %d resolved, %d failed, address book not written", deployed, failed)))
	case failed > 0:
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%d deployed, %d failed", deployed, failed)))
	default:
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%d contracts deployed", deployed)))
	}
	if result.Saved {
		faintStyle.Fprintf(r.out, "Run %s\n", result.RunID)
	}
	return nil
}

// statusCell colors a record status for display
func statusCell(status models.DeploymentStatus) string {
	label := cases.Title(language.English).String(strings.ToLower(string(status)))
	switch status {
	case models.DeploymentStatusVerified:
		return successStyle.Sprint("✓ " + label)
	case models.DeploymentStatusDeployed:
		return color.New(color.FgCyan).Sprint("● " + label)
	case models.DeploymentStatusFailed:
		return errorStyle.Sprint("✗ " + label)
	default:
		return warningStyle.Sprint("⏳ " + label)
	}
}

func recordNotes(rec *models.DeploymentRecord) string {
	var notes []string
	if rec.Error != nil {
		notes = append(notes, errorStyle.Sprint(rec.Error.Error()))
	}
	if rec.VerifyError != nil {
		notes = append(notes, warningStyle.Sprintf("verify: %v", rec.VerifyError))
	}
	if len(rec.Placeholders) > 0 {
		notes = append(notes, faintStyle.Sprintf("zero address for %s", strings.Join(rec.Placeholders, ", ")))
	}
	return strings.Join(notes, "; ")
}
