package render

import (
	"fmt"
	"io"

	"github.com/rosx-labs/perp-deployer/internal/domain/models"
	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

// VerifyRenderer handles rendering of verification results
type VerifyRenderer struct {
	out io.Writer
}

// NewVerifyRenderer creates a new verify renderer
func NewVerifyRenderer(out io.Writer) *VerifyRenderer {
	return &VerifyRenderer{out: out}
}

// Render renders each verified contract and a summary line
func (r *VerifyRenderer) Render(result *usecase.VerifyResult) error {
	for i, rec := range result.Records {
		fmt.Fprintf(r.out, "  %s %s %s\n", statusCell(rec.Status), nameStyle.Sprint(rec.Entry.Name), faintStyle.Sprint(rec.Address))
		if rec.ImplementationAddress != "" {
			faintStyle.Fprintf(r.out, "    └─ implementation %s\n", rec.ImplementationAddress)
		}

		switch {
		case rec.Error != nil:
			errorStyle.Fprintf(r.out, "    ✗ %v\n", rec.Error)
		case rec.VerifyError != nil:
			errorStyle.Fprintf(r.out, "    ✗ %v\n", rec.VerifyError)
		case rec.Status == models.DeploymentStatusVerified:
			successStyle.Fprintln(r.out, "    ✓ Verification completed")
		}

		if i < len(result.Records)-1 {
			fmt.Fprintln(r.out)
		}
	}

	fmt.Fprintf(r.out, "\nVerification complete: %d/%d successful\n", result.SuccessCount, len(result.Records))
	if result.Saved {
		faintStyle.Fprintln(r.out, "Implementation addresses written to the address book")
	}
	return nil
}
