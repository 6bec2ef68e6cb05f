package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/rosx-labs/perp-deployer/internal/domain/models"
	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

// AddressesRenderer renders the address book
type AddressesRenderer struct {
	out io.Writer
}

// NewAddressesRenderer creates a new addresses renderer
func NewAddressesRenderer(out io.Writer) *AddressesRenderer {
	return &AddressesRenderer{out: out}
}

// Render renders every entry in file order
func (r *AddressesRenderer) Render(result *usecase.AddressListResult) error {
	if len(result.Entries) == 0 {
		fmt.Fprintf(r.out, "No addresses in %s\n", result.Path)
		return nil
	}

	faintStyle.Fprintf(r.out, "%s\n\n", result.Path)
	t := newTable(table.Row{"CONTRACT", "ADDRESS"})
	for _, e := range result.Entries {
		address := addressStyle.Sprint(e.Address)
		if e.Address == "" {
			address = warningStyle.Sprint("[empty]")
		}
		t.AppendRow(table.Row{nameStyle.Sprint(e.Name), address})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

// RenderEntry renders a single entry
func (r *AddressesRenderer) RenderEntry(entry *models.AddressEntry) error {
	if entry.Address == "" {
		fmt.Fprintf(r.out, "%s %s\n", nameStyle.Sprint(entry.Name), warningStyle.Sprint("[empty]"))
		return nil
	}
	fmt.Fprintf(r.out, "%s %s\n", nameStyle.Sprint(entry.Name), entry.Address)
	return nil
}

// RenderEnv renders KEY=address lines for the trading backend.
// Output is plain so it can be redirected into an env file.
func (r *AddressesRenderer) RenderEnv(vars []usecase.EnvVar) error {
	for _, v := range vars {
		fmt.Fprintf(r.out, "%s=%s\n", v.Key, v.Value)
	}
	return nil
}
