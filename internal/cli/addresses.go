package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rosx-labs/perp-deployer/internal/cli/render"
)

// NewAddressesCmd creates the addresses command
func NewAddressesCmd() *cobra.Command {
	var (
		env  bool
		pick bool
	)

	cmd := &cobra.Command{
		Use:     "addresses [name]",
		Aliases: []string{"ls"},
		Short:   "Show the address book",
		Long: `Show the entries of the address book in file order.

With --env the addresses consumed by the trading backend are printed as
KEY=address lines.`,
		Example: `  # List every entry
  perpdeploy addresses

  # Show a single entry
  perpdeploy addresses Vault

  # Export the backend environment
  perpdeploy addresses --env > backend.env`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			renderer := render.NewAddressesRenderer(cmd.OutOrStdout())

			if env {
				vars, err := app.ListAddresses.BackendEnv(cmd.Context())
				if err != nil {
					return err
				}
				for _, v := range vars {
					if v.Missing {
						app.Log.Warn("backend contract has no address", "key", v.Key, "contract", v.Contract)
					}
				}
				return renderer.RenderEnv(vars)
			}

			result, err := app.ListAddresses.Run(cmd.Context())
			if err != nil {
				return err
			}

			if len(args) == 1 {
				for i := range result.Entries {
					if result.Entries[i].Name == args[0] {
						return renderer.RenderEntry(&result.Entries[i])
					}
				}
				return fmt.Errorf("%s is not in %s", args[0], result.Path)
			}

			if pick {
				entry, err := app.Selector.SelectEntry(cmd.Context(), result.Entries, "Select a contract")
				if err != nil {
					return err
				}
				return renderer.RenderEntry(entry)
			}

			return renderer.Render(result)
		},
	}

	cmd.Flags().BoolVar(&env, "env", false, "Print the backend environment lines")
	cmd.Flags().BoolVar(&pick, "select", false, "Pick an entry interactively")

	return cmd
}
