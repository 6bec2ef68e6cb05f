package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rosx-labs/perp-deployer/internal/cli/render"
	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	var (
		stage string
		pick  bool
	)

	cmd := &cobra.Command{
		Use:   "verify [contracts...]",
		Short: "Verify deployed contracts on the block explorer",
		Long: `Verify contracts already recorded in the address book.

Direct deployments are verified with their constructor arguments. Proxy deployments
verify the implementation read from the EIP-1967 slot and link the proxy to it.`,
		Example: `  # Verify the main stage
  perpdeploy verify --stage main

  # Verify proxies
  perpdeploy verify --mode proxy Vault PositionRouter`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			contracts, mode, err := selectContracts(cmd, app, args, stage, pick)
			if err != nil {
				return err
			}

			result, err := app.VerifyContracts.Run(cmd.Context(), usecase.VerifyOptions{
				Contracts: contracts,
				Mode:      mode,
			})
			if result != nil {
				if renderErr := render.NewVerifyRenderer(cmd.OutOrStdout()).Render(result); renderErr != nil {
					return renderErr
				}
			}
			if err != nil {
				return err
			}

			if failed := len(result.Records) - result.SuccessCount; failed > 0 {
				return fmt.Errorf("%d of %d contracts were not verified", failed, len(result.Records))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&stage, "stage", "s", "", "Verify the contracts of a plan stage")
	cmd.Flags().String("mode", "", "Deployment mode: direct or proxy (default from the stage, else direct)")
	cmd.Flags().BoolVar(&pick, "select", false, "Choose contracts of the stage interactively")

	return cmd
}
