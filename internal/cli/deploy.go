package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rosx-labs/perp-deployer/internal/app"
	"github.com/rosx-labs/perp-deployer/internal/cli/render"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		stage  string
		verify bool
		dryRun bool
		pick   bool
	)

	cmd := &cobra.Command{
		Use:   "deploy [contracts...]",
		Short: "Deploy contracts and record their addresses",
		Long: `Deploy contracts in order, resolving constructor arguments from the address book.

Contracts come from the command line or from a stage of the deployment plan.
Each deployed address is written to the address book at the end of the run.`,
		Example: `  # Deploy the base stage
  perpdeploy deploy --stage base

  # Deploy two contracts behind proxies and verify them
  perpdeploy deploy --mode proxy --verify Vault VaultUtils

  # Pick contracts of the main stage interactively
  perpdeploy deploy --stage main --select`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			contracts, mode, err := selectContracts(cmd, app, args, stage, pick)
			if err != nil {
				return err
			}

			result, err := app.DeployContracts.Run(cmd.Context(), usecase.DeployOptions{
				Contracts: contracts,
				Mode:      mode,
				Verify:    verify,
				DryRun:    dryRun || app.Config.DryRun,
			})
			if result != nil {
				if renderErr := render.NewDeployRenderer(cmd.OutOrStdout()).Render(result); renderErr != nil {
					return renderErr
				}
			}
			if err != nil {
				return err
			}

			if failed := len(result.Failed()); failed > 0 {
				return fmt.Errorf("%d of %d contracts failed to deploy", failed, len(result.Records))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&stage, "stage", "s", "", "Deploy the contracts of a plan stage")
	cmd.Flags().String("mode", "", "Deployment mode: direct or proxy (default from the stage, else direct)")
	cmd.Flags().BoolVar(&verify, "verify", false, "Verify each contract after deployment")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve arguments without deploying")
	cmd.Flags().BoolVar(&pick, "select", false, "Choose contracts of the stage interactively")

	return cmd
}

// selectContracts resolves the contract list and mode from arguments, stage and flags
func selectContracts(cmd *cobra.Command, app *app.App, args []string, stage string, pick bool) ([]string, models.DeployMode, error) {
	mode, err := parseMode(cmd)
	if err != nil {
		return nil, "", err
	}

	if stage == "" {
		if len(args) == 0 {
			return nil, "", fmt.Errorf("specify contracts or --stage (available stages: %v)", app.Config.Plan.StageNames())
		}
		return args, mode, nil
	}
	if len(args) > 0 {
		return nil, "", fmt.Errorf("contracts and --stage are mutually exclusive")
	}

	s, err := app.Config.Plan.Stage(stage)
	if err != nil {
		return nil, "", err
	}
	if !cmd.Flags().Changed("mode") {
		mode = s.Mode
	}

	contracts := s.Contracts
	if pick {
		if app.Config.NonInteractive {
			return nil, "", fmt.Errorf("--select is not available in non-interactive mode")
		}
		contracts, err = SelectContracts(contracts, fmt.Sprintf("Select contracts of stage %s (%s)", stage, mode))
		if err != nil {
			return nil, "", err
		}
	}
	return contracts, mode, nil
}
