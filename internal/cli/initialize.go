package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rosx-labs/perp-deployer/internal/cli/render"
	"github.com/rosx-labs/perp-deployer/internal/domain/config"
	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

// NewInitializeCmd creates the initialize command
func NewInitializeCmd() *cobra.Command {
	var (
		policy     string
		startNonce int64
		yes        bool
		signOnly   bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:     "initialize [plans...]",
		Aliases: []string{"init"},
		Short:   "Sign and broadcast the initialization calls",
		Long: `Build the initialization calls of each plan against the address book, sign them
with consecutive nonces and broadcast them one by one, waiting for each receipt.

Without arguments the initialization order of the deployment plan is used.
Calls whose references are missing from the address book are skipped without
consuming a nonce.`,
		Example: `  # Initialize everything in plan order
  perpdeploy initialize --network arbitrum-goerli

  # Initialize the proxy deployments, continuing past failed transactions
  perpdeploy initialize --mode proxy --policy continue

  # Only sign, starting at a given nonce
  perpdeploy initialize --sign-only --start-nonce 42 Vault`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			mode, err := parseMode(cmd)
			if err != nil {
				return err
			}

			plans := args
			if len(plans) == 0 {
				plans = app.Config.Plan.InitOrder(mode)
			}
			if len(plans) == 0 {
				return fmt.Errorf("no initialization order configured for mode %s", mode)
			}

			switch config.BroadcastPolicy(policy) {
			case "", config.BroadcastAbort, config.BroadcastContinue:
			default:
				return fmt.Errorf("invalid --policy %q (expected abort or continue)", policy)
			}

			opts := usecase.InitializeOptions{Contracts: plans, Mode: mode}
			if cmd.Flags().Changed("start-nonce") {
				if startNonce < 0 {
					return fmt.Errorf("--start-nonce must not be negative")
				}
				n := uint64(startNonce)
				opts.StartNonce = &n
			}

			renderer := render.NewInitializeRenderer(cmd.OutOrStdout(), verbose)

			signed, err := app.InitializeContracts.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := renderer.RenderSigned(signed); err != nil {
				return err
			}

			if signOnly || app.Config.DryRun {
				return skippedError(signed)
			}

			broadcast, err := app.BroadcastTransactions.Run(cmd.Context(), signed.Batch, usecase.BroadcastOptions{
				Policy:      config.BroadcastPolicy(policy),
				SkipConfirm: yes,
			})
			if broadcast != nil {
				if renderErr := renderer.RenderBroadcast(broadcast); renderErr != nil {
					return renderErr
				}
			}
			if err != nil {
				return err
			}
			if broadcast.Failed > 0 {
				return fmt.Errorf("%d transactions failed", broadcast.Failed)
			}
			return skippedError(signed)
		},
	}

	cmd.Flags().String("mode", "", "Deployment mode of the plans: direct or proxy")
	cmd.Flags().StringVar(&policy, "policy", "", "Broadcast failure policy: abort or continue (default from config)")
	cmd.Flags().Int64Var(&startNonce, "start-nonce", 0, "First nonce to sign with instead of the account nonce")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Broadcast without asking for confirmation")
	cmd.Flags().BoolVar(&signOnly, "sign-only", false, "Sign the batch without broadcasting it")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show every transaction")

	return cmd
}

// skippedError reports calls that could not be signed
func skippedError(result *usecase.InitializeResult) error {
	if len(result.Failures) > 0 {
		return fmt.Errorf("%d initialization calls were skipped", len(result.Failures))
	}
	return nil
}
