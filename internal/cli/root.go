package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/rosx-labs/perp-deployer/internal/adapters/progress"
	"github.com/rosx-labs/perp-deployer/internal/app"
	"github.com/rosx-labs/perp-deployer/internal/config"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "perpdeploy",
		Short: "Deploy, initialize and verify the perpetual trading contracts",
		Long: `perpdeploy deploys the perpetual trading contract suite from an address book,
signs the initialization calls that wire the contracts together and broadcasts them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			interactive := !v.GetBool("non_interactive") && isatty.IsTerminal(os.Stderr.Fd())
			var sink usecase.ProgressSink = progress.NewSpinnerProgress(os.Stderr, interactive)
			if v.GetBool("quiet") {
				sink = progress.NewNopSink()
			}

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Hide progress output")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network profile from perpdeploy.toml")
	rootCmd.PersistentFlags().String("rpc-url", "", "RPC endpoint (overrides the network profile)")
	rootCmd.PersistentFlags().String("address-book", "", "Address book file (default contracts.txt)")
	rootCmd.PersistentFlags().String("gas-price", "", "Gas price in wei")
	rootCmd.PersistentFlags().Uint64("gas-limit", 0, "Gas limit for initialization calls")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, cmd := range []*cobra.Command{NewDeployCmd(), NewInitializeCmd(), NewVerifyCmd()} {
		cmd.GroupID = "main"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{NewAddressesCmd(), NewPlanCmd()} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// parseMode reads the --mode flag
func parseMode(cmd *cobra.Command) (models.DeployMode, error) {
	value, _ := cmd.Flags().GetString("mode")
	return models.ParseDeployMode(value)
}
