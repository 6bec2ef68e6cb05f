package cli

import (
	"github.com/spf13/cobra"

	"github.com/rosx-labs/perp-deployer/internal/cli/render"
)

// NewPlanCmd creates the plan command
func NewPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show deployment stages and initialization order",
		Long: `Show the stages and initialization order in effect, the built-in plan merged
with deploy.yaml when present.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			return render.NewPlanRenderer(cmd.OutOrStdout()).Render(app.Config.Plan)
		},
	}
}
