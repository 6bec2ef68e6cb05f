package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/rosx-labs/perp-deployer/internal/domain/config"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
)

// PlanRenderer renders the deployment plan
type PlanRenderer struct {
	out io.Writer
}

// NewPlanRenderer creates a new plan renderer
func NewPlanRenderer(out io.Writer) *PlanRenderer {
	return &PlanRenderer{out: out}
}

// Render lists stages alphabetically, then the initialization order per mode
func (r *PlanRenderer) Render(plan *config.DeployPlan) error {
	headerStyle.Fprintln(r.out, "Stages")
	for _, name := range plan.StageNames() {
		stage, err := plan.Stage(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "  %s %s\n", nameStyle.Sprint(name), faintStyle.Sprintf("(%s, %d contracts)", stage.Mode, len(stage.Contracts)))
		fmt.Fprintf(r.out, "    %s\n", strings.Join(stage.Contracts, ", "))
	}

	fmt.Fprintln(r.out)
	headerStyle.Fprintln(r.out, "Initialization")
	for _, mode := range []models.DeployMode{models.DeployModeDirect, models.DeployModeProxy} {
		order := plan.InitOrder(mode)
		if len(order) == 0 {
			continue
		}
		fmt.Fprintf(r.out, "  %s  %s\n", nameStyle.Sprint(mode), strings.Join(order, " → "))
	}
	return nil
}
