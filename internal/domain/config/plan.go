package config

import (
	"fmt"
	"sort"

	"github.com/rosx-labs/perp-deployer/internal/domain/models"
)

// Stage is an ordered group of contracts deployed together
type Stage struct {
	Mode      models.DeployMode `yaml:"mode"`
	Contracts []string          `yaml:"contracts"`
}

// DeployPlan holds the deployment stages and the initialization order per mode
type DeployPlan struct {
	Stages     map[string]Stage               `yaml:"stages"`
	Initialize map[models.DeployMode][]string `yaml:"initialize"`
}

// Stage returns the named stage
func (p *DeployPlan) Stage(name string) (Stage, error) {
	stage, ok := p.Stages[name]
	if !ok {
		return Stage{}, fmt.Errorf("unknown stage %q (available: %v)", name, p.StageNames())
	}
	if stage.Mode == "" {
		stage.Mode = models.DeployModeDirect
	}
	return stage, nil
}

// StageNames returns stage names sorted alphabetically
func (p *DeployPlan) StageNames() []string {
	names := make([]string, 0, len(p.Stages))
	for name := range p.Stages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InitOrder returns the initialization order for a mode
func (p *DeployPlan) InitOrder(mode models.DeployMode) []string {
	return p.Initialize[mode]
}
