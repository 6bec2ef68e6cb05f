package plans

import (
	"math/big"
	"sort"

	"github.com/rosx-labs/perp-deployer/internal/domain/models"
	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

// planFunc builds the call sequence of one plan
type planFunc func() []models.CallStep

// Provider serves the built-in initialization plans keyed by mode and name
type Provider struct {
	plans map[models.DeployMode]map[string]planFunc
}

// NewProvider creates a provider with the protocol's direct and proxy plans
func NewProvider() *Provider {
	return &Provider{
		plans: map[models.DeployMode]map[string]planFunc{
			models.DeployModeDirect: directPlans,
			models.DeployModeProxy:  proxyPlans,
		},
	}
}

// Plan returns the steps for name, false when no plan exists in that mode
func (p *Provider) Plan(name string, mode models.DeployMode) ([]models.CallStep, bool) {
	build, ok := p.plans[normalizeMode(mode)][name]
	if !ok {
		return nil, false
	}
	return build(), true
}

// Names lists the plans available for mode, sorted
func (p *Provider) Names(mode models.DeployMode) []string {
	set := p.plans[normalizeMode(mode)]
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeMode(mode models.DeployMode) models.DeployMode {
	if mode == models.DeployModeProxy {
		return models.DeployModeProxy
	}
	return models.DeployModeDirect
}

// ether returns n * 10^18
func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

// maxUint256 is the unlimited allowance
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

func tradingTokens() []string {
	names := make([]string, 0, len(models.TradingAssets))
	for _, symbol := range models.TradingAssets {
		names = append(names, "Trading"+symbol)
	}
	return names
}

var _ usecase.PlanProvider = (*Provider)(nil)
