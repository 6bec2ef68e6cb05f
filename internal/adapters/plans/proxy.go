package plans

import (
	m "github.com/rosx-labs/perp-deployer/internal/domain/models"
)

// proxy deployments receive their wiring through initializer arguments,
// these plans cover what the initializers cannot set
var proxyPlans = map[string]planFunc{
	"Vault":          proxyVaultPlan,
	"VaultUtils":     proxyVaultUtilsPlan,
	"PositionRouter": proxyPositionRouterPlan,
}

func proxyVaultPlan() []m.CallStep {
	vault := m.Ref("Vault")
	steps := []m.CallStep{
		m.Call(vault, "finalInitialize(address,address,address,address,address,address)",
			m.Ref("PriceManager"), m.Ref("SettingsManager"), m.Ref("PositionRouter"),
			m.Ref("PositionHandler"), m.Ref("PositionKeeper"), m.Ref("VaultUtils")),
	}
	return append(steps, vaultTokenSteps(vault)...)
}

func proxyVaultUtilsPlan() []m.CallStep {
	return []m.CallStep{
		m.Call(m.Ref("VaultUtils"), "finalInitialize(address,address,address,address)",
			m.Ref("Vault"), m.Ref("PositionRouter"), m.Ref("PositionHandler"), m.Ref("PositionKeeper")),
	}
}

func proxyPositionRouterPlan() []m.CallStep {
	pr := m.Ref("PositionRouter")
	return []m.CallStep{
		m.Call(pr, "setExecutor(address,bool)", m.Ref("Executor"), m.Lit(true)),
		m.Call(pr, "setExecutor(address,bool)", m.Signer(), m.Lit(true)),
	}
}
