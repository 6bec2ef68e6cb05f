package plans

import (
	"math/big"
	"time"

	"github.com/samber/lo"

	m "github.com/rosx-labs/perp-deployer/internal/domain/models"
)

// rewardPeriod is how long staking pools created by the Staking plan run
const rewardPeriod = 30 * 24 * time.Hour

var directPlans = map[string]planFunc{
	"Base":               basePlan,
	"PriceManager":       priceManagerPlan,
	"SettingsManager":    settingsManagerPlan,
	"Vault":              vaultPlan,
	"PositionHandler":    positionHandlerPlan,
	"PositionKeeper":     positionKeeperPlan,
	"PositionRouter":     positionRouterPlan,
	"Extra":              extraPlan,
	"Post":               postPlan,
	"CreateTestPosition": createTestPositionPlan,
	"Staking":            stakingPlan,
}

// basePlan wires price feeds, aggregators and per-token price configuration
func basePlan() []m.CallStep {
	var steps []m.CallStep

	for _, symbol := range m.PriceFeedAssets {
		steps = append(steps, m.Call(m.Ref("FastPriceFeed_"+symbol), "grantAccess(address,bool)",
			m.Ref("VaultPriceFeed"), m.Lit(true)))
	}

	steps = append(steps, m.Call(m.Ref("VaultPriceFeed"), "setSupportFastPrice(bool)", m.Lit(true)))

	for _, symbol := range m.PriceFeedAssets {
		steps = append(steps,
			m.Call(m.Ref("VaultPriceFeed"), "setTokenAggregator(address,address)",
				m.AssetToken(symbol), m.Ref("DummyChainlinkAggregator_"+symbol)),
			m.Call(m.Ref("VaultPriceFeed"), "setTokenConfig(address,address,uint256)",
				m.AssetToken(symbol), m.Ref("FastPriceFeed_"+symbol), m.Lit(18)),
		)
	}

	steps = append(steps, m.Call(m.Ref("PriceManager"), "setVaultPriceFeed(address)", m.Ref("VaultPriceFeed")))

	for _, symbol := range m.PriceFeedAssets {
		decimals, leverage := 18, 500000
		if symbol == "USDC" {
			decimals, leverage = 6, 10001
		}
		steps = append(steps, m.Call(m.Ref("PriceManager"), "setTokenConfig(address,uint256,uint256,bool)",
			m.AssetToken(symbol), m.Lit(decimals), m.Lit(leverage), m.Lit(false)))
	}

	return steps
}

func priceManagerPlan() []m.CallStep {
	return []m.CallStep{
		m.Call(m.Ref("PriceManager"), "setVaultPriceFeed(address)", m.Ref("VaultPriceFeed")),
	}
}

// settingsManagerPlan enables markets and sets open interest limits and fees
func settingsManagerPlan() []m.CallStep {
	sm := m.Ref("SettingsManager")
	steps := []m.CallStep{
		m.Call(sm, "enableMarketOrder(bool)", m.Lit(true)),
		m.Call(sm, "setFeeManager(address)", m.Ref("FeeManager")),
		m.Call(sm, "setEnableStable(address,bool)", m.Ref("StableUSDC"), m.Lit(true)),
		m.Call(sm, "setEnableCollateral(address,bool)", m.Ref("CollateralBLUR"), m.Lit(true)),
		m.Call(sm, "setEnableStaking(address,bool)", m.Ref("StableUSDC"), m.Lit(true)),
		m.Call(sm, "setEnableUnstaking(bool)", m.Lit(true)),
		m.Call(sm, "setMaxOpenInterestPerUser(uint256)", m.Lit(ether(400_000))),
		m.Call(sm, "setMaxOpenInterestPerSide(bool,uint256)", m.Lit(true), m.Lit(ether(4_000_000))),
		m.Call(sm, "setMaxOpenInterestPerSide(bool,uint256)", m.Lit(false), m.Lit(ether(4_000_000))),
	}

	steps = append(steps, lo.FlatMap(tradingTokens(), func(token string, _ int) []m.CallStep {
		asset := m.Ref(token)
		return []m.CallStep{
			m.Call(sm, "setLiquidateThreshold(uint256,address)", m.Lit(99999), asset),
			m.Call(sm, "setEnableTradable(address,bool)", asset, m.Lit(true)),
			m.Call(sm, "setMaxOpenInterestPerAsset(address,uint256)", asset, m.Lit(ether(1_000_000))),
			m.Call(sm, "setBorrowFeeFactor(address,uint256)", asset, m.Lit(5)),
			m.Call(sm, "setMaxOpenInterestPerAssetPerSide(address,bool,uint256)", asset, m.Lit(true), m.Lit(ether(500_000))),
			m.Call(sm, "setMaxOpenInterestPerAssetPerSide(address,bool,uint256)", asset, m.Lit(false), m.Lit(ether(500_000))),
			m.Call(sm, "setMarginFeeBasisPoints(address,bool,uint256)", asset, m.Lit(true), m.Lit(100)),
			m.Call(sm, "setMarginFeeBasisPoints(address,bool,uint256)", asset, m.Lit(false), m.Lit(100)),
		}
	})...)

	return append(steps,
		m.Call(sm, "setMaxPriceUpdatedDelay(uint256)", m.Lit(int64(5*time.Minute/time.Second))),
		m.Call(sm, "setVaultSettings(uint256,uint256)", m.Lit(0), m.Lit(50000)),
		m.Call(sm, "setReferEnabled(bool)", m.Lit(true)),
		m.Call(sm, "setPositionHandler(address)", m.Ref("PositionHandler")),
		m.Call(sm, "setPositionKeeper(address)", m.Ref("PositionKeeper")),
		m.Call(sm, "setTriggerGasFee(uint256)", m.Lit(big.NewInt(1_000_000_000_000_000))),
		m.Call(sm, "setCloseDeltaTime(uint256)", m.Lit(60)),
		m.Call(sm, "setVault(address)", m.Ref("Vault")),
	)
}

// vaultPlan initializes the vault and registers its tokens
func vaultPlan() []m.CallStep {
	vault := m.Ref("Vault")
	steps := []m.CallStep{
		m.Call(vault, "initialize(address,address)", m.Ref("PriceManager"), m.Ref("SettingsManager")),
		m.Call(vault, "setPositionHandler(address)", m.Ref("PositionHandler")),
		m.Call(vault, "setVaultUtils(address)", m.Ref("VaultUtils")),
		m.Call(vault, "setPositionRouter(address)", m.Ref("PositionRouter")),
		m.Call(vault, "setPositionKeeper(address)", m.Ref("PositionKeeper")),
	}
	return append(steps, vaultTokenSteps(vault)...)
}

// vaultTokenSteps registers balances, collateral and trading tokens on a vault
func vaultTokenSteps(vault m.Arg) []m.CallStep {
	steps := []m.CallStep{
		m.Call(vault, "updateBalance(address)", m.Ref("RUSD")),
		m.Call(vault, "addOrRemoveCollateralToken(address,bool)", m.Ref("StableUSDC"), m.Lit(true)),
	}
	return append(steps, lo.Map(tradingTokens(), func(token string, _ int) m.CallStep {
		return m.Call(vault, "addOrRemoveTradingToken(address,bool)", m.Ref(token), m.Lit(true))
	})...)
}

func positionHandlerPlan() []m.CallStep {
	ph := m.Ref("PositionHandler")
	return []m.CallStep{
		m.Call(ph, "initialize(address,address,address,address,address)",
			m.Ref("PriceManager"), m.Ref("SettingsManager"), m.Ref("TriggerOrderManager"), m.Ref("Vault"), m.Ref("VaultUtils")),
		m.Call(ph, "setPositionKeeper(address)", m.Ref("PositionKeeper")),
		m.Call(ph, "setPositionRouter(address)", m.Ref("PositionRouter")),
		m.Call(ph, "setExecutor(address,bool)", m.Ref("Executor"), m.Lit(true)),
	}
}

func positionKeeperPlan() []m.CallStep {
	pk := m.Ref("PositionKeeper")
	return []m.CallStep{
		m.Call(pk, "setPositionHandler(address)", m.Ref("PositionHandler")),
		m.Call(pk, "setPriceManager(address)", m.Ref("PriceManager")),
		m.Call(pk, "setPositionRouter(address)", m.Ref("PositionRouter")),
		m.Call(pk, "setSettingsManager(address)", m.Ref("SettingsManager")),
	}
}

func positionRouterPlan() []m.CallStep {
	pr := m.Ref("PositionRouter")
	return []m.CallStep{
		m.Call(pr, "setExecutor(address,bool)", m.Signer(), m.Lit(true)),
		m.Call(pr, "setExecutor(address,bool)", m.Ref("Executor"), m.Lit(true)),
	}
}

// extraPlan grants minting to the vault and approves vault spending
func extraPlan() []m.CallStep {
	var steps []m.CallStep
	for _, token := range []string{"RUSD", "ROLP", "EROSX"} {
		steps = append(steps, m.Call(m.Ref(token), "setMinter(address)", m.Ref("Vault")))
	}
	for _, token := range []string{"StableUSDC", "CollateralBLUR"} {
		steps = append(steps, m.Call(m.Ref(token), "approve(address,uint256)", m.Ref("Vault"), m.Lit(maxUint256)))
	}
	return append(steps, m.Call(m.Ref("VaultPriceFeed"), "setSettingsManager(address)", m.Ref("SettingsManager")))
}

// postPlan grants price update access to the operators
func postPlan() []m.CallStep {
	grants := []struct {
		sender m.Arg
		target string
	}{
		{m.Signer(), "PriceManager"},
		{m.Ref("Executor"), "PriceManager"},
		{m.Ref("PositionHandler"), "PriceManager"},
		{m.Ref("PriceManager"), "VaultPriceFeed"},
	}

	steps := make([]m.CallStep, 0, len(grants)+1)
	for _, g := range grants {
		steps = append(steps, m.Call(m.Ref(g.target), "grantAccess(address,bool)", g.sender, m.Lit(true)))
	}
	return append(steps, m.Call(m.Ref("PriceManager"), "setVaultPriceFeed(address)", m.Ref("VaultPriceFeed")))
}

// createTestPositionPlan prepares funding rates and a stable price for test trading
func createTestPositionPlan() []m.CallStep {
	steps := lo.Map(tradingTokens(), func(token string, _ int) m.CallStep {
		return m.Call(m.Ref("SettingsManager"), "setFundingRateFactor(address,uint256)", m.Ref(token), m.Lit(10))
	})
	return append(steps, m.Call(m.Ref("PriceManager"), "setLatestPrices(address[],uint256[])",
		m.Refs("StableUSDC"), m.Lit([]*big.Int{ether(1)})))
}

// stakingPlan funds reward pools, opens them for a reward period and links trackers and vesting
func stakingPlan() []m.CallStep {
	rewards := []struct {
		pool, token string
		amount      *big.Int
	}{
		{"StakingDual", "ROSX", big.NewInt(10_000_000_000_000_000)},
		{"StakingDual", "EROSX", big.NewInt(20_000_000_000_000_000)},
		{"StakingDual", "StableUSDC", big.NewInt(200)},
		{"StakingROLP", "EROSX", big.NewInt(20_000_000_000_000_000)},
		{"StakingROLP", "StableUSDC", big.NewInt(300)},
	}

	var steps []m.CallStep
	for _, r := range rewards {
		steps = append(steps, m.Call(m.Ref(r.pool), "addReward(address,uint256)", m.Ref(r.token), m.Lit(r.amount)))
	}
	for _, pool := range []string{"StakingDual", "StakingROLP"} {
		steps = append(steps, m.Call(m.Ref(pool), "create(uint256,uint256)", m.Now(0), m.Now(rewardPeriod)))
	}

	return append(steps,
		m.Call(m.Ref("StakedTracker_sROSX"), "setMinter(address,bool)", m.Ref("StakingDual"), m.Lit(true)),
		m.Call(m.Ref("StakingDual"), "setStakeTracker(address)", m.Ref("StakedTracker_sROSX")),
		m.Call(m.Ref("VestERosx"), "setLockRosxAddress(address)", m.Ref("StakingDual")),
		m.Call(m.Ref("EROSX"), "setMinter(address)", m.Ref("VestERosx")),
		m.Call(m.Ref("StakingDual"), "setPermission(address,bool)", m.Ref("VestERosx"), m.Lit(true)),
		m.Call(m.Ref("StakedTracker_sROLP"), "setMinter(address,bool)", m.Ref("StakingROLP"), m.Lit(true)),
		m.Call(m.Ref("StakingROLP"), "setStakeTracker(address)", m.Ref("StakedTracker_sROLP")),
		m.Call(m.Ref("StakingROLP"), "setStakingCompound(address)", m.Ref("StakingDual")),
		m.Call(m.Ref("StakingDual"), "setPermission(address,bool)", m.Ref("StakingROLP"), m.Lit(true)),
	)
}
