package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rosx-labs/perp-deployer/internal/domain/config"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
)

// DefaultPlan returns the built-in stages and initialization order
func DefaultPlan() *config.DeployPlan {
	return &config.DeployPlan{
		Stages: map[string]config.Stage{
			"base": {
				Mode: models.DeployModeDirect,
				Contracts: []string{
					"ROLP", "RUSD",
					"TradingWETH", "TradingBTC", "TradingMATIC", "TradingBNB", "TradingARB",
					"StableUSDC", "CollateralBLUR",
					"DummyChainlinkAggregator_WETH", "DummyChainlinkAggregator_BTC",
					"DummyChainlinkAggregator_MATIC", "DummyChainlinkAggregator_BNB",
					"DummyChainlinkAggregator_ARB", "DummyChainlinkAggregator_USDC",
					"DummyChainlinkAggregator_BLUR",
					"FastPriceFeed_WETH", "FastPriceFeed_BTC", "FastPriceFeed_MATIC",
					"FastPriceFeed_BNB", "FastPriceFeed_ARB", "FastPriceFeed_USDC",
					"FastPriceFeed_BLUR",
					"VaultPriceFeed", "PriceManager",
				},
			},
			"main": {
				Mode: models.DeployModeDirect,
				Contracts: []string{
					"PositionHandler", "Vault", "SettingsManager", "TriggerOrderManager",
					"VaultUtils", "PositionKeeper", "PositionRouter",
				},
			},
			"staking": {
				Mode: models.DeployModeDirect,
				Contracts: []string{
					"StakingDual", "StakedTracker_sROSX", "VestERosx", "StakingROLP", "StakedTracker_sROLP",
				},
			},
			"proxy": {
				Mode: models.DeployModeProxy,
				Contracts: []string{
					"SettingsManager", "Vault", "VaultUtils", "PositionHandler",
					"PositionKeeper", "TriggerOrderManager", "PositionRouter",
				},
			},
		},
		Initialize: map[models.DeployMode][]string{
			models.DeployModeDirect: {
				"Base", "SettingsManager", "TriggerOrderManager", "VaultUtils", "Vault",
				"PositionHandler", "PositionKeeper", "PositionRouter", "Extra", "Post",
				"CreateTestPosition", "Staking",
			},
			models.DeployModeProxy: {"Vault", "VaultUtils", "PositionRouter"},
		},
	}
}

// LoadPlan reads the plan file on top of the built-in plan.
// Stages and initialization orders defined in the file replace the built-in ones with the same key.
func LoadPlan(path string) (*config.DeployPlan, error) {
	plan := DefaultPlan()
	if path == "" {
		return plan, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return plan, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var file config.DeployPlan
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse plan file %s: %w", path, err)
	}

	for name, stage := range file.Stages {
		if len(stage.Contracts) == 0 {
			return nil, fmt.Errorf("stage %q in %s has no contracts", name, path)
		}
		mode, err := models.ParseDeployMode(string(stage.Mode))
		if err != nil {
			return nil, fmt.Errorf("stage %q in %s: %w", name, path, err)
		}
		stage.Mode = mode
		plan.Stages[name] = stage
	}
	for mode, order := range file.Initialize {
		parsed, err := models.ParseDeployMode(string(mode))
		if err != nil {
			return nil, fmt.Errorf("initialize in %s: %w", path, err)
		}
		plan.Initialize[parsed] = order
	}

	return plan, nil
}
