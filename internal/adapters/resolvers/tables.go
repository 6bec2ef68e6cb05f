package resolvers

import (
	"math/big"
	"strings"

	"github.com/rosx-labs/perp-deployer/internal/domain/models"
)

func none(models.ContractName, *refs) []any { return []any{} }

func refsOf(names ...string) argFunc {
	return func(_ models.ContractName, r *refs) []any {
		return r.addrs(names...)
	}
}

// token wrappers take (symbol, decimals)
func tokenArgs(name models.ContractName, _ *refs) []any {
	asset, _ := models.LookupAsset(name.Suffix)
	return []any{asset.Symbol, asset.Decimals}
}

// aggregators take (symbol, decimals, initial price); unknown assets default to 18 decimals and no price
func aggregatorArgs(name models.ContractName, _ *refs) []any {
	asset, ok := models.LookupAsset(name.Suffix)
	if !ok {
		return []any{name.Suffix, uint8(18), new(big.Int)}
	}
	return []any{asset.Symbol, asset.Decimals, asset.Price}
}

func fastPriceFeedArgs(name models.ContractName, _ *refs) []any {
	return []any{name.Suffix}
}

// staked trackers take ("Staked <token>", <symbol>) where the symbol is the token prefixed with "s"
func stakedTrackerArgs(name models.ContractName, _ *refs) []any {
	return []any{"Staked " + strings.TrimPrefix(name.Suffix, "s"), name.Suffix}
}

// constructor arguments for plain deployments
var directArgs = map[models.ContractKind]argFunc{
	models.KindPositionHandler:     none,
	models.KindVaultPriceFeed:      none,
	models.KindROLP:                none,
	models.KindRUSD:                none,
	models.KindPositionKeeper:      none,
	models.KindVault:               refsOf("ROLP", "RUSD"),
	models.KindSettingsManager:     refsOf("RUSD"),
	models.KindTriggerOrderManager: refsOf("SettingsManager", "PriceManager"),
	models.KindVaultUtils:          refsOf("PriceManager", "SettingsManager"),
	models.KindPositionRouter: func(_ models.ContractName, r *refs) []any {
		args := r.addrs("Vault", "PositionHandler", "PositionKeeper", "SettingsManager", "PriceManager", "VaultUtils", "TriggerOrderManager")
		return append(args, models.ZeroAddress)
	},
	models.KindSwapRouter:          refsOf("Vault", "SettingsManager", "PriceManager"),
	models.KindPriceManager:        refsOf("RUSD", "VaultPriceFeed"),
	models.KindTradingToken:        tokenArgs,
	models.KindStableToken:         tokenArgs,
	models.KindCollateralToken:     tokenArgs,
	models.KindChainlinkAggregator: aggregatorArgs,
	models.KindFastPriceFeed:       fastPriceFeedArgs,
	models.KindStakingDual:         refsOf("ROSX", "EROSX"),
	models.KindStakedTracker:       stakedTrackerArgs,
	models.KindVestERosx:           refsOf("ROSX", "EROSX"),
	models.KindStakingROLP:         refsOf("ROLP"),
}

// initializer arguments for upgradeable deployments
var proxyArgs = map[models.ContractKind]argFunc{
	models.KindPositionHandler:     refsOf("PriceManager", "SettingsManager"),
	models.KindPositionKeeper:      refsOf("PriceManager", "PositionHandler"),
	models.KindPositionRouter:      refsOf("PriceManager", "SettingsManager", "PositionHandler", "PositionKeeper", "Vault", "VaultUtils", "TriggerOrderManager"),
	models.KindSettingsManager:     refsOf("RUSD"),
	models.KindTriggerOrderManager: refsOf("PriceManager", "SettingsManager", "PositionHandler", "PositionKeeper"),
	models.KindVaultUtils:          refsOf("PriceManager", "SettingsManager"),
	models.KindVault:               refsOf("ROLP", "RUSD"),
}
