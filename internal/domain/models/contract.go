package models

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ContractKind is the closed set of contract kinds with argument or initialization rules
type ContractKind int

const (
	KindUnknown ContractKind = iota
	KindPositionHandler
	KindVaultPriceFeed
	KindROLP
	KindRUSD
	KindPositionKeeper
	KindVault
	KindSettingsManager
	KindTriggerOrderManager
	KindVaultUtils
	KindPositionRouter
	KindSwapRouter
	KindPriceManager
	KindTradingToken
	KindStableToken
	KindCollateralToken
	KindChainlinkAggregator
	KindFastPriceFeed
	KindStakingDual
	KindStakedTracker
	KindVestERosx
	KindStakingROLP
)

var kindNames = map[ContractKind]string{
	KindUnknown:             "Unknown",
	KindPositionHandler:     "PositionHandler",
	KindVaultPriceFeed:      "VaultPriceFeed",
	KindROLP:                "ROLP",
	KindRUSD:                "RUSD",
	KindPositionKeeper:      "PositionKeeper",
	KindVault:               "Vault",
	KindSettingsManager:     "SettingsManager",
	KindTriggerOrderManager: "TriggerOrderManager",
	KindVaultUtils:          "VaultUtils",
	KindPositionRouter:      "PositionRouter",
	KindSwapRouter:          "SwapRouter",
	KindPriceManager:        "PriceManager",
	KindTradingToken:        "Trading",
	KindStableToken:         "Stable",
	KindCollateralToken:     "Collateral",
	KindChainlinkAggregator: "DummyChainlinkAggregator",
	KindFastPriceFeed:       "FastPriceFeed",
	KindStakingDual:         "StakingDual",
	KindStakedTracker:       "StakedTracker",
	KindVestERosx:           "VestERosx",
	KindStakingROLP:         "StakingROLP",
}

func (k ContractKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// exact names that map one-to-one to a kind
var exactKinds = map[string]ContractKind{
	"PositionHandler":     KindPositionHandler,
	"VaultPriceFeed":      KindVaultPriceFeed,
	"ROLP":                KindROLP,
	"RUSD":                KindRUSD,
	"PositionKeeper":      KindPositionKeeper,
	"Vault":               KindVault,
	"SettingsManager":     KindSettingsManager,
	"TriggerOrderManager": KindTriggerOrderManager,
	"VaultUtils":          KindVaultUtils,
	"PositionRouter":      KindPositionRouter,
	"SwapRouter":          KindSwapRouter,
	"PriceManager":        KindPriceManager,
	"StakingDual":         KindStakingDual,
	"VestERosx":           KindVestERosx,
	"StakingROLP":         KindStakingROLP,
}

// token wrapper prefixes, the suffix is the asset symbol
var tokenPrefixes = []struct {
	prefix string
	kind   ContractKind
}{
	{"Trading", KindTradingToken},
	{"Stable", KindStableToken},
	{"Collateral", KindCollateralToken},
}

// suffixed kinds use the last "_" segment as their parameter
var suffixedKinds = map[string]ContractKind{
	"DummyChainlinkAggregator": KindChainlinkAggregator,
	"FastPriceFeed":            KindFastPriceFeed,
	"StakedTracker":            KindStakedTracker,
}

// ContractName is a parsed logical contract name
type ContractName struct {
	Raw  string
	Kind ContractKind
	// Suffix is the asset symbol or tracker symbol carried by the name
	Suffix string
}

// ParseContractName classifies a logical name such as "FastPriceFeed_WETH" or "TradingBTC"
func ParseContractName(name string) ContractName {
	parsed := ContractName{Raw: name, Kind: KindUnknown}

	if kind, ok := exactKinds[name]; ok {
		parsed.Kind = kind
		return parsed
	}

	parts := strings.Split(name, "_")
	if kind, ok := suffixedKinds[parts[0]]; ok && len(parts) > 1 && parts[len(parts)-1] != "" {
		parsed.Kind = kind
		parsed.Suffix = parts[len(parts)-1]
		return parsed
	}

	if len(parts) == 1 {
		for _, tp := range tokenPrefixes {
			symbol := strings.TrimPrefix(name, tp.prefix)
			if symbol == name || symbol == "" {
				continue
			}
			if _, ok := LookupAsset(symbol); ok {
				parsed.Kind = tp.kind
				parsed.Suffix = symbol
				return parsed
			}
		}
	}

	return parsed
}

// IsTokenWrapper reports whether the name deploys the shared test ERC20 template
func (c ContractName) IsTokenWrapper() bool {
	return c.Kind == KindTradingToken || c.Kind == KindStableToken || c.Kind == KindCollateralToken
}

// TestTokenTemplate is the artifact shared by all token wrappers
const TestTokenTemplate = "TestERC20"

// TemplateFor returns the artifact name deployed for a logical name
func TemplateFor(name string) string {
	if ParseContractName(name).IsTokenWrapper() {
		return TestTokenTemplate
	}
	return strings.Split(name, "_")[0]
}

// Artifact is a compiled contract loaded from the build output
type Artifact struct {
	Name     string
	Path     string
	ABI      *abi.ABI
	Bytecode []byte
}
