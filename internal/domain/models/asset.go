package models

import (
	"math/big"
)

// Asset describes a token the protocol lists, with its test-network oracle price
type Asset struct {
	Symbol   string
	Decimals uint8
	// Price is the initial aggregator answer, 18-decimal fixed point
	Price *big.Int
}

var assets = map[string]Asset{
	"WETH":  {Symbol: "WETH", Decimals: 18, Price: hexBig("6C6B935B8BBD400000")},
	"USDC":  {Symbol: "USDC", Decimals: 6, Price: hexBig("DE0B6B3A7640000")},
	"BLUR":  {Symbol: "BLUR", Decimals: 18, Price: hexBig("6f05b59d3b20000")},
	"BTC":   {Symbol: "BTC", Decimals: 18, Price: hexBig("3af418202d954e00000")},
	"MATIC": {Symbol: "MATIC", Decimals: 18, Price: hexBig("bef55718ad60000")},
	"BNB":   {Symbol: "BNB", Decimals: 18, Price: hexBig("111380cf0ef80c0000")},
	"ARB":   {Symbol: "ARB", Decimals: 18, Price: hexBig("10a741a462780000")},
}

// PriceFeedAssets is the order in which price feeds are configured
var PriceFeedAssets = []string{"WETH", "BTC", "MATIC", "BNB", "ARB", "USDC", "BLUR"}

// TradingAssets are the assets with perpetual markets
var TradingAssets = []string{"WETH", "BTC", "MATIC", "BNB", "ARB"}

// LookupAsset returns the asset metadata for a symbol
func LookupAsset(symbol string) (Asset, bool) {
	a, ok := assets[symbol]
	return a, ok
}

func hexBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("invalid asset price " + s)
	}
	return v
}
