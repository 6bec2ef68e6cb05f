package config

import (
	"math/big"
	"time"
)

// BroadcastPolicy decides what the broadcaster does when a submission fails
type BroadcastPolicy string

const (
	BroadcastAbort    BroadcastPolicy = "abort"
	BroadcastContinue BroadcastPolicy = "continue"
)

// DeployerKind selects the deployment capability
type DeployerKind string

const (
	// DeployerNative signs and submits creation transactions in-process
	DeployerNative DeployerKind = "native"
	// DeployerCommand shells out to an external deploy script
	DeployerCommand DeployerKind = "command"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot  string
	AddressBook  string // path to the name:address file
	ArtifactsDir string
	PlanFile     string

	Network *Network

	// Signing and gas
	PrivateKey     string
	GasPrice       *big.Int
	GasLimit       uint64 // initialization calls
	DeployGasLimit uint64 // contract creation

	// Broadcasting
	BroadcastPolicy     BroadcastPolicy
	ReceiptPollInterval time.Duration
	ReceiptTimeout      time.Duration

	// Deployment capability
	Deployer      DeployerKind
	DeployCommand []string
	ProxyTemplate string

	// Verification
	VerifyCommand []string
	VerifyDelay   time.Duration
	VerifyRate    time.Duration

	// Execution settings
	Debug          bool
	NonInteractive bool
	DryRun         bool
	Timeout        time.Duration

	// Resolved plan (stages and initialization order)
	Plan *DeployPlan
}

// Network represents network configuration
type Network struct {
	Name           string `toml:"-"`
	ChainID        uint64 `toml:"chain_id"`
	RPCURL         string `toml:"rpc_url"`
	ExplorerAPIURL string `toml:"explorer_api_url"`
	ExplorerAPIKey string `toml:"explorer_api_key"`
	AddressBook    string `toml:"address_book"`
	GasPrice       string `toml:"gas_price"`
	GasLimit       uint64 `toml:"gas_limit"`
}
