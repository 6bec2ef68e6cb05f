package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rosx-labs/perp-deployer/internal/domain/config"
)

// ProjectFile marks the root of a deployment project
const ProjectFile = "perpdeploy.toml"

// fallbacks for settings a network profile may also carry
const (
	defaultAddressBook = "contracts.txt"
	defaultGasPrice    = "1500000000"
	defaultGasLimit    = 10_000_000
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	LoadEnvFiles(projectRoot)

	cfg := &config.RuntimeConfig{
		ProjectRoot:         projectRoot,
		ArtifactsDir:        resolvePath(projectRoot, v.GetString("artifacts_dir")),
		PlanFile:            resolvePath(projectRoot, v.GetString("plan_file")),
		PrivateKey:          os.ExpandEnv(firstNonEmpty(v.GetString("private_key"), os.Getenv("PRIVATE_KEY"))),
		DeployGasLimit:      v.GetUint64("deploy_gas_limit"),
		BroadcastPolicy:     config.BroadcastPolicy(strings.ToLower(v.GetString("broadcast_policy"))),
		ReceiptPollInterval: v.GetDuration("receipt_poll_interval"),
		ReceiptTimeout:      v.GetDuration("receipt_timeout"),
		Deployer:            config.DeployerKind(strings.ToLower(v.GetString("deployer"))),
		DeployCommand:       strings.Fields(v.GetString("deploy_command")),
		ProxyTemplate:       v.GetString("proxy_template"),
		VerifyCommand:       strings.Fields(v.GetString("verify_command")),
		VerifyDelay:         v.GetDuration("verify_delay"),
		VerifyRate:          v.GetDuration("verify_rate"),
		Debug:               v.GetBool("debug"),
		NonInteractive:      v.GetBool("non_interactive"),
		DryRun:              v.GetBool("dry_run"),
		Timeout:             v.GetDuration("timeout"),
	}

	switch cfg.BroadcastPolicy {
	case config.BroadcastAbort, config.BroadcastContinue:
	default:
		return nil, fmt.Errorf("invalid broadcast policy %q (expected abort or continue)", cfg.BroadcastPolicy)
	}

	switch cfg.Deployer {
	case config.DeployerNative, config.DeployerCommand:
	default:
		return nil, fmt.Errorf("invalid deployer %q (expected native or command)", cfg.Deployer)
	}

	if networkName := v.GetString("network"); networkName != "" {
		network, err := ResolveNetwork(projectRoot, networkName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
		}
		cfg.Network = network
	} else {
		cfg.Network = &config.Network{Name: "default"}
	}
	applyNetworkOverrides(cfg.Network, v)

	cfg.AddressBook = resolvePath(projectRoot, firstNonEmpty(v.GetString("address_book"), cfg.Network.AddressBook, defaultAddressBook))

	cfg.GasLimit = v.GetUint64("gas_limit")
	if cfg.GasLimit == 0 {
		cfg.GasLimit = cfg.Network.GasLimit
	}
	if cfg.GasLimit == 0 {
		cfg.GasLimit = defaultGasLimit
	}

	price, err := parseWei(firstNonEmpty(v.GetString("gas_price"), cfg.Network.GasPrice, defaultGasPrice))
	if err != nil {
		return nil, fmt.Errorf("invalid gas price: %w", err)
	}
	cfg.GasPrice = price

	plan, err := LoadPlan(cfg.PlanFile)
	if err != nil {
		return nil, err
	}
	cfg.Plan = plan

	return cfg, nil
}

// applyNetworkOverrides lets flags and environment win over the network profile
func applyNetworkOverrides(network *config.Network, v *viper.Viper) {
	if rpc := v.GetString("rpc_url"); rpc != "" {
		network.RPCURL = os.ExpandEnv(rpc)
	}
	if id := v.GetUint64("chain_id"); id != 0 {
		network.ChainID = id
	}
	if url := v.GetString("explorer_api_url"); url != "" {
		network.ExplorerAPIURL = url
	}
	if key := v.GetString("explorer_api_key"); key != "" {
		network.ExplorerAPIKey = key
	}
}

// parseWei parses a decimal or 0x-prefixed integer amount
func parseWei(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	value, ok := new(big.Int).SetString(s, 0)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("%q is not a non-negative integer", s)
	}
	return value, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func resolvePath(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// FindProjectRoot walks up from the current directory looking for perpdeploy.toml.
// Without one the current directory is the project root.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFile)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("PERPDEPLOY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("project_root", projectRoot)
	v.SetDefault("artifacts_dir", "artifacts")
	v.SetDefault("plan_file", "deploy.yaml")
	v.SetDefault("deploy_gas_limit", 100_000_000)
	v.SetDefault("broadcast_policy", string(config.BroadcastAbort))
	v.SetDefault("receipt_poll_interval", "2s")
	v.SetDefault("receipt_timeout", "5m")
	v.SetDefault("deployer", string(config.DeployerNative))
	v.SetDefault("deploy_command", "npx hardhat run scripts/deploy.js")
	v.SetDefault("proxy_template", "ERC1967Proxy")
	v.SetDefault("verify_command", "npx hardhat verify")
	v.SetDefault("verify_delay", "10s")
	v.SetDefault("verify_rate", "200ms")
	v.SetDefault("timeout", "30m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})

	return v
}
