package config

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosx-labs/perp-deployer/internal/domain/config"
)

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("network", "", "")
	cmd.Flags().String("gas-price", "", "")
	cmd.Flags().Bool("non-interactive", false, "")
	return cmd
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestProvider_Defaults(t *testing.T) {
	root := t.TempDir()
	v := SetupViper(root, newTestCommand())

	cfg, err := Provider(v)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, "contracts.txt"), cfg.AddressBook)
	assert.Equal(t, filepath.Join(root, "artifacts"), cfg.ArtifactsDir)
	assert.Equal(t, config.BroadcastAbort, cfg.BroadcastPolicy)
	assert.Equal(t, config.DeployerNative, cfg.Deployer)
	assert.Equal(t, big.NewInt(1_500_000_000), cfg.GasPrice)
	assert.Equal(t, uint64(10_000_000), cfg.GasLimit)
	assert.Equal(t, uint64(100_000_000), cfg.DeployGasLimit)
	assert.Equal(t, 2*time.Second, cfg.ReceiptPollInterval)
	assert.Equal(t, []string{"npx", "hardhat", "verify"}, cfg.VerifyCommand)
	assert.Equal(t, "ERC1967Proxy", cfg.ProxyTemplate)
	assert.Equal(t, "default", cfg.Network.Name)
	require.NotNil(t, cfg.Plan)
	assert.Contains(t, cfg.Plan.StageNames(), "base")
}

func TestProvider_NetworkProfile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ProjectFile), `
[networks.arbitrum-goerli]
rpc_url = "${TEST_PERP_RPC}"
chain_id = 421613
address_book = "books/arbitrum.txt"
gas_price = "0x59682f00"
gas_limit = 5000000
explorer_api_url = "https://api-goerli.arbiscan.io/api"
explorer_api_key = "${TEST_PERP_KEY}"
`)
	writeFile(t, filepath.Join(root, ".env"), "TEST_PERP_RPC=http://localhost:8545\nTEST_PERP_KEY=abc\n")
	t.Cleanup(func() {
		os.Unsetenv("TEST_PERP_RPC")
		os.Unsetenv("TEST_PERP_KEY")
	})

	cmd := newTestCommand()
	require.NoError(t, cmd.Flags().Set("network", "arbitrum-goerli"))
	v := SetupViper(root, cmd)

	cfg, err := Provider(v)
	require.NoError(t, err)

	n := cfg.Network
	assert.Equal(t, "arbitrum-goerli", n.Name)
	assert.Equal(t, "http://localhost:8545", n.RPCURL)
	assert.Equal(t, uint64(421613), n.ChainID)
	assert.Equal(t, "abc", n.ExplorerAPIKey)
	assert.Equal(t, filepath.Join(root, "books/arbitrum.txt"), cfg.AddressBook)
	assert.Equal(t, big.NewInt(1_500_000_000), cfg.GasPrice)
	assert.Equal(t, uint64(5_000_000), cfg.GasLimit)
}

func TestProvider_FlagOverridesProfile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ProjectFile), `
[networks.local]
rpc_url = "http://localhost:8545"
gas_price = "100"
`)

	cmd := newTestCommand()
	require.NoError(t, cmd.Flags().Set("network", "local"))
	require.NoError(t, cmd.Flags().Set("gas-price", "7"))
	require.NoError(t, cmd.Flags().Set("non-interactive", "true"))
	v := SetupViper(root, cmd)

	cfg, err := Provider(v)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(7), cfg.GasPrice)
	assert.True(t, cfg.NonInteractive)
}

func TestProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"unknown network", "network", "nowhere", "network 'nowhere' not found"},
		{"bad policy", "broadcast_policy", "retry", "invalid broadcast policy"},
		{"bad deployer", "deployer", "forge", "invalid deployer"},
		{"bad gas price", "gas_price", "cheap", "invalid gas price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := SetupViper(t.TempDir(), newTestCommand())
			v.Set(tt.key, tt.value)

			_, err := Provider(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ProjectFile), "")
	nested := filepath.Join(root, "scripts", "deploy")
	require.NoError(t, os.MkdirAll(nested, 0755))

	t.Chdir(nested)

	found, err := FindProjectRoot()
	require.NoError(t, err)

	want, _ := filepath.EvalSymlinks(root)
	got, _ := filepath.EvalSymlinks(found)
	assert.Equal(t, want, got)
}

func TestParseWei(t *testing.T) {
	tests := []struct {
		in      string
		want    *big.Int
		wantErr bool
	}{
		{"", nil, false},
		{"1500000000", big.NewInt(1_500_000_000), false},
		{"0x10", big.NewInt(16), false},
		{"-1", nil, true},
		{"1.5", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseWei(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
