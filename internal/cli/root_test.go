package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Commands(t *testing.T) {
	root := NewRootCmd()

	groups := map[string]string{}
	for _, c := range root.Commands() {
		groups[c.Name()] = c.GroupID
	}

	assert.Equal(t, "main", groups["deploy"])
	assert.Equal(t, "main", groups["initialize"])
	assert.Equal(t, "main", groups["verify"])
	assert.Equal(t, "management", groups["addresses"])
	assert.Equal(t, "management", groups["plan"])
	assert.Contains(t, groups, "version")
}

func TestVersionCmd(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "perpdeploy version dev\n", out.String())
}

// runInProject executes the CLI inside a temporary project directory
func runInProject(t *testing.T, files map[string]string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "perpdeploy.toml"), []byte(""), 0644))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	t.Chdir(dir)

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--non-interactive", "--quiet"))

	err := root.Execute()
	return out.String(), err
}

func TestAddressesCmd(t *testing.T) {
	book := map[string]string{
		"contracts.txt": "Vault:0xAbCdEf0000000000000000000000000000000001\nPriceManager:0x0000000000000000000000000000000000000002\nVaultPriceFeed:",
	}

	out, err := runInProject(t, book, "addresses")
	require.NoError(t, err)
	assert.Contains(t, out, "Vault")
	assert.Contains(t, out, "0xabcdef0000000000000000000000000000000001")
	assert.Contains(t, out, "[empty]")

	out, err = runInProject(t, book, "addresses", "PriceManager")
	require.NoError(t, err)
	assert.Equal(t, "PriceManager 0x0000000000000000000000000000000000000002\n", out)

	_, err = runInProject(t, book, "addresses", "Nope")
	assert.ErrorContains(t, err, "Nope is not in")

	out, err = runInProject(t, book, "addresses", "--env")
	require.NoError(t, err)
	assert.Contains(t, out, "PRICE_MANAGER=0x0000000000000000000000000000000000000002\n")
	assert.Contains(t, out, "SETTING_MANAGER=\n")
}

func TestDeployCmd_Selection(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"nothing selected", []string{"deploy"}, "specify contracts or --stage"},
		{"stage and names", []string{"deploy", "--stage", "base", "Vault"}, "mutually exclusive"},
		{"unknown stage", []string{"deploy", "--stage", "everything"}, "unknown stage"},
		{"bad mode", []string{"deploy", "--mode", "beacon", "Vault"}, "beacon"},
		{"select needs a terminal", []string{"deploy", "--stage", "main", "--select"}, "non-interactive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runInProject(t, nil, tt.args...)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDeployCmd_DryRun(t *testing.T) {
	book := map[string]string{
		"contracts.txt": "ROLP:0x0000000000000000000000000000000000000001\nRUSD:0x0000000000000000000000000000000000000002",
	}

	out, err := runInProject(t, book, "deploy", "--dry-run", "Vault")
	require.NoError(t, err)
	assert.Contains(t, out, "Vault")
	assert.Contains(t, out, "Dry run")

	data, err := os.ReadFile("contracts.txt")
	require.NoError(t, err)
	assert.Equal(t, book["contracts.txt"], string(data))
}

func TestPlanCmd(t *testing.T) {
	out, err := runInProject(t, map[string]string{
		"deploy.yaml": "stages:\n  routers:\n    mode: proxy\n    contracts: [PositionRouter]\n",
	}, "plan")
	require.NoError(t, err)
	assert.Contains(t, out, "routers (proxy, 1 contracts)")
	assert.Contains(t, out, "Vault → VaultUtils → PositionRouter")
}
