package script

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosx-labs/perp-deployer/internal/domain"
	"github.com/rosx-labs/perp-deployer/internal/domain/config"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
)

func TestParseDeployOutput(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    string
		wantErr error
	}{
		{
			name:   "success line among logs",
			output: "contractName Vault\ncontractArgs [ '0x1', '0x2' ]\nVault deployed 0xAbC0000000000000000000000000000000000001 success\n",
			want:   "0xabc0000000000000000000000000000000000001",
		},
		{
			name:   "first success line wins",
			output: "A deployed 0x01 success\nB deployed 0x02 success",
			want:   "0x01",
		},
		{
			name:    "error output",
			output:  "Deploy contract Vault got error Error: insufficient funds",
			wantErr: domain.ErrDeployOutput,
		},
		{
			name:    "success without address",
			output:  "compiled successfully",
			wantErr: domain.ErrDeployOutput,
		},
		{
			name:    "empty",
			output:  "",
			wantErr: domain.ErrDeployOutput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDeployOutput(tt.output)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJoinArgs(t *testing.T) {
	assert.Equal(t, "", JoinArgs(nil))
	assert.Equal(t, "WETH,18", JoinArgs([]any{"WETH", uint8(18)}))
	price, _ := new(big.Int).SetString("2000000000000000000000", 10)
	assert.Equal(t, "WETH,18,2000000000000000000000", JoinArgs([]any{"WETH", uint8(18), price}))
}

func TestCommandDeployer_Deploy(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "deploy.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho \"args $1 $2\"\necho \"$1 deployed 0x00000000000000000000000000000000000000AA success\"\n"), 0o755))
	failing := filepath.Join(dir, "fail.sh")
	require.NoError(t, os.WriteFile(failing, []byte("#!/bin/sh\necho boom >&2\nexit 1\n"), 0o755))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	entry := models.NewDeploymentEntry("Vault", models.DeployModeDirect)

	d := NewCommandDeployer(&config.RuntimeConfig{ProjectRoot: dir, DeployCommand: []string{"sh", script}}, log)
	deployed, err := d.Deploy(context.Background(), entry, []any{"0x1", "0x2"})
	require.NoError(t, err)
	assert.Equal(t, "0x00000000000000000000000000000000000000aa", deployed.Address)

	d = NewCommandDeployer(&config.RuntimeConfig{ProjectRoot: dir, DeployCommand: []string{"sh", failing}}, log)
	_, err = d.Deploy(context.Background(), entry, nil)
	assert.ErrorIs(t, err, domain.ErrDeployFailed)
	assert.ErrorContains(t, err, "boom")

	d = NewCommandDeployer(&config.RuntimeConfig{ProjectRoot: dir}, log)
	_, err = d.Deploy(context.Background(), entry, nil)
	assert.ErrorIs(t, err, domain.ErrDeployFailed)
}
