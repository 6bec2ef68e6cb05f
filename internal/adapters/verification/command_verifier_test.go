package verification

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosx-labs/perp-deployer/internal/domain/config"
)

func TestCommandVerifier(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script")
	}

	dir := t.TempDir()
	record := filepath.Join(dir, "args.txt")
	script := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
		return path
	}

	ok := script("ok.sh", "echo \"$@\" > "+record+"\n")
	already := script("already.sh", "echo 'Contract source code already verified'\nexit 1\n")
	fail := script("fail.sh", "echo 'Error: compiler mismatch' >&2\nexit 1\n")

	ctx := context.Background()

	v := NewCommandVerifier(&config.RuntimeConfig{ProjectRoot: dir, VerifyCommand: []string{"sh", ok}}, testLogger())
	require.NoError(t, v.Verify(ctx, proxyAddr, []any{"WETH", uint8(18)}))
	data, err := os.ReadFile(record)
	require.NoError(t, err)
	assert.Equal(t, proxyAddr+" WETH 18\n", string(data))

	v = NewCommandVerifier(&config.RuntimeConfig{ProjectRoot: dir, VerifyCommand: []string{"sh", already}}, testLogger())
	assert.NoError(t, v.Verify(ctx, proxyAddr, nil))

	v = NewCommandVerifier(&config.RuntimeConfig{ProjectRoot: dir, VerifyCommand: []string{"sh", fail}}, testLogger())
	assert.ErrorContains(t, v.Verify(ctx, proxyAddr, nil), "compiler mismatch")

	v = NewCommandVerifier(&config.RuntimeConfig{ProjectRoot: dir}, testLogger())
	assert.Error(t, v.Verify(ctx, proxyAddr, nil))
}
