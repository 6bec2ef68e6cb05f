package verification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rosx-labs/perp-deployer/internal/domain/config"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
)

type MockSource struct{ mock.Mock }

func (m *MockSource) Verify(ctx context.Context, address string, args []any) error {
	return m.Called(ctx, address, args).Error(0)
}

type MockExplorer struct{ mock.Mock }

func (m *MockExplorer) VerifyProxy(ctx context.Context, proxy string) (string, error) {
	args := m.Called(ctx, proxy)
	return args.String(0), args.Error(1)
}

func (m *MockExplorer) CheckProxyVerification(ctx context.Context, guid string) (string, error) {
	args := m.Called(ctx, guid)
	return args.String(0), args.Error(1)
}

type staticImpls map[string]string

func (s staticImpls) ImplementationAddress(_ context.Context, proxy string) (string, error) {
	if impl, ok := s[proxy]; ok {
		return impl, nil
	}
	return "", errors.New("not a proxy")
}

const (
	proxyAddr = "0x1111111111111111111111111111111111111111"
	implAddr  = "0x2222222222222222222222222222222222222222"
)

func newRecord(name string, mode models.DeployMode, args []any) *models.DeploymentRecord {
	record := models.NewDeploymentRecord(models.NewDeploymentEntry(name, mode))
	record.Args = args
	record.Address = proxyAddr
	return record
}

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestManager_Direct(t *testing.T) {
	source := new(MockSource)
	args := []any{"0xaaaa"}
	source.On("Verify", mock.Anything, proxyAddr, args).Return(nil)

	m := NewManager(source, nil, staticImpls{}, &config.RuntimeConfig{}, testLogger())
	require.NoError(t, m.Verify(context.Background(), newRecord("SettingsManager", models.DeployModeDirect, args)))
	source.AssertExpectations(t)
}

func TestManager_Proxy(t *testing.T) {
	source := new(MockSource)
	source.On("Verify", mock.Anything, implAddr, []any(nil)).Return(nil)
	explorer := new(MockExplorer)
	explorer.On("VerifyProxy", mock.Anything, proxyAddr).Return("guid", nil)
	explorer.On("CheckProxyVerification", mock.Anything, "guid").Return("ok", nil)

	m := NewManager(source, explorer, staticImpls{proxyAddr: implAddr}, &config.RuntimeConfig{}, testLogger())
	record := newRecord("Vault", models.DeployModeProxy, nil)

	require.NoError(t, m.Verify(context.Background(), record))
	assert.Equal(t, implAddr, record.ImplementationAddress)
	source.AssertExpectations(t)
	explorer.AssertExpectations(t)
}

func TestManager_ProxyAggregatesErrors(t *testing.T) {
	source := new(MockSource)
	source.On("Verify", mock.Anything, implAddr, []any(nil)).Return(errors.New("compiler mismatch"))
	explorer := new(MockExplorer)
	explorer.On("VerifyProxy", mock.Anything, proxyAddr).Return("", errors.New("rate limited"))

	m := NewManager(source, explorer, staticImpls{proxyAddr: implAddr}, &config.RuntimeConfig{}, testLogger())
	record := newRecord("Vault", models.DeployModeProxy, nil)

	err := m.Verify(context.Background(), record)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiler mismatch")
	assert.Contains(t, err.Error(), "rate limited")
	assert.Equal(t, implAddr, record.ImplementationAddress)
}

func TestManager_NoAddress(t *testing.T) {
	m := NewManager(new(MockSource), nil, staticImpls{}, &config.RuntimeConfig{}, testLogger())
	record := models.NewDeploymentRecord(models.NewDeploymentEntry("Vault", models.DeployModeDirect))
	assert.Error(t, m.Verify(context.Background(), record))
}

func TestNewExplorerFromConfig(t *testing.T) {
	assert.Nil(t, NewExplorerFromConfig(&config.RuntimeConfig{}))
	assert.NotNil(t, NewExplorerFromConfig(&config.RuntimeConfig{
		Network: &config.Network{ExplorerAPIURL: "https://api.example.org/api"},
	}))
}
