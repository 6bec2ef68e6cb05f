package verification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/time/rate"

	"github.com/rosx-labs/perp-deployer/internal/domain/config"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

// SourceVerifier verifies source for one address
type SourceVerifier interface {
	Verify(ctx context.Context, address string, args []any) error
}

// ProxyExplorer links proxies to their implementations on the block explorer
type ProxyExplorer interface {
	VerifyProxy(ctx context.Context, proxy string) (string, error)
	CheckProxyVerification(ctx context.Context, guid string) (string, error)
}

// ImplementationReader resolves the implementation behind a proxy
type ImplementationReader interface {
	ImplementationAddress(ctx context.Context, proxy string) (string, error)
}

// Manager verifies deployed contracts. Direct deployments are verified with their
// constructor arguments; proxies get their implementation verified and the proxy linked on the explorer.
type Manager struct {
	source   SourceVerifier
	explorer ProxyExplorer
	impls    ImplementationReader
	delay    time.Duration
	log      *slog.Logger
}

// NewManager creates a verification manager
func NewManager(source SourceVerifier, explorer ProxyExplorer, impls ImplementationReader, cfg *config.RuntimeConfig, log *slog.Logger) *Manager {
	return &Manager{
		source:   source,
		explorer: explorer,
		impls:    impls,
		delay:    cfg.VerifyDelay,
		log:      log.With("component", "VerificationManager"),
	}
}

// NewExplorerFromConfig builds the explorer client for the selected network, nil when none is configured
func NewExplorerFromConfig(cfg *config.RuntimeConfig) ProxyExplorer {
	if cfg.Network == nil || cfg.Network.ExplorerAPIURL == "" {
		return nil
	}
	limit := rate.Inf
	if cfg.VerifyRate > 0 {
		limit = rate.Every(cfg.VerifyRate)
	}
	return NewExplorerClient(cfg.Network.ExplorerAPIKey, cfg.Network.ExplorerAPIURL, rate.NewLimiter(limit, 1))
}

// Verify verifies one deployment record, aggregating the errors of every step
func (m *Manager) Verify(ctx context.Context, record *models.DeploymentRecord) error {
	if record.Address == "" {
		return fmt.Errorf("%s has no address to verify", record.Entry.Name)
	}
	if record.Entry.Mode != models.DeployModeProxy {
		return m.source.Verify(ctx, record.Address, record.Args)
	}

	var result error

	impl, err := m.impls.ImplementationAddress(ctx, record.Address)
	if err != nil {
		result = multierror.Append(result, fmt.Errorf("implementation lookup: %w", err))
	} else {
		record.ImplementationAddress = impl
		if err := m.source.Verify(ctx, impl, nil); err != nil {
			result = multierror.Append(result, fmt.Errorf("implementation: %w", err))
		}
	}

	if m.explorer == nil {
		m.log.Warn("no explorer API configured, skipping proxy verification", "name", record.Entry.Name)
		return result
	}

	if err := m.verifyProxy(ctx, record); err != nil {
		result = multierror.Append(result, fmt.Errorf("proxy: %w", err))
	}
	return result
}

func (m *Manager) verifyProxy(ctx context.Context, record *models.DeploymentRecord) error {
	guid, err := m.explorer.VerifyProxy(ctx, record.Address)
	if err != nil {
		return err
	}
	m.log.Info("waiting for proxy verification", "name", record.Entry.Name, "guid", guid)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(m.delay):
	}

	status, err := m.explorer.CheckProxyVerification(ctx, guid)
	if err != nil {
		return err
	}
	m.log.Info("proxy verification result", "name", record.Entry.Name, "result", status)
	return nil
}

var _ usecase.ContractVerifier = (*Manager)(nil)
