package app

import (
	"log/slog"

	"github.com/rosx-labs/perp-deployer/internal/domain/config"
	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Selector usecase.EntrySelector
	Progress usecase.ProgressSink

	// Use cases
	DeployContracts       *usecase.DeployContracts
	InitializeContracts   *usecase.InitializeContracts
	BroadcastTransactions *usecase.BroadcastTransactions
	VerifyContracts       *usecase.VerifyContracts
	ListAddresses         *usecase.ListAddresses
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	selector usecase.EntrySelector,
	sink usecase.ProgressSink,
	deployContracts *usecase.DeployContracts,
	initializeContracts *usecase.InitializeContracts,
	broadcastTransactions *usecase.BroadcastTransactions,
	verifyContracts *usecase.VerifyContracts,
	listAddresses *usecase.ListAddresses,
) (*App, error) {
	return &App{
		Config:                cfg,
		Log:                   log,
		Selector:              selector,
		Progress:              sink,
		DeployContracts:       deployContracts,
		InitializeContracts:   initializeContracts,
		BroadcastTransactions: broadcastTransactions,
		VerifyContracts:       verifyContracts,
		ListAddresses:         listAddresses,
	}, nil
}
