//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/rosx-labs/perp-deployer/internal/adapters"
	"github.com/rosx-labs/perp-deployer/internal/config"
	"github.com/rosx-labs/perp-deployer/internal/logging"
	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployContracts,
		usecase.NewInitializeContracts,
		usecase.NewBroadcastTransactions,
		usecase.NewVerifyContracts,
		usecase.NewListAddresses,

		// App
		NewApp,
	)
	return nil, nil
}
