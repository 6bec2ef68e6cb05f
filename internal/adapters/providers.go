package adapters

import (
	"log/slog"

	"github.com/google/wire"

	abienc "github.com/rosx-labs/perp-deployer/internal/adapters/abi"
	"github.com/rosx-labs/perp-deployer/internal/adapters/blockchain"
	"github.com/rosx-labs/perp-deployer/internal/adapters/contracts"
	"github.com/rosx-labs/perp-deployer/internal/adapters/fs"
	"github.com/rosx-labs/perp-deployer/internal/adapters/interactive"
	"github.com/rosx-labs/perp-deployer/internal/adapters/plans"
	"github.com/rosx-labs/perp-deployer/internal/adapters/resolvers"
	"github.com/rosx-labs/perp-deployer/internal/adapters/script"
	"github.com/rosx-labs/perp-deployer/internal/adapters/senders"
	"github.com/rosx-labs/perp-deployer/internal/adapters/verification"
	"github.com/rosx-labs/perp-deployer/internal/domain/config"
	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

// ProvideContractDeployer selects the deployment capability configured for the run
func ProvideContractDeployer(
	cfg *config.RuntimeConfig,
	artifacts *contracts.ArtifactRepository,
	encoder *abienc.Encoder,
	signer usecase.TransactionSigner,
	chain usecase.ChainClient,
	log *slog.Logger,
) usecase.ContractDeployer {
	if cfg.Deployer == config.DeployerCommand {
		return script.NewCommandDeployer(cfg, log)
	}
	return blockchain.NewNativeDeployer(artifacts, encoder, signer, chain, cfg, log)
}

// ProvideContractVerifier builds the verification manager for the selected network
func ProvideContractVerifier(
	cfg *config.RuntimeConfig,
	source *verification.CommandVerifier,
	chain *blockchain.Client,
	log *slog.Logger,
) *verification.Manager {
	return verification.NewManager(source, verification.NewExplorerFromConfig(cfg), chain, cfg, log)
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewAddressBookStore,
	wire.Bind(new(usecase.AddressBookStore), new(*fs.AddressBookStore)),

	contracts.NewArtifactRepository,
)

// ResolverSet provides argument tables and initialization plans
var ResolverSet = wire.NewSet(
	resolvers.NewArgumentResolver,
	wire.Bind(new(usecase.ArgumentResolver), new(*resolvers.ArgumentResolver)),

	plans.NewProvider,
	wire.Bind(new(usecase.PlanProvider), new(*plans.Provider)),

	abienc.NewEncoder,
	wire.Bind(new(usecase.CallEncoder), new(*abienc.Encoder)),
)

// BlockchainSet provides signing and RPC implementations
var BlockchainSet = wire.NewSet(
	senders.NewPrivateKeySigner,
	wire.Bind(new(usecase.TransactionSigner), new(*senders.PrivateKeySigner)),

	blockchain.NewClient,
	wire.Bind(new(usecase.ChainClient), new(*blockchain.Client)),

	ProvideContractDeployer,
)

// VerificationSet provides contract verification
var VerificationSet = wire.NewSet(
	verification.NewCommandVerifier,
	ProvideContractVerifier,
	wire.Bind(new(usecase.ContractVerifier), new(*verification.Manager)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.EntrySelector), new(*interactive.SelectorAdapter)),

	interactive.NewConfirmer,
	wire.Bind(new(usecase.BroadcastConfirmer), new(*interactive.Confirmer)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ResolverSet,
	BlockchainSet,
	VerificationSet,
	InteractiveSet,
)
