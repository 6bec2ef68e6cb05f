package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/rosx-labs/perp-deployer/internal/domain"
	"github.com/rosx-labs/perp-deployer/internal/domain/config"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

// ArtifactSource provides compiled contracts by name
type ArtifactSource interface {
	Get(name string) (*models.Artifact, error)
}

// DeployEncoder builds constructor and initializer call data
type DeployEncoder interface {
	EncodeConstructor(contractABI *abi.ABI, values []any) ([]byte, error)
	EncodeMethod(contractABI *abi.ABI, name string, values []any) ([]byte, error)
}

// NativeDeployer deploys contracts from compiled artifacts with signed creation transactions
type NativeDeployer struct {
	artifacts ArtifactSource
	encoder   DeployEncoder
	signer    usecase.TransactionSigner
	chain     usecase.ChainClient
	cfg       *config.RuntimeConfig
	log       *slog.Logger
}

// NewNativeDeployer creates a deployer that talks to the chain directly
func NewNativeDeployer(
	artifacts ArtifactSource,
	encoder DeployEncoder,
	signer usecase.TransactionSigner,
	chain usecase.ChainClient,
	cfg *config.RuntimeConfig,
	log *slog.Logger,
) *NativeDeployer {
	return &NativeDeployer{
		artifacts: artifacts,
		encoder:   encoder,
		signer:    signer,
		chain:     chain,
		cfg:       cfg,
		log:       log,
	}
}

// Deploy creates the contract. In proxy mode the implementation is deployed first and
// an ERC-1967 proxy is created pointing at it, initialized with args.
func (d *NativeDeployer) Deploy(ctx context.Context, entry models.DeploymentEntry, args []any) (*models.DeployedContract, error) {
	artifact, err := d.artifacts.Get(entry.Template)
	if err != nil {
		return nil, err
	}

	if entry.Mode != models.DeployModeProxy {
		ctorArgs, err := d.encoder.EncodeConstructor(artifact.ABI, args)
		if err != nil {
			return nil, fmt.Errorf("failed to encode constructor of %s: %w", entry.Template, err)
		}
		return d.create(ctx, artifact, ctorArgs)
	}

	impl, err := d.create(ctx, artifact, nil)
	if err != nil {
		return nil, fmt.Errorf("implementation %s: %w", entry.Template, err)
	}
	d.log.Debug("implementation deployed", "name", entry.Name, "address", impl.Address)

	var initData []byte
	if _, ok := artifact.ABI.Methods["initialize"]; ok {
		initData, err = d.encoder.EncodeMethod(artifact.ABI, "initialize", args)
		if err != nil {
			return nil, fmt.Errorf("failed to encode initializer of %s: %w", entry.Template, err)
		}
	} else if len(args) > 0 {
		return nil, fmt.Errorf("%w: %s has no initialize method", domain.ErrInvalidArgument, entry.Template)
	}

	proxyArtifact, err := d.artifacts.Get(d.cfg.ProxyTemplate)
	if err != nil {
		return nil, err
	}
	ctorArgs, err := d.encoder.EncodeConstructor(proxyArtifact.ABI, []any{impl.Address, initData})
	if err != nil {
		return nil, fmt.Errorf("failed to encode proxy constructor: %w", err)
	}

	proxy, err := d.create(ctx, proxyArtifact, ctorArgs)
	if err != nil {
		return nil, fmt.Errorf("proxy for %s: %w", entry.Name, err)
	}
	proxy.ImplementationAddress = impl.Address
	return proxy, nil
}

// create signs and submits a creation transaction and waits for the contract address
func (d *NativeDeployer) create(ctx context.Context, artifact *models.Artifact, ctorArgs []byte) (*models.DeployedContract, error) {
	if len(artifact.Bytecode) == 0 {
		return nil, fmt.Errorf("%w: %s has no creation bytecode", domain.ErrDeployFailed, artifact.Name)
	}

	from, err := d.signer.Address()
	if err != nil {
		return nil, err
	}
	chainID, err := d.chain.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	nonce, err := d.chain.NonceAt(ctx, from)
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, len(artifact.Bytecode)+len(ctorArgs))
	data = append(data, artifact.Bytecode...)
	data = append(data, ctorArgs...)

	signed, err := d.signer.Sign(ctx, chainID, models.UnsignedTransaction{
		Nonce:    nonce,
		Value:    new(big.Int),
		GasLimit: d.cfg.DeployGasLimit,
		GasPrice: d.cfg.GasPrice,
		Data:     data,
	})
	if err != nil {
		return nil, err
	}

	hash, err := d.chain.SendRawTransaction(ctx, signed.Raw)
	if err != nil {
		return nil, err
	}
	receipt, err := d.chain.WaitForReceipt(ctx, hash)
	if err != nil {
		return nil, err
	}
	if !receipt.Succeeded() || receipt.ContractAddress == "" {
		return nil, fmt.Errorf("%w: creation transaction %s reverted", domain.ErrDeployFailed, hash)
	}

	return &models.DeployedContract{Address: receipt.ContractAddress, TxHash: hash}, nil
}

var _ usecase.ContractDeployer = (*NativeDeployer)(nil)
