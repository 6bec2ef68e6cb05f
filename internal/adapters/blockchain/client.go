package blockchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/rosx-labs/perp-deployer/internal/domain"
	"github.com/rosx-labs/perp-deployer/internal/domain/config"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

// ImplementationSlot is the EIP-1967 storage slot holding a proxy's implementation
var ImplementationSlot = common.HexToHash("0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc")

const (
	defaultPollInterval   = 2 * time.Second
	defaultReceiptTimeout = 5 * time.Minute
)

// rpcBackend is the part of ethclient.Client the adapter uses
type rpcBackend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	StorageAt(ctx context.Context, account common.Address, key common.Hash, blockNumber *big.Int) ([]byte, error)
}

// Client implements ChainClient over JSON-RPC. The connection is opened on first use.
type Client struct {
	rpcURL       string
	chainID      uint64
	pollInterval time.Duration
	timeout      time.Duration

	mu      sync.Mutex
	backend rpcBackend
}

// NewClient creates a client for the configured network
func NewClient(cfg *config.RuntimeConfig) *Client {
	c := &Client{
		pollInterval: cfg.ReceiptPollInterval,
		timeout:      cfg.ReceiptTimeout,
	}
	if cfg.Network != nil {
		c.rpcURL = cfg.Network.RPCURL
		c.chainID = cfg.Network.ChainID
	}
	if c.pollInterval <= 0 {
		c.pollInterval = defaultPollInterval
	}
	if c.timeout <= 0 {
		c.timeout = defaultReceiptTimeout
	}
	return c
}

func (c *Client) connect(ctx context.Context) (rpcBackend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.backend != nil {
		return c.backend, nil
	}
	if c.rpcURL == "" {
		return nil, fmt.Errorf("no RPC URL configured, select a network with --network")
	}

	client, err := ethclient.DialContext(ctx, c.rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	c.backend = client
	return client, nil
}

// ChainID returns the chain id reported by the node. When the network
// profile pins a chain id, a node on another chain is an error.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	backend, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	id, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if c.chainID != 0 && (!id.IsUint64() || id.Uint64() != c.chainID) {
		return nil, fmt.Errorf("%w: RPC reports %s, network is configured for %d", domain.ErrChainMismatch, id, c.chainID)
	}
	return id, nil
}

// NonceAt returns the latest confirmed nonce of an account
func (c *Client) NonceAt(ctx context.Context, address string) (uint64, error) {
	if !common.IsHexAddress(address) {
		return 0, fmt.Errorf("invalid account address %q", address)
	}
	backend, err := c.connect(ctx)
	if err != nil {
		return 0, err
	}
	nonce, err := backend.NonceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get nonce for %s: %w", address, err)
	}
	return nonce, nil
}

// SendRawTransaction submits a signed transaction and returns its hash
func (c *Client) SendRawTransaction(ctx context.Context, raw []byte) (string, error) {
	var tx types.Transaction
	if err := tx.UnmarshalBinary(raw); err != nil {
		return "", fmt.Errorf("invalid signed transaction: %w", err)
	}

	backend, err := c.connect(ctx)
	if err != nil {
		return "", err
	}
	if err := backend.SendTransaction(ctx, &tx); err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}
	return tx.Hash().Hex(), nil
}

// WaitForReceipt polls until the transaction is mined or the receipt timeout passes
func (c *Client) WaitForReceipt(ctx context.Context, txHash string) (*models.Receipt, error) {
	backend, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	hash := common.HexToHash(txHash)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := backend.TransactionReceipt(ctx, hash)
		switch {
		case err == nil:
			return toReceipt(receipt), nil
		case !errors.Is(err, ethereum.NotFound):
			return nil, fmt.Errorf("failed to get receipt for %s: %w", txHash, err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for receipt of %s: %w", txHash, ctx.Err())
		case <-ticker.C:
		}
	}
}

// ImplementationAddress reads the implementation behind an EIP-1967 proxy
func (c *Client) ImplementationAddress(ctx context.Context, proxy string) (string, error) {
	if !common.IsHexAddress(proxy) {
		return "", fmt.Errorf("invalid proxy address %q", proxy)
	}
	backend, err := c.connect(ctx)
	if err != nil {
		return "", err
	}

	data, err := backend.StorageAt(ctx, common.HexToAddress(proxy), ImplementationSlot, nil)
	if err != nil {
		return "", fmt.Errorf("failed to read implementation slot of %s: %w", proxy, err)
	}
	impl := common.BytesToAddress(data)
	if impl == (common.Address{}) {
		return "", fmt.Errorf("no implementation recorded for %s", proxy)
	}
	return strings.ToLower(impl.Hex()), nil
}

func toReceipt(r *types.Receipt) *models.Receipt {
	receipt := &models.Receipt{
		TxHash:  r.TxHash.Hex(),
		Status:  r.Status,
		GasUsed: r.GasUsed,
	}
	if r.BlockNumber != nil {
		receipt.BlockNumber = r.BlockNumber.Uint64()
	}
	if r.ContractAddress != (common.Address{}) {
		receipt.ContractAddress = strings.ToLower(r.ContractAddress.Hex())
	}
	return receipt
}

var _ usecase.ChainClient = (*Client)(nil)
