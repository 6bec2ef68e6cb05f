package senders

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/rosx-labs/perp-deployer/internal/domain"
	"github.com/rosx-labs/perp-deployer/internal/domain/config"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

// PrivateKeySigner signs EIP-155 legacy transactions with the configured private key.
// The key is parsed on first use so commands that never sign do not require it.
type PrivateKeySigner struct {
	raw string

	once sync.Once
	key  *ecdsa.PrivateKey
	err  error
}

// NewPrivateKeySigner creates a signer for the configured key
func NewPrivateKeySigner(cfg *config.RuntimeConfig) *PrivateKeySigner {
	return &PrivateKeySigner{raw: cfg.PrivateKey}
}

func (s *PrivateKeySigner) load() (*ecdsa.PrivateKey, error) {
	s.once.Do(func() {
		raw := strings.TrimPrefix(strings.TrimSpace(s.raw), "0x")
		if raw == "" {
			s.err = domain.ErrNoSigner
			return
		}
		key, err := crypto.HexToECDSA(raw)
		if err != nil {
			s.err = fmt.Errorf("%w: invalid private key: %v", domain.ErrNoSigner, err)
			return
		}
		s.key = key
	})
	return s.key, s.err
}

// Address returns the lowercase hex address of the signing account
func (s *PrivateKeySigner) Address() (string, error) {
	key, err := s.load()
	if err != nil {
		return "", err
	}
	return strings.ToLower(crypto.PubkeyToAddress(key.PublicKey).Hex()), nil
}

// Sign builds and signs a legacy transaction. An empty To creates a contract.
func (s *PrivateKeySigner) Sign(ctx context.Context, chainID *big.Int, tx models.UnsignedTransaction) (*models.SignedTransaction, error) {
	key, err := s.load()
	if err != nil {
		return nil, err
	}
	if chainID == nil {
		return nil, fmt.Errorf("chain id is required for signing")
	}

	value := tx.Value
	if value == nil {
		value = new(big.Int)
	}

	legacy := &types.LegacyTx{
		Nonce:    tx.Nonce,
		GasPrice: tx.GasPrice,
		Gas:      tx.GasLimit,
		Value:    value,
		Data:     tx.Data,
	}
	if tx.To != "" {
		if !common.IsHexAddress(tx.To) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidAddress, tx.To)
		}
		to := common.HexToAddress(tx.To)
		legacy.To = &to
	}

	signed, err := types.SignTx(types.NewTx(legacy), types.NewEIP155Signer(chainID), key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to encode signed transaction: %w", err)
	}

	return &models.SignedTransaction{
		To:    strings.ToLower(tx.To),
		Nonce: tx.Nonce,
		Hash:  signed.Hash().Hex(),
		Raw:   raw,
	}, nil
}

var _ usecase.TransactionSigner = (*PrivateKeySigner)(nil)
