package senders

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosx-labs/perp-deployer/internal/domain"
	"github.com/rosx-labs/perp-deployer/internal/domain/config"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
)

// well-known anvil account #0
const (
	testKey     = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"
)

func TestPrivateKeySigner_Address(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    string
		wantErr bool
	}{
		{"with prefix", testKey, testAddress, false},
		{"without prefix", testKey[2:], testAddress, false},
		{"empty", "", "", true},
		{"garbage", "0xnothex", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewPrivateKeySigner(&config.RuntimeConfig{PrivateKey: tt.key})
			addr, err := s.Address()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrNoSigner)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, addr)
		})
	}
}

func TestPrivateKeySigner_Sign(t *testing.T) {
	s := NewPrivateKeySigner(&config.RuntimeConfig{PrivateKey: testKey})
	chainID := big.NewInt(421613)

	signed, err := s.Sign(context.Background(), chainID, models.UnsignedTransaction{
		To:       "0x1111111111111111111111111111111111111111",
		Nonce:    7,
		GasLimit: 100_000_000,
		GasPrice: big.NewInt(1_500_000_000),
		Data:     []byte{0xa9, 0x05, 0x9c, 0xbb},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), signed.Nonce)

	var tx types.Transaction
	require.NoError(t, tx.UnmarshalBinary(signed.Raw))
	assert.Equal(t, uint8(types.LegacyTxType), tx.Type())
	assert.Equal(t, uint64(7), tx.Nonce())
	assert.Equal(t, 0, chainID.Cmp(tx.ChainId()))
	assert.Equal(t, signed.Hash, tx.Hash().Hex())

	from, err := types.Sender(types.NewEIP155Signer(chainID), &tx)
	require.NoError(t, err)
	assert.Equal(t, testAddress, strings.ToLower(from.Hex()))
}

func TestPrivateKeySigner_ContractCreation(t *testing.T) {
	s := NewPrivateKeySigner(&config.RuntimeConfig{PrivateKey: testKey})
	signed, err := s.Sign(context.Background(), big.NewInt(1), models.UnsignedTransaction{
		GasLimit: 500_000_000,
		GasPrice: big.NewInt(1),
		Data:     []byte{0x60, 0x80},
	})
	require.NoError(t, err)

	var tx types.Transaction
	require.NoError(t, tx.UnmarshalBinary(signed.Raw))
	assert.Nil(t, tx.To())
}

func TestPrivateKeySigner_InvalidTarget(t *testing.T) {
	s := NewPrivateKeySigner(&config.RuntimeConfig{PrivateKey: testKey})
	_, err := s.Sign(context.Background(), big.NewInt(1), models.UnsignedTransaction{To: "vault", GasPrice: big.NewInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
}
