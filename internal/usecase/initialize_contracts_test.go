package usecase_test

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	abienc "github.com/rosx-labs/perp-deployer/internal/adapters/abi"
	"github.com/rosx-labs/perp-deployer/internal/adapters/progress"
	"github.com/rosx-labs/perp-deployer/internal/domain"
	"github.com/rosx-labs/perp-deployer/internal/domain/config"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

const signerAddr = "0x5555555555555555555555555555555555555555"

func testConfig() *config.RuntimeConfig {
	return &config.RuntimeConfig{
		GasPrice:        big.NewInt(1_500_000_000),
		GasLimit:        100_000_000,
		BroadcastPolicy: config.BroadcastAbort,
	}
}

func newInitializer(store *memoryStore, plans staticPlans, signer *fakeSigner, chain *MockChainClient) *usecase.InitializeContracts {
	return usecase.NewInitializeContracts(store, plans, abienc.NewEncoder(), signer, chain, testConfig(), progress.NewNopSink(), discardLogger())
}

func TestInitializeContracts_EndToEnd(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(
		"A", "0xAAaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"B", "",
		"C", "0xcccccccccccccccccccccccccccccccccccccccc",
	)
	plans := staticPlans{
		"C": {
			models.Call(models.Ref("C"), "setX(address)", models.Ref("A")),
			models.Call(models.Ref("C"), "setY(address)", models.Ref("B")),
		},
	}
	chain := new(MockChainClient)
	chain.On("ChainID", mock.Anything).Return(big.NewInt(421613), nil)
	chain.On("NonceAt", mock.Anything, signerAddr).Return(uint64(7), nil)

	signer := &fakeSigner{address: signerAddr}
	uc := newInitializer(store, plans, signer, chain)

	result, err := uc.Run(ctx, usecase.InitializeOptions{Contracts: []string{"C"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"C_7_setX", "C_8_setY"}, result.Batch.Keys())
	assert.Equal(t, uint64(7), result.StartNonce)
	assert.Equal(t, uint64(9), result.NextNonce)
	assert.Empty(t, result.Failures)

	setY, ok := result.Batch.Get("C_8_setY")
	require.True(t, ok)
	expected := hex.EncodeToString(abienc.Selector("setY(address)")) + strings.Repeat("0", 64)
	assert.Equal(t, expected, hex.EncodeToString(setY.Raw))
	assert.Equal(t, "0xcccccccccccccccccccccccccccccccccccccccc", setY.To)

	require.Len(t, signer.signed, 2)
	assert.Equal(t, uint64(100_000_000), signer.signed[0].GasLimit)
	assert.Equal(t, big.NewInt(1_500_000_000), signer.signed[0].GasPrice)
}

func TestInitializeContracts_NonceContiguity(t *testing.T) {
	ctx := context.Background()
	start := uint64(3)

	tests := []struct {
		name       string
		steps      []models.CallStep
		failOn     map[uint64]error
		keys       []string
		failures   int
		failureErr error
	}{
		{
			name: "missing reference skips the step",
			steps: []models.CallStep{
				models.Call(models.Ref("C"), "a(address)", models.Ref("A")),
				models.Call(models.Ref("C"), "b(address)", models.Ref("Absent")),
				models.Call(models.Ref("C"), "c(address)", models.Ref("A")),
			},
			keys:       []string{"C_3_a", "C_4_c"},
			failures:   1,
			failureErr: domain.ErrMissingAddress,
		},
		{
			name: "encoding failure skips the step",
			steps: []models.CallStep{
				models.Call(models.Ref("C"), "a(uint256)", models.Lit("not a number")),
				models.Call(models.Ref("C"), "b(bool)", models.Lit(true)),
			},
			keys:       []string{"C_3_b"},
			failures:   1,
			failureErr: domain.ErrInvalidArgument,
		},
		{
			name: "signing failure skips the step",
			steps: []models.CallStep{
				models.Call(models.Ref("C"), "a()"),
				models.Call(models.Ref("C"), "b()"),
			},
			failOn:   map[uint64]error{3: errors.New("hsm offline")},
			keys:     []string{"C_3_b"},
			failures: 1,
		},
		{
			name: "empty target is rejected",
			steps: []models.CallStep{
				models.Call(models.Ref("Empty"), "a()"),
				models.Call(models.Ref("C"), "b()"),
			},
			keys:       []string{"C_3_b"},
			failures:   1,
			failureErr: domain.ErrMissingAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore(
				"A", "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
				"C", "0xcccccccccccccccccccccccccccccccccccccccc",
				"Empty", "",
			)
			signer := &fakeSigner{address: signerAddr, failOn: tt.failOn}
			uc := newInitializer(store, staticPlans{"C": tt.steps}, signer, new(MockChainClient))

			result, err := uc.Run(ctx, usecase.InitializeOptions{
				Contracts:  []string{"C"},
				StartNonce: &start,
				ChainID:    big.NewInt(1),
			})
			require.NoError(t, err)

			assert.Equal(t, tt.keys, result.Batch.Keys())
			assert.Equal(t, start+uint64(len(tt.keys)), result.NextNonce)
			require.Len(t, result.Failures, tt.failures)
			if tt.failureErr != nil {
				assert.ErrorIs(t, result.Failures[0].Err, tt.failureErr)
			}
		})
	}
}

func TestInitializeContracts_SpecialArguments(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	start := uint64(0)

	store := newMemoryStore(
		"TradingWETH", "0x1111111111111111111111111111111111111111",
		"FastPriceFeed_WETH", "0x2222222222222222222222222222222222222222",
		"Staking", "0x3333333333333333333333333333333333333333",
	)
	plans := staticPlans{
		"Staking": {
			models.Call(models.Ref("Staking"), "create(uint256,uint256)", models.Now(0), models.Now(30*24*time.Hour)),
			models.Call(models.Ref("Staking"), "setToken(address)", models.AssetToken("WETH")),
			models.Call(models.Ref("Staking"), "setExecutor(address,bool)", models.Signer(), models.Lit(true)),
			models.Call(models.Ref("Staking"), "setTokens(address[])", models.Refs("TradingWETH", "FastPriceFeed_WETH")),
		},
	}
	signer := &fakeSigner{address: signerAddr}
	uc := newInitializer(store, plans, signer, new(MockChainClient))

	result, err := uc.Run(ctx, usecase.InitializeOptions{
		Contracts:  []string{"Staking", "NoPlan"},
		StartNonce: &start,
		ChainID:    big.NewInt(1),
		Now:        now,
	})
	require.NoError(t, err)
	require.Empty(t, result.Failures)
	assert.Equal(t, []string{"NoPlan"}, result.NoPlan)
	assert.Equal(t, 4, result.Batch.Len())

	create, _ := result.Batch.Get("Staking_0_create")
	raw := hex.EncodeToString(create.Raw)
	assert.Contains(t, raw, hex.EncodeToString(big.NewInt(now.Unix()).Bytes()))
	assert.Contains(t, raw, hex.EncodeToString(big.NewInt(now.Add(30*24*time.Hour).Unix()).Bytes()))

	token, _ := result.Batch.Get("Staking_1_setToken")
	assert.True(t, strings.HasSuffix(hex.EncodeToString(token.Raw), "1111111111111111111111111111111111111111"))
}
