package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/rosx-labs/perp-deployer/internal/domain"
	"github.com/rosx-labs/perp-deployer/internal/domain/config"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
)

// InitializeContracts turns initialization plans into a batch of signed transactions
type InitializeContracts struct {
	store    AddressBookStore
	plans    PlanProvider
	encoder  CallEncoder
	signer   TransactionSigner
	chain    ChainClient
	cfg      *config.RuntimeConfig
	progress ProgressSink
	log      *slog.Logger
}

// NewInitializeContracts creates a new initialize contracts use case
func NewInitializeContracts(
	store AddressBookStore,
	plans PlanProvider,
	encoder CallEncoder,
	signer TransactionSigner,
	chain ChainClient,
	cfg *config.RuntimeConfig,
	progress ProgressSink,
	log *slog.Logger,
) *InitializeContracts {
	return &InitializeContracts{
		store:    store,
		plans:    plans,
		encoder:  encoder,
		signer:   signer,
		chain:    chain,
		cfg:      cfg,
		progress: progress,
		log:      log,
	}
}

// InitializeOptions contains options for building the initialization batch
type InitializeOptions struct {
	Contracts []string
	Mode      models.DeployMode
	// StartNonce overrides the account nonce read from the chain
	StartNonce *uint64
	// ChainID overrides the chain id read from the chain
	ChainID *big.Int
	// Now fixes the clock used by time-based arguments
	Now time.Time
}

// StepFailure describes a call that was not signed
type StepFailure struct {
	Contract string
	Function string
	Err      error
}

// InitializeResult contains the signed batch and bookkeeping
type InitializeResult struct {
	Batch      *models.SignedBatch
	Signer     string
	ChainID    *big.Int
	StartNonce uint64
	NextNonce  uint64
	Failures   []StepFailure
	// NoPlan lists contracts without an initialization plan
	NoPlan []string
}

// Run builds and signs every planned call. A failed step is logged and does not consume a nonce.
func (uc *InitializeContracts) Run(ctx context.Context, opts InitializeOptions) (*InitializeResult, error) {
	if opts.Mode == "" {
		opts.Mode = models.DeployModeDirect
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	book, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load address book: %w", err)
	}

	signer, err := uc.signer.Address()
	if err != nil {
		return nil, err
	}

	chainID := opts.ChainID
	if chainID == nil {
		chainID, err = uc.chain.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get chain ID: %w", err)
		}
	}

	var nonce uint64
	if opts.StartNonce != nil {
		nonce = *opts.StartNonce
	} else {
		nonce, err = uc.chain.NonceAt(ctx, signer)
		if err != nil {
			return nil, fmt.Errorf("failed to get nonce for %s: %w", signer, err)
		}
	}

	result := &InitializeResult{
		Batch:      models.NewSignedBatch(),
		Signer:     signer,
		ChainID:    chainID,
		StartNonce: nonce,
	}
	uc.log.Info("initializing", "account", signer, "nonce", nonce, "chainId", chainID)

	for i, name := range opts.Contracts {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("initialization interrupted before %s: %w", name, err)
		}

		steps, ok := uc.plans.Plan(name, opts.Mode)
		if !ok {
			uc.log.Info("no initialization plan, skipping", "contract", name)
			result.NoPlan = append(result.NoPlan, name)
			continue
		}

		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageSigning,
			Current: i + 1,
			Total:   len(opts.Contracts),
			Message: fmt.Sprintf("Signing %s (%d calls)", name, len(steps)),
		})

		for _, step := range steps {
			tx, err := uc.signStep(ctx, book, name, step, signer, chainID, nonce, opts.Now)
			if err != nil {
				uc.log.Error("failed to prepare call", "contract", name, "function", step.Method, "error", err)
				result.Failures = append(result.Failures, StepFailure{Contract: name, Function: step.Method, Err: err})
				continue
			}
			if !result.Batch.Add(tx) {
				err := fmt.Errorf("%w: %s", domain.ErrDuplicateKey, tx.Key)
				result.Failures = append(result.Failures, StepFailure{Contract: name, Function: step.Method, Err: err})
				continue
			}
			uc.log.Debug("signed", "key", tx.Key, "to", tx.To, "hash", tx.Hash)
			nonce++
		}
	}

	result.NextNonce = nonce
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: fmt.Sprintf("Signed %d transactions", result.Batch.Len())})

	return result, nil
}

func (uc *InitializeContracts) signStep(
	ctx context.Context,
	book *models.AddressBook,
	contract string,
	step models.CallStep,
	signer string,
	chainID *big.Int,
	nonce uint64,
	now time.Time,
) (*models.SignedTransaction, error) {
	target, err := uc.resolveArg(book, step.Target, signer, now, contract)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	to, ok := target.(string)
	if !ok || to == "" {
		return nil, fmt.Errorf("%w: target of %s is not an address", domain.ErrInvalidAddress, step.Method)
	}
	if to == models.ZeroAddress {
		return nil, fmt.Errorf("%w: %s target %s is empty", domain.ErrMissingAddress, step.Method, step.Target)
	}

	values := make([]any, 0, len(step.Args))
	for _, arg := range step.Args {
		v, err := uc.resolveArg(book, arg, signer, now, contract)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	data, err := uc.encoder.EncodeCall(step.Signature(), values)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", step.Signature(), err)
	}

	value := step.Value
	if value == nil {
		value = big.NewInt(0)
	}

	signed, err := uc.signer.Sign(ctx, chainID, models.UnsignedTransaction{
		To:       to,
		Nonce:    nonce,
		Value:    value,
		GasLimit: uc.cfg.GasLimit,
		GasPrice: uc.cfg.GasPrice,
		Data:     data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign %s: %w", step.Method, err)
	}

	signed.Key = models.TransactionKey(contract, nonce, step.Method)
	signed.Contract = contract
	signed.Function = step.Method
	signed.To = to
	signed.Nonce = nonce
	return signed, nil
}

func (uc *InitializeContracts) resolveArg(book *models.AddressBook, arg models.Arg, signer string, now time.Time, requester string) (any, error) {
	switch arg.Kind {
	case models.ArgRef:
		return uc.lookup(book, arg.Names[0], requester)
	case models.ArgRefList:
		addrs := make([]string, 0, len(arg.Names))
		for _, name := range arg.Names {
			addr, err := uc.lookup(book, name, requester)
			if err != nil {
				return nil, err
			}
			addrs = append(addrs, addr)
		}
		return addrs, nil
	case models.ArgSigner:
		return signer, nil
	case models.ArgAssetToken:
		symbol := arg.Names[0]
		found := book.LastMatching(func(name string) bool {
			return strings.Contains(name, symbol) && !strings.Contains(name, "_")
		})
		if !found.Found() {
			return nil, domain.MissingAddressError{Name: "token for " + symbol, Requester: requester}
		}
		return uc.lookup(book, found.Name, requester)
	case models.ArgNow:
		return big.NewInt(now.Add(arg.Offset).Unix()), nil
	default:
		return arg.Value, nil
	}
}

func (uc *InitializeContracts) lookup(book *models.AddressBook, name, requester string) (string, error) {
	found := book.Get(name)
	switch found.State {
	case models.AddressPresent:
		return found.Address, nil
	case models.AddressEmpty:
		uc.log.Warn("address book entry is empty, using zero address", "name", name, "contract", requester)
		return models.ZeroAddress, nil
	default:
		return "", domain.MissingAddressError{Name: name, Requester: requester}
	}
}
