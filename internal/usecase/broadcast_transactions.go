package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rosx-labs/perp-deployer/internal/domain"
	"github.com/rosx-labs/perp-deployer/internal/domain/config"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
)

// BroadcastTransactions submits a signed batch sequentially, waiting for each receipt
type BroadcastTransactions struct {
	chain     ChainClient
	confirmer BroadcastConfirmer
	cfg       *config.RuntimeConfig
	progress  ProgressSink
	log       *slog.Logger
}

// NewBroadcastTransactions creates a new broadcast use case
func NewBroadcastTransactions(
	chain ChainClient,
	confirmer BroadcastConfirmer,
	cfg *config.RuntimeConfig,
	progress ProgressSink,
	log *slog.Logger,
) *BroadcastTransactions {
	return &BroadcastTransactions{
		chain:     chain,
		confirmer: confirmer,
		cfg:       cfg,
		progress:  progress,
		log:       log,
	}
}

// BroadcastOptions contains options for broadcasting
type BroadcastOptions struct {
	// Policy overrides the configured failure policy
	Policy      config.BroadcastPolicy
	SkipConfirm bool
}

// OutcomeStatus is the per-transaction broadcast status
type OutcomeStatus string

const (
	OutcomeSucceeded    OutcomeStatus = "succeeded"
	OutcomeReverted     OutcomeStatus = "reverted"
	OutcomeFailed       OutcomeStatus = "failed"
	OutcomeNotSubmitted OutcomeStatus = "not submitted"
)

// TransactionOutcome is the result of submitting one transaction
type TransactionOutcome struct {
	Key     string
	Hash    string
	Receipt *models.Receipt
	Status  OutcomeStatus
	Sent    bool // accepted by the node
	Err     error
}

// BroadcastResult contains the outcome of a broadcast run
type BroadcastResult struct {
	Outcomes  []TransactionOutcome
	Submitted int
	Succeeded int
	Failed    int
	Aborted   bool
	Declined  bool
}

// NotSubmitted returns the keys never sent
func (r *BroadcastResult) NotSubmitted() []string {
	var keys []string
	for _, o := range r.Outcomes {
		if o.Status == OutcomeNotSubmitted {
			keys = append(keys, o.Key)
		}
	}
	return keys
}

// Run submits every transaction of the batch in order.
// Send and receipt errors follow the failure policy, a reverted receipt is counted and skipped.
func (uc *BroadcastTransactions) Run(ctx context.Context, batch *models.SignedBatch, opts BroadcastOptions) (*BroadcastResult, error) {
	policy := opts.Policy
	if policy == "" {
		policy = uc.cfg.BroadcastPolicy
	}
	if policy == "" {
		policy = config.BroadcastAbort
	}

	result := &BroadcastResult{}
	txs := batch.Transactions()
	if len(txs) == 0 {
		return result, nil
	}

	if !opts.SkipConfirm && uc.confirmer != nil {
		ok, err := uc.confirmer.ConfirmBroadcast(ctx, batch)
		if err != nil {
			return nil, err
		}
		if !ok {
			result.Declined = true
			result.Outcomes = notSubmitted(txs)
			return result, nil
		}
	}

	for i, tx := range txs {
		if err := ctx.Err(); err != nil {
			result.Outcomes = append(result.Outcomes, notSubmitted(txs[i:])...)
			return result, fmt.Errorf("broadcast interrupted at %s: %w", tx.Key, err)
		}

		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageBroadcasting,
			Current: i + 1,
			Total:   len(txs),
			Message: fmt.Sprintf("Broadcasting %s", tx.Key),
			Spinner: true,
		})

		outcome := uc.submit(ctx, tx)
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Sent {
			result.Submitted++
		}

		switch outcome.Status {
		case OutcomeSucceeded:
			result.Succeeded++
			uc.log.Info("broadcasted", "key", tx.Key, "hash", outcome.Hash, "block", outcome.Receipt.BlockNumber)
		case OutcomeReverted:
			result.Failed++
			uc.log.Warn("transaction reverted", "key", tx.Key, "hash", outcome.Hash)
			uc.progress.Error(fmt.Sprintf("%s reverted", tx.Key))
		default:
			result.Failed++
			uc.log.Error("broadcast failed", "key", tx.Key, "error", outcome.Err)
			uc.progress.Error(fmt.Sprintf("%s: %v", tx.Key, outcome.Err))
			if policy == config.BroadcastAbort {
				result.Aborted = true
				result.Outcomes = append(result.Outcomes, notSubmitted(txs[i+1:])...)
				uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: "Broadcast aborted"})
				return result, fmt.Errorf("%w at %s: %w", domain.ErrBroadcastAborted, tx.Key, outcome.Err)
			}
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: "Broadcast finished"})
	return result, nil
}

func (uc *BroadcastTransactions) submit(ctx context.Context, tx *models.SignedTransaction) TransactionOutcome {
	outcome := TransactionOutcome{Key: tx.Key, Hash: tx.Hash}

	hash, err := uc.chain.SendRawTransaction(ctx, tx.Raw)
	if err != nil {
		outcome.Status = OutcomeFailed
		outcome.Err = fmt.Errorf("send: %w", err)
		return outcome
	}
	outcome.Sent = true
	if hash != "" {
		outcome.Hash = hash
	}

	receipt, err := uc.chain.WaitForReceipt(ctx, outcome.Hash)
	if err != nil {
		outcome.Status = OutcomeFailed
		outcome.Err = fmt.Errorf("receipt: %w", err)
		return outcome
	}
	outcome.Receipt = receipt

	if !receipt.Succeeded() {
		outcome.Status = OutcomeReverted
		outcome.Err = fmt.Errorf("transaction %s did not succeed (status %d)", outcome.Hash, receipt.Status)
		return outcome
	}

	outcome.Status = OutcomeSucceeded
	return outcome
}

func notSubmitted(txs []*models.SignedTransaction) []TransactionOutcome {
	outcomes := make([]TransactionOutcome, 0, len(txs))
	for _, tx := range txs {
		outcomes = append(outcomes, TransactionOutcome{Key: tx.Key, Hash: tx.Hash, Status: OutcomeNotSubmitted})
	}
	return outcomes
}
