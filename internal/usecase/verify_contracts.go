package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rosx-labs/perp-deployer/internal/domain"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
)

// VerifyContracts verifies contracts already recorded in the address book
type VerifyContracts struct {
	store    AddressBookStore
	resolver ArgumentResolver
	verifier ContractVerifier
	progress ProgressSink
	log      *slog.Logger
}

// NewVerifyContracts creates a new verify contracts use case
func NewVerifyContracts(
	store AddressBookStore,
	resolver ArgumentResolver,
	verifier ContractVerifier,
	progress ProgressSink,
	log *slog.Logger,
) *VerifyContracts {
	return &VerifyContracts{
		store:    store,
		resolver: resolver,
		verifier: verifier,
		progress: progress,
		log:      log,
	}
}

// VerifyOptions contains options for verification
type VerifyOptions struct {
	Contracts []string
	Mode      models.DeployMode
}

// VerifyResult contains per-contract verification outcomes
type VerifyResult struct {
	Records      []*models.DeploymentRecord
	SuccessCount int
	Saved        bool
}

// Run verifies each named contract. Missing entries and verifier errors are recorded per contract.
func (uc *VerifyContracts) Run(ctx context.Context, opts VerifyOptions) (*VerifyResult, error) {
	if opts.Mode == "" {
		opts.Mode = models.DeployModeDirect
	}

	book, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load address book: %w", err)
	}

	result := &VerifyResult{}
	implFound := false

	for i, name := range opts.Contracts {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		record := models.NewDeploymentRecord(models.NewDeploymentEntry(name, opts.Mode))
		result.Records = append(result.Records, record)

		found := book.Get(name)
		if found.State != models.AddressPresent {
			record.MarkFailed(domain.MissingAddressError{Name: name})
			uc.log.Warn("not in address book, skipping", "contract", name)
			continue
		}
		record.Address = found.Address
		record.Status = models.DeploymentStatusDeployed
		if impl := book.Get(models.ImplementationKey(name)); impl.State == models.AddressPresent {
			record.ImplementationAddress = impl.Address
		}

		resolution, err := uc.resolver.Resolve(name, opts.Mode, book)
		if err != nil {
			record.VerifyError = err
			uc.log.Warn("failed to resolve arguments", "contract", name, "error", err)
			continue
		}
		record.Args = resolution.Args

		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageVerifying,
			Current: i + 1,
			Total:   len(opts.Contracts),
			Message: fmt.Sprintf("Verifying %s", name),
			Spinner: true,
		})

		err = uc.verifier.Verify(ctx, record)
		if record.ImplementationAddress != "" {
			book.Set(models.ImplementationKey(name), record.ImplementationAddress)
			implFound = true
		}
		if err != nil {
			record.VerifyError = err
			uc.log.Warn("verification failed", "contract", name, "error", err)
			continue
		}
		record.MarkVerified()
		result.SuccessCount++
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: "Verification finished"})

	if implFound {
		if err := uc.store.Save(ctx, book); err != nil {
			return result, fmt.Errorf("failed to save address book: %w", err)
		}
		result.Saved = true
	}

	return result, nil
}
