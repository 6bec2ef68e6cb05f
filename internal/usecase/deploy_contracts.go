package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rosx-labs/perp-deployer/internal/domain"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
)

// DeployContracts deploys an ordered list of contracts and records their addresses
type DeployContracts struct {
	store    AddressBookStore
	resolver ArgumentResolver
	deployer ContractDeployer
	verifier ContractVerifier
	progress ProgressSink
	log      *slog.Logger
}

// NewDeployContracts creates a new deploy contracts use case
func NewDeployContracts(
	store AddressBookStore,
	resolver ArgumentResolver,
	deployer ContractDeployer,
	verifier ContractVerifier,
	progress ProgressSink,
	log *slog.Logger,
) *DeployContracts {
	return &DeployContracts{
		store:    store,
		resolver: resolver,
		deployer: deployer,
		verifier: verifier,
		progress: progress,
		log:      log,
	}
}

// DeployOptions contains options for a deployment run
type DeployOptions struct {
	Contracts []string
	Mode      models.DeployMode
	Verify    bool
	DryRun    bool
}

// DeployResult contains the outcome of a deployment run
type DeployResult struct {
	RunID   string
	Records []*models.DeploymentRecord
	Book    *models.AddressBook
	Saved   bool
	DryRun  bool
}

// Failed returns the records that did not deploy
func (r *DeployResult) Failed() []*models.DeploymentRecord {
	var failed []*models.DeploymentRecord
	for _, rec := range r.Records {
		if rec.Status == models.DeploymentStatusFailed {
			failed = append(failed, rec)
		}
	}
	return failed
}

// Run deploys each entry in order. Failures are recorded and the run moves on.
func (uc *DeployContracts) Run(ctx context.Context, opts DeployOptions) (*DeployResult, error) {
	if opts.Mode == "" {
		opts.Mode = models.DeployModeDirect
	}

	book, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load address book: %w", err)
	}

	result := &DeployResult{
		RunID:  uuid.NewString(),
		Book:   book,
		DryRun: opts.DryRun,
	}
	log := uc.log.With("run", result.RunID, "mode", opts.Mode)
	log.Debug("starting deployment run", "contracts", len(opts.Contracts), "book", uc.store.Path())

	for i, name := range opts.Contracts {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("deployment interrupted before %s: %w", name, err)
		}

		entry := models.NewDeploymentEntry(name, opts.Mode)
		record := models.NewDeploymentRecord(entry)
		result.Records = append(result.Records, record)

		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageDeploying,
			Current: i + 1,
			Total:   len(opts.Contracts),
			Message: fmt.Sprintf("Deploying %s", name),
			Spinner: !opts.DryRun,
		})

		uc.deployOne(ctx, log, book, record, opts)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: "Deployment finished"})

	if opts.DryRun {
		return result, nil
	}

	if err := uc.store.Save(ctx, book); err != nil {
		return result, fmt.Errorf("failed to save address book: %w", err)
	}
	result.Saved = true

	return result, nil
}

func (uc *DeployContracts) deployOne(ctx context.Context, log *slog.Logger, book *models.AddressBook, record *models.DeploymentRecord, opts DeployOptions) {
	entry := record.Entry
	log = log.With("contract", entry.Name, "template", entry.Template)
	record.StartedAt = time.Now()
	defer func() { record.Duration = time.Since(record.StartedAt) }()

	resolution, err := uc.resolver.Resolve(entry.Name, entry.Mode, book)
	if err != nil {
		log.Error("failed to resolve arguments", "error", err)
		record.MarkFailed(err)
		uc.progress.Error(fmt.Sprintf("%s: %v", entry.Name, err))
		return
	}
	if !resolution.Known {
		unknown := domain.UnknownContractErr{Name: entry.Name, Suggestions: resolution.Suggestions}
		log.Warn("no argument rules, deploying without arguments", "reason", unknown.Error())
	}
	for _, placeholder := range resolution.Placeholders {
		log.Warn("address book entry is empty, using zero address", "name", placeholder)
	}
	record.Args = resolution.Args
	record.Placeholders = resolution.Placeholders

	if opts.DryRun {
		log.Info("dry run, skipping deployment", "args", record.Args)
		return
	}

	deployed, err := uc.deployer.Deploy(ctx, entry, record.Args)
	if err != nil {
		log.Error("deployment failed", "error", err)
		record.MarkFailed(err)
		uc.progress.Error(fmt.Sprintf("%s: %v", entry.Name, err))
		return
	}
	if deployed == nil || deployed.Address == "" {
		err := fmt.Errorf("%s: %w", entry.Name, domain.ErrDeployOutput)
		log.Error("deployment reported no address")
		record.MarkFailed(err)
		return
	}

	record.MarkDeployed(deployed)
	book.Set(entry.Name, deployed.Address)
	if deployed.ImplementationAddress != "" {
		book.Set(models.ImplementationKey(entry.Name), deployed.ImplementationAddress)
	}
	// Addresses are normalized by the book
	record.Address = book.Get(entry.Name).Address
	log.Info("deployed", "address", record.Address)
	uc.progress.Info(fmt.Sprintf("%s deployed at %s", entry.Name, record.Address))

	if !opts.Verify || uc.verifier == nil {
		return
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageVerifying, Message: fmt.Sprintf("Verifying %s", entry.Name), Spinner: true})
	err = uc.verifier.Verify(ctx, record)
	// The verifier may discover the implementation behind a proxy
	if record.ImplementationAddress != "" {
		book.Set(models.ImplementationKey(entry.Name), record.ImplementationAddress)
	}
	if err != nil {
		if !errors.Is(err, domain.ErrVerificationFailed) {
			err = fmt.Errorf("%w: %w", domain.ErrVerificationFailed, err)
		}
		record.VerifyError = err
		log.Warn("verification failed", "error", err)
		return
	}
	record.MarkVerified()
}
