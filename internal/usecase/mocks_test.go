package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"

	"github.com/stretchr/testify/mock"

	"github.com/rosx-labs/perp-deployer/internal/domain"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryStore is an in-memory AddressBookStore
type memoryStore struct {
	book    *models.AddressBook
	saves   int
	loadErr error
	saveErr error
}

func newMemoryStore(entries ...string) *memoryStore {
	book := models.NewAddressBook()
	for i := 0; i+1 < len(entries); i += 2 {
		book.Set(entries[i], entries[i+1])
	}
	return &memoryStore{book: book}
}

func (s *memoryStore) Load(context.Context) (*models.AddressBook, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.book, nil
}

func (s *memoryStore) Save(_ context.Context, book *models.AddressBook) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.book = book
	s.saves++
	return nil
}

func (s *memoryStore) Path() string { return "memory" }

// refResolver resolves arguments from a fixed table of referenced names
type refResolver struct {
	refs map[string][]string
}

func (r *refResolver) Resolve(name string, _ models.DeployMode, book *models.AddressBook) (*models.Resolution, error) {
	names, ok := r.refs[name]
	if !ok {
		return &models.Resolution{Known: false}, nil
	}
	res := &models.Resolution{Known: true, Args: []any{}}
	for _, ref := range names {
		found := book.Get(ref)
		switch found.State {
		case models.AddressMissing:
			return nil, fmt.Errorf("%s needs %s: %w", name, ref, domain.ErrMissingAddress)
		case models.AddressEmpty:
			res.Placeholders = append(res.Placeholders, ref)
			res.Args = append(res.Args, models.ZeroAddress)
		default:
			res.Args = append(res.Args, found.Address)
		}
	}
	return res, nil
}

// MockDeployer is a mock implementation of ContractDeployer
type MockDeployer struct {
	mock.Mock
}

func (m *MockDeployer) Deploy(ctx context.Context, entry models.DeploymentEntry, args []any) (*models.DeployedContract, error) {
	a := m.Called(ctx, entry, args)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*models.DeployedContract), a.Error(1)
}

// MockVerifier is a mock implementation of ContractVerifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, record *models.DeploymentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockChainClient is a mock implementation of ChainClient
type MockChainClient struct {
	mock.Mock
}

func (m *MockChainClient) ChainID(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockChainClient) NonceAt(ctx context.Context, address string) (uint64, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockChainClient) SendRawTransaction(ctx context.Context, raw []byte) (string, error) {
	args := m.Called(ctx, raw)
	return args.String(0), args.Error(1)
}

func (m *MockChainClient) WaitForReceipt(ctx context.Context, txHash string) (*models.Receipt, error) {
	args := m.Called(ctx, txHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Receipt), args.Error(1)
}

func (m *MockChainClient) ImplementationAddress(ctx context.Context, proxy string) (string, error) {
	args := m.Called(ctx, proxy)
	return args.String(0), args.Error(1)
}

// fakeSigner produces deterministic "signatures" that carry the call data
type fakeSigner struct {
	address string
	failOn  map[uint64]error
	signed  []models.UnsignedTransaction
}

func (s *fakeSigner) Address() (string, error) { return s.address, nil }

func (s *fakeSigner) Sign(_ context.Context, _ *big.Int, tx models.UnsignedTransaction) (*models.SignedTransaction, error) {
	if err := s.failOn[tx.Nonce]; err != nil {
		return nil, err
	}
	s.signed = append(s.signed, tx)
	return &models.SignedTransaction{
		Raw:  append([]byte{}, tx.Data...),
		Hash: fmt.Sprintf("0x%064x", tx.Nonce+1),
	}, nil
}

// staticPlans is a PlanProvider backed by a map
type staticPlans map[string][]models.CallStep

func (p staticPlans) Plan(name string, _ models.DeployMode) ([]models.CallStep, bool) {
	steps, ok := p[name]
	return steps, ok
}

func (p staticPlans) Names(models.DeployMode) []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	return names
}

// recordingProgress captures progress events
type recordingProgress struct {
	events []usecase.ProgressEvent
	errors []string
}

func (r *recordingProgress) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	r.events = append(r.events, event)
}
func (r *recordingProgress) Info(string)         {}
func (r *recordingProgress) Error(message string) { r.errors = append(r.errors, message) }

// confirmer answers broadcast confirmations with a fixed reply
type confirmer struct {
	answer bool
	asked  int
}

func (c *confirmer) ConfirmBroadcast(context.Context, *models.SignedBatch) (bool, error) {
	c.asked++
	return c.answer, nil
}
