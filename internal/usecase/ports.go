package usecase

import (
	"context"
	"math/big"

	"github.com/rosx-labs/perp-deployer/internal/domain/models"
)

// AddressBookStore loads and persists the name:address file
type AddressBookStore interface {
	Load(ctx context.Context) (*models.AddressBook, error)
	Save(ctx context.Context, book *models.AddressBook) error
	Path() string
}

// ArgumentResolver computes constructor or initializer arguments for a logical name
type ArgumentResolver interface {
	Resolve(name string, mode models.DeployMode, book *models.AddressBook) (*models.Resolution, error)
}

// ContractDeployer deploys one contract and reports its address
type ContractDeployer interface {
	Deploy(ctx context.Context, entry models.DeploymentEntry, args []any) (*models.DeployedContract, error)
}

// ContractVerifier submits a deployed contract for source verification
type ContractVerifier interface {
	Verify(ctx context.Context, record *models.DeploymentRecord) error
}

// PlanProvider returns the initialization call sequence for a contract
type PlanProvider interface {
	Plan(name string, mode models.DeployMode) ([]models.CallStep, bool)
	Names(mode models.DeployMode) []string
}

// CallEncoder builds call data from a function signature and values
type CallEncoder interface {
	EncodeCall(signature string, values []any) ([]byte, error)
}

// TransactionSigner signs legacy transactions with a single account
type TransactionSigner interface {
	Address() (string, error)
	Sign(ctx context.Context, chainID *big.Int, tx models.UnsignedTransaction) (*models.SignedTransaction, error)
}

// ChainClient is the RPC surface used for nonce lookup and broadcasting
type ChainClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	NonceAt(ctx context.Context, address string) (uint64, error)
	SendRawTransaction(ctx context.Context, raw []byte) (string, error)
	WaitForReceipt(ctx context.Context, txHash string) (*models.Receipt, error)
	ImplementationAddress(ctx context.Context, proxy string) (string, error)
}

// BroadcastConfirmer asks for confirmation before submitting a batch
type BroadcastConfirmer interface {
	ConfirmBroadcast(ctx context.Context, batch *models.SignedBatch) (bool, error)
}

// EntrySelector picks one address book entry interactively
type EntrySelector interface {
	SelectEntry(ctx context.Context, entries []models.AddressEntry, prompt string) (*models.AddressEntry, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   ExecutionStage
	Current int
	Total   int
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// ExecutionStage represents a stage of a run
type ExecutionStage string

const (
	StageDeploying    ExecutionStage = "Deploying"
	StageVerifying    ExecutionStage = "Verifying"
	StageSigning      ExecutionStage = "Signing"
	StageBroadcasting ExecutionStage = "Broadcasting"
	StageCompleted    ExecutionStage = "Completed"
)
