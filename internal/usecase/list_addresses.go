package usecase

import (
	"context"
	"fmt"

	"github.com/rosx-labs/perp-deployer/internal/domain/models"
)

// ListAddresses reads the address book for display and export
type ListAddresses struct {
	store AddressBookStore
}

// NewListAddresses creates a new list addresses use case
func NewListAddresses(store AddressBookStore) *ListAddresses {
	return &ListAddresses{store: store}
}

// AddressListResult contains the address book entries in file order
type AddressListResult struct {
	Path    string
	Entries []models.AddressEntry
}

// EnvVar is a backend environment assignment
type EnvVar struct {
	Key      string
	Contract string
	Value    string
	Missing  bool
}

// backendEnv maps backend variables to the contracts they point at
var backendEnv = []struct{ key, contract string }{
	{"PRICE_MANAGER", "PriceManager"},
	{"POSITION_KEEPER", "PositionKeeper"},
	{"POSITION_HANDLER", "PositionHandler"},
	{"TRIGGER_ORDER", "TriggerOrderManager"},
	{"EXECUTE_CONTRACT", "PositionRouter"},
	{"VAULT_UTILS", "VaultUtils"},
	{"SETTING_MANAGER", "SettingsManager"},
}

// Run returns every entry of the address book
func (uc *ListAddresses) Run(ctx context.Context) (*AddressListResult, error) {
	book, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load address book: %w", err)
	}
	return &AddressListResult{Path: uc.store.Path(), Entries: book.Entries()}, nil
}

// BackendEnv returns the environment lines consumed by the trading backend
func (uc *ListAddresses) BackendEnv(ctx context.Context) ([]EnvVar, error) {
	book, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load address book: %w", err)
	}

	vars := make([]EnvVar, 0, len(backendEnv))
	for _, e := range backendEnv {
		found := book.Get(e.contract)
		vars = append(vars, EnvVar{
			Key:      e.key,
			Contract: e.contract,
			Value:    found.Address,
			Missing:  found.State != models.AddressPresent,
		})
	}
	return vars, nil
}
