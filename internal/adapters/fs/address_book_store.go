package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rosx-labs/perp-deployer/internal/domain/config"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
	"github.com/rosx-labs/perp-deployer/internal/usecase"
)

// sentinel line that ends the readable part of an address book
const stopLine = "//"

// AddressBookStore persists the address book as name:address lines
type AddressBookStore struct {
	path string
	log  *slog.Logger
}

// NewAddressBookStore creates a store for the configured address book path
func NewAddressBookStore(cfg *config.RuntimeConfig, log *slog.Logger) *AddressBookStore {
	path := cfg.AddressBook
	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(cfg.ProjectRoot, path)
	}
	return &AddressBookStore{path: path, log: log}
}

// Path returns the file backing the store
func (s *AddressBookStore) Path() string {
	return s.path
}

// Load reads the address book. A missing file yields an empty book.
func (s *AddressBookStore) Load(ctx context.Context) (*models.AddressBook, error) {
	if s.path == "" {
		return nil, fmt.Errorf("address book path not configured")
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Debug("address book not found, starting empty", "path", s.path)
			return models.NewAddressBook(), nil
		}
		return nil, fmt.Errorf("failed to read address book %s: %w", s.path, err)
	}

	book := ParseAddressBook(string(data))
	s.log.Debug("loaded address book", "path", s.path, "entries", book.Len())
	return book, nil
}

// Save overwrites the file with the whole book. An empty book leaves the file untouched.
func (s *AddressBookStore) Save(ctx context.Context, book *models.AddressBook) error {
	content := FormatAddressBook(book)
	if content == "" {
		s.log.Debug("address book empty, nothing to write", "path", s.path)
		return nil
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(s.path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write address book %s: %w", s.path, err)
	}
	s.log.Info("address book saved", "path", s.path, "entries", book.Len())
	return nil
}

// ParseAddressBook parses name:address lines. Parsing stops at a line that is exactly "//";
// blank lines and lines without exactly one colon are skipped.
func ParseAddressBook(content string) *models.AddressBook {
	book := models.NewAddressBook()

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == stopLine {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Split(line, ":")
		if len(parts) != 2 {
			continue
		}
		book.Set(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	}

	return book
}

// FormatAddressBook renders the book as newline-joined name:address lines without a trailing newline
func FormatAddressBook(book *models.AddressBook) string {
	entries := book.Entries()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.Name+":"+e.Address)
	}
	return strings.Join(lines, "\n")
}

// Ensure the adapter implements the interface
var _ usecase.AddressBookStore = (*AddressBookStore)(nil)
