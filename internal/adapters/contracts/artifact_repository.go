package contracts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rosx-labs/perp-deployer/internal/domain"
	"github.com/rosx-labs/perp-deployer/internal/domain/config"
	"github.com/rosx-labs/perp-deployer/internal/domain/models"
)

const artifactCacheSize = 64

// hardhatArtifact is the subset of a hardhat artifact file we read
type hardhatArtifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

// ArtifactRepository finds compiled contracts in the hardhat artifacts directory
type ArtifactRepository struct {
	root string
	log  *slog.Logger

	mu    sync.Mutex
	paths map[string]string // contract name -> artifact file
	cache *lru.Cache[string, *models.Artifact]
}

// NewArtifactRepository creates a repository rooted at the configured artifacts directory
func NewArtifactRepository(cfg *config.RuntimeConfig, log *slog.Logger) (*ArtifactRepository, error) {
	root := cfg.ArtifactsDir
	if root != "" && !filepath.IsAbs(root) {
		root = filepath.Join(cfg.ProjectRoot, root)
	}

	cache, err := lru.New[string, *models.Artifact](artifactCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact cache: %w", err)
	}

	return &ArtifactRepository{root: root, log: log, cache: cache}, nil
}

// Get loads the artifact for a contract name
func (r *ArtifactRepository) Get(name string) (*models.Artifact, error) {
	if artifact, ok := r.cache.Get(name); ok {
		return artifact, nil
	}

	if err := r.index(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	path, ok := r.paths[name]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: artifact for %s in %s", domain.ErrNotFound, name, r.root)
	}

	artifact, err := LoadArtifact(path)
	if err != nil {
		return nil, err
	}
	r.cache.Add(name, artifact)
	return artifact, nil
}

// Names lists the indexed contract names, sorted
func (r *ArtifactRepository) Names() ([]string, error) {
	if err := r.index(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.paths))
	for name := range r.paths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// index walks the artifacts directory once
func (r *ArtifactRepository) index() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.paths != nil {
		return nil
	}
	if r.root == "" {
		return fmt.Errorf("artifacts directory not configured")
	}

	paths := make(map[string]string)
	err := filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}

		name := strings.TrimSuffix(filepath.Base(path), ".json")
		if existing, ok := paths[name]; ok {
			r.log.Warn("duplicate artifact name, keeping first", "name", name, "kept", existing, "ignored", path)
			return nil
		}
		paths[name] = path
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to index artifacts in %s: %w", r.root, err)
	}

	r.log.Debug("indexed artifacts", "root", r.root, "count", len(paths))
	r.paths = paths
	return nil
}

// LoadArtifact parses a hardhat artifact file
func LoadArtifact(path string) (*models.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	var raw hardhatArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}

	parsed, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI in %s: %w", path, err)
	}

	var bytecode []byte
	if raw.Bytecode != "" && raw.Bytecode != "0x" {
		bytecode, err = hexutil.Decode(raw.Bytecode)
		if err != nil {
			return nil, fmt.Errorf("invalid bytecode in %s: %w", path, err)
		}
	}

	name := raw.ContractName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), ".json")
	}

	return &models.Artifact{Name: name, Path: path, ABI: &parsed, Bytecode: bytecode}, nil
}
