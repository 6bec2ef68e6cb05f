package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/rosx-labs/perp-deployer/internal/domain/config"
)

// ProjectTOML represents the raw perpdeploy.toml structure
type ProjectTOML struct {
	Networks map[string]config.Network `toml:"networks"`
}

// LoadEnvFiles loads .env and .env.local from the project root.
// Variables already set in the environment are kept.
func LoadEnvFiles(projectRoot string) {
	for _, name := range []string{".env", ".env.local"} {
		path := filepath.Join(projectRoot, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("failed to load env file", "path", path, "error", err)
		}
	}
}

// LoadNetworks reads the network profiles of perpdeploy.toml with ${VAR} expansion
func LoadNetworks(projectRoot string) (map[string]*config.Network, error) {
	path := filepath.Join(projectRoot, ProjectFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]*config.Network{}, nil
	}

	var raw ProjectTOML
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
	}

	networks := make(map[string]*config.Network, len(raw.Networks))
	for name, n := range raw.Networks {
		n.Name = name
		n.RPCURL = os.ExpandEnv(n.RPCURL)
		n.ExplorerAPIURL = os.ExpandEnv(n.ExplorerAPIURL)
		n.ExplorerAPIKey = os.ExpandEnv(n.ExplorerAPIKey)
		n.AddressBook = os.ExpandEnv(n.AddressBook)
		n.GasPrice = os.ExpandEnv(n.GasPrice)
		networks[name] = &n
	}
	return networks, nil
}

// ResolveNetwork returns the named network profile
func ResolveNetwork(projectRoot, name string) (*config.Network, error) {
	networks, err := LoadNetworks(projectRoot)
	if err != nil {
		return nil, err
	}

	network, ok := networks[name]
	if !ok {
		return nil, fmt.Errorf("network '%s' not found in %s [networks] (available: %v)", name, ProjectFile, NetworkNames(networks))
	}
	return network, nil
}

// NetworkNames returns profile names sorted alphabetically
func NetworkNames(networks map[string]*config.Network) []string {
	names := make([]string, 0, len(networks))
	for name := range networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
