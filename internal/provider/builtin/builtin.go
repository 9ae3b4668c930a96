// Package builtin registers the bundled metadata providers. It lives apart
// from package provider to avoid import cycles.
package builtin

import (
	"fmt"

	"github.com/Digital-Shane/show-onboard/internal/config"
	"github.com/Digital-Shane/show-onboard/internal/provider"
	"github.com/Digital-Shane/show-onboard/internal/provider/omdb"
	"github.com/Digital-Shane/show-onboard/internal/provider/tmdb"
	"github.com/Digital-Shane/show-onboard/internal/provider/tvdb"
)

// Indexer keys of the bundled providers. Key 0 is reserved for "all indexers".
const (
	KeyTVDB = 1
	KeyTMDB = 2
	KeyOMDB = 3
)

type builtinProvider struct {
	name     string
	key      int
	priority int
	provider provider.Provider
	enabled  bool
	apiKey   string
}

// Load registers every bundled provider in a new registry and enables the
// ones switched on in cfg.
func Load(cfg *config.Config) (*provider.Registry, error) {
	return load([]builtinProvider{
		{name: "tvdb", key: KeyTVDB, priority: 100, provider: tvdb.New(), enabled: cfg.EnableTVDB, apiKey: cfg.TVDBAPIKey},
		{name: "tmdb", key: KeyTMDB, priority: 90, provider: tmdb.New(), enabled: cfg.EnableTMDB, apiKey: cfg.TMDBAPIKey},
		{name: "omdb", key: KeyOMDB, priority: 80, provider: omdb.New(), enabled: cfg.EnableOMDB, apiKey: cfg.OMDBAPIKey},
	})
}

func load(providers []builtinProvider) (*provider.Registry, error) {
	registry := provider.NewRegistry()
	for _, p := range providers {
		if err := registry.Register(p.name, p.key, p.provider, p.priority); err != nil {
			return nil, fmt.Errorf("failed to register %s provider: %w", p.name, err)
		}
		if !p.enabled {
			continue
		}
		if err := registry.Configure(p.name, map[string]interface{}{"api_key": p.apiKey}); err != nil {
			return nil, err
		}
		if err := registry.Enable(p.name); err != nil {
			return nil, fmt.Errorf("failed to enable %s provider: %w", p.name, err)
		}
	}
	return registry, nil
}
