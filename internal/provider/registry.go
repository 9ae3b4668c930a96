package provider

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mhmtszr/concurrent-swiss-map"
)

// Registered is a provider together with its indexer key and state.
type Registered struct {
	Name     string
	Key      int
	Provider Provider
	Priority int
	Enabled  bool
}

// Registry manages all available providers. Entries are keyed by provider
// name; each provider also owns a unique numeric indexer key.
type Registry struct {
	mu      sync.Mutex // serializes registration so key checks are atomic
	entries *csmap.CsMap[string, *Registered]
	configs *csmap.CsMap[string, map[string]interface{}]
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		entries: csmap.Create[string, *Registered](),
		configs: csmap.Create[string, map[string]interface{}](),
	}
}

// Register adds a provider to the registry under the given indexer key
func (r *Registry) Register(name string, key int, provider Provider, priority int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if key <= 0 {
		return fmt.Errorf("provider %s: indexer key must be positive", name)
	}
	if r.entries.Has(name) {
		return fmt.Errorf("provider %s already registered", name)
	}
	if _, taken := r.byKey(key); taken {
		return fmt.Errorf("indexer key %d already registered", key)
	}

	// Validate provider capabilities
	if err := ValidateCapabilities(provider.Capabilities()); err != nil {
		return fmt.Errorf("invalid provider capabilities for %s: %w", name, err)
	}

	r.entries.Store(name, &Registered{
		Name:     name,
		Key:      key,
		Provider: provider,
		Priority: priority,
		Enabled:  false, // Disabled by default
	})

	return nil
}

// Get returns a provider by name
func (r *Registry) Get(name string) (Provider, bool) {
	entry, exists := r.entries.Load(name)
	if !exists {
		return nil, false
	}
	return entry.Provider, true
}

// ByKey returns the enabled provider registered under an indexer key
func (r *Registry) ByKey(key int) (*Registered, bool) {
	entry, ok := r.byKey(key)
	if !ok || !entry.Enabled {
		return nil, false
	}
	return entry, true
}

func (r *Registry) byKey(key int) (*Registered, bool) {
	var found *Registered
	r.entries.Range(func(_ string, value *Registered) bool {
		if value.Key == key {
			found = value
			return true
		}
		return false
	})
	return found, found != nil
}

// List returns all registered provider names sorted by priority
func (r *Registry) List() []string {
	all := r.snapshot()
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Priority > all[j].Priority
	})
	names := make([]string, 0, len(all))
	for _, entry := range all {
		names = append(names, entry.Name)
	}
	return names
}

// Enabled returns the enabled providers ordered by indexer key
func (r *Registry) Enabled() []Registered {
	all := r.snapshot()
	sort.Slice(all, func(i, j int) bool { return all[i].Key < all[j].Key })
	enabled := make([]Registered, 0, len(all))
	for _, entry := range all {
		if entry.Enabled {
			enabled = append(enabled, entry)
		}
	}
	return enabled
}

func (r *Registry) snapshot() []Registered {
	all := make([]Registered, 0, r.entries.Count())
	r.entries.Range(func(_ string, value *Registered) bool {
		all = append(all, *value)
		return false
	})
	return all
}

// Enable enables a provider
func (r *Registry) Enable(name string) error {
	entry, exists := r.entries.Load(name)
	if !exists {
		return fmt.Errorf("provider %s not found", name)
	}

	// Validate configuration if required
	if entry.Provider.Capabilities().RequiresAuth {
		if config, hasConfig := r.configs.Load(name); !hasConfig || len(config) == 0 {
			return fmt.Errorf("provider %s requires configuration", name)
		}
	}

	updated := *entry
	updated.Enabled = true
	r.entries.Store(name, &updated)
	return nil
}

// Configure sets configuration for a provider
func (r *Registry) Configure(name string, config map[string]interface{}) error {
	entry, exists := r.entries.Load(name)
	if !exists {
		return fmt.Errorf("provider %s not found", name)
	}

	// Apply configuration to provider
	if err := entry.Provider.Configure(config); err != nil {
		return fmt.Errorf("failed to configure provider %s: %w", name, err)
	}

	r.configs.Store(name, config)

	return nil
}
