package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"muselink/internal/latex"
	"muselink/internal/services"
)

// NoopName is the passthrough strategy: candidates flow through the
// pipeline with only the detector's heuristics applied.
const NoopName = "heuristic"

// Options carries pass-through configuration for strategy construction.
type Options struct {
	// Model is the model identifier handed to the external tool.
	Model string
	// PromptPath overrides the embedded system prompt file.
	PromptPath string
	// ToolsPath points at a tool-schema file appended to the prompt.
	ToolsPath string
	// Binary overrides the external executable name.
	Binary string
}

// Strategy enriches candidate entities with inferred metadata.
type Strategy interface {
	Name() string
	Enrich(ctx context.Context, doc string, candidates []latex.MusicEntity) ([]latex.MusicEntity, error)
}

// Factory constructs a strategy from pass-through options.
type Factory func(Options) (Strategy, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register adds a strategy factory under the given name. Built-ins
// register themselves at init time; external strategies may do the same
// before the pipeline starts. Re-registering a name is an error.
func Register(name string, factory Factory) error {
	if name == "" || factory == nil {
		return fmt.Errorf("agent register: name and factory required")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		return fmt.Errorf("agent register: %q already registered", name)
	}
	registry[name] = factory
	return nil
}

// New resolves a strategy name against the registry and constructs it.
func New(name string, opts Options) (Strategy, error) {
	registryMu.RLock()
	factory := registry[name]
	registryMu.RUnlock()
	if factory == nil {
		return nil, services.Wrap(services.ErrNotFound, "agent", "load", fmt.Sprintf("unknown agent strategy %q", name), nil)
	}
	strategy, err := factory(opts)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "agent", "construct", name, err)
	}
	return strategy, nil
}

// Names returns the registered strategy names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
