package filter

import (
	"sync"

	"github.com/edaniels/golog"

	"go.viam.com/controlfilters/referenceframe"
)

// A Constructor builds an unconfigured filter instance. Filters that never
// look up transforms may ignore the provider.
type Constructor func(name string, provider referenceframe.TransformProvider, logger golog.Logger) WrenchFilter

var (
	registryMu sync.RWMutex
	registry   = map[string]Constructor{}
)

// RegisterModel associates a filter model name with its constructor. It is
// expected to be called from init() and panics on a duplicate registration.
func RegisterModel(model string, c Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if model == "" {
		panic("filter model name must not be empty")
	}
	if c == nil {
		panic("filter constructor must not be nil")
	}
	if _, exists := registry[model]; exists {
		panic("duplicate registration of filter model " + model)
	}
	registry[model] = c
}

// LookupModel returns the constructor registered under the given model name.
func LookupModel(model string) (Constructor, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := registry[model]
	return c, ok
}

// RegisteredModels returns the names of all registered filter models.
func RegisteredModels() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	var models []string
	for model := range registry {
		models = append(models, model)
	}
	return models
}
