package model

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// ErrUnknownProvider is returned by NewNormalizer for unregistered names.
var ErrUnknownProvider = errors.New("unknown provider")

// NormalizerFactory creates a Normalizer that reports diagnostics to log.
// Provider packages register one from init so that model does not import them.
type NormalizerFactory func(log zerolog.Logger) Normalizer

var (
	registryMu sync.RWMutex
	registry   = make(map[string]NormalizerFactory)
)

// Register makes a provider available under name. A later registration for
// the same name replaces the earlier one.
func Register(name string, factory NormalizerFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// NewNormalizer creates a normalizer for the named provider.
func NewNormalizer(name string, log zerolog.Logger) (Normalizer, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok || factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return factory(log), nil
}

// Providers returns the registered provider names in sorted order.
func Providers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
