/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/suparena/contenttemplate/datastore"
)

// BackendSpec carries the settings a backend needs to open a provider.
// Each backend reads the fields that apply to it.
type BackendSpec struct {
	Kind      string
	Authority string
	DSN       string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
	KeyColumn string
}

// BackendFunc opens a provider for spec. Providers that hold resources
// should also implement io.Closer.
type BackendFunc func(ctx context.Context, spec BackendSpec, logger *slog.Logger) (datastore.Provider, error)

var (
	backendRegistry = make(map[string]BackendFunc)
	backendMu       sync.RWMutex
)

// RegisterBackend registers a provider constructor for a backend kind.
// If a backend is already registered for the kind, it panics to prevent accidental overrides.
func RegisterBackend(kind string, fn BackendFunc) {
	backendMu.Lock()
	defer backendMu.Unlock()

	if _, exists := backendRegistry[kind]; exists {
		panic(fmt.Sprintf("backend registry: backend %q already registered", kind))
	}
	backendRegistry[kind] = fn
}

// GetBackend returns the registered constructor for the given kind.
// If no constructor is registered, it returns an error.
func GetBackend(kind string) (BackendFunc, error) {
	backendMu.RLock()
	defer backendMu.RUnlock()

	fn, ok := backendRegistry[kind]
	if !ok {
		return nil, fmt.Errorf("backend registry: no backend registered for kind %q", kind)
	}
	return fn, nil
}

// Backends returns the registered backend kinds in sorted order.
func Backends() []string {
	backendMu.RLock()
	defer backendMu.RUnlock()

	kinds := make([]string, 0, len(backendRegistry))
	for k := range backendRegistry {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
