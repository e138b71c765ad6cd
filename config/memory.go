/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"context"
	"log/slog"

	"github.com/suparena/contenttemplate/datastore"
	"github.com/suparena/contenttemplate/datastore/mock"
	"github.com/suparena/contenttemplate/registry"
)

// MemoryBackend is the backend kind of the in-memory provider. Its data
// lives as long as the process.
const MemoryBackend = "memory"

func init() {
	registry.RegisterBackend(MemoryBackend, func(_ context.Context, spec registry.BackendSpec, logger *slog.Logger) (datastore.Provider, error) {
		if logger != nil {
			logger.Debug("in-memory provider created", "authority", spec.Authority)
		}
		return mock.New(), nil
	})
}
