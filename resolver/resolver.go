/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package resolver

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/suparena/contenttemplate/datastore"
	"github.com/suparena/contenttemplate/errors"
	"github.com/suparena/contenttemplate/storagemodels"
)

// AccessPolicy is consulted before every call the Resolver routes. A
// non-nil error rejects the call and is returned unchanged.
type AccessPolicy func(ctx context.Context, op string, addr storagemodels.Address) error

// Option configures a Resolver
type Option func(*Resolver)

// WithLogger sets the logger used for registration and client lifecycle events
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithAccessPolicy installs a policy checked on every routed call
func WithAccessPolicy(policy AccessPolicy) Option {
	return func(r *Resolver) {
		r.policy = policy
	}
}

// Resolver is a thread-safe broker mapping authorities to providers. It
// implements datastore.Provider by resolving the authority of each call.
type Resolver struct {
	mu        sync.RWMutex
	providers map[string]registration
	gen       uint64
	policy    AccessPolicy
	logger    *slog.Logger
}

// registration is one Register call. gen identifies it, so a client can
// tell its provider apart from a later one under the same authority.
type registration struct {
	provider datastore.Provider
	gen      uint64
}

var _ datastore.Provider = (*Resolver)(nil)

// New creates an empty Resolver
func New(opts ...Option) *Resolver {
	r := &Resolver{
		providers: make(map[string]registration),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register makes p reachable under authority.
func (r *Resolver) Register(authority string, p datastore.Provider) error {
	if authority == "" {
		return errors.NewValidationError("authority", "authority is required")
	}
	if p == nil {
		return errors.NewValidationError("provider", "provider is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[authority]; exists {
		return errors.NewValidationError("authority", "provider for authority "+authority+" already registered")
	}
	r.gen++
	r.providers[authority] = registration{provider: p, gen: r.gen}
	r.logger.Debug("registered provider", "authority", authority)
	return nil
}

// Unregister removes the provider for authority and returns it. Clients
// already bound to it fail from then on.
func (r *Resolver) Unregister(authority string) (datastore.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, exists := r.providers[authority]
	if !exists {
		return nil, errors.NewNotFoundError("authority", authority)
	}
	delete(r.providers, authority)
	r.logger.Debug("unregistered provider", "authority", authority)
	return reg.provider, nil
}

// Authorities returns all registered authorities in sorted order
func (r *Resolver) Authorities() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.providers))
	for k := range r.providers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *Resolver) lookup(authority string) (registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.providers[authority]
	return reg, ok
}

func (r *Resolver) resolve(ctx context.Context, op string, addr storagemodels.Address) (datastore.Provider, bool, error) {
	reg, ok := r.lookup(addr.Authority)
	if !ok {
		return nil, false, nil
	}
	if r.policy != nil {
		if err := r.policy(ctx, op, addr); err != nil {
			return nil, true, err
		}
	}
	return reg.provider, true, nil
}

// Insert routes to the provider registered for addr's authority
func (r *Resolver) Insert(ctx context.Context, addr storagemodels.Address, values storagemodels.Values) (storagemodels.Address, error) {
	p, ok, err := r.resolve(ctx, "insert", addr)
	if err != nil {
		return storagemodels.Address{}, err
	}
	if !ok {
		return storagemodels.Address{}, errors.NewNotFoundError("authority", addr.Authority)
	}
	return p.Insert(ctx, addr, values)
}

// Query routes to the provider registered for the address's authority. An
// unknown authority yields a nil cursor and no error.
func (r *Resolver) Query(ctx context.Context, params *storagemodels.QueryParams) (datastore.Cursor, error) {
	if params == nil {
		return nil, errors.NewValidationError("params", "query parameters are required")
	}
	p, ok, err := r.resolve(ctx, "query", params.Address)
	if err != nil || !ok {
		return nil, err
	}
	return p.Query(ctx, params)
}

// Update routes to the provider registered for addr's authority
func (r *Resolver) Update(ctx context.Context, addr storagemodels.Address, values storagemodels.Values, sel *storagemodels.Selection) (int64, error) {
	p, ok, err := r.resolve(ctx, "update", addr)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.NewNotFoundError("authority", addr.Authority)
	}
	return p.Update(ctx, addr, values, sel)
}

// Delete routes to the provider registered for addr's authority
func (r *Resolver) Delete(ctx context.Context, addr storagemodels.Address, sel *storagemodels.Selection) (int64, error) {
	p, ok, err := r.resolve(ctx, "delete", addr)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.NewNotFoundError("authority", addr.Authority)
	}
	return p.Delete(ctx, addr, sel)
}

// Close unregisters every provider and closes those implementing io.Closer.
// The first close error is returned after all providers were visited.
func (r *Resolver) Close() error {
	r.mu.Lock()
	providers := r.providers
	r.providers = make(map[string]registration)
	r.mu.Unlock()

	var first error
	for authority, reg := range providers {
		c, ok := reg.provider.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			r.logger.Warn("failed to close provider", "authority", authority, "error", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}
