/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package contenttemplate

import (
	"context"
	"io"
	"log/slog"

	"github.com/suparena/contenttemplate/datastore"
	"github.com/suparena/contenttemplate/errors"
	"github.com/suparena/contenttemplate/storagemodels"
)

// Gateway is the uniform data-access capability a Template runs against.
type Gateway interface {
	Insert(ctx context.Context, addr storagemodels.Address, values storagemodels.Values) (storagemodels.Address, error)
	Query(ctx context.Context, params *storagemodels.QueryParams) (datastore.Cursor, error)
	Update(ctx context.Context, addr storagemodels.Address, values storagemodels.Values, sel *storagemodels.Selection) (int64, error)
	Delete(ctx context.Context, addr storagemodels.Address, sel *storagemodels.Selection) (int64, error)

	// Release frees the underlying connection. Gateways without one
	// return an invalid-state error.
	Release() error
}

// ProviderClient is a dedicated connection to a provider. Clients that
// also implement io.Closer are released through Close.
type ProviderClient interface {
	datastore.Provider
	Release() bool
}

// Option configures a Template or Gateway
type Option func(*options)

type options struct {
	logger        *slog.Logger
	legacyRelease bool
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLegacyRelease releases provider clients through Release even when
// they implement Close.
func WithLegacyRelease() Option {
	return func(o *options) {
		o.legacyRelease = true
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// resolverGateway delegates to a shared provider without translating errors.
type resolverGateway struct {
	provider datastore.Provider
}

// NewResolverGateway returns a Gateway over a shared provider such as a
// resolver.Resolver. Errors pass through unchanged.
func NewResolverGateway(p datastore.Provider) (Gateway, error) {
	if p == nil {
		return nil, errors.NewValidationError("resolver", "resolver is required")
	}
	return &resolverGateway{provider: p}, nil
}

func (g *resolverGateway) Insert(ctx context.Context, addr storagemodels.Address, values storagemodels.Values) (storagemodels.Address, error) {
	return g.provider.Insert(ctx, addr, values)
}

func (g *resolverGateway) Query(ctx context.Context, params *storagemodels.QueryParams) (datastore.Cursor, error) {
	return g.provider.Query(ctx, params)
}

func (g *resolverGateway) Update(ctx context.Context, addr storagemodels.Address, values storagemodels.Values, sel *storagemodels.Selection) (int64, error) {
	return g.provider.Update(ctx, addr, values, sel)
}

func (g *resolverGateway) Delete(ctx context.Context, addr storagemodels.Address, sel *storagemodels.Selection) (int64, error) {
	return g.provider.Delete(ctx, addr, sel)
}

func (g *resolverGateway) Release() error {
	return errors.NewStateError("release client", "template is not backed by a provider client")
}

// clientGateway delegates to a dedicated provider client and reports its
// transport failures as unrecoverable.
type clientGateway struct {
	client  ProviderClient
	release func() error
	logger  *slog.Logger
}

// NewClientGateway returns a Gateway over a dedicated provider client.
// The release primitive is chosen here: Close when the client has it,
// unless WithLegacyRelease is given, and Release otherwise.
func NewClientGateway(client ProviderClient, opts ...Option) (Gateway, error) {
	if client == nil {
		return nil, errors.NewValidationError("client", "provider client is required")
	}
	o := buildOptions(opts)

	g := &clientGateway{client: client, logger: o.logger}
	if closer, ok := client.(io.Closer); ok && !o.legacyRelease {
		g.release = closer.Close
	} else {
		g.release = func() error {
			if !client.Release() {
				return errors.NewStateError("release client", "client already released")
			}
			return nil
		}
	}
	return g, nil
}

// translate re-signals transport failures as unrecoverable. Everything
// else passes through.
func (g *clientGateway) translate(op string, err error) error {
	if err == nil || !errors.IsRemote(err) {
		return err
	}
	g.logger.Debug("provider client failed", "operation", op, "error", err)
	return errors.NewUnrecoverableError(op, err)
}

func (g *clientGateway) Insert(ctx context.Context, addr storagemodels.Address, values storagemodels.Values) (storagemodels.Address, error) {
	out, err := g.client.Insert(ctx, addr, values)
	return out, g.translate("insert", err)
}

func (g *clientGateway) Query(ctx context.Context, params *storagemodels.QueryParams) (datastore.Cursor, error) {
	cur, err := g.client.Query(ctx, params)
	if err != nil {
		return nil, g.translate("query", err)
	}
	return cur, nil
}

func (g *clientGateway) Update(ctx context.Context, addr storagemodels.Address, values storagemodels.Values, sel *storagemodels.Selection) (int64, error) {
	n, err := g.client.Update(ctx, addr, values, sel)
	return n, g.translate("update", err)
}

func (g *clientGateway) Delete(ctx context.Context, addr storagemodels.Address, sel *storagemodels.Selection) (int64, error) {
	n, err := g.client.Delete(ctx, addr, sel)
	return n, g.translate("delete", err)
}

func (g *clientGateway) Release() error {
	return g.release()
}
