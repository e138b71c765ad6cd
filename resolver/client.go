/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/suparena/contenttemplate/datastore"
	"github.com/suparena/contenttemplate/errors"
	"github.com/suparena/contenttemplate/storagemodels"
)

// Client is a dedicated connection to the provider of one authority.
// It is not safe for concurrent use.
type Client struct {
	authority string
	resolver  *Resolver
	provider  datastore.Provider
	gen       uint64
	released  bool
	logger    *slog.Logger
}

var _ datastore.Provider = (*Client)(nil)

// AcquireClient binds a Client to the provider registered for authority.
func (r *Resolver) AcquireClient(authority string) (*Client, error) {
	reg, ok := r.lookup(authority)
	if !ok {
		return nil, errors.NewNotFoundError("authority", authority)
	}
	r.logger.Debug("acquired provider client", "authority", authority)
	return &Client{
		authority: authority,
		resolver:  r,
		provider:  reg.provider,
		gen:       reg.gen,
		logger:    r.logger,
	}, nil
}

// Authority returns the authority the client is bound to
func (c *Client) Authority() string {
	return c.authority
}

// target checks that addr belongs to the client and that the connection is
// still live. A provider that was unregistered or replaced counts as dead.
func (c *Client) target(addr storagemodels.Address) (datastore.Provider, error) {
	if addr.Authority != c.authority {
		return nil, errors.NewValidationError("address",
			fmt.Sprintf("authority %q does not match client authority %q", addr.Authority, c.authority))
	}
	if c.released {
		return nil, errors.Remote(fmt.Errorf("client for %q was released", c.authority))
	}
	if reg, ok := c.resolver.lookup(c.authority); !ok || reg.gen != c.gen {
		return nil, errors.Remote(fmt.Errorf("provider for %q is gone", c.authority))
	}
	return c.provider, nil
}

func (c *Client) Insert(ctx context.Context, addr storagemodels.Address, values storagemodels.Values) (storagemodels.Address, error) {
	p, err := c.target(addr)
	if err != nil {
		return storagemodels.Address{}, err
	}
	return p.Insert(ctx, addr, values)
}

func (c *Client) Query(ctx context.Context, params *storagemodels.QueryParams) (datastore.Cursor, error) {
	if params == nil {
		return nil, errors.NewValidationError("params", "query parameters are required")
	}
	p, err := c.target(params.Address)
	if err != nil {
		return nil, err
	}
	return p.Query(ctx, params)
}

func (c *Client) Update(ctx context.Context, addr storagemodels.Address, values storagemodels.Values, sel *storagemodels.Selection) (int64, error) {
	p, err := c.target(addr)
	if err != nil {
		return 0, err
	}
	return p.Update(ctx, addr, values, sel)
}

func (c *Client) Delete(ctx context.Context, addr storagemodels.Address, sel *storagemodels.Selection) (int64, error) {
	p, err := c.target(addr)
	if err != nil {
		return 0, err
	}
	return p.Delete(ctx, addr, sel)
}

// Release frees the connection. It reports false when the client was
// already released.
func (c *Client) Release() bool {
	if c.released {
		return false
	}
	c.released = true
	c.logger.Debug("released provider client", "authority", c.authority)
	return true
}

// Close frees the connection. Closing twice is an invalid-state error.
func (c *Client) Close() error {
	if !c.Release() {
		return errors.NewStateError("close client", fmt.Sprintf("client for %q already released", c.authority))
	}
	return nil
}
