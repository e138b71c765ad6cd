/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock

import (
	"sync"

	"github.com/suparena/contenttemplate/datastore"
	"github.com/suparena/contenttemplate/errors"
)

// LegacyClient is a provider client double that only offers the Release
// primitive.
type LegacyClient struct {
	datastore.Provider

	mu       sync.Mutex
	releases int
}

// NewLegacyClient wraps p as a client without a Close method
func NewLegacyClient(p datastore.Provider) *LegacyClient {
	return &LegacyClient{Provider: p}
}

// Release records the call and reports whether it was the first
func (c *LegacyClient) Release() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releases++
	return c.releases == 1
}

// Releases returns how many times Release was called
func (c *LegacyClient) Releases() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.releases
}

// Client is a provider client double offering both Release and Close.
type Client struct {
	LegacyClient

	closes   int
	closeErr error
}

// NewClient wraps p as a client with a Close method
func NewClient(p datastore.Provider) *Client {
	return &Client{LegacyClient: LegacyClient{Provider: p}}
}

// WithCloseError makes Close return err
func (c *Client) WithCloseError(err error) *Client {
	c.closeErr = err
	return c
}

// Close records the call. A second Close fails with an invalid-state error.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	if c.closes > 1 {
		return errors.NewStateError("close client", "client already closed")
	}
	return c.closeErr
}

// Closes returns how many times Close was called
func (c *Client) Closes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}
