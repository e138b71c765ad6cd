/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock

import (
	"fmt"
	"sync"

	"github.com/suparena/contenttemplate/datastore"
	"github.com/suparena/contenttemplate/errors"
)

// Cursor is a datastore.Cursor test double. It counts closes and records a
// violation for every read after close, every extra close and, in strict
// mode, every native getter invoked on a null cell.
type Cursor struct {
	mu          sync.Mutex
	columns     []string
	rows        [][]any
	pos         int
	closes      int
	strictNulls bool
	iterErr     error
	violations  []string
}

var _ datastore.Cursor = (*Cursor)(nil)

// NewCursor creates a cursor over rows.
func NewCursor(columns []string, rows ...[]any) *Cursor {
	return &Cursor{
		columns: columns,
		rows:    rows,
		pos:     -1,
	}
}

// WithStrictNulls makes native getters fail on null cells
func (c *Cursor) WithStrictNulls() *Cursor {
	c.strictNulls = true
	return c
}

// WithIterationError makes Next stop after the rows and Err report err
func (c *Cursor) WithIterationError(err error) *Cursor {
	c.iterErr = err
	return c
}

// Helper methods for testing

// CloseCount returns how many times Close was called
func (c *Cursor) CloseCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

// Closed reports whether Close was called at least once
func (c *Cursor) Closed() bool {
	return c.CloseCount() > 0
}

// Violations returns the recorded contract violations
func (c *Cursor) Violations() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.violations...)
}

func (c *Cursor) violate(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	c.violations = append(c.violations, msg)
	return errors.NewStateError("read cursor", msg)
}

func (c *Cursor) Next() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closes > 0 {
		_ = c.violate("Next called after Close")
		return false
	}
	if c.pos >= len(c.rows) {
		return false
	}
	c.pos++
	return c.pos < len(c.rows)
}

func (c *Cursor) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pos >= len(c.rows) {
		return c.iterErr
	}
	return nil
}

func (c *Cursor) Columns() []string {
	return c.columns
}

func (c *Cursor) ColumnIndex(name string) int {
	return datastore.IndexOf(c.columns, name)
}

func (c *Cursor) Position() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos
}

func (c *Cursor) value(i int, native bool) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closes > 0 {
		return nil, c.violate("column %d read after Close", i)
	}
	if c.pos < 0 || c.pos >= len(c.rows) {
		return nil, errors.NewStateError("read cursor", "cursor is not positioned on a row")
	}
	row := c.rows[c.pos]
	if i < 0 || i >= len(c.columns) || i >= len(row) {
		return nil, errors.NewColumnIndexError(i)
	}
	if native && c.strictNulls && row[i] == nil {
		return nil, c.violate("native getter invoked on null column %d", i)
	}
	return row[i], nil
}

func (c *Cursor) IsNull(i int) (bool, error) {
	v, err := c.value(i, false)
	if err != nil {
		return false, err
	}
	return v == nil, nil
}

func (c *Cursor) Int(i int) (int32, error) {
	n, err := c.Long(i)
	return int32(n), err
}

func (c *Cursor) Long(i int) (int64, error) {
	v, err := c.value(i, true)
	if err != nil {
		return 0, err
	}
	return datastore.ToInt64(v)
}

func (c *Cursor) Float(i int) (float32, error) {
	f, err := c.Double(i)
	return float32(f), err
}

func (c *Cursor) Double(i int) (float64, error) {
	v, err := c.value(i, true)
	if err != nil {
		return 0, err
	}
	return datastore.ToFloat64(v)
}

func (c *Cursor) String(i int) (string, error) {
	v, err := c.value(i, true)
	if err != nil {
		return "", err
	}
	return datastore.ToString(v)
}

func (c *Cursor) Blob(i int) ([]byte, error) {
	v, err := c.value(i, true)
	if err != nil {
		return nil, err
	}
	return datastore.ToBlob(v)
}

func (c *Cursor) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closes++
	if c.closes > 1 {
		_ = c.violate("Close called %d times", c.closes)
	}
	return nil
}
