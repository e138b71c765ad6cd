/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"github.com/suparena/contenttemplate/errors"
)

// RowsCursor is a Cursor over rows that are already in memory. Backends that
// materialize a result (a document scan, a single item lookup) return one.
type RowsCursor struct {
	columns []string
	rows    [][]any
	pos     int
	closed  bool
}

var _ Cursor = (*RowsCursor)(nil)

// NewRowsCursor creates a cursor positioned before the first of rows. Each
// row must have one value per column.
func NewRowsCursor(columns []string, rows [][]any) *RowsCursor {
	return &RowsCursor{
		columns: columns,
		rows:    rows,
		pos:     -1,
	}
}

// Count returns the number of rows.
func (c *RowsCursor) Count() int {
	return len(c.rows)
}

func (c *RowsCursor) Next() bool {
	if c.closed || c.pos >= len(c.rows) {
		return false
	}
	c.pos++
	return c.pos < len(c.rows)
}

func (c *RowsCursor) Err() error {
	return nil
}

func (c *RowsCursor) Columns() []string {
	return c.columns
}

func (c *RowsCursor) ColumnIndex(name string) int {
	return IndexOf(c.columns, name)
}

func (c *RowsCursor) Position() int {
	return c.pos
}

func (c *RowsCursor) value(i int) (any, error) {
	if c.closed {
		return nil, errors.NewStateError("read cursor", "cursor is closed")
	}
	if c.pos < 0 || c.pos >= len(c.rows) {
		return nil, errors.NewStateError("read cursor", "cursor is not positioned on a row")
	}
	row := c.rows[c.pos]
	if i < 0 || i >= len(c.columns) || i >= len(row) {
		return nil, errors.NewColumnIndexError(i)
	}
	return row[i], nil
}

func (c *RowsCursor) IsNull(i int) (bool, error) {
	v, err := c.value(i)
	if err != nil {
		return false, err
	}
	return v == nil, nil
}

func (c *RowsCursor) Int(i int) (int32, error) {
	n, err := c.Long(i)
	return int32(n), err
}

func (c *RowsCursor) Long(i int) (int64, error) {
	v, err := c.value(i)
	if err != nil {
		return 0, err
	}
	return ToInt64(v)
}

func (c *RowsCursor) Float(i int) (float32, error) {
	f, err := c.Double(i)
	return float32(f), err
}

func (c *RowsCursor) Double(i int) (float64, error) {
	v, err := c.value(i)
	if err != nil {
		return 0, err
	}
	return ToFloat64(v)
}

func (c *RowsCursor) String(i int) (string, error) {
	v, err := c.value(i)
	if err != nil {
		return "", err
	}
	return ToString(v)
}

func (c *RowsCursor) Blob(i int) ([]byte, error) {
	v, err := c.value(i)
	if err != nil {
		return nil, err
	}
	return ToBlob(v)
}

// Close releases the rows. Closing twice is a no-op.
func (c *RowsCursor) Close() error {
	c.closed = true
	c.rows = nil
	return nil
}
