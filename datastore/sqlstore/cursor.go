/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlstore

import (
	"database/sql"
	"fmt"

	"github.com/suparena/contenttemplate/datastore"
	"github.com/suparena/contenttemplate/errors"
)

// rowsCursor streams *sql.Rows. Each row is scanned once on Next and read
// from memory afterwards.
type rowsCursor struct {
	rows    *sql.Rows
	columns []string
	current []any
	pos     int
	err     error
	closed  bool
}

var _ datastore.Cursor = (*rowsCursor)(nil)

func newRowsCursor(rows *sql.Rows) (*rowsCursor, error) {
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}
	return &rowsCursor{rows: rows, columns: cols, pos: -1}, nil
}

// drain reads every remaining row into memory and closes c, releasing its
// connection.
func (c *rowsCursor) drain() (*datastore.RowsCursor, error) {
	var rows [][]any
	for c.Next() {
		rows = append(rows, c.current)
	}
	err := c.Err()
	if cerr := c.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	return datastore.NewRowsCursor(c.columns, rows), nil
}

func (c *rowsCursor) Next() bool {
	if c.closed || c.err != nil {
		return false
	}
	if !c.rows.Next() {
		c.current = nil
		return false
	}

	values := make([]any, len(c.columns))
	ptrs := make([]any, len(c.columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := c.rows.Scan(ptrs...); err != nil {
		c.err = fmt.Errorf("failed to scan row %d: %w", c.pos+1, err)
		c.current = nil
		return false
	}

	c.current = values
	c.pos++
	return true
}

func (c *rowsCursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.rows.Err()
}

func (c *rowsCursor) Columns() []string {
	return c.columns
}

func (c *rowsCursor) ColumnIndex(name string) int {
	return datastore.IndexOf(c.columns, name)
}

func (c *rowsCursor) Position() int {
	return c.pos
}

func (c *rowsCursor) value(i int) (any, error) {
	if c.closed {
		return nil, errors.NewStateError("read cursor", "cursor is closed")
	}
	if c.current == nil {
		return nil, errors.NewStateError("read cursor", "cursor is not positioned on a row")
	}
	if i < 0 || i >= len(c.current) {
		return nil, errors.NewColumnIndexError(i)
	}
	return c.current[i], nil
}

func (c *rowsCursor) IsNull(i int) (bool, error) {
	v, err := c.value(i)
	return v == nil && err == nil, err
}

func (c *rowsCursor) Int(i int) (int32, error) {
	n, err := c.Long(i)
	return int32(n), err
}

func (c *rowsCursor) Long(i int) (int64, error) {
	v, err := c.value(i)
	if err != nil {
		return 0, err
	}
	return datastore.ToInt64(v)
}

func (c *rowsCursor) Float(i int) (float32, error) {
	f, err := c.Double(i)
	return float32(f), err
}

func (c *rowsCursor) Double(i int) (float64, error) {
	v, err := c.value(i)
	if err != nil {
		return 0, err
	}
	return datastore.ToFloat64(v)
}

func (c *rowsCursor) String(i int) (string, error) {
	v, err := c.value(i)
	if err != nil {
		return "", err
	}
	return datastore.ToString(v)
}

func (c *rowsCursor) Blob(i int) ([]byte, error) {
	v, err := c.value(i)
	if err != nil {
		return nil, err
	}
	return datastore.ToBlob(v)
}

func (c *rowsCursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.current = nil
	return c.rows.Close()
}
