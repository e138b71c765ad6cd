/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/contenttemplate/storagemodels"
)

// Cursor is a forward-only sequence of rows with named, typed columns.
// A Cursor starts before the first row; call Next to advance.
type Cursor interface {
	// Next advances to the next row, returning false when the rows are
	// exhausted or an error occurred. Err distinguishes the two.
	Next() bool

	// Err returns the error, if any, encountered during iteration.
	Err() error

	// Columns returns the column names in result order.
	Columns() []string

	// ColumnIndex returns the index of the named column, or -1.
	ColumnIndex(name string) int

	// Position returns the zero-based index of the current row, or -1
	// before the first call to Next.
	Position() int

	// IsNull reports whether the value at column i of the current row is null.
	IsNull(i int) (bool, error)

	Int(i int) (int32, error)
	Long(i int) (int64, error)
	Float(i int) (float32, error)
	Double(i int) (float64, error)
	String(i int) (string, error)
	Blob(i int) ([]byte, error)

	// Close releases the cursor's resources.
	Close() error
}

// Provider is a data source reachable through content addresses.
type Provider interface {
	Insert(ctx context.Context, addr storagemodels.Address, values storagemodels.Values) (storagemodels.Address, error)

	Query(ctx context.Context, params *storagemodels.QueryParams) (Cursor, error)

	Update(ctx context.Context, addr storagemodels.Address, values storagemodels.Values, sel *storagemodels.Selection) (int64, error)

	Delete(ctx context.Context, addr storagemodels.Address, sel *storagemodels.Selection) (int64, error)
}
