/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"github.com/suparena/contenttemplate/datastore"
	"github.com/suparena/contenttemplate/storagemodels"
)

// RowMapper maps the cursor's current row to one object. row is the
// zero-based index of the row within the result. Implementations must not
// move or close the cursor.
type RowMapper[T any] interface {
	MapRow(c datastore.Cursor, row int) (T, error)
}

// RowMapperFunc adapts a function to a RowMapper.
type RowMapperFunc[T any] func(c datastore.Cursor, row int) (T, error)

func (f RowMapperFunc[T]) MapRow(c datastore.Cursor, row int) (T, error) {
	return f(c, row)
}

// RowCallback consumes the cursor's current row for its side effects.
type RowCallback interface {
	ProcessRow(c datastore.Cursor) error
}

// RowCallbackFunc adapts a function to a RowCallback.
type RowCallbackFunc func(c datastore.Cursor) error

func (f RowCallbackFunc) ProcessRow(c datastore.Cursor) error {
	return f(c)
}

// ValueMapper maps an object to the column values to write for it.
type ValueMapper[T any] interface {
	MapValues(obj T) (storagemodels.Values, error)
}

// ValueMapperFunc adapts a function to a ValueMapper.
type ValueMapperFunc[T any] func(obj T) (storagemodels.Values, error)

func (f ValueMapperFunc[T]) MapValues(obj T) (storagemodels.Values, error) {
	return f(obj)
}
