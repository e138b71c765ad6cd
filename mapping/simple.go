/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"github.com/suparena/contenttemplate/columns"
	"github.com/suparena/contenttemplate/datastore"
)

// NamedColumnBlob maps each row to the bytes stored in one column.
func NamedColumnBlob(column string) RowMapper[[]byte] {
	return RowMapperFunc[[]byte](func(c datastore.Cursor, _ int) ([]byte, error) {
		return columns.Blob(c, column)
	})
}

// NamedColumnString maps each row to the text stored in one column.
func NamedColumnString(column string) RowMapper[string] {
	return RowMapperFunc[string](func(c datastore.Cursor, _ int) (string, error) {
		return columns.RequiredString(c, column)
	})
}

// NamedColumnLong maps each row to the integer stored in one column.
func NamedColumnLong(column string) RowMapper[int64] {
	return RowMapperFunc[int64](func(c datastore.Cursor, _ int) (int64, error) {
		return columns.RequiredLong(c, column)
	})
}
