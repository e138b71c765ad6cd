/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package columns

import (
	"fmt"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/contenttemplate/datastore"
	"github.com/suparena/contenttemplate/errors"
)

func index(c datastore.Cursor, column string) (int, error) {
	i := c.ColumnIndex(column)
	if i < 0 {
		return -1, errors.NewColumnNameError(column)
	}
	return i, nil
}

func required[T any](c datastore.Cursor, column string, get func(int) (T, error)) (T, error) {
	i, err := index(c, column)
	if err != nil {
		var zero T
		return zero, err
	}
	return get(i)
}

// nullable checks for null before invoking the native getter, which is
// never called on a null cell.
func nullable[T any](c datastore.Cursor, i int, get func(int) (T, error)) (*T, error) {
	null, err := c.IsNull(i)
	if err != nil {
		return nil, err
	}
	if null {
		return nil, nil
	}
	v, err := get(i)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func named[T any](c datastore.Cursor, column string, get func(int) (T, error)) (*T, error) {
	i, err := index(c, column)
	if err != nil {
		return nil, err
	}
	return nullable(c, i, get)
}

// RequiredInt reads the named column as a 32-bit integer.
func RequiredInt(c datastore.Cursor, column string) (int32, error) {
	return required(c, column, c.Int)
}

// Int reads the named column as a 32-bit integer, or nil when null.
func Int(c datastore.Cursor, column string) (*int32, error) {
	return named(c, column, c.Int)
}

// IntAt reads column i as a 32-bit integer, or nil when null.
func IntAt(c datastore.Cursor, i int) (*int32, error) {
	return nullable(c, i, c.Int)
}

// RequiredLong reads the named column as a 64-bit integer.
func RequiredLong(c datastore.Cursor, column string) (int64, error) {
	return required(c, column, c.Long)
}

// Long reads the named column as a 64-bit integer, or nil when null.
func Long(c datastore.Cursor, column string) (*int64, error) {
	return named(c, column, c.Long)
}

// LongAt reads column i as a 64-bit integer, or nil when null.
func LongAt(c datastore.Cursor, i int) (*int64, error) {
	return nullable(c, i, c.Long)
}

// RequiredFloat reads the named column as a 32-bit float.
func RequiredFloat(c datastore.Cursor, column string) (float32, error) {
	return required(c, column, c.Float)
}

// Float reads the named column as a 32-bit float, or nil when null.
func Float(c datastore.Cursor, column string) (*float32, error) {
	return named(c, column, c.Float)
}

// FloatAt reads column i as a 32-bit float, or nil when null.
func FloatAt(c datastore.Cursor, i int) (*float32, error) {
	return nullable(c, i, c.Float)
}

// RequiredDouble reads the named column as a 64-bit float.
func RequiredDouble(c datastore.Cursor, column string) (float64, error) {
	return required(c, column, c.Double)
}

// Double reads the named column as a 64-bit float, or nil when null.
func Double(c datastore.Cursor, column string) (*float64, error) {
	return named(c, column, c.Double)
}

// DoubleAt reads column i as a 64-bit float, or nil when null.
func DoubleAt(c datastore.Cursor, i int) (*float64, error) {
	return nullable(c, i, c.Double)
}

// Booleans are stored as integers; only 1 reads as true.
func boolGetter(c datastore.Cursor) func(int) (bool, error) {
	return func(i int) (bool, error) {
		n, err := c.Int(i)
		return n == 1, err
	}
}

// RequiredBool reads the named column as a boolean.
func RequiredBool(c datastore.Cursor, column string) (bool, error) {
	return required(c, column, boolGetter(c))
}

// Bool reads the named column as a boolean, or nil when null.
func Bool(c datastore.Cursor, column string) (*bool, error) {
	return named(c, column, boolGetter(c))
}

// BoolAt reads column i as a boolean, or nil when null.
func BoolAt(c datastore.Cursor, i int) (*bool, error) {
	return nullable(c, i, boolGetter(c))
}

// RequiredString reads the named column as text.
func RequiredString(c datastore.Cursor, column string) (string, error) {
	return required(c, column, c.String)
}

// String reads the named column as text, or nil when null.
func String(c datastore.Cursor, column string) (*string, error) {
	return named(c, column, c.String)
}

// StringAt reads column i as text, or nil when null.
func StringAt(c datastore.Cursor, i int) (*string, error) {
	return nullable(c, i, c.String)
}

// RequiredBlob reads the named column as bytes.
func RequiredBlob(c datastore.Cursor, column string) ([]byte, error) {
	return required(c, column, c.Blob)
}

// Blob reads the named column as bytes, or nil when null.
func Blob(c datastore.Cursor, column string) ([]byte, error) {
	i, err := index(c, column)
	if err != nil {
		return nil, err
	}
	return BlobAt(c, i)
}

// BlobAt reads column i as bytes, or nil when null.
func BlobAt(c datastore.Cursor, i int) ([]byte, error) {
	b, err := nullable(c, i, c.Blob)
	if err != nil || b == nil {
		return nil, err
	}
	return *b, nil
}

func dateTimeGetter(c datastore.Cursor) func(int) (strfmt.DateTime, error) {
	return func(i int) (strfmt.DateTime, error) {
		s, err := c.String(i)
		if err != nil {
			return strfmt.DateTime{}, err
		}
		dt, err := strfmt.ParseDateTime(s)
		if err != nil {
			return strfmt.DateTime{}, fmt.Errorf("column %d: %w", i, err)
		}
		return dt, nil
	}
}

// RequiredDateTime reads the named column as an RFC 3339 date-time.
func RequiredDateTime(c datastore.Cursor, column string) (strfmt.DateTime, error) {
	return required(c, column, dateTimeGetter(c))
}

// DateTime reads the named column as an RFC 3339 date-time, or nil when null.
func DateTime(c datastore.Cursor, column string) (*strfmt.DateTime, error) {
	return named(c, column, dateTimeGetter(c))
}

// DateTimeAt reads column i as an RFC 3339 date-time, or nil when null.
func DateTimeAt(c datastore.Cursor, i int) (*strfmt.DateTime, error) {
	return nullable(c, i, dateTimeGetter(c))
}
