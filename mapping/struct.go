/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/contenttemplate/columns"
	"github.com/suparena/contenttemplate/datastore"
	"github.com/suparena/contenttemplate/errors"
	"github.com/suparena/contenttemplate/registry"
	"github.com/suparena/contenttemplate/storagemodels"
)

var (
	dateTimeType = reflect.TypeOf(strfmt.DateTime{})
	timeType     = reflect.TypeOf(time.Time{})
)

type fieldColumn struct {
	field     string
	index     []int
	column    string
	omitEmpty bool
}

// fieldsFor resolves the field -> column associations of struct type T,
// from the column map registry when T is registered and from `column`
// struct tags otherwise. A tag of the form `column:"name,omitempty"` leaves
// zero values out of written values.
func fieldsFor[T any]() ([]fieldColumn, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		return nil, errors.NewValidationError("type", fmt.Sprintf("%s is not a struct", t))
	}

	var fields []fieldColumn
	if m, ok := registry.GetColumnMap[T](); ok {
		for name, column := range m {
			sf, ok := t.FieldByName(name)
			if !ok || !sf.IsExported() {
				return nil, errors.NewValidationError(name, fmt.Sprintf("%s has no exported field %s", t, name))
			}
			fields = append(fields, fieldColumn{field: name, index: sf.Index, column: column})
		}
	} else {
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			column, opts, _ := strings.Cut(sf.Tag.Get("column"), ",")
			if !sf.IsExported() || column == "" || column == "-" {
				continue
			}
			fields = append(fields, fieldColumn{
				field:     sf.Name,
				index:     sf.Index,
				column:    column,
				omitEmpty: opts == "omitempty",
			})
		}
	}

	if len(fields) == 0 {
		return nil, errors.NewValidationError("type", fmt.Sprintf("%s has no mapped columns", t))
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].column < fields[j].column })
	return fields, nil
}

// NewStructRowMapper returns a RowMapper that fills the mapped fields of T
// from the columns of the same name. Fields whose column is absent from the
// cursor are left unset; null cells set the zero value.
func NewStructRowMapper[T any]() (RowMapper[T], error) {
	fields, err := fieldsFor[T]()
	if err != nil {
		return nil, err
	}

	return RowMapperFunc[T](func(c datastore.Cursor, _ int) (T, error) {
		var obj T
		v := reflect.ValueOf(&obj).Elem()
		for _, f := range fields {
			i := c.ColumnIndex(f.column)
			if i < 0 {
				continue
			}
			if err := setField(v.FieldByIndex(f.index), c, i); err != nil {
				return obj, fmt.Errorf("failed to map column %q to field %s: %w", f.column, f.field, err)
			}
		}
		return obj, nil
	}), nil
}

// NewStructValueMapper returns a ValueMapper that writes every mapped field
// of T to its column. Nil pointers are written as null unless the field is
// tagged omitempty.
func NewStructValueMapper[T any]() (ValueMapper[T], error) {
	fields, err := fieldsFor[T]()
	if err != nil {
		return nil, err
	}

	return ValueMapperFunc[T](func(obj T) (storagemodels.Values, error) {
		v := reflect.ValueOf(obj)
		values := make(storagemodels.Values, len(fields))
		for _, f := range fields {
			fv := v.FieldByIndex(f.index)
			if f.omitEmpty && fv.IsZero() {
				continue
			}
			val, err := fieldValue(fv)
			if err != nil {
				return nil, fmt.Errorf("failed to map field %s to column %q: %w", f.field, f.column, err)
			}
			values[f.column] = val
		}
		return values, nil
	}), nil
}

func setField(v reflect.Value, c datastore.Cursor, i int) error {
	null, err := c.IsNull(i)
	if err != nil {
		return err
	}
	if null {
		v.Set(reflect.Zero(v.Type()))
		return nil
	}

	if v.Kind() == reflect.Pointer {
		elem := reflect.New(v.Type().Elem())
		if err := setScalar(elem.Elem(), c, i); err != nil {
			return err
		}
		v.Set(elem)
		return nil
	}
	return setScalar(v, c, i)
}

func setScalar(v reflect.Value, c datastore.Cursor, i int) error {
	switch v.Type() {
	case dateTimeType, timeType:
		dt, err := columns.DateTimeAt(c, i)
		if err != nil || dt == nil {
			return err
		}
		if v.Type() == timeType {
			v.Set(reflect.ValueOf(time.Time(*dt)))
		} else {
			v.Set(reflect.ValueOf(*dt))
		}
		return nil
	}

	switch v.Kind() {
	case reflect.String:
		s, err := c.String(i)
		if err != nil {
			return err
		}
		v.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := c.Long(i)
		if err != nil {
			return err
		}
		if v.OverflowInt(n) {
			return fmt.Errorf("value %d overflows %s", n, v.Type())
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := c.Long(i)
		if err != nil {
			return err
		}
		if n < 0 || v.OverflowUint(uint64(n)) {
			return fmt.Errorf("value %d overflows %s", n, v.Type())
		}
		v.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		f, err := c.Double(i)
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.Bool:
		n, err := c.Int(i)
		if err != nil {
			return err
		}
		v.SetBool(n == 1)
	case reflect.Slice:
		if v.Type().Elem().Kind() != reflect.Uint8 {
			return fmt.Errorf("unsupported field type %s", v.Type())
		}
		b, err := c.Blob(i)
		if err != nil {
			return err
		}
		v.SetBytes(b)
	default:
		return fmt.Errorf("unsupported field type %s", v.Type())
	}
	return nil
}

func fieldValue(v reflect.Value) (any, error) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}

	switch v.Type() {
	case dateTimeType:
		return v.Interface().(strfmt.DateTime).String(), nil
	case timeType:
		return v.Interface().(time.Time).UTC().Format(time.RFC3339Nano), nil
	}

	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("value %d overflows int64", u)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return v.Bytes(), nil
		}
	}
	return nil, fmt.Errorf("unsupported field type %s", v.Type())
}
