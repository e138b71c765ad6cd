/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// The conversions below define how a stored value is read through each
// native Cursor getter. Null (nil) reads as the zero value.

// ToInt64 converts a stored value to a 64-bit integer. Floats are truncated,
// booleans read as 1 or 0, and text must hold a number.
func ToInt64(v any) (int64, error) {
	switch tv := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return tv, nil
	case int:
		return int64(tv), nil
	case int32:
		return int64(tv), nil
	case int16:
		return int64(tv), nil
	case int8:
		return int64(tv), nil
	case uint:
		if uint64(tv) > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows int64", tv)
		}
		return int64(tv), nil
	case uint64:
		if tv > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows int64", tv)
		}
		return int64(tv), nil
	case uint32:
		return int64(tv), nil
	case uint16:
		return int64(tv), nil
	case uint8:
		return int64(tv), nil
	case float64:
		return int64(tv), nil
	case float32:
		return int64(tv), nil
	case bool:
		if tv {
			return 1, nil
		}
		return 0, nil
	case string:
		return parseInt(tv)
	case []byte:
		return parseInt(string(tv))
	default:
		return 0, fmt.Errorf("cannot read %T as an integer", v)
	}
}

func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot read %q as an integer", s)
	}
	return int64(f), nil
}

// ToFloat64 converts a stored value to a double-precision float.
func ToFloat64(v any) (float64, error) {
	switch tv := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return tv, nil
	case float32:
		return float64(tv), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(tv), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot read %q as a float", tv)
		}
		return f, nil
	case []byte:
		return ToFloat64(string(tv))
	default:
		n, err := ToInt64(v)
		if err != nil {
			return 0, fmt.Errorf("cannot read %T as a float", v)
		}
		return float64(n), nil
	}
}

// ToString converts a stored value to text.
func ToString(v any) (string, error) {
	switch tv := v.(type) {
	case nil:
		return "", nil
	case string:
		return tv, nil
	case []byte:
		return string(tv), nil
	case bool:
		if tv {
			return "1", nil
		}
		return "0", nil
	case float64:
		return strconv.FormatFloat(tv, 'g', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(tv), 'g', -1, 32), nil
	case time.Time:
		return tv.UTC().Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		return tv.String(), nil
	default:
		n, err := ToInt64(v)
		if err != nil {
			return "", fmt.Errorf("cannot read %T as text", v)
		}
		return strconv.FormatInt(n, 10), nil
	}
}

// ToBlob converts a stored value to bytes. The result is a copy.
func ToBlob(v any) ([]byte, error) {
	switch tv := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		out := make([]byte, len(tv))
		copy(out, tv)
		return out, nil
	default:
		s, err := ToString(v)
		if err != nil {
			return nil, fmt.Errorf("cannot read %T as a blob", v)
		}
		return []byte(s), nil
	}
}

// IndexOf returns the index of name in columns, falling back to a
// case-insensitive match, or -1.
func IndexOf(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	for i, c := range columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}
