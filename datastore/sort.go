/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/suparena/contenttemplate/errors"
)

type sortKey struct {
	index int
	desc  bool
}

// parseSortOrder parses "col [ASC|DESC][, col [ASC|DESC]...]" against columns.
func parseSortOrder(columns []string, sortOrder string) ([]sortKey, error) {
	var keys []sortKey
	for _, term := range strings.Split(sortOrder, ",") {
		fields := strings.Fields(term)
		if len(fields) == 0 {
			continue
		}
		if len(fields) > 2 {
			return nil, errors.NewValidationError("sortOrder", fmt.Sprintf("cannot parse %q", term))
		}

		idx := IndexOf(columns, fields[0])
		if idx < 0 {
			return nil, errors.NewColumnNameError(fields[0])
		}

		key := sortKey{index: idx}
		if len(fields) == 2 {
			switch strings.ToUpper(fields[1]) {
			case "ASC":
			case "DESC":
				key.desc = true
			default:
				return nil, errors.NewValidationError("sortOrder", fmt.Sprintf("unknown direction %q", fields[1]))
			}
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// SortColumns returns the columns sortOrder names that are not already in
// columns. Providers that sort in memory read them alongside the projection
// and drop them once the rows are in order.
func SortColumns(columns []string, sortOrder string) []string {
	var extra []string
	for _, term := range strings.Split(sortOrder, ",") {
		fields := strings.Fields(term)
		if len(fields) == 0 {
			continue
		}
		if IndexOf(columns, fields[0]) < 0 && !slices.Contains(extra, fields[0]) {
			extra = append(extra, fields[0])
		}
	}
	return extra
}

// SortRows orders rows in place by sortOrder. Nulls sort first, numbers
// compare numerically, everything else compares as text.
func SortRows(columns []string, rows [][]any, sortOrder string) error {
	if strings.TrimSpace(sortOrder) == "" {
		return nil
	}
	keys, err := parseSortOrder(columns, sortOrder)
	if err != nil {
		return err
	}

	slices.SortStableFunc(rows, func(a, b []any) int {
		for _, k := range keys {
			c := compareValues(a[k.index], b[k.index])
			if k.desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return nil
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
		return true
	}
	return false
}

func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if isNumeric(a) && isNumeric(b) {
		fa, _ := ToFloat64(a)
		fb, _ := ToFloat64(b)
		return cmp.Compare(fa, fb)
	}

	sa, _ := ToString(a)
	sb, _ := ToString(b)
	return strings.Compare(sa, sb)
}
