/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"sort"
)

// Values is a column-name/value set used for inserts and updates.
type Values map[string]any

// Columns returns the column names in sorted order.
func (v Values) Columns() []string {
	cols := make([]string, 0, len(v))
	for k := range v {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// Clone returns a shallow copy of the values.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Selection is an optional filter. Where is a backend-specific predicate
// template and Args its positional substitution values; both are passed to
// the backend verbatim. A nil *Selection selects every row at an address.
type Selection struct {
	Where string
	Args  []any
}

// IsEmpty reports whether the selection restricts nothing.
func (s *Selection) IsEmpty() bool {
	return s == nil || s.Where == ""
}

// QueryParams defines the parameters of a query against an address.
type QueryParams struct {
	// Address identifies the data source and optional record.
	Address Address
	// Projection lists the columns to return; nil returns all columns.
	Projection []string
	// Selection optionally restricts the rows returned.
	Selection *Selection
	// SortOrder is an optional backend-specific ordering, e.g. "name DESC".
	SortOrder string
}

// NewQueryParams creates QueryParams for the given address and projection.
func NewQueryParams(addr Address, projection ...string) *QueryParams {
	return &QueryParams{
		Address:    addr,
		Projection: projection,
	}
}

// Where sets the selection and returns the params for chaining.
func (p *QueryParams) Where(clause string, args ...any) *QueryParams {
	p.Selection = &Selection{Where: clause, Args: args}
	return p
}

// OrderBy sets the sort order and returns the params for chaining.
func (p *QueryParams) OrderBy(sortOrder string) *QueryParams {
	p.SortOrder = sortOrder
	return p
}
