/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/suparena/contenttemplate/datastore"
	"github.com/suparena/contenttemplate/errors"
	"github.com/suparena/contenttemplate/storagemodels"
)

// IDColumn is the column holding each record's id.
const IDColumn = "_id"

type table struct {
	order  []string
	rows   map[string]storagemodels.Values
	nextID int64
}

// Provider is an in-memory datastore.Provider for testing. Records live in
// tables named by the first address segment and get auto-increment ids.
// Selections support "col = ?" terms joined by AND.
type Provider struct {
	mu          sync.RWMutex
	tables      map[string]*table
	calls       map[string]int
	queryFunc   func(ctx context.Context, params *storagemodels.QueryParams) (datastore.Cursor, error)
	insertError error
	queryError  error
	updateError error
	deleteError error
	nilCursor   bool
	cursors     []*Cursor
}

var _ datastore.Provider = (*Provider)(nil)

// New creates a new mock Provider
func New() *Provider {
	return &Provider{
		tables: make(map[string]*table),
		calls:  make(map[string]int),
	}
}

// WithQueryFunc sets a custom query function for testing
func (p *Provider) WithQueryFunc(f func(ctx context.Context, params *storagemodels.QueryParams) (datastore.Cursor, error)) *Provider {
	p.queryFunc = f
	return p
}

// WithInsertError makes Insert operations return an error
func (p *Provider) WithInsertError(err error) *Provider {
	p.insertError = err
	return p
}

// WithQueryError makes Query operations return an error
func (p *Provider) WithQueryError(err error) *Provider {
	p.queryError = err
	return p
}

// WithUpdateError makes Update operations return an error
func (p *Provider) WithUpdateError(err error) *Provider {
	p.updateError = err
	return p
}

// WithDeleteError makes Delete operations return an error
func (p *Provider) WithDeleteError(err error) *Provider {
	p.deleteError = err
	return p
}

// WithNilCursor makes Query return a nil cursor and no error, as a
// provider does when it has nothing to say about an address.
func (p *Provider) WithNilCursor() *Provider {
	p.nilCursor = true
	return p
}

func (p *Provider) record(op string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls[op]++
}

// Insert stores values as a new record and returns its address
func (p *Provider) Insert(ctx context.Context, addr storagemodels.Address, values storagemodels.Values) (storagemodels.Address, error) {
	p.record("insert")
	if p.insertError != nil {
		return storagemodels.Address{}, p.insertError
	}

	name := addr.Table()
	if name == "" {
		return storagemodels.Address{}, errors.NewValidationError("address", "a table segment is required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	t := p.table(name)
	row := values.Clone()
	if row == nil {
		row = storagemodels.Values{}
	}

	var id string
	if v, ok := row[IDColumn]; ok && v != nil {
		id = fmt.Sprint(v)
		if n, err := datastore.ToInt64(v); err == nil && n > t.nextID {
			t.nextID = n
		}
	} else {
		t.nextID++
		id = strconv.FormatInt(t.nextID, 10)
		row[IDColumn] = t.nextID
	}
	if _, exists := t.rows[id]; exists {
		return storagemodels.Address{}, errors.NewConditionFailedError("insert", fmt.Sprintf("%s %s already exists", name, id))
	}

	t.rows[id] = row
	t.order = append(t.order, id)

	return storagemodels.Address{Authority: addr.Authority, Path: name}.WithID(id), nil
}

// Query returns a *Cursor over the matching records
func (p *Provider) Query(ctx context.Context, params *storagemodels.QueryParams) (datastore.Cursor, error) {
	p.record("query")
	if p.queryError != nil {
		return nil, p.queryError
	}
	if p.queryFunc != nil {
		return p.queryFunc(ctx, params)
	}
	if p.nilCursor {
		return nil, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	matched, err := p.match(params.Address, params.Selection)
	if err != nil {
		return nil, err
	}

	cols := params.Projection
	if len(cols) == 0 {
		cols = columnsOf(matched)
	}

	// sort columns outside the projection are read, then dropped
	full := append(slices.Clip(cols), datastore.SortColumns(cols, params.SortOrder)...)
	rows := make([][]any, 0, len(matched))
	for _, rec := range matched {
		row := make([]any, len(full))
		for i, c := range full {
			row[i] = rec[c]
		}
		rows = append(rows, row)
	}
	if err := datastore.SortRows(full, rows, params.SortOrder); err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i] = rows[i][:len(cols)]
	}

	c := NewCursor(cols, rows...)
	p.cursors = append(p.cursors, c)
	return c, nil
}

// Update merges values into every matching record
func (p *Provider) Update(ctx context.Context, addr storagemodels.Address, values storagemodels.Values, sel *storagemodels.Selection) (int64, error) {
	p.record("update")
	if p.updateError != nil {
		return 0, p.updateError
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	matched, err := p.match(addr, sel)
	if err != nil {
		return 0, err
	}
	for _, rec := range matched {
		for k, v := range values {
			if k == IDColumn {
				continue
			}
			rec[k] = v
		}
	}
	return int64(len(matched)), nil
}

// Delete removes every matching record
func (p *Provider) Delete(ctx context.Context, addr storagemodels.Address, sel *storagemodels.Selection) (int64, error) {
	p.record("delete")
	if p.deleteError != nil {
		return 0, p.deleteError
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	matched, err := p.match(addr, sel)
	if err != nil {
		return 0, err
	}
	t := p.tables[addr.Table()]
	for _, rec := range matched {
		id := fmt.Sprint(rec[IDColumn])
		delete(t.rows, id)
		for i, o := range t.order {
			if o == id {
				t.order = append(t.order[:i], t.order[i+1:]...)
				break
			}
		}
	}
	return int64(len(matched)), nil
}

// Helper methods for testing

// Calls returns how many times op ("insert", "query", "update", "delete") was invoked
func (p *Provider) Calls(op string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.calls[op]
}

// TotalCalls returns the number of provider operations invoked
func (p *Provider) TotalCalls() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n := 0
	for _, c := range p.calls {
		n += c
	}
	return n
}

// Cursors returns every cursor handed out by Query
func (p *Provider) Cursors() []*Cursor {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*Cursor(nil), p.cursors...)
}

// Count returns the number of records in a table
func (p *Provider) Count(name string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if t, ok := p.tables[name]; ok {
		return len(t.rows)
	}
	return 0
}

// Clear removes all data
func (p *Provider) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tables = make(map[string]*table)
}

func (p *Provider) table(name string) *table {
	t, ok := p.tables[name]
	if !ok {
		t = &table{rows: make(map[string]storagemodels.Values)}
		p.tables[name] = t
	}
	return t
}

type term struct {
	column string
	arg    any
}

func parseSelection(sel *storagemodels.Selection) ([]term, error) {
	if sel.IsEmpty() {
		return nil, nil
	}
	parts := strings.Split(sel.Where, " AND ")
	if len(parts) != len(sel.Args) {
		return nil, errors.NewValidationError("selection", fmt.Sprintf("%d terms but %d args", len(parts), len(sel.Args)))
	}

	terms := make([]term, 0, len(parts))
	for i, part := range parts {
		fields := strings.Fields(part)
		if len(fields) != 3 || fields[1] != "=" || fields[2] != "?" {
			return nil, errors.NewValidationError("selection", fmt.Sprintf("unsupported term %q", part))
		}
		terms = append(terms, term{column: fields[0], arg: sel.Args[i]})
	}
	return terms, nil
}

func (p *Provider) match(addr storagemodels.Address, sel *storagemodels.Selection) ([]storagemodels.Values, error) {
	terms, err := parseSelection(sel)
	if err != nil {
		return nil, err
	}

	t, ok := p.tables[addr.Table()]
	if !ok {
		return nil, nil
	}

	ids := t.order
	if id, ok := addr.ID(); ok {
		ids = []string{id}
	}

	var out []storagemodels.Values
	for _, id := range ids {
		rec, ok := t.rows[id]
		if !ok || !matches(rec, terms) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func matches(rec storagemodels.Values, terms []term) bool {
	for _, tm := range terms {
		got, _ := datastore.ToString(rec[tm.column])
		want, _ := datastore.ToString(tm.arg)
		if got != want {
			return false
		}
	}
	return true
}

// columnsOf returns the id column followed by every other column, sorted
func columnsOf(records []storagemodels.Values) []string {
	seen := map[string]bool{IDColumn: true}
	var rest []string
	for _, rec := range records {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				rest = append(rest, k)
			}
		}
	}
	sort.Strings(rest)
	return append([]string{IDColumn}, rest...)
}
