/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package contenttemplate

import (
	"context"
	"fmt"

	"github.com/suparena/contenttemplate/errors"
	"github.com/suparena/contenttemplate/mapping"
	"github.com/suparena/contenttemplate/storagemodels"
)

// Repository binds a Template to one collection address and the mappers
// of a type T.
type Repository[T any] struct {
	template   *Template
	base       storagemodels.Address
	projection []string
	rows       mapping.RowMapper[T]
	values     mapping.ValueMapper[T]
}

// NewRepository creates a Repository for the collection at base. Nil
// mappers default to the struct mappers of T.
func NewRepository[T any](t *Template, base storagemodels.Address, rows mapping.RowMapper[T], values mapping.ValueMapper[T], projection ...string) (*Repository[T], error) {
	if t == nil {
		return nil, errors.NewValidationError("template", "template is required")
	}
	if base.Authority == "" || base.Table() == "" {
		return nil, errors.NewValidationError("address", fmt.Sprintf("%s does not name a collection", base))
	}
	if _, hasID := base.ID(); hasID {
		return nil, errors.NewValidationError("address", fmt.Sprintf("%s names a record, not a collection", base))
	}

	var err error
	if rows == nil {
		if rows, err = mapping.NewStructRowMapper[T](); err != nil {
			return nil, err
		}
	}
	if values == nil {
		if values, err = mapping.NewStructValueMapper[T](); err != nil {
			return nil, err
		}
	}

	return &Repository[T]{
		template:   t,
		base:       base,
		projection: projection,
		rows:       rows,
		values:     values,
	}, nil
}

// Address returns the collection address
func (r *Repository[T]) Address() storagemodels.Address {
	return r.base
}

func (r *Repository[T]) params(addr storagemodels.Address) *storagemodels.QueryParams {
	return storagemodels.NewQueryParams(addr, r.projection...)
}

// Get returns the record with the given id, or nil when there is none
func (r *Repository[T]) Get(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, errors.NewValidationError("id", "id is required")
	}
	return Query(ctx, r.template, r.params(r.base.WithID(id)), r.rows)
}

// List returns the records matching sel, ordered by sortOrder
func (r *Repository[T]) List(ctx context.Context, sel *storagemodels.Selection, sortOrder string) ([]T, error) {
	params := r.params(r.base).OrderBy(sortOrder)
	params.Selection = sel
	return QueryForList(ctx, r.template, params, r.rows)
}

// Insert stores obj and returns the address of the new record
func (r *Repository[T]) Insert(ctx context.Context, obj T) (storagemodels.Address, error) {
	return Insert(ctx, r.template, r.base, obj, r.values)
}

// Update overwrites the record with the given id and reports whether it existed
func (r *Repository[T]) Update(ctx context.Context, id string, obj T) (bool, error) {
	if id == "" {
		return false, errors.NewValidationError("id", "id is required")
	}
	n, err := Update(ctx, r.template, r.base.WithID(id), obj, r.values, nil)
	return n > 0, err
}

// Delete removes the record with the given id and reports whether it existed
func (r *Repository[T]) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, errors.NewValidationError("id", "id is required")
	}
	n, err := r.template.Delete(ctx, r.base.WithID(id), nil)
	return n > 0, err
}
