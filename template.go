/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package contenttemplate

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/suparena/contenttemplate/datastore"
	"github.com/suparena/contenttemplate/errors"
	"github.com/suparena/contenttemplate/mapping"
	"github.com/suparena/contenttemplate/storagemodels"
)

// Template runs queries and writes against a Gateway, managing the cursor
// of each call and applying caller-supplied mappers.
type Template struct {
	gateway Gateway
	logger  *slog.Logger
}

// New creates a Template over a shared provider, usually a resolver.Resolver.
func New(p datastore.Provider, opts ...Option) (*Template, error) {
	g, err := NewResolverGateway(p)
	if err != nil {
		return nil, err
	}
	return NewWithGateway(g, opts...)
}

// NewWithClient creates a Template over a dedicated provider client.
func NewWithClient(client ProviderClient, opts ...Option) (*Template, error) {
	g, err := NewClientGateway(client, opts...)
	if err != nil {
		return nil, err
	}
	return NewWithGateway(g, opts...)
}

// NewWithGateway creates a Template over any Gateway.
func NewWithGateway(g Gateway, opts ...Option) (*Template, error) {
	if g == nil {
		return nil, errors.NewValidationError("gateway", "gateway is required")
	}
	o := buildOptions(opts)
	return &Template{gateway: g, logger: o.logger}, nil
}

// Gateway returns the gateway the template runs against
func (t *Template) Gateway() Gateway {
	return t.gateway
}

// each runs a query and calls fn for every row until fn reports false or
// fails. The cursor is closed exactly once whatever happens; a close
// failure is joined into the returned error. A nil cursor is zero rows.
func (t *Template) each(ctx context.Context, params *storagemodels.QueryParams, fn func(c datastore.Cursor, row int) (bool, error)) (err error) {
	if params == nil {
		return errors.NewValidationError("params", "query parameters are required")
	}

	cur, err := t.gateway.Query(ctx, params)
	if err != nil {
		return err
	}
	if cur == nil {
		t.logger.Debug("query returned no cursor", "address", params.Address.String())
		return nil
	}
	defer func() {
		if cerr := cur.Close(); cerr != nil {
			err = stderrors.Join(err, fmt.Errorf("failed to close cursor: %w", cerr))
		}
	}()

	row := 0
	for cur.Next() {
		more, err := fn(cur, row)
		if err != nil {
			return err
		}
		row++
		if !more {
			break
		}
	}
	if err := cur.Err(); err != nil {
		return fmt.Errorf("failed to iterate %s: %w", params.Address, err)
	}

	t.logger.Debug("query complete", "address", params.Address.String(), "rows", row)
	return nil
}

// Query maps the first row of the result. It returns nil, nil when the
// result is empty.
func Query[T any](ctx context.Context, t *Template, params *storagemodels.QueryParams, mapper mapping.RowMapper[T]) (*T, error) {
	if mapper == nil {
		return nil, errors.NewValidationError("mapper", "row mapper is required")
	}

	var out *T
	err := t.each(ctx, params, func(c datastore.Cursor, row int) (bool, error) {
		obj, err := mapper.MapRow(c, row)
		if err != nil {
			return false, err
		}
		out = &obj
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// QueryForList maps every row of the result in order. An empty result is
// an empty, non-nil slice.
func QueryForList[T any](ctx context.Context, t *Template, params *storagemodels.QueryParams, mapper mapping.RowMapper[T]) ([]T, error) {
	if mapper == nil {
		return nil, errors.NewValidationError("mapper", "row mapper is required")
	}

	out := make([]T, 0)
	err := t.each(ctx, params, func(c datastore.Cursor, row int) (bool, error) {
		obj, err := mapper.MapRow(c, row)
		if err != nil {
			return false, err
		}
		out = append(out, obj)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// QueryEach hands every row of the result to callback.
func (t *Template) QueryEach(ctx context.Context, params *storagemodels.QueryParams, callback mapping.RowCallback) error {
	if callback == nil {
		return errors.NewValidationError("callback", "row callback is required")
	}
	return t.each(ctx, params, func(c datastore.Cursor, _ int) (bool, error) {
		return true, callback.ProcessRow(c)
	})
}

// Insert writes obj as a new record under addr and returns the address of
// the new record.
func Insert[T any](ctx context.Context, t *Template, addr storagemodels.Address, obj T, mapper mapping.ValueMapper[T]) (storagemodels.Address, error) {
	if mapper == nil {
		return storagemodels.Address{}, errors.NewValidationError("mapper", "value mapper is required")
	}
	values, err := mapper.MapValues(obj)
	if err != nil {
		return storagemodels.Address{}, fmt.Errorf("failed to map values: %w", err)
	}
	return t.gateway.Insert(ctx, addr, values)
}

// Update writes obj over the records at addr matching sel and returns the
// number of records updated. A nil sel updates every record at addr.
func Update[T any](ctx context.Context, t *Template, addr storagemodels.Address, obj T, mapper mapping.ValueMapper[T], sel *storagemodels.Selection) (int64, error) {
	if mapper == nil {
		return 0, errors.NewValidationError("mapper", "value mapper is required")
	}
	values, err := mapper.MapValues(obj)
	if err != nil {
		return 0, fmt.Errorf("failed to map values: %w", err)
	}
	return t.gateway.Update(ctx, addr, values, sel)
}

// Delete removes the records at addr matching sel and returns how many
// were removed.
func (t *Template) Delete(ctx context.Context, addr storagemodels.Address, sel *storagemodels.Selection) (int64, error) {
	return t.gateway.Delete(ctx, addr, sel)
}

// CloseClient releases the provider client behind the template. Templates
// over a shared resolver have none and get an invalid-state error.
func (t *Template) CloseClient() error {
	return t.gateway.Release()
}
