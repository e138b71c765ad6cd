/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package contenttemplate

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/suparena/contenttemplate/columns"
	"github.com/suparena/contenttemplate/datastore"
	"github.com/suparena/contenttemplate/datastore/mock"
	"github.com/suparena/contenttemplate/errors"
	"github.com/suparena/contenttemplate/mapping"
	"github.com/suparena/contenttemplate/resolver"
	"github.com/suparena/contenttemplate/storagemodels"
)

type counter struct {
	Name  string
	Count int32
}

var (
	items = storagemodels.Address{Authority: "notes", Path: "items"}

	counterRows = mapping.RowMapperFunc[counter](func(c datastore.Cursor, _ int) (counter, error) {
		name, err := columns.RequiredString(c, "name")
		if err != nil {
			return counter{}, err
		}
		count, err := columns.RequiredInt(c, "count")
		if err != nil {
			return counter{}, err
		}
		return counter{Name: name, Count: count}, nil
	})

	counterValues = mapping.ValueMapperFunc[counter](func(c counter) (storagemodels.Values, error) {
		return storagemodels.Values{"name": c.Name, "count": c.Count}, nil
	})
)

// closeFailCursor is a cursor whose Close fails after being recorded
type closeFailCursor struct {
	*mock.Cursor
	err error
}

func (c *closeFailCursor) Close() error {
	_ = c.Cursor.Close()
	return c.err
}

func cursorProvider(c datastore.Cursor) *mock.Provider {
	return mock.New().WithQueryFunc(func(context.Context, *storagemodels.QueryParams) (datastore.Cursor, error) {
		return c, nil
	})
}

func mustTemplate(t *testing.T, p datastore.Provider) *Template {
	t.Helper()
	tmpl, err := New(p)
	if err != nil {
		t.Fatalf("Failed to create template: %v", err)
	}
	return tmpl
}

func assertClosedOnce(t *testing.T, c *mock.Cursor) {
	t.Helper()
	if c.CloseCount() != 1 {
		t.Errorf("Expected cursor closed once, got %d", c.CloseCount())
	}
	if v := c.Violations(); len(v) != 0 {
		t.Errorf("Unexpected cursor violations: %v", v)
	}
}

func TestConstruction(t *testing.T) {
	t.Run("NilResolver", func(t *testing.T) {
		if _, err := New(nil); !errors.IsValidationError(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("NilClient", func(t *testing.T) {
		if _, err := NewWithClient(nil); !errors.IsValidationError(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("NilGateway", func(t *testing.T) {
		if _, err := NewWithGateway(nil); !errors.IsValidationError(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})
}

func TestEmptyResults(t *testing.T) {
	ctx := context.Background()
	params := storagemodels.NewQueryParams(items)

	t.Run("Query", func(t *testing.T) {
		c := mock.NewCursor([]string{"name", "count"})
		got, err := Query(ctx, mustTemplate(t, cursorProvider(c)), params, counterRows)
		if err != nil || got != nil {
			t.Errorf("Expected nil, nil; got %v, %v", got, err)
		}
		assertClosedOnce(t, c)
	})

	t.Run("QueryForList", func(t *testing.T) {
		c := mock.NewCursor([]string{"name", "count"})
		got, err := QueryForList(ctx, mustTemplate(t, cursorProvider(c)), params, counterRows)
		if err != nil {
			t.Fatalf("QueryForList failed: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("Expected empty non-nil slice, got %#v", got)
		}
		assertClosedOnce(t, c)
	})

	t.Run("QueryEach", func(t *testing.T) {
		c := mock.NewCursor([]string{"name", "count"})
		calls := 0
		err := mustTemplate(t, cursorProvider(c)).QueryEach(ctx, params, mapping.RowCallbackFunc(func(datastore.Cursor) error {
			calls++
			return nil
		}))
		if err != nil || calls != 0 {
			t.Errorf("Expected no callbacks, got %d (%v)", calls, err)
		}
		assertClosedOnce(t, c)
	})

	t.Run("NilCursor", func(t *testing.T) {
		tmpl := mustTemplate(t, mock.New().WithNilCursor())
		got, err := Query(ctx, tmpl, params, counterRows)
		if err != nil || got != nil {
			t.Errorf("Expected nil, nil; got %v, %v", got, err)
		}
		list, err := QueryForList(ctx, tmpl, params, counterRows)
		if err != nil || list == nil || len(list) != 0 {
			t.Errorf("Expected empty slice, got %#v (%v)", list, err)
		}
	})

	t.Run("UnknownAuthority", func(t *testing.T) {
		got, err := Query(ctx, mustTemplate(t, resolver.New()), params, counterRows)
		if err != nil || got != nil {
			t.Errorf("Expected nil, nil; got %v, %v", got, err)
		}
	})
}

func TestCursorClosedOnce(t *testing.T) {
	ctx := context.Background()
	params := storagemodels.NewQueryParams(items)
	rows := [][]any{{"a", int64(1)}, {"b", int64(2)}, {"c", int64(3)}}
	mapErr := stderrors.New("cannot map")
	iterErr := stderrors.New("connection reset")

	tests := []struct {
		name    string
		cursor  func() *mock.Cursor
		run     func(tmpl *Template) error
		wantErr error
	}{
		{
			name:   "QueryFirstRowOnly",
			cursor: func() *mock.Cursor { return mock.NewCursor([]string{"name", "count"}, rows...) },
			run: func(tmpl *Template) error {
				got, err := Query(ctx, tmpl, params, counterRows)
				if err == nil && (got == nil || got.Name != "a") {
					return stderrors.New("expected first row")
				}
				return err
			},
		},
		{
			name:   "QueryForListAllRows",
			cursor: func() *mock.Cursor { return mock.NewCursor([]string{"name", "count"}, rows...) },
			run: func(tmpl *Template) error {
				got, err := QueryForList(ctx, tmpl, params, counterRows)
				if err == nil && len(got) != 3 {
					return stderrors.New("expected three rows")
				}
				return err
			},
		},
		{
			name:   "MapperError",
			cursor: func() *mock.Cursor { return mock.NewCursor([]string{"name", "count"}, rows...) },
			run: func(tmpl *Template) error {
				_, err := QueryForList(ctx, tmpl, params, mapping.RowMapperFunc[counter](func(_ datastore.Cursor, row int) (counter, error) {
					if row == 1 {
						return counter{}, mapErr
					}
					return counter{}, nil
				}))
				return err
			},
			wantErr: mapErr,
		},
		{
			name:   "CallbackError",
			cursor: func() *mock.Cursor { return mock.NewCursor([]string{"name", "count"}, rows...) },
			run: func(tmpl *Template) error {
				return tmpl.QueryEach(ctx, params, mapping.RowCallbackFunc(func(datastore.Cursor) error {
					return mapErr
				}))
			},
			wantErr: mapErr,
		},
		{
			name: "IterationError",
			cursor: func() *mock.Cursor {
				return mock.NewCursor([]string{"name", "count"}, rows...).WithIterationError(iterErr)
			},
			run: func(tmpl *Template) error {
				_, err := QueryForList(ctx, tmpl, params, counterRows)
				return err
			},
			wantErr: iterErr,
		},
		{
			name:   "MissingColumn",
			cursor: func() *mock.Cursor { return mock.NewCursor([]string{"name"}, rows[0][:1]) },
			run: func(tmpl *Template) error {
				_, err := Query(ctx, tmpl, params, counterRows)
				return err
			},
			wantErr: errors.ErrNoSuchColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.cursor()
			err := tt.run(mustTemplate(t, cursorProvider(c)))
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.wantErr != nil && !stderrors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
			assertClosedOnce(t, c)
		})
	}
}

func TestCloseErrorIsJoined(t *testing.T) {
	ctx := context.Background()
	closeErr := stderrors.New("close failed")
	mapErr := stderrors.New("cannot map")

	c := &closeFailCursor{Cursor: mock.NewCursor([]string{"name", "count"}, []any{"a", int64(1)}), err: closeErr}
	tmpl := mustTemplate(t, cursorProvider(c))

	_, err := Query(ctx, tmpl, storagemodels.NewQueryParams(items), counterRows)
	if !stderrors.Is(err, closeErr) {
		t.Errorf("Expected close error, got %v", err)
	}

	c = &closeFailCursor{Cursor: mock.NewCursor([]string{"name", "count"}, []any{"a", int64(1)}), err: closeErr}
	tmpl = mustTemplate(t, cursorProvider(c))
	_, err = Query(ctx, tmpl, storagemodels.NewQueryParams(items), mapping.RowMapperFunc[counter](func(datastore.Cursor, int) (counter, error) {
		return counter{}, mapErr
	}))
	if !stderrors.Is(err, mapErr) || !stderrors.Is(err, closeErr) {
		t.Errorf("Expected both mapping and close errors, got %v", err)
	}
	if c.CloseCount() != 1 {
		t.Errorf("Expected one close, got %d", c.CloseCount())
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := resolver.New()
	if err := r.Register("notes", mock.New()); err != nil {
		t.Fatal(err)
	}

	for _, variant := range []string{"resolver", "client"} {
		t.Run(variant, func(t *testing.T) {
			var tmpl *Template
			var err error
			if variant == "resolver" {
				tmpl, err = New(r)
			} else {
				client, aerr := r.AcquireClient("notes")
				if aerr != nil {
					t.Fatal(aerr)
				}
				tmpl, err = NewWithClient(client)
			}
			if err != nil {
				t.Fatalf("Failed to create template: %v", err)
			}
			if variant == "client" {
				defer tmpl.CloseClient()
			}

			addr, err := Insert(ctx, tmpl, items, counter{Name: "a", Count: 1}, counterValues)
			if err != nil {
				t.Fatalf("Insert failed: %v", err)
			}

			got, err := Query(ctx, tmpl, storagemodels.NewQueryParams(addr), counterRows)
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if got == nil || *got != (counter{Name: "a", Count: 1}) {
				t.Errorf("Expected {a 1}, got %v", got)
			}

			n, err := Update(ctx, tmpl, addr, counter{Name: "a", Count: 2}, counterValues, nil)
			if err != nil || n != 1 {
				t.Errorf("Expected one updated row, got %d (%v)", n, err)
			}

			n, err = tmpl.Delete(ctx, addr, nil)
			if err != nil || n != 1 {
				t.Errorf("Expected one deleted row, got %d (%v)", n, err)
			}
			got, err = Query(ctx, tmpl, storagemodels.NewQueryParams(addr), counterRows)
			if err != nil || got != nil {
				t.Errorf("Expected record gone, got %v (%v)", got, err)
			}
		})
	}
}

func TestQueryWithSelectionAndSort(t *testing.T) {
	ctx := context.Background()
	tmpl := mustTemplate(t, mock.New())

	for _, c := range []counter{{"b", 1}, {"a", 1}, {"c", 2}} {
		if _, err := Insert(ctx, tmpl, items, c, counterValues); err != nil {
			t.Fatal(err)
		}
	}

	params := storagemodels.NewQueryParams(items, "name", "count").Where("count = ?", 1).OrderBy("name DESC")
	got, err := QueryForList(ctx, tmpl, params, counterRows)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Name != "b" || got[1].Name != "a" {
		t.Errorf("Unexpected rows %v", got)
	}
}

func TestTransportFailures(t *testing.T) {
	ctx := context.Background()
	remote := errors.Remote(stderrors.New("binder died"))
	p := mock.New().
		WithInsertError(remote).
		WithQueryError(remote).
		WithUpdateError(remote).
		WithDeleteError(remote)

	ops := map[string]func(tmpl *Template) error{
		"insert": func(tmpl *Template) error {
			_, err := Insert(ctx, tmpl, items, counter{}, counterValues)
			return err
		},
		"query": func(tmpl *Template) error {
			_, err := Query(ctx, tmpl, storagemodels.NewQueryParams(items), counterRows)
			return err
		},
		"update": func(tmpl *Template) error {
			_, err := Update(ctx, tmpl, items, counter{}, counterValues, nil)
			return err
		},
		"delete": func(tmpl *Template) error {
			_, err := tmpl.Delete(ctx, items, nil)
			return err
		},
	}

	for op, run := range ops {
		t.Run("Client/"+op, func(t *testing.T) {
			tmpl, err := NewWithClient(mock.NewClient(p))
			if err != nil {
				t.Fatal(err)
			}
			err = run(tmpl)

			var unrecoverable *errors.UnrecoverableError
			if !stderrors.As(err, &unrecoverable) {
				t.Fatalf("Expected UnrecoverableError, got %v", err)
			}
			if unrecoverable.Operation != op {
				t.Errorf("Expected operation %q, got %q", op, unrecoverable.Operation)
			}
			if !errors.IsRemote(err) {
				t.Error("Expected the transport failure to be wrapped")
			}
		})

		t.Run("Resolver/"+op, func(t *testing.T) {
			err := run(mustTemplate(t, p))
			if err != remote {
				t.Errorf("Expected error unchanged, got %v", err)
			}
		})
	}
}

func TestClientPassesOtherErrors(t *testing.T) {
	ctx := context.Background()
	boom := stderrors.New("boom")
	tmpl, err := NewWithClient(mock.NewClient(mock.New().WithDeleteError(boom)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpl.Delete(ctx, items, nil); err != boom {
		t.Errorf("Expected error unchanged, got %v", err)
	}
}

func TestDeadClientIsUnrecoverable(t *testing.T) {
	ctx := context.Background()
	r := resolver.New()
	_ = r.Register("notes", mock.New())
	client, err := r.AcquireClient("notes")
	if err != nil {
		t.Fatal(err)
	}
	tmpl, err := NewWithClient(client)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := r.Unregister("notes"); err != nil {
		t.Fatal(err)
	}
	_, err = QueryForList(ctx, tmpl, storagemodels.NewQueryParams(items), counterRows)
	if !errors.IsUnrecoverable(err) {
		t.Errorf("Expected unrecoverable error, got %v", err)
	}
}

func TestCloseClient(t *testing.T) {
	t.Run("ResolverTemplate", func(t *testing.T) {
		p := mock.New()
		tmpl := mustTemplate(t, p)
		if err := tmpl.CloseClient(); !errors.IsInvalidState(err) {
			t.Errorf("Expected invalid state, got %v", err)
		}
		if p.TotalCalls() != 0 {
			t.Errorf("Expected no backend calls, got %d", p.TotalCalls())
		}
	})

	t.Run("ModernClient", func(t *testing.T) {
		c := mock.NewClient(mock.New())
		tmpl, _ := NewWithClient(c)
		if err := tmpl.CloseClient(); err != nil {
			t.Fatalf("CloseClient failed: %v", err)
		}
		if c.Closes() != 1 || c.Releases() != 0 {
			t.Errorf("Expected Close only, got closes=%d releases=%d", c.Closes(), c.Releases())
		}
		if err := tmpl.CloseClient(); !errors.IsInvalidState(err) {
			t.Errorf("Expected invalid state on second close, got %v", err)
		}
	})

	t.Run("ForcedLegacyRelease", func(t *testing.T) {
		c := mock.NewClient(mock.New())
		tmpl, _ := NewWithClient(c, WithLegacyRelease())
		if err := tmpl.CloseClient(); err != nil {
			t.Fatalf("CloseClient failed: %v", err)
		}
		if c.Closes() != 0 || c.Releases() != 1 {
			t.Errorf("Expected Release only, got closes=%d releases=%d", c.Closes(), c.Releases())
		}
	})

	t.Run("LegacyClient", func(t *testing.T) {
		c := mock.NewLegacyClient(mock.New())
		tmpl, _ := NewWithClient(c)
		if err := tmpl.CloseClient(); err != nil {
			t.Fatalf("CloseClient failed: %v", err)
		}
		if c.Releases() != 1 {
			t.Errorf("Expected one release, got %d", c.Releases())
		}
		if err := tmpl.CloseClient(); !errors.IsInvalidState(err) {
			t.Errorf("Expected invalid state on second release, got %v", err)
		}
	})

	t.Run("CloseError", func(t *testing.T) {
		closeErr := errors.Remote(stderrors.New("gone"))
		tmpl, _ := NewWithClient(mock.NewClient(mock.New()).WithCloseError(closeErr))
		if err := tmpl.CloseClient(); err != closeErr {
			t.Errorf("Expected close error unchanged, got %v", err)
		}
	})
}

func TestMissingMappers(t *testing.T) {
	ctx := context.Background()
	tmpl := mustTemplate(t, mock.New())

	if _, err := Query[counter](ctx, tmpl, storagemodels.NewQueryParams(items), nil); !errors.IsValidationError(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
	if _, err := Insert[counter](ctx, tmpl, items, counter{}, nil); !errors.IsValidationError(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
	if err := tmpl.QueryEach(ctx, nil, mapping.RowCallbackFunc(func(datastore.Cursor) error { return nil })); !errors.IsValidationError(err) {
		t.Errorf("Expected validation error for nil params, got %v", err)
	}
}
