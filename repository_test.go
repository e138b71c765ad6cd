/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package contenttemplate

import (
	"context"
	"testing"

	"github.com/suparena/contenttemplate/datastore/mock"
	"github.com/suparena/contenttemplate/errors"
	"github.com/suparena/contenttemplate/storagemodels"
)

type note struct {
	ID    int64  `column:"_id"`
	Title string `column:"title"`
	Done  bool   `column:"done"`
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	tmpl := mustTemplate(t, mock.New())

	repo, err := NewRepository[note](tmpl, items, nil, nil)
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}

	t.Run("InsertAndGet", func(t *testing.T) {
		addr, err := repo.Insert(ctx, note{ID: 10, Title: "first"})
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		if id, _ := addr.ID(); id != "10" {
			t.Errorf("Expected id 10, got %s", addr)
		}

		got, err := repo.Get(ctx, "10")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got == nil || got.Title != "first" || got.Done {
			t.Errorf("Unexpected note %+v", got)
		}

		missing, err := repo.Get(ctx, "999")
		if err != nil || missing != nil {
			t.Errorf("Expected nil for missing id, got %+v (%v)", missing, err)
		}
	})

	t.Run("List", func(t *testing.T) {
		for _, n := range []note{{ID: 11, Title: "b", Done: true}, {ID: 12, Title: "a", Done: true}} {
			if _, err := repo.Insert(ctx, n); err != nil {
				t.Fatal(err)
			}
		}
		done, err := repo.List(ctx, &storagemodels.Selection{Where: "done = ?", Args: []any{true}}, "title")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(done) != 2 || done[0].Title != "a" || done[1].Title != "b" {
			t.Errorf("Unexpected list %+v", done)
		}
	})

	t.Run("UpdateAndDelete", func(t *testing.T) {
		ok, err := repo.Update(ctx, "10", note{ID: 10, Title: "renamed", Done: true})
		if err != nil || !ok {
			t.Fatalf("Update failed: %v", err)
		}
		got, _ := repo.Get(ctx, "10")
		if got == nil || got.Title != "renamed" || !got.Done {
			t.Errorf("Unexpected note after update %+v", got)
		}

		ok, err = repo.Delete(ctx, "10")
		if err != nil || !ok {
			t.Fatalf("Delete failed: %v", err)
		}
		ok, err = repo.Delete(ctx, "10")
		if err != nil || ok {
			t.Errorf("Expected second delete to find nothing, got %v (%v)", ok, err)
		}
	})

	t.Run("InvalidArguments", func(t *testing.T) {
		if _, err := repo.Get(ctx, ""); !errors.IsValidationError(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
		if _, err := NewRepository[note](tmpl, items.WithID("1"), nil, nil); !errors.IsValidationError(err) {
			t.Errorf("Expected validation error for record address, got %v", err)
		}
		if _, err := NewRepository[note](nil, items, nil, nil); !errors.IsValidationError(err) {
			t.Errorf("Expected validation error for nil template, got %v", err)
		}
	})
}
