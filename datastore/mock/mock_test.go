/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock_test

import (
	"context"
	"io"
	"testing"

	"github.com/suparena/contenttemplate/datastore/mock"
	"github.com/suparena/contenttemplate/errors"
	"github.com/suparena/contenttemplate/storagemodels"
)

var notes = storagemodels.MustParseAddress("content://com.example.notes/notes")

func TestMockProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("BasicOperations", func(t *testing.T) {
		p := mock.New()

		// Test Insert
		addr, err := p.Insert(ctx, notes, storagemodels.Values{"title": "first"})
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		if addr.String() != "content://com.example.notes/notes/1" {
			t.Fatalf("Unexpected address: %s", addr)
		}

		// Test Query by id
		c, err := p.Query(ctx, storagemodels.NewQueryParams(addr, "title"))
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if !c.Next() {
			t.Fatal("Expected one row")
		}
		title, _ := c.String(0)
		if title != "first" {
			t.Fatalf("Expected title first, got %q", title)
		}
		c.Close()

		// Test Update
		n, err := p.Update(ctx, addr, storagemodels.Values{"title": "renamed"}, nil)
		if err != nil || n != 1 {
			t.Fatalf("Update failed: n=%d err=%v", n, err)
		}

		// Test Delete
		n, err = p.Delete(ctx, addr, nil)
		if err != nil || n != 1 {
			t.Fatalf("Delete failed: n=%d err=%v", n, err)
		}
		if p.Count("notes") != 0 {
			t.Fatalf("Expected empty table, got %d records", p.Count("notes"))
		}
	})

	t.Run("SelectionAndSort", func(t *testing.T) {
		p := mock.New()
		for _, v := range []storagemodels.Values{
			{"title": "b", "archived": 0},
			{"title": "a", "archived": 0},
			{"title": "c", "archived": 1},
		} {
			if _, err := p.Insert(ctx, notes, v); err != nil {
				t.Fatalf("Insert failed: %v", err)
			}
		}

		params := storagemodels.NewQueryParams(notes, "title").Where("archived = ?", 0).OrderBy("title ASC")
		c, err := p.Query(ctx, params)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		defer c.Close()

		var got []string
		for c.Next() {
			s, _ := c.String(0)
			got = append(got, s)
		}
		if len(got) != 2 || got[0] != "a" || got[1] != "b" {
			t.Fatalf("Unexpected rows: %v", got)
		}

		_, err = p.Query(ctx, storagemodels.NewQueryParams(notes).Where("title LIKE ?", "a%"))
		if !errors.IsValidationError(err) {
			t.Fatalf("Expected validation error for unsupported term, got %v", err)
		}
	})

	t.Run("SortOutsideProjection", func(t *testing.T) {
		p := mock.New()
		for _, title := range []string{"b", "c", "a"} {
			if _, err := p.Insert(ctx, notes, storagemodels.Values{"title": title}); err != nil {
				t.Fatalf("Insert failed: %v", err)
			}
		}

		c, err := p.Query(ctx, storagemodels.NewQueryParams(notes, mock.IDColumn).OrderBy("title DESC"))
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		defer c.Close()
		if cols := c.Columns(); len(cols) != 1 || cols[0] != mock.IDColumn {
			t.Fatalf("Expected only the projected column, got %v", cols)
		}

		var got []string
		for c.Next() {
			s, _ := c.String(0)
			got = append(got, s)
		}
		if len(got) != 3 || got[0] != "2" || got[1] != "1" || got[2] != "3" {
			t.Fatalf("Unexpected order: %v", got)
		}
	})

	t.Run("SuppliedIDAdvancesSequence", func(t *testing.T) {
		p := mock.New()
		if _, err := p.Insert(ctx, notes, storagemodels.Values{mock.IDColumn: 1, "title": "given"}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		if _, err := p.Insert(ctx, notes, storagemodels.Values{mock.IDColumn: "7", "title": "given"}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		addr, err := p.Insert(ctx, notes, storagemodels.Values{"title": "generated"})
		if err != nil {
			t.Fatalf("Generated id collided: %v", err)
		}
		if id, _ := addr.ID(); id != "8" {
			t.Fatalf("Expected id 8, got %s", id)
		}
	})

	t.Run("ErrorSimulation", func(t *testing.T) {
		remote := errors.Remote(io.ErrClosedPipe)
		p := mock.New().
			WithInsertError(remote).
			WithQueryError(remote).
			WithUpdateError(remote).
			WithDeleteError(remote)

		if _, err := p.Insert(ctx, notes, nil); err != remote {
			t.Fatalf("Expected insert error, got: %v", err)
		}
		if _, err := p.Query(ctx, storagemodels.NewQueryParams(notes)); err != remote {
			t.Fatalf("Expected query error, got: %v", err)
		}
		if _, err := p.Update(ctx, notes, nil, nil); err != remote {
			t.Fatalf("Expected update error, got: %v", err)
		}
		if _, err := p.Delete(ctx, notes, nil); err != remote {
			t.Fatalf("Expected delete error, got: %v", err)
		}
		if p.TotalCalls() != 4 {
			t.Fatalf("Expected 4 calls, got %d", p.TotalCalls())
		}
	})

	t.Run("NilCursor", func(t *testing.T) {
		p := mock.New().WithNilCursor()
		c, err := p.Query(ctx, storagemodels.NewQueryParams(notes))
		if err != nil || c != nil {
			t.Fatalf("Expected nil cursor, got %v, %v", c, err)
		}
	})

	t.Run("DuplicateID", func(t *testing.T) {
		p := mock.New()
		if _, err := p.Insert(ctx, notes, storagemodels.Values{"_id": "x"}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		_, err := p.Insert(ctx, notes, storagemodels.Values{"_id": "x"})
		if !errors.IsConditionFailed(err) {
			t.Fatalf("Expected condition failed, got %v", err)
		}
	})
}

func TestMockCursor(t *testing.T) {
	t.Run("CountsCloses", func(t *testing.T) {
		c := mock.NewCursor([]string{"a"}, []any{int64(1)})
		c.Close()
		c.Close()

		if c.CloseCount() != 2 {
			t.Fatalf("Expected 2 closes, got %d", c.CloseCount())
		}
		if len(c.Violations()) != 1 {
			t.Fatalf("Expected one violation for the second close, got %v", c.Violations())
		}
	})

	t.Run("FlagsReadAfterClose", func(t *testing.T) {
		c := mock.NewCursor([]string{"a"}, []any{int64(1)})
		c.Next()
		c.Close()

		if _, err := c.Long(0); err == nil {
			t.Fatal("Expected read after close to fail")
		}
		if c.Next() {
			t.Fatal("Expected Next after close to return false")
		}
		if len(c.Violations()) != 2 {
			t.Fatalf("Expected 2 violations, got %v", c.Violations())
		}
	})

	t.Run("StrictNulls", func(t *testing.T) {
		c := mock.NewCursor([]string{"count"}, []any{nil}).WithStrictNulls()
		c.Next()

		null, err := c.IsNull(0)
		if err != nil || !null {
			t.Fatalf("Expected null cell, got %v, %v", null, err)
		}
		if _, err := c.Int(0); err == nil {
			t.Fatal("Expected native getter on null cell to fail in strict mode")
		}
	})

	t.Run("IterationError", func(t *testing.T) {
		c := mock.NewCursor([]string{"a"}, []any{"x"}).WithIterationError(io.ErrUnexpectedEOF)
		for c.Next() {
		}
		if c.Err() != io.ErrUnexpectedEOF {
			t.Fatalf("Expected iteration error, got %v", c.Err())
		}
	})
}

func TestMockClients(t *testing.T) {
	legacy := mock.NewLegacyClient(mock.New())
	if !legacy.Release() || legacy.Release() {
		t.Fatal("Release should report true only the first time")
	}

	client := mock.NewClient(mock.New())
	if err := client.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := client.Close(); !errors.IsInvalidState(err) {
		t.Fatalf("Expected invalid state on second close, got %v", err)
	}
	if client.Closes() != 2 || client.Releases() != 0 {
		t.Fatalf("Unexpected counters: closes=%d releases=%d", client.Closes(), client.Releases())
	}
}
