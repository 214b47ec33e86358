package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/chomsky/pkg/domain"
	"github.com/aretw0/chomsky/pkg/ports"
)

// ConversionStoreContractTest is a reusable test suite that verifies if an adapter complies with ports.ConversionStore.
// The store must be empty when passed in.
func ConversionStoreContractTest(t *testing.T, store ports.ConversionStore) {
	t.Helper()
	ctx := context.Background()

	record := &domain.Conversion{
		ID:        "conv-1",
		Source:    "S -> aS | b",
		Start:     "S0",
		CNF:       "S0 → T_a S | b\nS → T_a S | b\nT_a → a",
		Steps:     []domain.Step{{Title: "Chomsky Normal Form", Text: "S0 → T_a S | b"}},
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	// 1. Save and Load
	t.Run("SaveLoad", func(t *testing.T) {
		if err := store.Save(ctx, record); err != nil {
			t.Fatalf("unexpected error saving: %v", err)
		}
		got, err := store.Load(ctx, record.ID)
		if err != nil {
			t.Fatalf("unexpected error loading: %v", err)
		}
		if got.ID != record.ID || got.Source != record.Source || got.Start != record.Start || got.CNF != record.CNF {
			t.Errorf("record mismatch: got %+v, want %+v", got, record)
		}
		if len(got.Steps) != 1 || got.Steps[0] != record.Steps[0] {
			t.Errorf("steps mismatch: got %+v", got.Steps)
		}
		if !got.CreatedAt.Equal(record.CreatedAt) {
			t.Errorf("created_at mismatch: got %v, want %v", got.CreatedAt, record.CreatedAt)
		}
	})

	// 2. Loaded records are isolated from the store
	t.Run("Isolation", func(t *testing.T) {
		got, err := store.Load(ctx, record.ID)
		if err != nil {
			t.Fatalf("unexpected error loading: %v", err)
		}
		got.Steps[0].Title = "mutated"

		again, err := store.Load(ctx, record.ID)
		if err != nil {
			t.Fatalf("unexpected error loading: %v", err)
		}
		if again.Steps[0].Title != record.Steps[0].Title {
			t.Errorf("store state leaked through a loaded record")
		}
	})

	// 3. List
	t.Run("List", func(t *testing.T) {
		ids, err := store.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing: %v", err)
		}
		if len(ids) != 1 || ids[0] != record.ID {
			t.Errorf("expected [%s], got %v", record.ID, ids)
		}
	})

	// 4. Delete, then Load reports not found
	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, record.ID); err != nil {
			t.Fatalf("unexpected error deleting: %v", err)
		}
		if _, err := store.Load(ctx, record.ID); !errors.Is(err, domain.ErrConversionNotFound) {
			t.Errorf("expected ErrConversionNotFound, got %v", err)
		}
		if err := store.Delete(ctx, "never-saved"); err != nil {
			t.Errorf("deleting unknown id should succeed, got %v", err)
		}
	})
}

// GrammarLibraryContractTest verifies that lib holds exactly the given entries.
func GrammarLibraryContractTest(t *testing.T, lib ports.GrammarLibrary, want map[string]domain.LibraryEntry) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get_Success", func(t *testing.T) {
		for name, expected := range want {
			got, err := lib.Get(ctx, name)
			if err != nil {
				t.Fatalf("unexpected error getting %s: %v", name, err)
			}
			if *got != expected {
				t.Errorf("entry mismatch for %s. got %+v, want %+v", name, *got, expected)
			}
		}
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		if _, err := lib.Get(ctx, "non-existent-grammar"); !errors.Is(err, domain.ErrGrammarNotFound) {
			t.Errorf("expected ErrGrammarNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		names, err := lib.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing: %v", err)
		}
		if len(names) != len(want) {
			t.Errorf("expected %d grammars, got %d", len(want), len(names))
		}
		for i := 1; i < len(names); i++ {
			if names[i-1] > names[i] {
				t.Errorf("names not sorted: %v", names)
				break
			}
		}
		for _, n := range names {
			if _, ok := want[n]; !ok {
				t.Errorf("unexpected grammar %s", n)
			}
		}
	})
}
