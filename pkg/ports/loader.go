package ports

import (
	"context"

	"github.com/aretw0/chomsky/pkg/domain"
)

// GrammarLibrary defines how named grammars are retrieved.
// This allows the storage layer (Loam, Memory) to be decoupled.
type GrammarLibrary interface {
	// Get returns the entry with the given name.
	// Returns domain.ErrGrammarNotFound if it does not exist.
	Get(ctx context.Context, name string) (*domain.LibraryEntry, error)

	// List returns the names of all grammars, sorted.
	List(ctx context.Context) ([]string, error)
}
