package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/chomsky/pkg/domain"
)

// Library implements ports.GrammarLibrary using an in-memory map.
type Library struct {
	entries map[string]domain.LibraryEntry
}

// NewLibrary creates a library from raw grammar sources keyed by name.
func NewLibrary(sources map[string]string) *Library {
	entries := make(map[string]domain.LibraryEntry, len(sources))
	for name, src := range sources {
		entries[name] = domain.LibraryEntry{Name: name, Source: src}
	}
	return &Library{entries: entries}
}

// NewFromEntries creates a library from complete entries.
func NewFromEntries(entries ...domain.LibraryEntry) (*Library, error) {
	data := make(map[string]domain.LibraryEntry, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("entry missing name")
		}
		data[e.Name] = e
	}
	return &Library{entries: data}, nil
}

// Get retrieves an entry by name.
func (l *Library) Get(ctx context.Context, name string) (*domain.LibraryEntry, error) {
	e, ok := l.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrGrammarNotFound, name)
	}
	return &e, nil
}

// List returns all grammar names.
func (l *Library) List(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(l.entries))
	for k := range l.entries {
		names = append(names, k)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}
