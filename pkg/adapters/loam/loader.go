package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/chomsky/pkg/domain"
	"github.com/aretw0/loam"
)

// Library adapts a Loam repository to the ports.GrammarLibrary interface.
//
// Each grammar is a Markdown document:
//
//	---
//	start: S
//	description: a^n b^n
//	---
//	S -> a S b | ε
type Library struct {
	Repo *loam.TypedRepository[GrammarMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[GrammarMetadata]) *Library {
	return &Library{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository at dir.
func Open(dir string) (*Library, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[GrammarMetadata](repo)), nil
}

// index maps grammar names to document IDs.
func (l *Library) index(ctx context.Context) (map[string]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	byName := make(map[string]string, len(docs))
	for _, doc := range docs {
		docID := trimExtension(doc.ID)
		name := doc.Data.Name
		if name == "" {
			name = docID
		}
		name = trimExtension(name)

		if existing, ok := byName[name]; ok {
			return nil, fmt.Errorf("collision detected: grammar '%s' is defined in both '%s' and '%s'", name, existing, doc.ID)
		}
		byName[name] = docID
	}
	return byName, nil
}

// List returns all grammar names, sorted.
func (l *Library) List(ctx context.Context) ([]string, error) {
	byName, err := l.index(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Get loads a grammar by name.
func (l *Library) Get(ctx context.Context, name string) (*domain.LibraryEntry, error) {
	byName, err := l.index(ctx)
	if err != nil {
		return nil, err
	}

	docID, ok := byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrGrammarNotFound, name)
	}

	doc, err := l.Repo.Get(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", name, err)
	}

	return &domain.LibraryEntry{
		Name:        name,
		Start:       domain.Symbol(strings.TrimSpace(doc.Data.Start)),
		Description: strings.TrimSpace(doc.Data.Description),
		Source:      strings.TrimSpace(doc.Content),
	}, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
