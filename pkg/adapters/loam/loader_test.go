package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"

	"github.com/aretw0/chomsky/internal/testutils"
	"github.com/aretw0/chomsky/pkg/domain"
	"github.com/aretw0/chomsky/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibrary_Contract(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)
	ctx := context.Background()

	docs := []core.Document{
		{
			ID: "anbn.md",
			Content: `---
start: S
description: balanced a and b
---
S -> a S b | ε`,
		},
		{
			ID: "right.md",
			Content: `---
description: right recursion
---
S -> aS | b
`,
		},
	}
	for _, doc := range docs {
		require.NoError(t, repo.Save(ctx, doc))
	}

	lib := New(loam.NewTypedRepository[GrammarMetadata](repo))

	tests.GrammarLibraryContractTest(t, lib, map[string]domain.LibraryEntry{
		"anbn":  {Name: "anbn", Start: "S", Description: "balanced a and b", Source: "S -> a S b | ε"},
		"right": {Name: "right", Description: "right recursion", Source: "S -> aS | b"},
	})
}

func TestLibrary_NameOverride(t *testing.T) {
	tmpDir, _ := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, tmpDir, map[string]string{
		"expr-v2.md": "---\nname: expr\n---\nE -> E + T | T\nT -> x",
	})

	lib, err := Open(tmpDir)
	require.NoError(t, err)

	names, err := lib.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"expr"}, names)

	entry, err := lib.Get(context.Background(), "expr")
	require.NoError(t, err)
	assert.Equal(t, "E -> E + T | T\nT -> x", entry.Source)
}

func TestLibrary_DetectsCollisions(t *testing.T) {
	tmpDir, _ := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, tmpDir, map[string]string{
		"a.md": "---\nname: dup\n---\nS -> a",
		"b.md": "---\nname: dup\n---\nS -> b",
	})

	lib, err := Open(tmpDir)
	require.NoError(t, err)

	_, err = lib.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
	assert.Contains(t, err.Error(), "dup")
}
