package mediaadmin

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func edgeFor(linked uuid.UUID) *AssociationEdge {
	return &AssociationEdge{ID: uuid.New(), TrackID: uuid.New(), Edge: EdgeArtist, LinkedID: linked}
}

func TestDiffEdges(t *testing.T) {
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	t.Run("symmetric difference", func(t *testing.T) {
		edgeA, edgeB, edgeC := edgeFor(a), edgeFor(b), edgeFor(c)
		current := []*AssociationEdge{edgeA, edgeB, edgeC}
		desired := []uuid.UUID{b, c, d}

		toDelete, toCreate := diffEdges(current, desired)

		require.Len(t, toDelete, 1)
		assert.Equal(t, edgeA.ID, toDelete[0])
		require.Len(t, toCreate, 1)
		assert.Equal(t, d, toCreate[0])
	})

	t.Run("both empty", func(t *testing.T) {
		toDelete, toCreate := diffEdges(nil, nil)
		assert.Empty(t, toDelete)
		assert.Empty(t, toCreate)
	})

	t.Run("clear all", func(t *testing.T) {
		edgeA, edgeB := edgeFor(a), edgeFor(b)
		toDelete, toCreate := diffEdges([]*AssociationEdge{edgeA, edgeB}, []uuid.UUID{})
		assert.ElementsMatch(t, []uuid.UUID{edgeA.ID, edgeB.ID}, toDelete)
		assert.Empty(t, toCreate)
	})

	t.Run("create from scratch", func(t *testing.T) {
		toDelete, toCreate := diffEdges(nil, []uuid.UUID{a, b})
		assert.Empty(t, toDelete)
		assert.Equal(t, []uuid.UUID{a, b}, toCreate)
	})

	t.Run("identical sets untouched", func(t *testing.T) {
		edgeA, edgeB := edgeFor(a), edgeFor(b)
		toDelete, toCreate := diffEdges([]*AssociationEdge{edgeA, edgeB}, []uuid.UUID{a, b})
		assert.Empty(t, toDelete)
		assert.Empty(t, toCreate)
	})

	t.Run("duplicate desired ids create once", func(t *testing.T) {
		toDelete, toCreate := diffEdges(nil, []uuid.UUID{a, a, b})
		assert.Empty(t, toDelete)
		assert.Equal(t, []uuid.UUID{a, b}, toCreate)
	})
}

func TestNormalizeHashes(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"drops empty and whitespace", []string{"h1", "", "  ", "h2"}, []string{"h1", "h2"}},
		{"deduplicates preserving order", []string{"h2", "h1", "h2"}, []string{"h2", "h1"}},
		{"trims surrounding whitespace", []string{" h1 "}, []string{"h1"}},
		{"all empty", []string{"", "   "}, []string{}},
		{"nil input", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeHashes(tt.input))
		})
	}
}
