package memstore

import (
	"context"
	"testing"

	"salescoach/app/service/answer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilaritySearch(t *testing.T) {
	store := NewWithSnapshot(Seed())
	ctx := context.Background()

	docs := []struct {
		doc    answer.KnowledgeDocument
		vector []float32
	}{
		{answer.KnowledgeDocument{ID: "exact", ProductID: "pilot", Title: "Exakt"}, []float32{1, 0, 0}},
		{answer.KnowledgeDocument{ID: "close", ProductID: "pilot", Title: "Nära"}, []float32{0.9, 0.1, 0}},
		{answer.KnowledgeDocument{ID: "unrelated", ProductID: "pilot", Title: "Orelaterad"}, []float32{0, 0, 1}},
		{answer.KnowledgeDocument{ID: "other-product", ProductID: "annat", Title: "Annat"}, []float32{0.8, 0.2, 0}},
	}
	for _, d := range docs {
		require.NoError(t, store.Upsert(ctx, d.doc, d.vector))
	}

	query := []float32{1, 0, 0}

	t.Run("ordered by similarity with threshold", func(t *testing.T) {
		matches, err := store.SimilaritySearch(ctx, query, 0.6, 5, "")
		require.NoError(t, err)

		var ids []string
		for _, m := range matches {
			ids = append(ids, m.ID)
		}
		assert.Equal(t, []string{"exact", "close", "other-product"}, ids)
		assert.InDelta(t, 1.0, matches[0].Similarity, 1e-6)
	})

	t.Run("product filter", func(t *testing.T) {
		matches, err := store.SimilaritySearch(ctx, query, 0.6, 5, "annat")
		require.NoError(t, err)

		require.Len(t, matches, 1)
		assert.Equal(t, "other-product", matches[0].ID)
	})

	t.Run("topK limit", func(t *testing.T) {
		matches, err := store.SimilaritySearch(ctx, query, 0.6, 1, "")
		require.NoError(t, err)
		assert.Len(t, matches, 1)
	})

	t.Run("no matches above threshold", func(t *testing.T) {
		matches, err := store.SimilaritySearch(ctx, []float32{0, 1, 0}, 0.9, 5, "")
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestUpsertReplaces(t *testing.T) {
	store := NewWithSnapshot(Seed())
	ctx := context.Background()

	doc := answer.KnowledgeDocument{ID: "doc1", Title: "Version 1"}
	require.NoError(t, store.Upsert(ctx, doc, []float32{1, 0}))

	doc.Title = "Version 2"
	require.NoError(t, store.Upsert(ctx, doc, []float32{1, 0}))

	matches, err := store.SimilaritySearch(ctx, []float32{1, 0}, 0.5, 5, "")
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, "Version 2", matches[0].Title)
}
