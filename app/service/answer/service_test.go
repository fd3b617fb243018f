package answer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"unicode/utf8"

	"salescoach/app/config"
	"salescoach/app/util/errkind"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}

	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeStore struct {
	docs []KnowledgeDocument
	err  error

	mu       sync.Mutex
	upserted []KnowledgeDocument
}

func (f *fakeStore) SimilaritySearch(_ context.Context, _ []float32, _ float64, _ int, _ string) ([]KnowledgeDocument, error) {
	return f.docs, f.err
}

func (f *fakeStore) Upsert(_ context.Context, doc KnowledgeDocument, _ []float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.upserted = append(f.upserted, doc)

	return nil
}

type fakeCompletion struct {
	response string
	err      error
}

func (f *fakeCompletion) Complete(_ context.Context, _, _ string) (string, error) {
	return f.response, f.err
}

func newTestService(embedder Embedder, store VectorStore, completion Completion) *Service {
	return &Service{
		cfg: &config.Config{
			Answer: config.Answer{SimilarityThreshold: 0.6, TopK: 5},
		},
		embedder:   embedder,
		store:      store,
		completion: completion,
	}
}

func TestAnswer(t *testing.T) {
	store := &fakeStore{
		docs: []KnowledgeDocument{
			{ID: "doc1", Title: "Prislista", Content: "Pilotprojektet kostar 90-140 tkr.", Similarity: 0.90},
		},
	}
	svc := newTestService(&fakeEmbedder{}, store, &fakeCompletion{response: "Piloten kostar 90-140 tkr."})

	result, err := svc.Answer(context.Background(), "Vad kostar piloten?", "")
	require.NoError(t, err)

	assert.Equal(t, "Piloten kostar 90-140 tkr.", result.AnswerText)
	assert.Equal(t, ConfidenceHigh, result.Confidence)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, "Prislista", result.Sources[0].Title)
	assert.Equal(t, "Pilotprojektet kostar 90-140 tkr.", result.Sources[0].Excerpt)
}

func TestAnswerConfidence(t *testing.T) {
	tests := []struct {
		name         string
		similarities []float64
		want         Confidence
	}{
		{name: "no matches", similarities: nil, want: ConfidenceLow},
		{name: "high mean", similarities: []float64{0.9, 0.85}, want: ConfidenceHigh},
		{name: "exactly 0.8 is medium", similarities: []float64{0.8}, want: ConfidenceMedium},
		{name: "mid range", similarities: []float64{0.75, 0.71}, want: ConfidenceMedium},
		{name: "exactly 0.7 is low", similarities: []float64{0.7}, want: ConfidenceLow},
		{name: "weak matches", similarities: []float64{0.65, 0.62}, want: ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var docs []KnowledgeDocument
			for _, similarity := range tt.similarities {
				docs = append(docs, KnowledgeDocument{Title: "doc", Similarity: similarity})
			}

			assert.Equal(t, tt.want, computeConfidence(docs))
		})
	}
}

func TestAnswerErrors(t *testing.T) {
	t.Run("empty question", func(t *testing.T) {
		svc := newTestService(&fakeEmbedder{}, &fakeStore{}, &fakeCompletion{})

		_, err := svc.Answer(context.Background(), "   ", "")
		require.Error(t, err)
		assert.True(t, errkind.Is(err, errkind.Validation))
	})

	t.Run("embedding failure", func(t *testing.T) {
		svc := newTestService(&fakeEmbedder{err: errors.New("connection refused")}, &fakeStore{}, &fakeCompletion{})

		_, err := svc.Answer(context.Background(), "Vad kostar piloten?", "")
		require.Error(t, err)
		assert.True(t, errkind.Is(err, errkind.Upstream))
	})

	t.Run("search failure", func(t *testing.T) {
		svc := newTestService(&fakeEmbedder{}, &fakeStore{err: errors.New("db down")}, &fakeCompletion{})

		_, err := svc.Answer(context.Background(), "Vad kostar piloten?", "")
		require.Error(t, err)
		assert.True(t, errkind.Is(err, errkind.Upstream))
	})

	t.Run("generation failure degrades to fallback message", func(t *testing.T) {
		store := &fakeStore{docs: []KnowledgeDocument{{Title: "Prislista", Similarity: 0.9}}}
		svc := newTestService(&fakeEmbedder{}, store, &fakeCompletion{err: errors.New("rate limited")})

		result, err := svc.Answer(context.Background(), "Vad kostar piloten?", "")
		require.NoError(t, err)

		assert.Equal(t, fallbackMessage, result.AnswerText)
		assert.Equal(t, ConfidenceHigh, result.Confidence)
		assert.Len(t, result.Sources, 1)
	})
}

func TestIngest(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(&fakeEmbedder{}, store, &fakeCompletion{})

	err := svc.Ingest(context.Background(), KnowledgeDocument{ID: "doc1", Title: "Prislista", Content: "..."})
	require.NoError(t, err)

	require.Len(t, store.upserted, 1)
	assert.Equal(t, "doc1", store.upserted[0].ID)
}

func TestIngestAll(t *testing.T) {
	t.Run("stores every document", func(t *testing.T) {
		store := &fakeStore{}
		svc := newTestService(&fakeEmbedder{}, store, &fakeCompletion{})

		docs := []KnowledgeDocument{
			{ID: "doc1", Title: "A"},
			{ID: "doc2", Title: "B"},
			{ID: "doc3", Title: "C"},
		}
		require.NoError(t, svc.IngestAll(context.Background(), docs))

		assert.Len(t, store.upserted, 3)
	})

	t.Run("embedding failure fails the batch", func(t *testing.T) {
		svc := newTestService(&fakeEmbedder{err: errors.New("connection refused")}, &fakeStore{}, &fakeCompletion{})

		err := svc.IngestAll(context.Background(), []KnowledgeDocument{{ID: "doc1"}})
		require.Error(t, err)
		assert.True(t, errkind.Is(err, errkind.Upstream))
	})
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{name: "under limit", text: "hej", limit: 10, want: "hej"},
		{name: "ascii cut", text: "offertmall", limit: 6, want: "offert"},
		{name: "cut on rune boundary", text: "förstudie", limit: 4, want: "för"},
		{name: "cut inside multibyte rune backs up", text: "förstudie", limit: 2, want: "f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.text, tt.limit)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestGroundingContext(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "(inga träffar i kunskapsbasen)", groundingContext(nil))
	})

	t.Run("documents joined with delimiter", func(t *testing.T) {
		docs := []KnowledgeDocument{
			{Title: "A", Content: "första"},
			{Title: "B", Content: "andra"},
		}

		assert.Equal(t, "### A\nförsta\n---\n### B\nandra", groundingContext(docs))
	})
}
