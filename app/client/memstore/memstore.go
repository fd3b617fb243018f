package memstore

import (
	"context"
	"math"
	"sync"

	"salescoach/app/service/answer"
	"salescoach/app/service/content"
	"salescoach/app/service/discovery"
	"salescoach/app/service/session"
	"salescoach/app/util/errkind"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
	"github.com/samber/oops"
)

// Store is the in-memory counterpart of pgstore, used in tests and when the
// database is disabled.
type Store struct {
	snapshot *content.Snapshot

	mu        sync.RWMutex
	notes     map[string][]session.MeetingNote
	discovery map[string]map[discovery.Dimension]discovery.Slot
	summaries map[string]session.LiveSummary
	docs      []storedDoc
}

type storedDoc struct {
	doc    answer.KnowledgeDocument
	vector []float32
}

var (
	_ content.Source     = (*Store)(nil)
	_ session.Repository = (*Store)(nil)
	_ answer.VectorStore = (*Store)(nil)
)

func NewWithSnapshot(snap *content.Snapshot) *Store {
	return &Store{
		snapshot:  snap,
		notes:     make(map[string][]session.MeetingNote),
		discovery: make(map[string]map[discovery.Dimension]discovery.Slot),
		summaries: make(map[string]session.LiveSummary),
	}
}

func New(_ *do.Injector) (*Store, error) {
	return NewWithSnapshot(Seed()), nil
}

func (s *Store) LoadSnapshot(_ context.Context) (*content.Snapshot, error) {
	return s.snapshot, nil
}

func (s *Store) AppendNote(_ context.Context, sessionID string, note session.MeetingNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes[sessionID] = append(s.notes[sessionID], note)

	return nil
}

func (s *Store) UpdateDiscovery(_ context.Context, sessionID string, dim discovery.Dimension, slot discovery.Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, ok := s.discovery[sessionID]
	if !ok {
		slots = make(map[discovery.Dimension]discovery.Slot)
		s.discovery[sessionID] = slots
	}
	slots[dim] = slot

	return nil
}

func (s *Store) SaveSummary(_ context.Context, sessionID string, summary session.LiveSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.summaries[sessionID] = summary

	return nil
}

func (s *Store) ReadSummary(_ context.Context, sessionID string) (*session.LiveSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, ok := s.summaries[sessionID]
	if !ok {
		return nil, oops.Code(errkind.NotFound).Errorf("no summary for session %q", sessionID)
	}

	return &summary, nil
}

func (s *Store) SimilaritySearch(_ context.Context, vector []float32, threshold float64, topK int, productID string) ([]answer.KnowledgeDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []answer.KnowledgeDocument
	for _, stored := range s.docs {
		if productID != "" && stored.doc.ProductID != productID {
			continue
		}

		similarity := cosineSimilarity(vector, stored.vector)
		if similarity < threshold {
			continue
		}

		doc := stored.doc
		doc.Similarity = similarity
		matches = append(matches, doc)
	}

	matches = pie.SortUsing(matches, func(a, b answer.KnowledgeDocument) bool {
		return a.Similarity > b.Similarity
	})

	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}

	return matches, nil
}

func (s *Store) Upsert(_ context.Context, doc answer.KnowledgeDocument, vector []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.docs {
		if s.docs[i].doc.ID == doc.ID {
			s.docs[i] = storedDoc{doc: doc, vector: vector}
			return nil
		}
	}

	s.docs = append(s.docs, storedDoc{doc: doc, vector: vector})

	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
