package session

import (
	"context"
	"sync"
	"time"

	"salescoach/app/service/analysis"
	"salescoach/app/service/coach"
	"salescoach/app/service/discovery"
)

type Speaker string

const (
	SpeakerCustomer    Speaker = "customer"
	SpeakerSeller      Speaker = "seller"
	SpeakerObservation Speaker = "observation"
)

// MeetingNote history is append-only; edits and deletes mutate the entry in
// place and never reorder it.
type MeetingNote struct {
	ID        string             `json:"id"`
	Text      string             `json:"text"`
	Speaker   Speaker            `json:"speaker"`
	Timestamp time.Time          `json:"timestamp"`
	Tags      []string           `json:"tags"`
	Entities  discovery.Entities `json:"detected_entities"`
	Deleted   bool               `json:"deleted,omitempty"`
}

// LiveSummary is recomputed from scratch on every pass, never patched
// incrementally.
type LiveSummary struct {
	DurationSeconds         int      `json:"duration_seconds"`
	NoteCount               int      `json:"note_count"`
	DiscoveryCompletionRate int      `json:"discovery_completion_rate"`
	InterestLevel           int      `json:"interest_level"`
	TopicsDiscussed         []string `json:"topics_discussed"`
	PainPoints              []string `json:"pain_points"`
}

// Session exclusively owns its notes, discovery status and tip queue. The
// mutex only coordinates the owning caller with the summary ticker goroutine.
type Session struct {
	ID        string
	StartedAt time.Time

	mu            sync.RWMutex
	notes         []MeetingNote
	discovery     discovery.Status
	tips          []coach.Tip
	interestLevel int
	ended         bool
	finalAnalysis *analysis.CallAnalysis

	ctx    context.Context
	cancel context.CancelCauseFunc
}

// Repository is the persistence boundary for session state; the core treats
// it as a simple append/key store.
type Repository interface {
	AppendNote(ctx context.Context, sessionID string, note MeetingNote) error
	UpdateDiscovery(ctx context.Context, sessionID string, dim discovery.Dimension, slot discovery.Slot) error
	SaveSummary(ctx context.Context, sessionID string, summary LiveSummary) error
	ReadSummary(ctx context.Context, sessionID string) (*LiveSummary, error)
}
