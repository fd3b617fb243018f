package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"salescoach/app/config"
	"salescoach/app/service/analysis"
	"salescoach/app/service/coach"
	"salescoach/app/service/content"
	"salescoach/app/service/discovery"
	"salescoach/app/util/errkind"

	"github.com/elliotchance/pie/v2"
	"github.com/google/uuid"
	"github.com/samber/do"
	"github.com/samber/oops"
)

const (
	defaultInterest = 50
	analysisTimeout = 60 * time.Second
)

var interestByTag = map[string]int{
	"high":   85,
	"medium": 60,
	"low":    25,
}

var _ do.Shutdownable = (*Service)(nil)

type Service struct {
	contentSvc *content.Service
	coachSvc   *coach.Service
	extractor  analysis.Extractor
	repo       Repository

	summaryInterval time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return &Service{
		contentSvc:      do.MustInvoke[*content.Service](di),
		coachSvc:        do.MustInvoke[*coach.Service](di),
		extractor:       do.MustInvoke[analysis.Extractor](di),
		repo:            do.MustInvoke[Repository](di),
		summaryInterval: time.Duration(cfg.Session.SummaryIntervalSeconds) * time.Second,
		sessions:        make(map[string]*Session),
	}, nil
}

// Start opens a session and launches its summary ticker. The ticker lives
// until End (or Shutdown) cancels the session context.
func (s *Service) Start(ctx context.Context) *Session {
	sessCtx, cancel := context.WithCancelCause(ctx)

	sess := &Session{
		ID:            uuid.NewString(),
		StartedAt:     time.Now(),
		discovery:     discovery.NewStatus(),
		interestLevel: defaultInterest,
		ctx:           sessCtx,
		cancel:        cancel,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	go s.runAggregator(sess)

	slog.Info("Session started", "session_id", sess.ID)

	return sess
}

func (s *Service) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, oops.Code(errkind.NotFound).Errorf("unknown session %q", id)
	}

	return sess, nil
}

// AddNote appends a note, runs entity detection against the discovery state,
// synthesizes coaching tips and merges them into the queue. Returns the note
// and the freshly synthesized tips.
func (s *Service) AddNote(ctx context.Context, sessionID, text string, speaker Speaker, tags []string) (*MeetingNote, []coach.Tip, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, nil, err
	}

	if strings.TrimSpace(text) == "" {
		return nil, nil, oops.Code(errkind.Validation).Errorf("note text is empty")
	}

	var competitors []string
	snap, err := s.contentSvc.Snapshot(ctx)
	if err != nil {
		slog.Warn("Content snapshot unavailable, skipping competitor detection", "error", err)
	} else {
		competitors = snap.CompetitorNames()
	}

	ents := discovery.DetectEntities(text, competitors)

	note := MeetingNote{
		ID:        uuid.NewString(),
		Text:      text,
		Speaker:   speaker,
		Timestamp: time.Now(),
		Tags:      tags,
		Entities:  ents,
	}

	sess.mu.Lock()
	if sess.ended {
		sess.mu.Unlock()
		return nil, nil, oops.Code(errkind.Validation).Errorf("session %q already ended", sessionID)
	}

	sess.notes = append(sess.notes, note)

	changed := applyToDiscovery(&sess.discovery, ents, tags)

	if level := analysis.InterestFromText(strings.ToLower(text)); level != "" {
		sess.interestLevel = interestByTag[string(level)]
	}
	applyInterestTags(sess, tags)

	existingIDs := pie.Map(sess.tips, func(t coach.Tip) string { return t.ID })
	sess.mu.Unlock()

	if err = s.repo.AppendNote(ctx, sessionID, note); err != nil {
		return nil, nil, fmt.Errorf("repo.AppendNote: %w", err)
	}

	s.persistDiscovery(ctx, sess, changed)

	var fresh []coach.Tip
	if speaker != SpeakerSeller {
		fresh, err = s.coachSvc.Synthesize(ctx, text, existingIDs)
		if err != nil {
			slog.Warn("Tip synthesis failed", "session_id", sessionID, "error", err)
			fresh = nil
		}
	}

	sess.mu.Lock()
	sess.tips = coach.MergeQueue(sess.tips, fresh)
	sess.mu.Unlock()

	return &note, fresh, nil
}

// EditNote replaces a note's text in place; history order is untouched.
func (s *Service) EditNote(sessionID, noteID, text string) error {
	sess, err := s.Get(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	for i := range sess.notes {
		if sess.notes[i].ID == noteID {
			sess.notes[i].Text = text
			return nil
		}
	}

	return oops.Code(errkind.NotFound).Errorf("unknown note %q", noteID)
}

// DeleteNote tombstones a note without reordering history.
func (s *Service) DeleteNote(sessionID, noteID string) error {
	sess, err := s.Get(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	for i := range sess.notes {
		if sess.notes[i].ID == noteID {
			sess.notes[i].Deleted = true
			sess.notes[i].Text = ""
			return nil
		}
	}

	return oops.Code(errkind.NotFound).Errorf("unknown note %q", noteID)
}

func (s *Service) Notes(sessionID string) ([]MeetingNote, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.RLock()
	defer sess.mu.RUnlock()

	return append([]MeetingNote(nil), sess.notes...), nil
}

func (s *Service) Tips(sessionID string) ([]coach.Tip, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.RLock()
	defer sess.mu.RUnlock()

	return append([]coach.Tip(nil), sess.tips...), nil
}

func (s *Service) DismissTip(sessionID, tipID string) error {
	sess, err := s.Get(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	for i := range sess.tips {
		if sess.tips[i].ID == tipID {
			sess.tips[i].Dismissed = true
			return nil
		}
	}

	return oops.Code(errkind.NotFound).Errorf("unknown tip %q", tipID)
}

// ApplyTag is the curated quick action: it confirms a BANT dimension with a
// captured value.
func (s *Service) ApplyTag(ctx context.Context, sessionID string, dim discovery.Dimension, value string) error {
	sess, err := s.Get(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	changed := sess.discovery.ApplyTag(dim, value)
	slot := sess.discovery.Slot(dim)
	sess.mu.Unlock()

	if changed {
		if err = s.repo.UpdateDiscovery(ctx, sessionID, dim, slot); err != nil {
			slog.Warn("Failed to persist discovery update", "session_id", sessionID, "dimension", dim, "error", err)
		}
	}

	return nil
}

// ResetDiscovery is the only way a slot goes backwards.
func (s *Service) ResetDiscovery(ctx context.Context, sessionID string, dim discovery.Dimension) error {
	sess, err := s.Get(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	sess.discovery.Reset(dim)
	slot := sess.discovery.Slot(dim)
	sess.mu.Unlock()

	if err = s.repo.UpdateDiscovery(ctx, sessionID, dim, slot); err != nil {
		slog.Warn("Failed to persist discovery reset", "session_id", sessionID, "dimension", dim, "error", err)
	}

	return nil
}

// Summary recomputes the live rollup on demand. Recomputing twice with no new
// notes yields identical values (duration aside).
func (s *Service) Summary(sessionID string) (*LiveSummary, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}

	summary := s.recompute(sess)

	return &summary, nil
}

// End cancels the session's background work, runs the one-shot final analysis
// and persists the last summary. The analysis call is awaited exactly once and
// not retried.
func (s *Service) End(ctx context.Context, sessionID string) (*analysis.CallAnalysis, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.ended {
		final := sess.finalAnalysis
		sess.mu.Unlock()
		return final, nil
	}
	sess.ended = true
	transcript := buildTranscript(sess.notes)
	sess.mu.Unlock()

	sess.cancel(nil)

	analysisCtx, cancelAnalysis := context.WithTimeout(ctx, analysisTimeout)
	defer cancelAnalysis()

	final, err := s.extractor.Extract(analysisCtx, transcript, nil)
	if err != nil {
		slog.Warn("Final analysis failed", "session_id", sessionID, "error", err)
		final = &analysis.CallAnalysis{}
	}

	sess.mu.Lock()
	sess.finalAnalysis = final
	sess.mu.Unlock()

	summary := s.recompute(sess)
	if err = s.repo.SaveSummary(ctx, sessionID, summary); err != nil {
		slog.Warn("Failed to persist final summary", "session_id", sessionID, "error", err)
	}

	slog.Info("Session ended",
		"session_id", sessionID,
		"notes", summary.NoteCount,
		"discovery", summary.DiscoveryCompletionRate,
		"telegram", true)

	return final, nil
}

func (s *Service) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sess := range s.sessions {
		sess.cancel(nil)
	}

	return nil
}

// runAggregator recomputes and persists the live summary on the configured
// interval until the session context is cancelled.
func (s *Service) runAggregator(sess *Session) {
	ticker := time.NewTicker(s.summaryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sess.ctx.Done():
			return
		case <-ticker.C:
			summary := s.recompute(sess)

			if err := s.repo.SaveSummary(sess.ctx, sess.ID, summary); err != nil {
				slog.Warn("Failed to persist live summary", "session_id", sess.ID, "error", err)
			}
		}
	}
}

func (s *Service) recompute(sess *Session) LiveSummary {
	sess.mu.RLock()
	defer sess.mu.RUnlock()

	var topics, painPoints []string

	noteCount := 0
	for _, note := range sess.notes {
		if note.Deleted {
			continue
		}
		noteCount++

		for _, tag := range note.Tags {
			if !strings.HasPrefix(tag, "interest:") {
				topics = append(topics, tag)
			}
		}
		if note.Entities.CompetitorName != "" {
			topics = append(topics, note.Entities.CompetitorName)
		}
		if note.Entities.PainPoint != "" {
			painPoints = append(painPoints, note.Entities.PainPoint)
		}
	}

	return LiveSummary{
		DurationSeconds:         int(time.Since(sess.StartedAt).Seconds()),
		NoteCount:               noteCount,
		DiscoveryCompletionRate: sess.discovery.CompletionRate(),
		InterestLevel:           sess.interestLevel,
		TopicsDiscussed:         pie.Unique(topics),
		PainPoints:              pie.Unique(painPoints),
	}
}

type discoveryChange struct {
	dim  discovery.Dimension
	slot discovery.Slot
}

// applyToDiscovery advances slots from detected entities and explicit tags,
// returning what changed so the caller can persist it.
func applyToDiscovery(status *discovery.Status, ents discovery.Entities, tags []string) []discoveryChange {
	before := *status

	status.ApplyText(ents)

	for _, tag := range tags {
		switch discovery.Dimension(strings.ToLower(tag)) {
		case discovery.Budget:
			status.ApplyTag(discovery.Budget, ents.BudgetAmount)
		case discovery.Authority:
			status.ApplyTag(discovery.Authority, ents.Role)
		case discovery.Need:
			status.ApplyTag(discovery.Need, ents.PainPoint)
		case discovery.Timeline:
			status.ApplyTag(discovery.Timeline, ents.Timeframe)
		}
	}

	var changed []discoveryChange
	for _, dim := range discovery.Dimensions {
		if before.Slot(dim) != status.Slot(dim) {
			changed = append(changed, discoveryChange{dim: dim, slot: status.Slot(dim)})
		}
	}

	return changed
}

func applyInterestTags(sess *Session, tags []string) {
	for _, tag := range tags {
		level, found := strings.CutPrefix(tag, "interest:")
		if !found {
			continue
		}

		if value, ok := interestByTag[level]; ok {
			sess.interestLevel = value
		}
	}
}

func (s *Service) persistDiscovery(ctx context.Context, sess *Session, changed []discoveryChange) {
	for _, change := range changed {
		if err := s.repo.UpdateDiscovery(ctx, sess.ID, change.dim, change.slot); err != nil {
			slog.Warn("Failed to persist discovery update",
				"session_id", sess.ID,
				"dimension", change.dim,
				"error", err)
		}
	}
}

func buildTranscript(notes []MeetingNote) string {
	var builder strings.Builder

	for _, note := range notes {
		if note.Deleted {
			continue
		}

		builder.WriteString(fmt.Sprintf("%s: %s\n", note.Speaker, note.Text))
	}

	return builder.String()
}
