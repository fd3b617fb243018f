package pgstore

import (
	"context"
	"errors"

	"salescoach/app/service/discovery"
	"salescoach/app/service/session"
	"salescoach/app/util/errkind"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"
)

var _ session.Repository = (*Store)(nil)

func (s *Store) AppendNote(ctx context.Context, sessionID string, note session.MeetingNote) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO meeting_notes
			(id, session_id, speaker, text, tags, budget_amount, pain_point, competitor_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		note.ID, sessionID, note.Speaker, note.Text, note.Tags,
		note.Entities.BudgetAmount, note.Entities.PainPoint, note.Entities.CompetitorName,
		note.Timestamp)
	if err != nil {
		return oops.Errorf("failed to insert meeting note: %w", err)
	}

	return nil
}

func (s *Store) UpdateDiscovery(ctx context.Context, sessionID string, dim discovery.Dimension, slot discovery.Slot) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO session_discovery (session_id, dimension, status, value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id, dimension)
		DO UPDATE SET status = EXCLUDED.status, value = EXCLUDED.value`,
		sessionID, dim, slot.State, slot.Value)
	if err != nil {
		return oops.Errorf("failed to upsert discovery slot: %w", err)
	}

	return nil
}

func (s *Store) SaveSummary(ctx context.Context, sessionID string, summary session.LiveSummary) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO session_summaries
			(session_id, duration_seconds, note_count, discovery_completion_rate,
			 interest_level, topics_discussed, pain_points, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (session_id)
		DO UPDATE SET
			duration_seconds = EXCLUDED.duration_seconds,
			note_count = EXCLUDED.note_count,
			discovery_completion_rate = EXCLUDED.discovery_completion_rate,
			interest_level = EXCLUDED.interest_level,
			topics_discussed = EXCLUDED.topics_discussed,
			pain_points = EXCLUDED.pain_points,
			updated_at = now()`,
		sessionID, summary.DurationSeconds, summary.NoteCount, summary.DiscoveryCompletionRate,
		summary.InterestLevel, summary.TopicsDiscussed, summary.PainPoints)
	if err != nil {
		return oops.Errorf("failed to upsert session summary: %w", err)
	}

	return nil
}

func (s *Store) ReadSummary(ctx context.Context, sessionID string) (*session.LiveSummary, error) {
	var summary session.LiveSummary

	err := s.pool.QueryRow(ctx, `
		SELECT duration_seconds, note_count, discovery_completion_rate,
		       interest_level, topics_discussed, pain_points
		FROM session_summaries
		WHERE session_id = $1`, sessionID).
		Scan(&summary.DurationSeconds, &summary.NoteCount, &summary.DiscoveryCompletionRate,
			&summary.InterestLevel, &summary.TopicsDiscussed, &summary.PainPoints)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, oops.Code(errkind.NotFound).Errorf("no summary for session %q", sessionID)
		}
		return nil, oops.Errorf("failed to read session summary: %w", err)
	}

	return &summary, nil
}
