package coach

import (
	"time"

	"salescoach/app/service/content"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
)

// Tip lives only for the active session. Identity is content-based
// (pattern + kind) so the same underlying signal never regenerates a
// duplicate tip across repeated synthesis calls.
type Tip struct {
	ID             string               `json:"id"`
	Kind           content.ResponseKind `json:"kind"`
	Priority       Priority             `json:"priority"`
	TriggerKeyword string               `json:"trigger_keyword"`
	Title          string               `json:"title"`
	Body           string               `json:"body"`
	TalkingPoints  []string             `json:"talking_points"`
	RelatedOfferID string               `json:"related_offer_id,omitempty"`
	RelatedCaseID  string               `json:"related_case_id,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	Dismissed      bool                 `json:"dismissed"`
}

func tipID(patternID string, kind content.ResponseKind) string {
	return patternID + ":" + string(kind)
}
