package trigger

import "salescoach/app/service/content"

// Detected is a single keyword hit, discarded after tip synthesis.
type Detected struct {
	PatternID      string
	MatchedKeyword string
	Position       int
	Confidence     float64
	Kind           content.ResponseKind
}
