package discovery

import (
	"regexp"
	"strings"
)

var stateRank = map[SlotState]int{
	StateUnknown:   0,
	StatePartial:   1,
	StateConfirmed: 2,
}

// Advance moves a slot forward. Downgrades are ignored; only Reset may take a
// slot back. Reports whether anything changed.
func (s *Status) Advance(d Dimension, state SlotState, value string) bool {
	slot := s.slot(d)
	if slot == nil {
		return false
	}

	if stateRank[state] < stateRank[slot.State] {
		return false
	}

	changed := slot.State != state
	slot.State = state

	if value != "" && value != slot.Value {
		slot.Value = value
		changed = true
	}

	return changed
}

// Reset is the only way a slot goes back to unknown.
func (s *Status) Reset(d Dimension) {
	if slot := s.slot(d); slot != nil {
		*slot = Slot{State: StateUnknown}
	}
}

var (
	budgetRe = regexp.MustCompile(`(?i)\b\d[\d .,]*\s*(?:tkr|mkr|msek|ksek|sek|kr|kronor|miljoner)\b|\$\s*\d[\d,.]*`)

	timeframePhrases = []string{
		"nästa kvartal", "nästa månad", "nästa år", "nästa vecka",
		"q1", "q2", "q3", "q4",
		"i år", "till sommaren", "innan jul", "innan årsskiftet",
		"next quarter", "next month", "next year", "this year", "this quarter",
	}

	rolePhrases = []string{
		"vd", "ceo", "cfo", "cto", "cio", "it-chef", "ekonomichef",
		"beslutsfattare", "ägare", "grundare",
		"director", "owner", "founder", "decision maker", "head of",
	}

	painPhrases = []string{
		"problem med", "utmaning", "svårt att", "frustrer",
		"tar för lång tid", "fungerar inte", "manuellt", "tappar",
		"struggle", "pain point", "bottleneck",
	}
)

// DetectEntities runs the free-text heuristics over a note. Competitor names
// come from the content snapshot so new battlecards are picked up without a
// code change.
func DetectEntities(text string, competitors []string) Entities {
	lower := strings.ToLower(text)

	var ents Entities

	if m := budgetRe.FindString(text); m != "" {
		ents.BudgetAmount = strings.TrimSpace(m)
	}

	for _, phrase := range timeframePhrases {
		if containsWordish(lower, phrase) {
			ents.Timeframe = phrase
			break
		}
	}

	for _, phrase := range rolePhrases {
		if containsWordish(lower, phrase) {
			ents.Role = phrase
			break
		}
	}

	for _, phrase := range painPhrases {
		if idx := strings.Index(lower, phrase); idx >= 0 {
			ents.PainPoint = painExcerpt(text, idx)
			break
		}
	}

	for _, name := range competitors {
		if strings.Contains(lower, strings.ToLower(name)) {
			ents.CompetitorName = name
			break
		}
	}

	return ents
}

// ApplyText advances slots to partial from whatever the entity detection found.
func (s *Status) ApplyText(ents Entities) {
	if ents.BudgetAmount != "" {
		s.Advance(Budget, StatePartial, ents.BudgetAmount)
	}
	if ents.Role != "" {
		s.Advance(Authority, StatePartial, ents.Role)
	}
	if ents.Timeframe != "" {
		s.Advance(Timeline, StatePartial, ents.Timeframe)
	}
	if ents.PainPoint != "" {
		s.Advance(Need, StatePartial, ents.PainPoint)
	}
}

// ApplyTag handles a curated quick action: an explicit tag confirms its
// dimension outright.
func (s *Status) ApplyTag(d Dimension, value string) bool {
	return s.Advance(d, StateConfirmed, value)
}

// containsWordish avoids matching short role keywords inside other words
// ("vd" in "avdelning"); longer phrases use a plain substring check.
func containsWordish(lower, phrase string) bool {
	if len(phrase) > 3 || strings.Contains(phrase, " ") {
		return strings.Contains(lower, phrase)
	}

	idx := strings.Index(lower, phrase)
	for idx >= 0 {
		beforeOK := idx == 0 || !isLetter(lower[idx-1])
		afterIdx := idx + len(phrase)
		afterOK := afterIdx >= len(lower) || !isLetter(lower[afterIdx])

		if beforeOK && afterOK {
			return true
		}

		next := strings.Index(lower[idx+1:], phrase)
		if next < 0 {
			return false
		}
		idx += 1 + next
	}

	return false
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= 0x80
}

// painExcerpt grabs a short window of the original text around the pain
// phrase so the summary shows the customer's own words.
func painExcerpt(text string, idx int) string {
	end := min(idx+80, len(text))
	excerpt := text[idx:end]

	if cut := strings.IndexAny(excerpt, ".!?\n"); cut > 0 {
		excerpt = excerpt[:cut]
	}

	return strings.TrimSpace(excerpt)
}
