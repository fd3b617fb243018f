package trigger

import (
	"strings"

	"salescoach/app/service/content"

	"github.com/elliotchance/pie/v2"
)

const (
	baseConfidence = 0.70
	earlyBonus     = 0.10
	sentimentBonus = 0.10
	questionBonus  = 0.05

	earlyWindow     = 20
	sentimentWindow = 20
)

// Words that make an objection-ish keyword hit more certain. The tool coaches
// Swedish sales conversations, so the lexicon is Swedish-first with the English
// phrases that show up in mixed calls.
var negativeWords = []string{
	"inte", "aldrig", "tyvärr", "dyrt", "dyr", "svårt", "problem",
	"dålig", "nej", "missnöjd", "osäker", "tveksam",
	"expensive", "difficult", "never", "worried", "concern", "risk",
}

// Detect scans text for every keyword of every pattern and returns one hit per
// matched keyword, earliest first. Pure function over the snapshot.
func Detect(text string, patterns []content.TriggerPattern) []Detected {
	lower := strings.ToLower(text)
	hasQuestion := strings.Contains(text, "?")

	var result []Detected

	for _, p := range patterns {
		for _, keyword := range p.Keywords {
			idx := strings.Index(lower, strings.ToLower(keyword))
			if idx < 0 {
				continue
			}

			confidence := baseConfidence
			if idx < earlyWindow {
				confidence += earlyBonus
			}
			if nearNegativeWord(lower, idx, len(keyword)) {
				confidence += sentimentBonus
			}
			if hasQuestion {
				confidence += questionBonus
			}
			if confidence > 1.0 {
				confidence = 1.0
			}

			result = append(result, Detected{
				PatternID:      p.ID,
				MatchedKeyword: keyword,
				Position:       idx,
				Confidence:     confidence,
				Kind:           p.Kind,
			})
		}
	}

	return pie.SortStableUsing(result, func(a, b Detected) bool {
		return a.Position < b.Position
	})
}

func nearNegativeWord(lower string, idx, keywordLen int) bool {
	start := max(idx-sentimentWindow, 0)
	end := min(idx+keywordLen+sentimentWindow, len(lower))
	window := lower[start:end]

	for _, word := range negativeWords {
		if strings.Contains(window, word) {
			return true
		}
	}

	return false
}
