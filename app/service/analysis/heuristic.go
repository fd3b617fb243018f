package analysis

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/elliotchance/pie/v2"
)

// Heuristic is the always-available extraction path: fixed keyword and regex
// tables, no external calls. It merges into the existing analysis without
// discarding previously captured fields.
type Heuristic struct{}

var _ Extractor = (*Heuristic)(nil)

var (
	moneyRe = regexp.MustCompile(`(?i)\b\d[\d .,]*\s*(?:tkr|mkr|msek|ksek|sek|kr|kronor|miljoner)\b|\$\s*\d[\d,.]*`)
	sizeRe  = regexp.MustCompile(`(?i)\b(\d+)\s*(?:anställda|personer|medarbetare|employees)\b`)

	productKeywords = []string{
		"förstudie", "workshop", "pilotprojekt", "utbildning",
		"integration", "support", "licens",
	}

	competitorKeywords = []string{
		"salesforce", "hubspot", "pipedrive", "superoffice", "lime",
	}

	// objection phrasing -> category
	objectionTable = map[string]string{
		"för dyrt":             "pris",
		"kostar för mycket":    "pris",
		"ingen budget":         "pris",
		"inte just nu":         "timing",
		"fel läge":             "timing",
		"återkom":              "timing",
		"redan en leverantör":  "konkurrent",
		"har redan ett system": "konkurrent",
		"måste fråga":          "befogenhet",
		"inte mitt beslut":     "befogenhet",
		"osäker på":            "förtroende",
		"låter riskabelt":      "förtroende",
	}

	painKeywords = []string{
		"problem med", "utmaning", "svårt att", "tar för lång tid",
		"fungerar inte", "manuellt", "frustrer", "tappar",
	}

	positivePhrases = []string{
		"låter intressant", "spännande", "vill veta mer", "imponerande",
		"när kan vi börja", "skicka en offert", "det behöver vi",
	}

	negativePhrases = []string{
		"inte intresserad", "tveksam", "ser inte värdet", "inte aktuellt",
	}

	industryTable = map[string]string{
		"bygg":         "bygg",
		"fastighet":    "fastighet",
		"handel":       "handel",
		"butik":        "handel",
		"tillverkning": "tillverkning",
		"industri":     "tillverkning",
		"vård":         "vård och omsorg",
		"finans":       "finans",
		"bank":         "finans",
		"it-bolag":     "tech",
		"mjukvara":     "tech",
	}

	timeframePhrases = []string{
		"nästa kvartal", "nästa månad", "nästa år",
		"q1", "q2", "q3", "q4",
		"i år", "till sommaren", "innan årsskiftet",
	}
)

const (
	baseProbability     = 50
	interestAdjustment  = 20
	objectionAdjustment = 5
)

func (h *Heuristic) Extract(_ context.Context, text string, existing *CallAnalysis) (*CallAnalysis, error) {
	lower := strings.ToLower(text)

	result := &CallAnalysis{}
	if existing != nil {
		*result = *existing
	}

	result.ProductsDiscussed = unionMatches(result.ProductsDiscussed, lower, productKeywords)
	result.CompetitorsMentioned = unionMatches(result.CompetitorsMentioned, lower, competitorKeywords)
	result.PainPoints = unionMatches(result.PainPoints, lower, painKeywords)
	result.KeyTopics = pie.Unique(append(result.KeyTopics, result.ProductsDiscussed...))

	var objectionCategories []string
	for phrase, category := range objectionTable {
		if strings.Contains(lower, phrase) {
			result.ObjectionsRaised = appendUnique(result.ObjectionsRaised, phrase)
			objectionCategories = appendUnique(objectionCategories, category)
		}
	}

	if result.InterestLevel == "" {
		result.InterestLevel = InterestFromText(lower)
	}

	if result.Industry == "" {
		for keyword, industry := range industryTable {
			if strings.Contains(lower, keyword) {
				result.Industry = industry
				break
			}
		}
	}

	if result.CompanySize == "" {
		if m := sizeRe.FindStringSubmatch(text); m != nil {
			result.CompanySize = fmt.Sprintf("%s anställda", m[1])
		}
	}

	if result.EstimatedValue == "" {
		if m := moneyRe.FindString(text); m != "" {
			result.EstimatedValue = strings.TrimSpace(m)
		}
	}

	if result.DecisionTimeframe == "" {
		for _, phrase := range timeframePhrases {
			if strings.Contains(lower, phrase) {
				result.DecisionTimeframe = phrase
				break
			}
		}
	}

	if result.CloseProbability == 0 {
		result.CloseProbability = closeProbability(result.InterestLevel, len(objectionCategories))
	}

	return result, nil
}

// closeProbability starts at 50, moves with interest and drops 5 per distinct
// objection category, clamped to [0,100].
func closeProbability(interest Interest, objectionCategories int) int {
	p := baseProbability

	switch interest {
	case InterestHigh:
		p += interestAdjustment
	case InterestLow:
		p -= interestAdjustment
	}

	p -= objectionAdjustment * objectionCategories

	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}

	return p
}

// InterestFromText maps sentiment phrases to an interest level. Empty result
// means no signal either way.
func InterestFromText(lower string) Interest {
	for _, phrase := range negativePhrases {
		if strings.Contains(lower, phrase) {
			return InterestLow
		}
	}

	for _, phrase := range positivePhrases {
		if strings.Contains(lower, phrase) {
			return InterestHigh
		}
	}

	return ""
}

func unionMatches(existing []string, lower string, keywords []string) []string {
	matched := pie.Filter(keywords, func(keyword string) bool {
		return strings.Contains(lower, keyword)
	})

	return pie.Unique(append(existing, matched...))
}

func appendUnique(ss []string, s string) []string {
	if pie.Contains(ss, s) {
		return ss
	}

	return append(ss, s)
}
