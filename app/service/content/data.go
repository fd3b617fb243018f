package content

type ResponseKind string

const (
	KindObjection  ResponseKind = "objection"
	KindBattlecard ResponseKind = "battlecard"
	KindOffer      ResponseKind = "offer"
	KindSolution   ResponseKind = "solution"
	KindExpand     ResponseKind = "expand"
)

// TriggerPattern maps a set of keywords to a response kind. Battlecard patterns
// carry the competitor they point at, offer patterns the offer; both are resolved
// when the snapshot is loaded so a broken mapping fails early instead of at tip time.
type TriggerPattern struct {
	ID           string       `json:"id" validate:"required"`
	Keywords     []string     `json:"keywords" validate:"required,min=1"`
	Kind         ResponseKind `json:"kind" validate:"required,oneof=objection battlecard offer solution expand"`
	Category     string       `json:"category"`
	CompetitorID string       `json:"competitor_id,omitempty"`
	OfferID      string       `json:"offer_id,omitempty"`
}

type Responses struct {
	Short             string   `json:"short"`
	Detailed          string   `json:"detailed"`
	FollowUpQuestions []string `json:"follow_up_questions"`
}

type ObjectionHandler struct {
	ID              string    `json:"id"`
	ObjectionText   string    `json:"objection_text"`
	TriggerKeywords []string  `json:"trigger_keywords"`
	Category        string    `json:"category"`
	Responses       Responses `json:"responses"`
}

type Battlecard struct {
	ID               string   `json:"id"`
	CompetitorName   string   `json:"competitor_name"`
	TheirStrengths   []string `json:"their_strengths"`
	TheirWeaknesses  []string `json:"their_weaknesses"`
	OurAdvantages    []string `json:"our_advantages"`
	TalkingPoints    []string `json:"talking_points"`
	CommonObjections []string `json:"common_objections"`
}

type CaseStudy struct {
	ID           string `json:"id"`
	CustomerName string `json:"customer_name"`
	Industry     string `json:"industry"`
	Challenge    string `json:"challenge"`
	Solution     string `json:"solution"`
	Results      string `json:"results"`
	Quote        string `json:"quote"`
	IsPublic     bool   `json:"is_public"`
}

type PriceRange struct {
	Min  int    `json:"min"`
	Max  int    `json:"max"`
	Unit string `json:"unit"`
}

type Offer struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	ShortDescription string     `json:"short_description"`
	FullDescription  string     `json:"full_description"`
	Deliverables     []string   `json:"deliverables"`
	Duration         string     `json:"duration"`
	Price            PriceRange `json:"price"`
	TargetAudience   string     `json:"target_audience"`
	RelatedCaseIDs   []string   `json:"related_case_ids"`
}

// Snapshot is an immutable view of the content library, shared read-only
// across all sessions.
type Snapshot struct {
	TriggerPatterns   []TriggerPattern
	ObjectionHandlers []ObjectionHandler
	Battlecards       []Battlecard
	CaseStudies       []CaseStudy
	Offers            []Offer
}

// defaultBattlecardID is the card used when a pattern points at a competitor
// we have no card for.
const defaultBattlecardID = "generic"

func (s *Snapshot) PatternByID(id string) *TriggerPattern {
	for i := range s.TriggerPatterns {
		if s.TriggerPatterns[i].ID == id {
			return &s.TriggerPatterns[i]
		}
	}

	return nil
}

func (s *Snapshot) BattlecardByID(id string) *Battlecard {
	for i := range s.Battlecards {
		if s.Battlecards[i].ID == id {
			return &s.Battlecards[i]
		}
	}

	return nil
}

func (s *Snapshot) DefaultBattlecard() *Battlecard {
	if card := s.BattlecardByID(defaultBattlecardID); card != nil {
		return card
	}

	if len(s.Battlecards) > 0 {
		return &s.Battlecards[0]
	}

	return nil
}

func (s *Snapshot) OfferByID(id string) *Offer {
	for i := range s.Offers {
		if s.Offers[i].ID == id {
			return &s.Offers[i]
		}
	}

	return nil
}

func (s *Snapshot) CaseStudyByID(id string) *CaseStudy {
	for i := range s.CaseStudies {
		if s.CaseStudies[i].ID == id {
			return &s.CaseStudies[i]
		}
	}

	return nil
}

// CompetitorNames lists every competitor we have a battlecard for.
func (s *Snapshot) CompetitorNames() []string {
	names := make([]string, 0, len(s.Battlecards))
	for _, card := range s.Battlecards {
		if card.ID == defaultBattlecardID {
			continue
		}
		names = append(names, card.CompetitorName)
	}

	return names
}
