package coach

import (
	"context"
	"fmt"
	"strings"
	"time"

	"salescoach/app/service/content"
	"salescoach/app/service/trigger"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

const (
	maxTipsPerCall  = 3
	maxQueueSize    = 5
	maxDeliverables = 3
)

var discoveryQuestions = []string{
	"Hur hanterar ni det här idag?",
	"Vad kostar det er när det inte fungerar?",
	"Vem mer påverkas av det här problemet?",
	"Vad har ni redan provat?",
}

var closingSuggestions = []string{
	"Föreslå ett uppföljningsmöte med beslutsfattare",
	"Erbjud en skräddarsydd demo på deras eget case",
	"Fråga om tidplan: när vill de se resultat?",
	"Sammanfatta värdet och bekräfta nästa steg",
}

type Service struct {
	contentSvc *content.Service
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		contentSvc: do.MustInvoke[*content.Service](di),
	}, nil
}

func (s *Service) Synthesize(ctx context.Context, text string, existingTipIDs []string) ([]Tip, error) {
	snap, err := s.contentSvc.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("contentSvc.Snapshot: %w", err)
	}

	return Synthesize(text, existingTipIDs, snap), nil
}

// Synthesize turns detected triggers into at most three tips. The first
// trigger per pattern wins; triggers whose tip was already shown (by content
// identity) or that find no matching content are silently skipped.
func Synthesize(text string, existingTipIDs []string, snap *content.Snapshot) []Tip {
	detected := trigger.Detect(text, snap.TriggerPatterns)

	existing := make(map[string]bool, len(existingTipIDs))
	for _, id := range existingTipIDs {
		existing[id] = true
	}

	seenPatterns := make(map[string]bool)
	now := time.Now()

	var tips []Tip

	for _, d := range detected {
		if len(tips) >= maxTipsPerCall {
			break
		}

		if seenPatterns[d.PatternID] {
			continue
		}
		seenPatterns[d.PatternID] = true

		if existing[tipID(d.PatternID, d.Kind)] {
			continue
		}

		var tip *Tip

		switch d.Kind {
		case content.KindObjection:
			tip = objectionTip(d, text, snap)
		case content.KindBattlecard:
			tip = battlecardTip(d, snap)
		case content.KindOffer:
			tip = offerTip(d, snap)
		case content.KindSolution:
			tip = solutionTip(d)
		case content.KindExpand:
			tip = expandTip(d)
		}

		if tip == nil {
			continue
		}

		tip.ID = tipID(d.PatternID, d.Kind)
		tip.Kind = d.Kind
		tip.TriggerKeyword = d.MatchedKeyword
		tip.CreatedAt = now

		tips = append(tips, *tip)
	}

	return tips
}

func objectionTip(d trigger.Detected, text string, snap *content.Snapshot) *Tip {
	lower := strings.ToLower(text)

	var handler *content.ObjectionHandler
	for i := range snap.ObjectionHandlers {
		for _, keyword := range snap.ObjectionHandlers[i].TriggerKeywords {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				handler = &snap.ObjectionHandlers[i]
				break
			}
		}
		if handler != nil {
			break
		}
	}

	if handler == nil {
		return nil
	}

	points := []string{handler.Responses.Detailed}
	for _, question := range handler.Responses.FollowUpQuestions {
		points = append(points, "Follow-up: "+question)
	}

	return &Tip{
		Priority:      PriorityHigh,
		Title:         fmt.Sprintf("Invändning: %s", handler.ObjectionText),
		Body:          handler.Responses.Short,
		TalkingPoints: points,
	}
}

func battlecardTip(d trigger.Detected, snap *content.Snapshot) *Tip {
	pattern := snap.PatternByID(d.PatternID)

	var card *content.Battlecard
	if pattern != nil {
		card = snap.BattlecardByID(pattern.CompetitorID)
	}
	if card == nil {
		card = snap.DefaultBattlecard()
	}
	if card == nil {
		return nil
	}

	points := []string{
		"Deras svagheter: " + strings.Join(card.TheirWeaknesses, ", "),
		"Våra fördelar: " + strings.Join(card.OurAdvantages, ", "),
	}
	points = append(points, card.TalkingPoints...)

	return &Tip{
		Priority:      PriorityHigh,
		Title:         fmt.Sprintf("Konkurrent: %s", card.CompetitorName),
		Body:          fmt.Sprintf("Kunden nämnde %s, positionera utan att prata ner dem", card.CompetitorName),
		TalkingPoints: points,
	}
}

func offerTip(d trigger.Detected, snap *content.Snapshot) *Tip {
	pattern := snap.PatternByID(d.PatternID)

	var offer *content.Offer
	if pattern != nil {
		offer = snap.OfferByID(pattern.OfferID)
	}
	if offer == nil && len(snap.Offers) > 0 {
		offer = &snap.Offers[0]
	}
	if offer == nil {
		return nil
	}

	points := []string{
		fmt.Sprintf("Pris: %d–%d %s", offer.Price.Min, offer.Price.Max, offer.Price.Unit),
		"Tidsåtgång: " + offer.Duration,
	}
	points = append(points, pie.Top(offer.Deliverables, maxDeliverables)...)

	// Social proof: first public case study tied to the offer.
	var caseID string
	for _, id := range offer.RelatedCaseIDs {
		study := snap.CaseStudyByID(id)
		if study == nil || !study.IsPublic {
			continue
		}
		points = append(points, fmt.Sprintf("Referens: %s – %s", study.CustomerName, study.Results))
		caseID = study.ID
		break
	}

	return &Tip{
		Priority:       PriorityMedium,
		Title:          fmt.Sprintf("Erbjudande: %s", offer.Name),
		Body:           offer.ShortDescription,
		TalkingPoints:  points,
		RelatedOfferID: offer.ID,
		RelatedCaseID:  caseID,
	}
}

func solutionTip(d trigger.Detected) *Tip {
	return &Tip{
		Priority:      PriorityMedium,
		Title:         "Gräv djupare i behovet",
		Body:          "Kunden beskriver ett problem, ställ utforskande frågor innan du föreslår lösning",
		TalkingPoints: discoveryQuestions,
	}
}

func expandTip(d trigger.Detected) *Tip {
	return &Tip{
		Priority:      PriorityHigh,
		Title:         "Köpsignal",
		Body:          "Kunden visar intresse, styr mot nästa steg",
		TalkingPoints: closingSuggestions,
	}
}

// MergeQueue folds freshly synthesized tips into the undismissed queue and
// keeps the 5 most recent.
func MergeQueue(queue []Tip, fresh []Tip) []Tip {
	merged := pie.Filter(queue, func(t Tip) bool {
		return !t.Dismissed
	})
	merged = append(merged, fresh...)

	if len(merged) > maxQueueSize {
		merged = merged[len(merged)-maxQueueSize:]
	}

	return merged
}
