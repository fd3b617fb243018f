package coach

import (
	"testing"
	"time"

	"salescoach/app/service/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *content.Snapshot {
	return &content.Snapshot{
		TriggerPatterns: []content.TriggerPattern{
			{ID: "price_objection", Keywords: []string{"dyrt", "kostar"}, Kind: content.KindObjection},
			{ID: "competitor_salesforce", Keywords: []string{"salesforce"}, Kind: content.KindBattlecard, CompetitorID: "salesforce"},
			{ID: "competitor_other", Keywords: []string{"annan leverantör"}, Kind: content.KindBattlecard},
			{ID: "offer_pilot", Keywords: []string{"testa"}, Kind: content.KindOffer, OfferID: "pilot"},
			{ID: "pain_signal", Keywords: []string{"problem"}, Kind: content.KindSolution},
			{ID: "buying_signal", Keywords: []string{"nästa steg"}, Kind: content.KindExpand},
		},
		ObjectionHandlers: []content.ObjectionHandler{
			{
				ID:              "price",
				ObjectionText:   "Pris",
				TriggerKeywords: []string{"dyrt", "kostar"},
				Responses: content.Responses{
					Short:             "Fokusera på värdet",
					Detailed:          "Räkna på tidsbesparingen",
					FollowUpQuestions: []string{"Vad kostar nuläget?"},
				},
			},
		},
		Battlecards: []content.Battlecard{
			{
				ID:              "salesforce",
				CompetitorName:  "Salesforce",
				TheirWeaknesses: []string{"lång implementationstid"},
				OurAdvantages:   []string{"igång på två veckor"},
				TalkingPoints:   []string{"Fråga om implementationskostnaden"},
			},
			{
				ID:              "generic",
				CompetitorName:  "Annan leverantör",
				TheirWeaknesses: []string{"okänd leveransförmåga"},
				OurAdvantages:   []string{"fast pris"},
			},
		},
		CaseStudies: []content.CaseStudy{
			{ID: "case_nordbygg", CustomerName: "Nordbygg AB", Results: "halverad offerttid", IsPublic: true},
			{ID: "case_secret", CustomerName: "Hemlig AB", Results: "okänd"},
		},
		Offers: []content.Offer{
			{
				ID:               "pilot",
				Name:             "Pilotprojekt",
				ShortDescription: "Sex veckors pilot",
				Deliverables:     []string{"uppsättning", "utbildning", "rapport", "plan"},
				Duration:         "6 veckor",
				Price:            content.PriceRange{Min: 90, Max: 140, Unit: "tkr"},
				RelatedCaseIDs:   []string{"case_secret", "case_nordbygg"},
			},
		},
	}
}

func TestSynthesizeObjection(t *testing.T) {
	tips := Synthesize("Det är för dyrt för oss", nil, testSnapshot())
	require.Len(t, tips, 1)

	tip := tips[0]
	assert.Equal(t, "price_objection:objection", tip.ID)
	assert.Equal(t, content.KindObjection, tip.Kind)
	assert.Equal(t, PriorityHigh, tip.Priority)
	assert.Equal(t, "dyrt", tip.TriggerKeyword)
	assert.Equal(t, "Invändning: Pris", tip.Title)
	assert.Equal(t, "Fokusera på värdet", tip.Body)
	require.Len(t, tip.TalkingPoints, 2)
	assert.Equal(t, "Räkna på tidsbesparingen", tip.TalkingPoints[0])
	assert.Equal(t, "Follow-up: Vad kostar nuläget?", tip.TalkingPoints[1])
}

func TestSynthesizeBattlecard(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantTitle string
	}{
		{
			name:      "known competitor",
			text:      "Vi tittar på Salesforce just nu",
			wantTitle: "Konkurrent: Salesforce",
		},
		{
			name:      "unmapped competitor falls back to default card",
			text:      "Vi har fått en offert från en annan leverantör",
			wantTitle: "Konkurrent: Annan leverantör",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tips := Synthesize(tt.text, nil, testSnapshot())
			require.Len(t, tips, 1)

			assert.Equal(t, content.KindBattlecard, tips[0].Kind)
			assert.Equal(t, tt.wantTitle, tips[0].Title)
			assert.NotEmpty(t, tips[0].TalkingPoints)
		})
	}
}

func TestSynthesizeOffer(t *testing.T) {
	tips := Synthesize("Kan vi få testa det först?", nil, testSnapshot())
	require.Len(t, tips, 1)

	tip := tips[0]
	assert.Equal(t, "Erbjudande: Pilotprojekt", tip.Title)
	assert.Equal(t, PriorityMedium, tip.Priority)
	assert.Equal(t, "pilot", tip.RelatedOfferID)
	// only the public case study may be used as social proof
	assert.Equal(t, "case_nordbygg", tip.RelatedCaseID)
	assert.Contains(t, tip.TalkingPoints, "Pris: 90–140 tkr")
	assert.Contains(t, tip.TalkingPoints, "Referens: Nordbygg AB – halverad offerttid")
}

func TestSynthesizeCaps(t *testing.T) {
	text := "Det är dyrt, vi har problem, vi använder Salesforce och vill testa nästa steg"

	tips := Synthesize(text, nil, testSnapshot())
	assert.Len(t, tips, maxTipsPerCall)
}

func TestSynthesizeDedup(t *testing.T) {
	t.Run("first trigger per pattern wins", func(t *testing.T) {
		tips := Synthesize("Det är dyrt och det kostar för mycket", nil, testSnapshot())
		require.Len(t, tips, 1)
		assert.Equal(t, "dyrt", tips[0].TriggerKeyword)
	})

	t.Run("already shown tip is skipped", func(t *testing.T) {
		tips := Synthesize("Det är för dyrt", []string{"price_objection:objection"}, testSnapshot())
		assert.Empty(t, tips)
	})
}

func TestMergeQueue(t *testing.T) {
	tip := func(id string, dismissed bool) Tip {
		return Tip{ID: id, Dismissed: dismissed, CreatedAt: time.Now()}
	}

	queue := []Tip{tip("a", false), tip("b", true), tip("c", false), tip("d", false)}
	fresh := []Tip{tip("e", false), tip("f", false)}

	merged := MergeQueue(queue, fresh)

	require.Len(t, merged, maxQueueSize)

	var ids []string
	for _, item := range merged {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"a", "c", "d", "e", "f"}, ids)
}
