package memstore

import "salescoach/app/service/content"

// Seed is the built-in content set used when no database is configured.
func Seed() *content.Snapshot {
	return &content.Snapshot{
		TriggerPatterns: []content.TriggerPattern{
			{
				ID:       "price_objection",
				Keywords: []string{"dyrt", "kostar", "pris", "budget räcker inte"},
				Kind:     content.KindObjection,
				Category: "pris",
			},
			{
				ID:       "timing_objection",
				Keywords: []string{"inte just nu", "återkom", "fel läge"},
				Kind:     content.KindObjection,
				Category: "timing",
			},
			{
				ID:           "competitor_salesforce",
				Keywords:     []string{"salesforce"},
				Kind:         content.KindBattlecard,
				Category:     "konkurrent",
				CompetitorID: "salesforce",
			},
			{
				ID:       "competitor_other",
				Keywords: []string{"annan leverantör", "jämför med", "offert från"},
				Kind:     content.KindBattlecard,
				Category: "konkurrent",
			},
			{
				ID:       "offer_pilot",
				Keywords: []string{"testa", "prova", "pilot"},
				Kind:     content.KindOffer,
				Category: "erbjudande",
				OfferID:  "pilot",
			},
			{
				ID:       "pain_signal",
				Keywords: []string{"problem", "utmaning", "manuellt", "tar för lång tid"},
				Kind:     content.KindSolution,
				Category: "behov",
			},
			{
				ID:       "buying_signal",
				Keywords: []string{"låter intressant", "nästa steg", "offert", "när kan vi börja"},
				Kind:     content.KindExpand,
				Category: "köpsignal",
			},
		},
		ObjectionHandlers: []content.ObjectionHandler{
			{
				ID:              "price",
				ObjectionText:   "Pris",
				TriggerKeywords: []string{"dyrt", "kostar", "pris"},
				Category:        "pris",
				Responses: content.Responses{
					Short:    "Fokusera på vad det kostar att inte lösa problemet.",
					Detailed: "Räkna på tidsbesparingen per månad och jämför mot investeringen, de flesta kunder är i balans inom ett kvartal.",
					FollowUpQuestions: []string{
						"Vad kostar nuläget er per månad?",
						"Vilken budget hade ni tänkt er?",
					},
				},
			},
			{
				ID:              "timing",
				ObjectionText:   "Tidpunkt",
				TriggerKeywords: []string{"inte just nu", "återkom", "fel läge"},
				Category:        "timing",
				Responses: content.Responses{
					Short:    "Fråga vad som behöver hända innan det blir rätt läge.",
					Detailed: "Ett senare beslut betyder ofta att problemet hinner kosta mer än lösningen, kvantifiera väntekostnaden.",
					FollowUpQuestions: []string{
						"När planerar ni att ta beslutet?",
					},
				},
			},
		},
		Battlecards: []content.Battlecard{
			{
				ID:              "salesforce",
				CompetitorName:  "Salesforce",
				TheirStrengths:  []string{"varumärke", "ekosystem"},
				TheirWeaknesses: []string{"lång implementationstid", "hög totalkostnad"},
				OurAdvantages:   []string{"igång på två veckor", "svensk support"},
				TalkingPoints:   []string{"Fråga vad implementationen offererats till"},
			},
			{
				ID:              "generic",
				CompetitorName:  "Annan leverantör",
				TheirStrengths:  []string{"etablerad relation"},
				TheirWeaknesses: []string{"okänd leveransförmåga"},
				OurAdvantages:   []string{"referenser i samma bransch", "fast pris"},
				TalkingPoints:   []string{"Be att få jämföra offerterna punkt för punkt"},
			},
		},
		CaseStudies: []content.CaseStudy{
			{
				ID:           "case_nordbygg",
				CustomerName: "Nordbygg AB",
				Industry:     "bygg",
				Challenge:    "Offertarbetet tog en vecka per anbud",
				Solution:     "Pilotprojekt med full utrullning efter sex veckor",
				Results:      "halverad offerttid",
				IsPublic:     true,
			},
		},
		Offers: []content.Offer{
			{
				ID:               "pilot",
				Name:             "Pilotprojekt",
				ShortDescription: "Sex veckors pilot på ert eget data",
				Deliverables:     []string{"uppsättning", "utbildning av två användare", "utvärderingsrapport", "plan för utrullning"},
				Duration:         "6 veckor",
				Price:            content.PriceRange{Min: 90, Max: 140, Unit: "tkr"},
				TargetAudience:   "bolag med 20-200 anställda",
				RelatedCaseIDs:   []string{"case_nordbygg"},
			},
		},
	}
}
