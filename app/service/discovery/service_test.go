package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectEntities(t *testing.T) {
	competitors := []string{"Salesforce", "Hubspot"}

	tests := []struct {
		name string
		text string
		want Entities
	}{
		{
			name: "nothing detected",
			text: "Trevligt möte, vi tar en kaffe nästa gång",
			want: Entities{},
		},
		{
			name: "budget amount",
			text: "Vi har en budget på 500 tkr för det här",
			want: Entities{BudgetAmount: "500 tkr"},
		},
		{
			name: "role",
			text: "Jag är VD och tar beslutet själv",
			want: Entities{Role: "vd"},
		},
		{
			name: "short role not matched inside other words",
			text: "Hela avdelningen klagar på det här",
			want: Entities{},
		},
		{
			name: "timeframe",
			text: "Vi vill vara igång nästa kvartal",
			want: Entities{Timeframe: "nästa kvartal"},
		},
		{
			name: "pain point keeps the customer's words",
			text: "Vi har problem med rapporteringen varje månadsskifte. Annars ok.",
			want: Entities{PainPoint: "problem med rapporteringen varje månadsskifte"},
		},
		{
			name: "competitor from snapshot",
			text: "Vi kör hubspot idag",
			want: Entities{CompetitorName: "Hubspot"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectEntities(tt.text, competitors))
		})
	}
}

func TestStatusAdvance(t *testing.T) {
	status := NewStatus()

	assert.Equal(t, 0, status.CompletionRate())

	// free text only reaches partial
	status.ApplyText(Entities{BudgetAmount: "500 tkr"})
	assert.Equal(t, Slot{State: StatePartial, Value: "500 tkr"}, status.Slot(Budget))
	assert.Equal(t, 25, status.CompletionRate())

	// an explicit tag confirms
	status.ApplyTag(Budget, "500 tkr")
	status.ApplyTag(Authority, "vd")
	assert.Equal(t, Slot{State: StateConfirmed, Value: "500 tkr"}, status.Slot(Budget))
	assert.Equal(t, 50, status.CompletionRate())

	// later free text never downgrades a confirmed slot
	status.ApplyText(Entities{BudgetAmount: "200 tkr"})
	assert.Equal(t, Slot{State: StateConfirmed, Value: "500 tkr"}, status.Slot(Budget))

	// reset is the only way back
	status.Reset(Budget)
	assert.Equal(t, Slot{State: StateUnknown}, status.Slot(Budget))
	assert.Equal(t, 25, status.CompletionRate())
}

func TestStatusAdvanceReportsChange(t *testing.T) {
	status := NewStatus()

	assert.True(t, status.Advance(Need, StatePartial, "manuellt arbete"))
	assert.False(t, status.Advance(Need, StatePartial, "manuellt arbete"))
	assert.True(t, status.Advance(Need, StateConfirmed, ""))
	assert.False(t, status.Advance(Need, StatePartial, "nytt värde"))
	assert.False(t, status.Advance(Dimension("unknown-dimension"), StateConfirmed, "x"))
}
