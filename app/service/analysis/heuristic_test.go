package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristicExtract(t *testing.T) {
	h := &Heuristic{}

	text := "Vi är ett byggbolag med 50 anställda och tittar på ett pilotprojekt, " +
		"men det är för dyrt och vi har redan ett system från Salesforce. " +
		"Budget ligger runt 200 tkr, beslut nästa kvartal."

	result, err := h.Extract(context.Background(), text, nil)
	require.NoError(t, err)

	assert.Equal(t, "bygg", result.Industry)
	assert.Equal(t, "50 anställda", result.CompanySize)
	assert.Equal(t, []string{"pilotprojekt"}, result.ProductsDiscussed)
	assert.Equal(t, []string{"salesforce"}, result.CompetitorsMentioned)
	assert.Equal(t, "200 tkr", result.EstimatedValue)
	assert.Equal(t, "nästa kvartal", result.DecisionTimeframe)
	assert.ElementsMatch(t, []string{"för dyrt", "har redan ett system"}, result.ObjectionsRaised)

	// no interest signal, two objection categories: 50 - 2*5
	assert.Equal(t, Interest(""), result.InterestLevel)
	assert.Equal(t, 40, result.CloseProbability)
}

func TestHeuristicCloseProbability(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "neutral",
			text: "Vi pratade om processen",
			want: 50,
		},
		{
			name: "high interest",
			text: "Det här låter intressant, berätta mer",
			want: 70,
		},
		{
			name: "low interest",
			text: "Vi är inte intresserade av att byta",
			want: 30,
		},
		{
			name: "high interest minus one objection category",
			text: "Låter intressant men det är för dyrt",
			want: 65,
		},
	}

	h := &Heuristic{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.Extract(context.Background(), tt.text, nil)
			require.NoError(t, err)

			assert.Equal(t, tt.want, result.CloseProbability)
		})
	}
}

func TestHeuristicFillOnly(t *testing.T) {
	h := &Heuristic{}

	existing := &CallAnalysis{
		Industry:          "finans",
		CompanySize:       "200 anställda",
		InterestLevel:     InterestLow,
		CloseProbability:  15,
		ProductsDiscussed: []string{"workshop"},
	}

	result, err := h.Extract(context.Background(),
		"Vi är ett byggbolag med 50 anställda, låter intressant med ett pilotprojekt", existing)
	require.NoError(t, err)

	// scalars already captured are kept
	assert.Equal(t, "finans", result.Industry)
	assert.Equal(t, "200 anställda", result.CompanySize)
	assert.Equal(t, InterestLow, result.InterestLevel)
	assert.Equal(t, 15, result.CloseProbability)

	// arrays are unioned
	assert.Equal(t, []string{"workshop", "pilotprojekt"}, result.ProductsDiscussed)
}

func TestHeuristicIdempotent(t *testing.T) {
	h := &Heuristic{}
	text := "Det är för dyrt men låter intressant, vi är ett byggbolag"

	first, err := h.Extract(context.Background(), text, nil)
	require.NoError(t, err)

	second, err := h.Extract(context.Background(), text, first)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
