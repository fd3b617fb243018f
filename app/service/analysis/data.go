package analysis

import "context"

type Interest string

const (
	InterestHigh   Interest = "high"
	InterestMedium Interest = "medium"
	InterestLow    Interest = "low"
)

// CallAnalysis is the shared output schema of both extraction strategies.
type CallAnalysis struct {
	Industry             string   `json:"industry,omitempty"`
	CompanySize          string   `json:"company_size,omitempty"`
	ProductsDiscussed    []string `json:"products_discussed,omitempty"`
	CompetitorsMentioned []string `json:"competitors_mentioned,omitempty"`
	ObjectionsRaised     []string `json:"objections_raised,omitempty"`
	PainPoints           []string `json:"pain_points,omitempty"`
	InterestLevel        Interest `json:"interest_level,omitempty"`
	DecisionTimeframe    string   `json:"decision_timeframe,omitempty"`
	EstimatedValue       string   `json:"estimated_value,omitempty"`
	CloseProbability     int      `json:"close_probability,omitempty"`
	Summary              string   `json:"summary,omitempty"`
	KeyTopics            []string `json:"key_topics,omitempty"`
}

// Extractor is implemented by the deterministic heuristic path and by the
// model-backed path that falls back to it.
type Extractor interface {
	Extract(ctx context.Context, text string, existing *CallAnalysis) (*CallAnalysis, error)
}
