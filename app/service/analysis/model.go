package analysis

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"

	_ "embed"
)

//go:embed analysis_prompt.txt
var analysisPromptTemplate string

// Completion is the schema-constrained generation port.
type Completion interface {
	CompleteJSON(ctx context.Context, prompt string) (string, error)
}

// Model extracts via the LLM and falls back to the heuristic path on any
// failure, so extraction itself never fails the calling operation.
type Model struct {
	completion Completion
	fallback   *Heuristic
}

var _ Extractor = (*Model)(nil)

// New builds the default extractor: model-backed wrapping the heuristic.
func New(di *do.Injector) (Extractor, error) {
	return &Model{
		completion: do.MustInvoke[Completion](di),
		fallback:   &Heuristic{},
	}, nil
}

func (m *Model) Extract(ctx context.Context, text string, existing *CallAnalysis) (*CallAnalysis, error) {
	prompt := strings.ReplaceAll(analysisPromptTemplate, "{text}", text)

	raw, err := m.completion.CompleteJSON(ctx, prompt)
	if err != nil {
		slog.Warn("Model extraction failed, using heuristic path", "error", err)
		return m.fallback.Extract(ctx, text, existing)
	}

	var fresh CallAnalysis
	if err = json.Unmarshal([]byte(raw), &fresh); err != nil {
		slog.Warn("Model extraction returned unparseable JSON, using heuristic path", "error", err)
		return m.fallback.Extract(ctx, text, existing)
	}

	return merge(existing, &fresh), nil
}

// merge folds fresh model output into the existing analysis: array fields are
// unioned, scalar fields only fill empty slots.
func merge(existing, fresh *CallAnalysis) *CallAnalysis {
	result := &CallAnalysis{}
	if existing != nil {
		*result = *existing
	}

	result.ProductsDiscussed = pie.Unique(append(result.ProductsDiscussed, fresh.ProductsDiscussed...))
	result.CompetitorsMentioned = pie.Unique(append(result.CompetitorsMentioned, fresh.CompetitorsMentioned...))
	result.ObjectionsRaised = pie.Unique(append(result.ObjectionsRaised, fresh.ObjectionsRaised...))
	result.PainPoints = pie.Unique(append(result.PainPoints, fresh.PainPoints...))
	result.KeyTopics = pie.Unique(append(result.KeyTopics, fresh.KeyTopics...))

	if result.Industry == "" {
		result.Industry = fresh.Industry
	}
	if result.CompanySize == "" {
		result.CompanySize = fresh.CompanySize
	}
	if result.InterestLevel == "" {
		result.InterestLevel = fresh.InterestLevel
	}
	if result.DecisionTimeframe == "" {
		result.DecisionTimeframe = fresh.DecisionTimeframe
	}
	if result.EstimatedValue == "" {
		result.EstimatedValue = fresh.EstimatedValue
	}
	if result.CloseProbability == 0 {
		result.CloseProbability = fresh.CloseProbability
	}
	if result.Summary == "" {
		result.Summary = fresh.Summary
	}

	return result
}
