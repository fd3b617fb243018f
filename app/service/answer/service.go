package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"salescoach/app/config"
	"salescoach/app/util/errkind"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"

	_ "embed"
)

//go:embed answer_prompt.txt
var answerPromptTemplate string

const (
	excerptLimit      = 1500
	sourceExcerpt     = 200
	maxEmbedChars     = 8000
	ingestConcurrency = 4
	contextDelimiter  = "\n---\n"

	fallbackMessage = "Jag kunde inte generera ett svar just nu, försök igen om en stund."
)

type Service struct {
	cfg        *config.Config
	embedder   Embedder
	store      VectorStore
	completion Completion
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:        do.MustInvoke[*config.Config](di),
		embedder:   do.MustInvoke[Embedder](di),
		store:      do.MustInvoke[VectorStore](di),
		completion: do.MustInvoke[Completion](di),
	}, nil
}

// Answer runs the retrieval pipeline sequentially: embed, search, ground,
// generate. A failed embed or search fails the call; a failed generation
// degrades to a fallback message so the caller always gets a Result otherwise.
func (s *Service) Answer(ctx context.Context, question, productID string) (*Result, error) {
	if strings.TrimSpace(question) == "" {
		return nil, oops.Code(errkind.Validation).Errorf("question is empty")
	}

	vector, err := s.embedder.Embed(ctx, truncate(question, maxEmbedChars))
	if err != nil {
		return nil, oops.Code(errkind.Upstream).Errorf("failed to embed question: %w", err)
	}

	docs, err := s.store.SimilaritySearch(ctx, vector, s.cfg.Answer.SimilarityThreshold, s.cfg.Answer.TopK, productID)
	if err != nil {
		return nil, oops.Code(errkind.Upstream).Errorf("similarity search failed: %w", err)
	}

	systemPrompt := strings.ReplaceAll(answerPromptTemplate, "{context}", groundingContext(docs))

	answerText, err := s.completion.Complete(ctx, systemPrompt, question)
	if err != nil {
		slog.Warn("Answer generation failed, returning fallback message",
			"question", question,
			"error", err)
		answerText = fallbackMessage
	}

	sources := pie.Map(docs, func(doc KnowledgeDocument) Source {
		return Source{
			Title:   doc.Title,
			Excerpt: truncate(doc.Content, sourceExcerpt),
		}
	})

	return &Result{
		AnswerText: answerText,
		Sources:    sources,
		Confidence: computeConfidence(docs),
	}, nil
}

// Ingest embeds a document and stores it in the knowledge base.
func (s *Service) Ingest(ctx context.Context, doc KnowledgeDocument) error {
	vector, err := s.embedder.Embed(ctx, truncate(doc.Title+"\n"+doc.Content, maxEmbedChars))
	if err != nil {
		return oops.Code(errkind.Upstream).Errorf("failed to embed document: %w", err)
	}

	if err = s.store.Upsert(ctx, doc, vector); err != nil {
		return fmt.Errorf("store.Upsert: %w", err)
	}

	return nil
}

// IngestAll embeds and stores a batch of documents with bounded concurrency.
// The first failure cancels the remaining work.
func (s *Service) IngestAll(ctx context.Context, docs []KnowledgeDocument) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(ingestConcurrency)

	for _, doc := range docs {
		group.Go(func() error {
			return s.Ingest(groupCtx, doc)
		})
	}

	return group.Wait()
}

// computeConfidence: high above 0.8 mean similarity, medium above 0.7,
// otherwise low. No matches is always low.
func computeConfidence(docs []KnowledgeDocument) Confidence {
	if len(docs) == 0 {
		return ConfidenceLow
	}

	var sum float64
	for _, doc := range docs {
		sum += doc.Similarity
	}
	mean := sum / float64(len(docs))

	switch {
	case mean > 0.8:
		return ConfidenceHigh
	case mean > 0.7:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func groundingContext(docs []KnowledgeDocument) string {
	if len(docs) == 0 {
		return "(inga träffar i kunskapsbasen)"
	}

	parts := pie.Map(docs, func(doc KnowledgeDocument) string {
		return "### " + doc.Title + "\n" + truncate(doc.Content, excerptLimit)
	})

	return strings.Join(parts, contextDelimiter)
}

// truncate cuts at a rune boundary so excerpts never end in half a
// multibyte character.
func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}

	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}

	return text[:limit]
}
