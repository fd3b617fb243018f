package answer

import "context"

// KnowledgeDocument is a retrievable passage; Similarity is attached at query
// time and never stored.
type KnowledgeDocument struct {
	ID         string  `json:"id"`
	ProductID  string  `json:"product_id"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type Source struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
}

type Result struct {
	AnswerText string     `json:"answer_text"`
	Sources    []Source   `json:"sources"`
	Confidence Confidence `json:"confidence"`
}

// Embedder turns text into a vector. Input is truncated to the provider limit
// before the call.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorStore searches (and ingests) knowledge documents. An empty search
// result is valid, not an error.
type VectorStore interface {
	SimilaritySearch(ctx context.Context, vector []float32, threshold float64, topK int, productID string) ([]KnowledgeDocument, error)
	Upsert(ctx context.Context, doc KnowledgeDocument, vector []float32) error
}

// Completion generates the grounded answer text.
type Completion interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
