package pgstore

import (
	"context"

	"salescoach/app/service/answer"

	"github.com/pgvector/pgvector-go"
	"github.com/samber/oops"
)

var _ answer.VectorStore = (*Store)(nil)

// SimilaritySearch uses pgvector cosine distance; similarity = 1 - distance.
func (s *Store) SimilaritySearch(ctx context.Context, vector []float32, threshold float64, topK int, productID string) ([]answer.KnowledgeDocument, error) {
	if topK <= 0 {
		topK = 5
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, product_id, title, content, 1 - (embedding <=> $1::vector) AS similarity
		FROM knowledge_documents
		WHERE ($2 = '' OR product_id = $2)
		  AND 1 - (embedding <=> $1::vector) >= $3
		ORDER BY embedding <=> $1::vector
		LIMIT $4`,
		pgvector.NewVector(vector).String(), productID, threshold, topK)
	if err != nil {
		return nil, oops.Errorf("failed to run similarity search: %w", err)
	}
	defer rows.Close()

	var result []answer.KnowledgeDocument
	for rows.Next() {
		var doc answer.KnowledgeDocument
		if err = rows.Scan(&doc.ID, &doc.ProductID, &doc.Title, &doc.Content, &doc.Similarity); err != nil {
			return nil, oops.Errorf("failed to scan knowledge document: %w", err)
		}
		result = append(result, doc)
	}

	return result, rows.Err()
}

func (s *Store) Upsert(ctx context.Context, doc answer.KnowledgeDocument, vector []float32) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO knowledge_documents (id, product_id, title, content, embedding)
		VALUES ($1, $2, $3, $4, $5::vector)
		ON CONFLICT (id)
		DO UPDATE SET
			product_id = EXCLUDED.product_id,
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding`,
		doc.ID, doc.ProductID, doc.Title, doc.Content, pgvector.NewVector(vector).String())
	if err != nil {
		return oops.Errorf("failed to upsert knowledge document: %w", err)
	}

	return nil
}
