package llm

import (
	"context"
	"strings"
	"time"

	"salescoach/app/config"
	"salescoach/app/util/errkind"

	"github.com/samber/do"
	"github.com/samber/oops"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	requestTimeout = 30 * time.Second

	completionTemperature = 0.2
	completionMaxTokens   = 1000
)

// Client implements the completion and embedding ports over any
// OpenAI-compatible API.
type Client struct {
	model    llms.Model
	embedder embeddings.Embedder
}

func New(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	if cfg.OpenAI.Completion.Token == "" || cfg.OpenAI.Embedding.Token == "" {
		return nil, oops.Code(errkind.Configuration).Errorf("missing OpenAI credentials")
	}

	model, err := openai.New(
		openai.WithToken(cfg.OpenAI.Completion.Token),
		openai.WithBaseURL(cfg.OpenAI.Completion.BaseURL),
		openai.WithModel(cfg.OpenAI.Completion.Model),
		openai.WithCallback(logCallbackHandler{}),
	)
	if err != nil {
		return nil, oops.Code(errkind.Configuration).Errorf("failed to create completion client: %w", err)
	}

	embeddingModel, err := openai.New(
		openai.WithToken(cfg.OpenAI.Embedding.Token),
		openai.WithBaseURL(cfg.OpenAI.Embedding.BaseURL),
		openai.WithEmbeddingModel(cfg.OpenAI.Embedding.Model),
	)
	if err != nil {
		return nil, oops.Code(errkind.Configuration).Errorf("failed to create embedding client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(embeddingModel)
	if err != nil {
		return nil, oops.Code(errkind.Configuration).Errorf("failed to create embedder: %w", err)
	}

	return &Client{
		model:    model,
		embedder: embedder,
	}, nil
}

func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	response, err := c.model.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
			llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
		},
		llms.WithTemperature(completionTemperature),
		llms.WithMaxTokens(completionMaxTokens),
	)
	if err != nil {
		return "", oops.Code(errkind.Upstream).Errorf("failed to create chat completion: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", oops.Code(errkind.Upstream).Errorf("no chat completion found")
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}

func (c *Client) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	response, err := c.model.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeHuman, prompt),
		},
		llms.WithTemperature(completionTemperature),
		llms.WithMaxTokens(completionMaxTokens),
		llms.WithJSONMode(),
	)
	if err != nil {
		return "", oops.Code(errkind.Upstream).Errorf("failed to create chat completion: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", oops.Code(errkind.Upstream).Errorf("no chat completion found")
	}

	result := response.Choices[0].Content
	result = strings.Trim(result, "`")
	result = strings.TrimSpace(result)
	result = strings.TrimPrefix(result, "json")
	result = strings.TrimSpace(result)

	return result, nil
}

func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	vector, err := c.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, oops.Code(errkind.Upstream).Errorf("failed to embed text: %w", err)
	}

	return vector, nil
}
