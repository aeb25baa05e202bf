package services

import (
	"context"

	"github.com/yungbote/postpilot-backend/internal/clients/openai"
)

// EmbeddingProvider abstracts vector generation. Configured reports whether a
// backing model is wired; when it is not, template matching is skipped rather
// than treated as a failure.
type EmbeddingProvider interface {
	Configured() bool
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

type openaiEmbeddingProvider struct {
	ai openai.Client
}

// NewEmbeddingProvider wraps the OpenAI client; a nil client yields an
// unconfigured provider.
func NewEmbeddingProvider(ai openai.Client) EmbeddingProvider {
	return &openaiEmbeddingProvider{ai: ai}
}

func (ep *openaiEmbeddingProvider) Configured() bool {
	return ep.ai != nil
}

func (ep *openaiEmbeddingProvider) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	return ep.ai.Embed(ctx, inputs)
}
