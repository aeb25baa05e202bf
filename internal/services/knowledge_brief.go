package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/postpilot-backend/internal/clients/openai"
	"github.com/yungbote/postpilot-backend/internal/clients/pinecone"
	"github.com/yungbote/postpilot-backend/internal/logger"
	"github.com/yungbote/postpilot-backend/internal/types"
)

type BriefScope struct {
	TopK   int
	Filter map[string]any
}

// KnowledgeBriefService compiles supporting context for an idea from the
// user's indexed knowledge base. Strictly best-effort: the batch proceeds with
// an empty brief on any failure.
type KnowledgeBriefService interface {
	BuildBrief(ctx context.Context, userID uuid.UUID, idea *types.ContentIdea, scope BriefScope) (string, error)
}

type knowledgeBriefService struct {
	log *logger.Logger
	ai  openai.Client
	vec pinecone.VectorStore
}

func NewKnowledgeBriefService(baseLog *logger.Logger, ai openai.Client, vec pinecone.VectorStore) KnowledgeBriefService {
	return &knowledgeBriefService{
		log: baseLog.With("service", "KnowledgeBriefService"),
		ai:  ai,
		vec: vec,
	}
}

func (kbs *knowledgeBriefService) BuildBrief(ctx context.Context, userID uuid.UUID, idea *types.ContentIdea, scope BriefScope) (string, error) {
	if idea == nil {
		return "", fmt.Errorf("idea required")
	}
	if kbs.ai == nil || kbs.vec == nil {
		return "", nil
	}

	topK := scope.TopK
	if topK <= 0 {
		topK = 5
	}

	query := idea.Title + "\n" + idea.CoreInsight
	vecs, err := kbs.ai.Embed(ctx, []string{query})
	if err != nil {
		return "", fmt.Errorf("embed brief query: %w", err)
	}
	if len(vecs) == 0 {
		return "", fmt.Errorf("empty embedding for brief query")
	}

	matches, err := kbs.vec.QueryMatches(ctx, "user:"+userID.String(), vecs[0], topK, scope.Filter)
	if err != nil {
		return "", fmt.Errorf("query knowledge base: %w", err)
	}

	var parts []string
	for _, m := range matches {
		if m.Metadata == nil {
			continue
		}
		text, _ := m.Metadata["text"].(string)
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		source, _ := m.Metadata["source"].(string)
		if source != "" {
			parts = append(parts, fmt.Sprintf("[%s] %s", source, text))
		} else {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", nil
	}
	return strings.Join(parts, "\n\n"), nil
}
