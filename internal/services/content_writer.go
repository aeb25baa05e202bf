package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/postpilot-backend/internal/clients/openai"
	"github.com/yungbote/postpilot-backend/internal/logger"
	"github.com/yungbote/postpilot-backend/internal/types"
)

type DraftResult struct {
	Content    string
	DMTemplate string
	CTAWord    string
	Variations []string
}

// ContentWriterService turns a scored idea into a full post draft.
type ContentWriterService interface {
	WriteDraft(ctx context.Context, idea *types.ContentIdea, briefContext string, voice *types.BrandProfile) (*DraftResult, error)
}

type contentWriterService struct {
	log *logger.Logger
	ai  openai.Client
}

func NewContentWriterService(baseLog *logger.Logger, ai openai.Client) ContentWriterService {
	return &contentWriterService{
		log: baseLog.With("service", "ContentWriterService"),
		ai:  ai,
	}
}

func (cws *contentWriterService) WriteDraft(ctx context.Context, idea *types.ContentIdea, briefContext string, voice *types.BrandProfile) (*DraftResult, error) {
	if idea == nil {
		return nil, fmt.Errorf("idea required")
	}
	if cws.ai == nil {
		return nil, fmt.Errorf("writer not configured")
	}

	draftSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"content":     map[string]any{"type": "string"},
			"dm_template": map[string]any{"type": "string"},
			"cta_word":    map[string]any{"type": "string"},
			"variations":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required":             []string{"content", "dm_template", "cta_word", "variations"},
		"additionalProperties": false,
	}

	system := "You write social posts that sound like a specific human author. Follow the voice profile exactly. No hashtag spam, no generic openers."
	if voice != nil {
		var voiceBits []string
		if voice.AuthorName != "" {
			voiceBits = append(voiceBits, fmt.Sprintf("Author: %s", voice.AuthorName))
		}
		if voice.AuthorTitle != "" {
			voiceBits = append(voiceBits, fmt.Sprintf("Title: %s", voice.AuthorTitle))
		}
		if len(voice.VoiceProfile) > 0 {
			voiceBits = append(voiceBits, fmt.Sprintf("Voice profile JSON:\n%s", string(voice.VoiceProfile)))
		}
		if len(voiceBits) > 0 {
			system += "\n\n" + strings.Join(voiceBits, "\n")
		}
	}

	var keyPoints []string
	if len(idea.KeyPoints) > 0 {
		_ = json.Unmarshal(idea.KeyPoints, &keyPoints)
	}

	user := fmt.Sprintf(
		"Idea title: %s\nHook: %s\nCore insight: %s\nKey points: %s\nTarget audience: %s\nContent type: %s\nWhy this is worth posting: %s",
		idea.Title, idea.Hook, idea.CoreInsight, strings.Join(keyPoints, "; "),
		idea.TargetAudience, idea.ContentType, idea.WhyPostWorthy,
	)
	if briefContext != "" {
		user += fmt.Sprintf("\n\nSupporting context (use selectively):\n%s", briefContext)
	}
	user += "\n\nWrite the post, a DM template for people who comment, a single comment-trigger CTA word, and 2 alternative openings."

	out, err := cws.ai.GenerateJSON(ctx, system, user, "post_draft", draftSchema)
	if err != nil {
		return nil, fmt.Errorf("generate draft: %w", err)
	}

	result := &DraftResult{
		Content:    fmt.Sprint(out["content"]),
		DMTemplate: fmt.Sprint(out["dm_template"]),
		CTAWord:    fmt.Sprint(out["cta_word"]),
	}
	if raw, ok := out["variations"].([]any); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok && s != "" {
				result.Variations = append(result.Variations, s)
			}
		}
	}
	if strings.TrimSpace(result.Content) == "" {
		return nil, fmt.Errorf("writer returned empty content")
	}
	return result, nil
}
