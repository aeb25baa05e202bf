package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/postpilot-backend/internal/clients/openai"
	"github.com/yungbote/postpilot-backend/internal/logger"
)

type PolishResult struct {
	Content     string
	HookScore   float64
	ChangeNotes []string
}

// ContentPolisherService refines a draft and scores its hook.
type ContentPolisherService interface {
	PolishDraft(ctx context.Context, draft string) (*PolishResult, error)
}

type contentPolisherService struct {
	log *logger.Logger
	ai  openai.Client
}

func NewContentPolisherService(baseLog *logger.Logger, ai openai.Client) ContentPolisherService {
	return &contentPolisherService{
		log: baseLog.With("service", "ContentPolisherService"),
		ai:  ai,
	}
}

func (cps *contentPolisherService) PolishDraft(ctx context.Context, draft string) (*PolishResult, error) {
	if strings.TrimSpace(draft) == "" {
		return nil, fmt.Errorf("draft required")
	}
	if cps.ai == nil {
		return nil, fmt.Errorf("polisher not configured")
	}

	polishSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"polished_content": map[string]any{"type": "string"},
			"hook_score":       map[string]any{"type": "number"},
			"change_notes":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required":             []string{"polished_content", "hook_score", "change_notes"},
		"additionalProperties": false,
	}

	out, err := cps.ai.GenerateJSON(ctx,
		"You are a ruthless line editor for social posts. Tighten the hook, cut filler, keep the author's voice. Score the hook 0-10.",
		fmt.Sprintf("Draft:\n%s\n\nReturn the polished post, a 0-10 hook score, and the changes you made.", draft),
		"post_polish",
		polishSchema,
	)
	if err != nil {
		return nil, fmt.Errorf("polish draft: %w", err)
	}

	result := &PolishResult{
		Content: fmt.Sprint(out["polished_content"]),
	}
	if score, ok := out["hook_score"].(float64); ok {
		result.HookScore = score
	}
	if raw, ok := out["change_notes"].([]any); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok && s != "" {
				result.ChangeNotes = append(result.ChangeNotes, s)
			}
		}
	}
	if strings.TrimSpace(result.Content) == "" {
		return nil, fmt.Errorf("polisher returned empty content")
	}
	return result, nil
}
