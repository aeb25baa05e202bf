package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/postpilot-backend/internal/logger"
	"github.com/yungbote/postpilot-backend/internal/requestdata"
	"github.com/yungbote/postpilot-backend/internal/services"
	"github.com/yungbote/postpilot-backend/internal/types"
)

type stubAutopilotService struct {
	gotCfg services.BatchConfig
}

func (s *stubAutopilotService) RunBatch(ctx context.Context, cfg services.BatchConfig) *services.BatchResult {
	s.gotCfg = cfg
	return &services.BatchResult{}
}

func (s *stubAutopilotService) Approve(ctx context.Context, userID, postID uuid.UUID) (*types.PipelinePost, error) {
	return &types.PipelinePost{}, nil
}

func (s *stubAutopilotService) Reject(ctx context.Context, userID, postID uuid.UUID) (*types.PipelinePost, error) {
	return &types.PipelinePost{}, nil
}

func (s *stubAutopilotService) BufferStatus(ctx context.Context, userID uuid.UUID) ([]*types.PipelinePost, error) {
	return nil, nil
}

func (s *stubAutopilotService) BufferSize(ctx context.Context, userID uuid.UUID) (int, error) {
	return 0, nil
}

func handlerTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func batchRouter(h *AutopilotHandler, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/autopilot/run", func(c *gin.Context) {
		if userID != uuid.Nil {
			ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{UserID: userID})
			c.Request = c.Request.WithContext(ctx)
		}
		h.RunBatch(c)
	})
	return router
}

func TestRunBatchUsesConfiguredDefaults(t *testing.T) {
	service := &stubAutopilotService{}
	defaults := services.BatchConfig{
		PostsPerBatch:    7,
		AutoPublish:      true,
		AutoPublishDelay: 3 * time.Hour,
		LookbackDays:     21,
		PerIdeaTimeout:   90 * time.Second,
	}
	h := NewAutopilotHandler(handlerTestLogger(t), service, defaults)
	userID := uuid.New()
	router := batchRouter(h, userID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/autopilot/run", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	got := service.gotCfg
	if got.UserID != userID {
		t.Fatalf("expected user %s, got %s", userID, got.UserID)
	}
	if got.PostsPerBatch != 7 || !got.AutoPublish || got.AutoPublishDelay != 3*time.Hour ||
		got.LookbackDays != 21 || got.PerIdeaTimeout != 90*time.Second {
		t.Fatalf("expected configured defaults to flow through, got %+v", got)
	}
}

func TestRunBatchBodyOverridesDefaults(t *testing.T) {
	service := &stubAutopilotService{}
	defaults := services.BatchConfig{
		PostsPerBatch:    7,
		AutoPublish:      true,
		AutoPublishDelay: 3 * time.Hour,
		LookbackDays:     21,
	}
	h := NewAutopilotHandler(handlerTestLogger(t), service, defaults)
	router := batchRouter(h, uuid.New())

	body := []byte(`{"posts_per_batch": 2, "auto_publish": false, "lookback_days": 7}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/autopilot/run", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	got := service.gotCfg
	if got.PostsPerBatch != 2 {
		t.Fatalf("expected posts_per_batch override, got %d", got.PostsPerBatch)
	}
	if got.AutoPublish {
		t.Fatalf("expected auto_publish=false override to win over the default")
	}
	if got.LookbackDays != 7 {
		t.Fatalf("expected lookback override, got %d", got.LookbackDays)
	}
	// Untouched knobs keep their defaults.
	if got.AutoPublishDelay != 3*time.Hour {
		t.Fatalf("expected default delay, got %s", got.AutoPublishDelay)
	}
}

func TestRunBatchRequiresUser(t *testing.T) {
	service := &stubAutopilotService{}
	h := NewAutopilotHandler(handlerTestLogger(t), service, services.BatchConfig{})
	router := batchRouter(h, uuid.Nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/autopilot/run", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
