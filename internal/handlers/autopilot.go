package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/postpilot-backend/internal/logger"
	"github.com/yungbote/postpilot-backend/internal/requestdata"
	"github.com/yungbote/postpilot-backend/internal/services"
)

type AutopilotHandler struct {
	log      *logger.Logger
	service  services.AutopilotService
	defaults services.BatchConfig
}

// NewAutopilotHandler wires the batch endpoints. defaults carries the
// env-configured batch settings; a request body can override them per call.
func NewAutopilotHandler(baseLog *logger.Logger, service services.AutopilotService, defaults services.BatchConfig) *AutopilotHandler {
	return &AutopilotHandler{
		log:      baseLog.With("handler", "AutopilotHandler"),
		service:  service,
		defaults: defaults,
	}
}

type runBatchRequest struct {
	BrandProfileID   *uuid.UUID `json:"brand_profile_id"`
	PostsPerBatch    int        `json:"posts_per_batch"`
	AutoPublish      *bool      `json:"auto_publish"`
	AutoPublishHours int        `json:"auto_publish_hours"`
	LookbackDays     int        `json:"lookback_days"`
}

// RunBatch drafts, polishes and schedules a batch of posts from the user's
// pending ideas. Per-idea failures come back in the errors list with a 200.
func (h *AutopilotHandler) RunBatch(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing user context"))
		return
	}

	// Body is optional: anything omitted falls back to the configured defaults.
	var req runBatchRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
			return
		}
	}

	cfg := h.defaults
	cfg.UserID = rd.UserID
	cfg.BrandProfileID = req.BrandProfileID
	if req.PostsPerBatch > 0 {
		cfg.PostsPerBatch = req.PostsPerBatch
	}
	if req.AutoPublish != nil {
		cfg.AutoPublish = *req.AutoPublish
	}
	if req.AutoPublishHours > 0 {
		cfg.AutoPublishDelay = time.Duration(req.AutoPublishHours) * time.Hour
	}
	if req.LookbackDays > 0 {
		cfg.LookbackDays = req.LookbackDays
	}

	result := h.service.RunBatch(c.Request.Context(), cfg)
	RespondOK(c, result)
}

func (h *AutopilotHandler) Approve(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing user context"))
		return
	}
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_post_id", err)
		return
	}

	post, err := h.service.Approve(c.Request.Context(), rd.UserID, postID)
	if err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "approve_failed", err)
		return
	}
	RespondOK(c, post)
}

func (h *AutopilotHandler) Reject(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing user context"))
		return
	}
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_post_id", err)
		return
	}

	post, err := h.service.Reject(c.Request.Context(), rd.UserID, postID)
	if err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "reject_failed", err)
		return
	}
	RespondOK(c, post)
}

func (h *AutopilotHandler) Buffer(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing user context"))
		return
	}

	posts, err := h.service.BufferStatus(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "buffer_load_failed", err)
		return
	}
	RespondOK(c, gin.H{
		"size":  len(posts),
		"posts": posts,
	})
}
