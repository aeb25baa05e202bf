package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/postpilot-backend/internal/logger"
	"github.com/yungbote/postpilot-backend/internal/requestdata"
	"github.com/yungbote/postpilot-backend/internal/services"
	"github.com/yungbote/postpilot-backend/internal/types"
)

type WeekPlanHandler struct {
	log     *logger.Logger
	service services.WeekPlanService
}

func NewWeekPlanHandler(baseLog *logger.Logger, service services.WeekPlanService) *WeekPlanHandler {
	return &WeekPlanHandler{
		log:     baseLog.With("handler", "WeekPlanHandler"),
		service: service,
	}
}

type weekPlanRequest struct {
	BrandProfileID *uuid.UUID     `json:"brand_profile_id"`
	PostsPerWeek   int            `json:"posts_per_week"`
	Distribution   map[string]int `json:"distribution"`
}

// Preview builds a week plan from the user's pending ideas without creating
// any posts. POST so clients can send a custom category distribution.
func (h *WeekPlanHandler) Preview(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing user context"))
		return
	}

	var req weekPlanRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
			return
		}
	}
	if req.PostsPerWeek == 0 {
		if raw := c.Query("posts_per_week"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				req.PostsPerWeek = n
			}
		}
	}

	var dist types.CategoryDistribution
	if len(req.Distribution) > 0 {
		dist = types.CategoryDistribution(req.Distribution)
	}

	plan, err := h.service.PlanWeek(c.Request.Context(), rd.UserID, req.BrandProfileID, req.PostsPerWeek, dist)
	if err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "week_plan_failed", err)
		return
	}
	RespondOK(c, plan)
}
