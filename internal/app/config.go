package app

import (
	"strings"
	"time"

	"github.com/yungbote/postpilot-backend/internal/logger"
	"github.com/yungbote/postpilot-backend/internal/utils"
)

type Config struct {
	JWTSecretKey string
	AllowOrigins []string

	// Autopilot defaults; a request body can override the first three.
	PostsPerBatch    int
	AutoPublish      bool
	AutoPublishDelay time.Duration
	LookbackDays     int
	PerIdeaTimeout   time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	postsPerBatch := utils.GetEnvAsInt("AUTOPILOT_POSTS_PER_BATCH", 3, log)
	autoPublish := utils.GetEnvAsBool("AUTOPILOT_AUTO_PUBLISH", false, log)
	autoPublishHours := utils.GetEnvAsInt("AUTOPILOT_AUTO_PUBLISH_HOURS", 2, log)
	lookbackDays := utils.GetEnvAsInt("AUTOPILOT_LOOKBACK_DAYS", 14, log)
	perIdeaTimeoutSeconds := utils.GetEnvAsInt("AUTOPILOT_PER_IDEA_TIMEOUT", 120, log)

	var origins []string
	if raw := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}

	return Config{
		JWTSecretKey:     jwtSecretKey,
		AllowOrigins:     origins,
		PostsPerBatch:    postsPerBatch,
		AutoPublish:      autoPublish,
		AutoPublishDelay: time.Duration(autoPublishHours) * time.Hour,
		LookbackDays:     lookbackDays,
		PerIdeaTimeout:   time.Duration(perIdeaTimeoutSeconds) * time.Second,
	}
}
