package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/yungbote/postpilot-backend/internal/app"
	"github.com/yungbote/postpilot-backend/internal/services"
)

// runbatch runs one autopilot batch for a single user and exits. Meant for
// cron and for poking the pipeline without the HTTP server.
func main() {
	userFlag := flag.String("user", "", "user id (required)")
	brandFlag := flag.String("brand-profile", "", "brand profile id")
	postsFlag := flag.Int("posts", 0, "posts per batch (0 = configured default)")
	autoPublishFlag := flag.Bool("auto-publish", false, "set auto-publish time on the first post")
	flag.Parse()

	userID, err := uuid.Parse(*userFlag)
	if err != nil {
		fmt.Printf("Invalid -user: %v\n", err)
		os.Exit(2)
	}
	var brandProfileID *uuid.UUID
	if *brandFlag != "" {
		id, err := uuid.Parse(*brandFlag)
		if err != nil {
			fmt.Printf("Invalid -brand-profile: %v\n", err)
			os.Exit(2)
		}
		brandProfileID = &id
	}

	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	cfg := services.BatchConfig{
		UserID:           userID,
		BrandProfileID:   brandProfileID,
		PostsPerBatch:    *postsFlag,
		AutoPublish:      *autoPublishFlag || a.Cfg.AutoPublish,
		AutoPublishDelay: a.Cfg.AutoPublishDelay,
		LookbackDays:     a.Cfg.LookbackDays,
		PerIdeaTimeout:   a.Cfg.PerIdeaTimeout,
	}
	if cfg.PostsPerBatch <= 0 {
		cfg.PostsPerBatch = a.Cfg.PostsPerBatch
	}

	result := a.Services.Autopilot.RunBatch(context.Background(), cfg)

	fmt.Printf("posts created:   %d\n", result.PostsCreated)
	fmt.Printf("posts scheduled: %d\n", result.PostsScheduled)
	fmt.Printf("ideas processed: %d\n", result.IdeasProcessed)
	for _, e := range result.Errors {
		fmt.Printf("error: %s\n", e)
	}
	if len(result.Errors) > 0 && result.PostsCreated == 0 {
		os.Exit(1)
	}
}
