package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/postpilot-backend/internal/app"
	"github.com/yungbote/postpilot-backend/internal/types"
)

type slotSpec struct {
	SlotNumber int    `yaml:"slot_number"`
	TimeOfDay  string `yaml:"time_of_day"`
	DayOfWeek  *int   `yaml:"day_of_week"`
	Timezone   string `yaml:"timezone"`
	Active     *bool  `yaml:"active"`
}

type seedFile struct {
	Slots []slotSpec `yaml:"slots"`
}

// seedslots loads a user's posting schedule from a YAML file, e.g.:
//
//	slots:
//	  - slot_number: 1
//	    time_of_day: "09:00"
//	    day_of_week: 1
//	    timezone: America/New_York
func main() {
	userFlag := flag.String("user", "", "user id (required)")
	fileFlag := flag.String("file", "slots.yaml", "path to slot definitions")
	flag.Parse()

	userID, err := uuid.Parse(*userFlag)
	if err != nil {
		fmt.Printf("Invalid -user: %v\n", err)
		os.Exit(2)
	}

	raw, err := os.ReadFile(*fileFlag)
	if err != nil {
		fmt.Printf("Failed to read %s: %v\n", *fileFlag, err)
		os.Exit(2)
	}
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		fmt.Printf("Failed to parse %s: %v\n", *fileFlag, err)
		os.Exit(2)
	}
	if len(seed.Slots) == 0 {
		fmt.Println("No slots defined, nothing to do")
		return
	}

	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	now := time.Now()
	var slots []*types.PostingSlot
	for i, spec := range seed.Slots {
		if _, err := time.Parse("15:04", spec.TimeOfDay); err != nil {
			fmt.Printf("Slot %d has invalid time_of_day %q: %v\n", i+1, spec.TimeOfDay, err)
			os.Exit(2)
		}
		if spec.DayOfWeek != nil && (*spec.DayOfWeek < 0 || *spec.DayOfWeek > 6) {
			fmt.Printf("Slot %d has invalid day_of_week %d\n", i+1, *spec.DayOfWeek)
			os.Exit(2)
		}
		tz := spec.Timezone
		if tz == "" {
			tz = "UTC"
		}
		if _, err := time.LoadLocation(tz); err != nil {
			fmt.Printf("Slot %d has unknown timezone %q: %v\n", i+1, tz, err)
			os.Exit(2)
		}
		slotNumber := spec.SlotNumber
		if slotNumber == 0 {
			slotNumber = i + 1
		}
		active := true
		if spec.Active != nil {
			active = *spec.Active
		}
		slots = append(slots, &types.PostingSlot{
			ID:         uuid.New(),
			UserID:     userID,
			SlotNumber: slotNumber,
			TimeOfDay:  spec.TimeOfDay,
			DayOfWeek:  spec.DayOfWeek,
			Timezone:   tz,
			Active:     active,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	if _, err := a.Repos.PostingSlot.Create(context.Background(), nil, slots); err != nil {
		fmt.Printf("Failed to insert slots: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Seeded %d posting slots for user %s\n", len(slots), userID)
}
