package services

import (
	"sort"
	"time"

	"github.com/yungbote/postpilot-backend/internal/types"
)

// SchedulingClock converts posting-slot wall-clock times into UTC instants and
// picks the next collision-free publish time.
type SchedulingClock interface {
	WallClockToUTC(baseDate time.Time, hour, minute int, timezone string) time.Time
	NextAvailableSlot(activeSlots []*types.PostingSlot, existing []time.Time, now time.Time) time.Time
}

type schedulingClock struct{}

func NewSchedulingClock() SchedulingClock {
	return &schedulingClock{}
}

const slotSearchHorizonDays = 7

// WallClockToUTC resolves the desired hour:minute on baseDate's calendar day
// inside the given zone, then converts to UTC. time.Date with a loaded
// location handles DST transitions, so no offset correction pass is needed.
// An unknown zone degrades to UTC.
func (sc *schedulingClock) WallClockToUTC(baseDate time.Time, hour, minute int, timezone string) time.Time {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	year, month, day := baseDate.In(loc).Date()
	return time.Date(year, month, day, hour, minute, 0, 0, loc).UTC()
}

// NextAvailableSlot walks an eight-day horizon over every active slot and
// returns the earliest candidate strictly after now that is not already taken.
// No active slots, or every candidate colliding, falls back to tomorrow 09:00
// UTC so scheduling itself never fails.
func (sc *schedulingClock) NextAvailableSlot(activeSlots []*types.PostingSlot, existing []time.Time, now time.Time) time.Time {
	if len(activeSlots) == 0 {
		return fallbackSlot(now)
	}

	var candidates []time.Time
	for offset := 0; offset <= slotSearchHorizonDays; offset++ {
		base := now.AddDate(0, 0, offset)
		for _, slot := range activeSlots {
			hour, minute := slot.HourMinute()
			candidate := sc.WallClockToUTC(base, hour, minute, slot.Timezone)
			if !candidate.After(now) {
				continue
			}
			if slot.DayOfWeek != nil {
				loc, err := time.LoadLocation(slot.Timezone)
				if err != nil {
					loc = time.UTC
				}
				if int(candidate.In(loc).Weekday()) != *slot.DayOfWeek {
					continue
				}
			}
			candidates = append(candidates, candidate)
		}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Before(candidates[j]) })

	taken := make(map[int64]bool, len(existing))
	for _, instant := range existing {
		taken[instant.UTC().Unix()] = true
	}
	for _, candidate := range candidates {
		if !taken[candidate.Unix()] {
			return candidate
		}
	}
	return fallbackSlot(now)
}

func fallbackSlot(now time.Time) time.Time {
	tomorrow := now.UTC().AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 9, 0, 0, 0, time.UTC)
}
