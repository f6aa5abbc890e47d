package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	types "github.com/hearthplan/hearthplan-backend/internal/domain"
)

// parseAdvancementTime parses "HH:MM" into minutes past midnight.
func parseAdvancementTime(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("advancement time %q is not HH:MM", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("advancement time %q has invalid hour", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("advancement time %q has invalid minute", value)
	}
	return hour*60 + minute, nil
}

// AdvancementAnchor returns the most recent advancement boundary at or before
// now: the latest date whose weekday equals dayOfWeek (0 = Sunday) where the
// configured time of day has already passed. The result is the boundary date at
// midnight; advancementTime only decides whether today counts.
func AdvancementAnchor(now time.Time, dayOfWeek int, advancementTime string) (time.Time, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return time.Time{}, fmt.Errorf("advancement day of week %d out of range", dayOfWeek)
	}
	boundaryMinutes, err := parseAdvancementTime(advancementTime)
	if err != nil {
		return time.Time{}, err
	}

	daysBack := (int(now.Weekday()) - dayOfWeek + 7) % 7
	if daysBack == 0 && now.Hour()*60+now.Minute() < boundaryMinutes {
		daysBack = 7
	}
	anchor := now.AddDate(0, 0, -daysBack)
	return time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, now.Location()), nil
}

// mappingAtIndex maps the logical rotation counter onto the active mapping
// list. The counter is reduced modulo the count of active mappings at call
// time, so history never needs renumbering when templates come and go.
func mappingAtIndex(active []*types.WeekTemplateMapping, index int) *types.WeekTemplateMapping {
	n := len(active)
	if n == 0 {
		return nil
	}
	i := ((index % n) + n) % n
	return active[i]
}

// dateForDayOfWeek places a template day (0 = Sunday) inside the 7-day span
// that begins at start.
func dateForDayOfWeek(start time.Time, dayOfWeek int) time.Time {
	offset := (dayOfWeek - int(start.Weekday()) + 7) % 7
	return start.AddDate(0, 0, offset)
}
