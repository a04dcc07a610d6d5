// Package availability decides whether a storefront currently accepts orders
// based on the store's configured schedule.
package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/emilianovazquez/pedilo-backend/pkg/types"
)

const closedDateLayout = "2006-01-02"

// IsOpen reports whether the store accepts orders at the given local time.
// A nil schedule means the store is always open. Closed dates beat the time
// window. A close time earlier than the open time is an overnight window
// that wraps past midnight.
func IsOpen(schedule *types.Schedule, now time.Time) bool {
	if schedule == nil {
		return true
	}

	today := now.Format(closedDateLayout)
	for _, closed := range schedule.ClosedDates {
		if closed == today {
			return false
		}
	}

	openMinutes, err := parseMinuteOfDay(schedule.OpenTime)
	if err != nil {
		return true
	}
	closeMinutes, err := parseMinuteOfDay(schedule.CloseTime)
	if err != nil {
		return true
	}

	current := now.Hour()*60 + now.Minute()
	if closeMinutes < openMinutes {
		return current >= openMinutes || current < closeMinutes
	}
	return current >= openMinutes && current < closeMinutes
}

func parseMinuteOfDay(value string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q (expected HH:MM)", value)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}

	return hours*60 + minutes, nil
}
