package services

import (
	"math"

	"github.com/craftdesk/team-scheduler-api/internal/constants"
)

// ComputeHours derives the display hours for a task sharing a slot with
// slotTaskCount-1 others: an even split of the slot hour budget rounded to two
// decimals. A manual override always wins. The result is for display and
// reporting only; capacity is a pure task-count check.
func ComputeHours(slotTaskCount int, override *float64) float64 {
	if override != nil {
		return *override
	}
	if slotTaskCount <= 0 {
		return 0
	}
	return math.Round(constants.SlotHoursBudget/float64(slotTaskCount)*100) / 100
}
