package constants

// Scheduling constants
const (
	// MaxTasksPerSlot is the occupancy limit for a single (employee, date, slot) group.
	MaxTasksPerSlot = 4

	// SlotHoursBudget is the hour budget split evenly across tasks sharing a slot.
	SlotHoursBudget = 4.0

	// DefaultEstimatedHours is assigned to tasks created inline during assignment placement.
	DefaultEstimatedHours = 4.0

	// SlotColumns is the width of the visual slot grid (ColumnStart range).
	SlotColumns = 4
)

// Pagination constants
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Auth constants
const (
	MinPasswordLength = 8
	ContextKeyUserID  = "user_id"
	SessionCookieName = "scheduler_session"
)
