package dto

import (
	"time"

	"github.com/craftdesk/team-scheduler-api/internal/calendar"
	"github.com/craftdesk/team-scheduler-api/internal/models"
)

// ScheduledTaskDTO is one task entry inside a slot. Hours is the computed
// display value (even split of the slot budget unless manually overridden), so
// rendering never re-queries capacity.
type ScheduledTaskDTO struct {
	AssignmentID uint64              `json:"assignment_id"`
	TaskID       uint64              `json:"task_id"`
	Title        string              `json:"title"`
	ProjectName  string              `json:"project_name,omitempty"`
	TaskTypeName string              `json:"task_type_name,omitempty"`
	Priority     models.TaskPriority `json:"priority"`
	Status       models.TaskStatus   `json:"status"`
	SlotOrder    int                 `json:"slot_order"`
	Hours        float64             `json:"hours"`
	HoursManual  bool                `json:"hours_manual"`
	ColumnStart  *int                `json:"column_start,omitempty"`
	Notes        string              `json:"notes,omitempty"`
	AbsenceType  *string             `json:"absence_type,omitempty"`
}

// SlotViewDTO is one half-day bucket of an employee's schedule day. Tasks are
// ordered by placement (slot order, then creation time); that order is the
// visual left-to-right position and is never re-sorted by any other key.
type SlotViewDTO struct {
	Slot              models.Slot        `json:"slot"`
	Tasks             []ScheduledTaskDTO `json:"tasks"`
	AvailableCapacity int                `json:"available_capacity"`
	IsOverbooked      bool               `json:"is_overbooked"`
}

// DayScheduleDTO is one business day of an employee's schedule.
type DayScheduleDTO struct {
	Date         time.Time   `json:"date"`
	DayName      string      `json:"day_name"`
	IsToday      bool        `json:"is_today"`
	Morning      SlotViewDTO `json:"morning"`
	Afternoon    SlotViewDTO `json:"afternoon"`
	HasConflicts bool        `json:"has_conflicts"`
}

// EmployeeScheduleDTO is one employee row of the calendar view.
type EmployeeScheduleDTO struct {
	EmployeeID   uint64           `json:"employee_id"`
	EmployeeName string           `json:"employee_name"`
	Position     string           `json:"position,omitempty"`
	TeamID       *uint64          `json:"team_id,omitempty"`
	Days         []DayScheduleDTO `json:"days"`
}

// TeamScheduleDTO groups employee rows by team membership. Employees without
// a team fall into the "Unassigned" group.
type TeamScheduleDTO struct {
	TeamID    *uint64               `json:"team_id,omitempty"`
	TeamName  string                `json:"team_name"`
	Employees []EmployeeScheduleDTO `json:"employees"`
}

// CalendarViewDTO is the complete response of a calendar view request.
type CalendarViewDTO struct {
	ViewType  calendar.ViewType     `json:"view_type"`
	StartDate time.Time             `json:"start_date"`
	EndDate   time.Time             `json:"end_date"`
	Days      []calendar.Day        `json:"days"`
	Employees []EmployeeScheduleDTO `json:"employees"`
	Teams     []TeamScheduleDTO     `json:"teams,omitempty"`
}
