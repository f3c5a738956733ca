package services

import (
	"fmt"
	"time"

	"github.com/craftdesk/team-scheduler-api/internal/calendar"
	"github.com/craftdesk/team-scheduler-api/internal/constants"
	"github.com/craftdesk/team-scheduler-api/internal/models"
)

// CapacityCheck reports the occupancy of a single (employee, date, slot) group.
//
// A slot holding exactly MaxCapacity assignments is neither available nor
// overbooked; only occupancy beyond the maximum counts as overbooked.
type CapacityCheck struct {
	EmployeeID   uint64              `json:"employee_id"`
	Date         time.Time           `json:"date"`
	Slot         models.Slot         `json:"slot"`
	CurrentCount int                 `json:"current_count"`
	MaxCapacity  int                 `json:"max_capacity"`
	IsAvailable  bool                `json:"is_available"`
	IsOverbooked bool                `json:"is_overbooked"`
	Existing     []models.Assignment `json:"existing_assignments"`
}

// CheckCapacity counts active assignments occupying the slot. Absence of data
// is not an error: an empty group reports a count of zero.
func (s *ScheduleService) CheckCapacity(employeeID uint64, date time.Time, slot models.Slot) (*CapacityCheck, error) {
	date = calendar.Truncate(date)

	existing, err := s.assignmentRepo.ListSlotGroup(employeeID, date, slot)
	if err != nil {
		return nil, fmt.Errorf("failed to check capacity: %w", err)
	}

	count := len(existing)
	return &CapacityCheck{
		EmployeeID:   employeeID,
		Date:         date,
		Slot:         slot,
		CurrentCount: count,
		MaxCapacity:  constants.MaxTasksPerSlot,
		IsAvailable:  count < constants.MaxTasksPerSlot,
		IsOverbooked: count > constants.MaxTasksPerSlot,
		Existing:     existing,
	}, nil
}

// AvailabilityMatrix reports, for every business day in [start, end] and both
// slots, whether the employee still has room. Keys are dates in YYYY-MM-DD
// form.
func (s *ScheduleService) AvailabilityMatrix(employeeID uint64, start, end time.Time) (map[string]map[models.Slot]bool, error) {
	assignments, err := s.assignmentRepo.ListByDateRange(repositoryFilter(employeeID, start, end))
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}

	counts := make(map[string]map[models.Slot]int)
	for _, a := range assignments {
		key := a.AssignedDate.Format("2006-01-02")
		if counts[key] == nil {
			counts[key] = make(map[models.Slot]int)
		}
		counts[key][a.Slot]++
	}

	matrix := make(map[string]map[models.Slot]bool)
	for day := range calendar.BusinessDaysBetween(start, end, time.Now()) {
		key := day.Date.Format("2006-01-02")
		matrix[key] = map[models.Slot]bool{
			models.SlotMorning:   counts[key][models.SlotMorning] < constants.MaxTasksPerSlot,
			models.SlotAfternoon: counts[key][models.SlotAfternoon] < constants.MaxTasksPerSlot,
		}
	}

	return matrix, nil
}
