package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/craftdesk/team-scheduler-api/internal/calendar"
	"github.com/craftdesk/team-scheduler-api/internal/constants"
	"github.com/craftdesk/team-scheduler-api/internal/dto"
	"github.com/craftdesk/team-scheduler-api/internal/models"
	"github.com/craftdesk/team-scheduler-api/internal/repository"
	"gorm.io/gorm"
)

// ViewScope restricts which employees a calendar view covers. Zero value
// means all employees; ManagerUserID restricts to employees the user manages,
// via the authorization collaborator.
type ViewScope struct {
	TeamID        *uint64
	EmployeeIDs   []uint64
	ManagerUserID *uint64
	GroupByTeam   bool
}

// GetCalendarView resolves the window for (anchor, viewType), loads the
// in-scope employees and their active assignments, and builds the nested
// schedule view.
func (s *ScheduleService) GetCalendarView(anchor time.Time, viewType calendar.ViewType, scope ViewScope) (*dto.CalendarViewDTO, error) {
	window := calendar.WindowFor(anchor, viewType, s.policy.SkipWeekendWindowStart)
	days := window.Days(time.Now())

	employees, err := s.resolveScopedEmployees(scope)
	if err != nil {
		return nil, err
	}

	employeeIDs := make([]uint64, 0, len(employees))
	for _, e := range employees {
		employeeIDs = append(employeeIDs, e.ID)
	}

	var assignments []models.Assignment
	if len(employeeIDs) > 0 {
		assignments, err = s.GetAssignmentsByDateRange(employeeIDs, window.Start, window.End)
		if err != nil {
			return nil, fmt.Errorf("failed to load assignments: %w", err)
		}
	}

	view := &dto.CalendarViewDTO{
		ViewType:  viewType,
		StartDate: window.Start,
		EndDate:   window.End,
		Days:      days,
		Employees: BuildScheduleView(employees, assignments, days),
	}

	if scope.GroupByTeam {
		teams, err := s.teamRepo.ListAll()
		if err != nil {
			return nil, fmt.Errorf("failed to load teams: %w", err)
		}
		view.Teams = groupByTeam(view.Employees, teams)
	}

	return view, nil
}

func (s *ScheduleService) resolveScopedEmployees(scope ViewScope) ([]models.Employee, error) {
	switch {
	case scope.ManagerUserID != nil:
		return s.authorizer.ManagedEmployees(*scope.ManagerUserID)
	case len(scope.EmployeeIDs) > 0:
		employees := make([]models.Employee, 0, len(scope.EmployeeIDs))
		for _, id := range scope.EmployeeIDs {
			employee, err := s.employeeRepo.FindByID(id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrEmployeeNotFound
				}
				return nil, fmt.Errorf("failed to load employee %d: %w", id, err)
			}
			employees = append(employees, *employee)
		}
		return employees, nil
	case scope.TeamID != nil:
		return s.employeeRepo.ListByTeam(*scope.TeamID)
	default:
		employees, _, err := s.employeeRepo.List(repository.EmployeeFilter{SortBy: "name"})
		return employees, err
	}
}

// BuildScheduleView partitions assignments into per-employee, per-day AM/PM
// buckets. Within a slot, tasks keep their placement order; each entry carries
// its computed hours so the view is self-contained for rendering.
func BuildScheduleView(employees []models.Employee, assignments []models.Assignment, days []calendar.Day) []dto.EmployeeScheduleDTO {
	// Index assignments by (employee, date, slot). The repository returns
	// them ordered by slot order then creation time; appending preserves it.
	type groupKey struct {
		employeeID uint64
		date       string
		slot       models.Slot
	}
	groups := make(map[groupKey][]models.Assignment)
	for _, a := range assignments {
		key := groupKey{a.EmployeeID, a.AssignedDate.Format("2006-01-02"), a.Slot}
		groups[key] = append(groups[key], a)
	}

	schedules := make([]dto.EmployeeScheduleDTO, 0, len(employees))
	for _, employee := range employees {
		schedule := dto.EmployeeScheduleDTO{
			EmployeeID:   employee.ID,
			EmployeeName: employee.FirstName + " " + employee.LastName,
			Position:     employee.Position,
			TeamID:       employee.TeamID,
			Days:         make([]dto.DayScheduleDTO, 0, len(days)),
		}

		for _, day := range days {
			dateKey := day.Date.Format("2006-01-02")
			morning := buildSlotView(models.SlotMorning, groups[groupKey{employee.ID, dateKey, models.SlotMorning}])
			afternoon := buildSlotView(models.SlotAfternoon, groups[groupKey{employee.ID, dateKey, models.SlotAfternoon}])

			schedule.Days = append(schedule.Days, dto.DayScheduleDTO{
				Date:         day.Date,
				DayName:      day.DayName,
				IsToday:      day.IsToday,
				Morning:      morning,
				Afternoon:    afternoon,
				HasConflicts: morning.IsOverbooked || afternoon.IsOverbooked,
			})
		}

		schedules = append(schedules, schedule)
	}

	return schedules
}

func buildSlotView(slot models.Slot, assignments []models.Assignment) dto.SlotViewDTO {
	count := len(assignments)

	tasks := make([]dto.ScheduledTaskDTO, 0, count)
	for _, a := range assignments {
		entry := dto.ScheduledTaskDTO{
			AssignmentID: a.ID,
			TaskID:       a.TaskID,
			Title:        a.Task.Title,
			Priority:     a.Task.Priority,
			Status:       a.Task.Status,
			SlotOrder:    a.SlotOrder,
			Hours:        ComputeHours(count, a.Hours),
			HoursManual:  a.Hours != nil,
			ColumnStart:  a.ColumnStart,
			Notes:        a.Notes,
			AbsenceType:  a.AbsenceType,
		}
		if a.Task.Project.ID != 0 {
			entry.ProjectName = a.Task.Project.Name
		}
		if a.Task.TaskType.ID != 0 {
			entry.TaskTypeName = a.Task.TaskType.Name
		}
		tasks = append(tasks, entry)
	}

	available := constants.MaxTasksPerSlot - count
	if available < 0 {
		available = 0
	}

	return dto.SlotViewDTO{
		Slot:              slot,
		Tasks:             tasks,
		AvailableCapacity: available,
		IsOverbooked:      count > constants.MaxTasksPerSlot,
	}
}

func groupByTeam(schedules []dto.EmployeeScheduleDTO, teams []models.Team) []dto.TeamScheduleDTO {
	byTeam := make(map[uint64][]dto.EmployeeScheduleDTO)
	var unassigned []dto.EmployeeScheduleDTO
	for _, schedule := range schedules {
		if schedule.TeamID == nil {
			unassigned = append(unassigned, schedule)
			continue
		}
		byTeam[*schedule.TeamID] = append(byTeam[*schedule.TeamID], schedule)
	}

	grouped := make([]dto.TeamScheduleDTO, 0, len(teams)+1)
	for _, team := range teams {
		members, ok := byTeam[team.ID]
		if !ok {
			continue
		}
		teamID := team.ID
		grouped = append(grouped, dto.TeamScheduleDTO{
			TeamID:    &teamID,
			TeamName:  team.Name,
			Employees: members,
		})
	}

	if len(unassigned) > 0 {
		grouped = append(grouped, dto.TeamScheduleDTO{
			TeamName:  "Unassigned",
			Employees: unassigned,
		})
	}

	return grouped
}
