package repository

import (
	"time"

	"github.com/craftdesk/team-scheduler-api/internal/models"
)

// AssignmentRepository defines the interface for assignment data access.
//
// Unless stated otherwise, lookups only see active assignments: soft-deleted
// rows (is_active = false) are excluded from reads and counts but kept for
// audit.
type AssignmentRepository interface {
	// Create creates a new assignment
	Create(assignment *models.Assignment) error

	// FindByID finds an active assignment by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Assignment, error)

	// FindByIDIncludingInactive finds an assignment regardless of its active flag
	FindByIDIncludingInactive(id uint64) (*models.Assignment, error)

	// ListSlotGroup lists active assignments in a (employee, date, slot) group,
	// ordered by slot order then creation time
	ListSlotGroup(employeeID uint64, date time.Time, slot models.Slot) ([]models.Assignment, error)

	// CountSlotGroup counts active assignments in a (employee, date, slot) group
	CountSlotGroup(employeeID uint64, date time.Time, slot models.Slot) (int64, error)

	// NextSlotOrder computes the slot order for the next placement into a group
	NextSlotOrder(employeeID uint64, date time.Time, slot models.Slot) (int, error)

	// ListByDateRange lists active assignments matching the filter
	ListByDateRange(filter AssignmentFilter) ([]models.Assignment, error)

	// CountOtherActiveByTask counts active assignments referencing a task other
	// than the given assignment, locking the matched rows where the dialect
	// supports it
	CountOtherActiveByTask(taskID, excludeAssignmentID uint64) (int64, error)

	// Update persists all fields of an assignment
	Update(assignment *models.Assignment) error

	// Deactivate soft-deletes an active assignment; returns false when no
	// active assignment matched
	Deactivate(id uint64) (bool, error)
}

// AssignmentFilter holds filtering options for assignment range queries
type AssignmentFilter struct {
	EmployeeIDs     []uint64
	StartDate       time.Time
	EndDate         time.Time
	IncludeInactive bool
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error
}

// EmployeeRepository defines the interface for employee data access
type EmployeeRepository interface {
	// Create creates a new employee
	Create(employee *models.Employee) error

	// FindByID finds an employee by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Employee, error)

	// FindByUserID finds the employee record backing a user
	FindByUserID(userID uint64) (*models.Employee, error)

	// List retrieves employees with filtering and pagination
	List(filter EmployeeFilter) ([]models.Employee, int64, error)

	// ListByTeam lists employees belonging to a team
	ListByTeam(teamID uint64) ([]models.Employee, error)

	// Update updates an employee
	Update(employee *models.Employee) error

	// Delete soft deletes an employee
	Delete(id uint64) error
}

// EmployeeFilter holds filtering options for listing employees
type EmployeeFilter struct {
	TeamID     *uint64
	Unassigned bool
	Position   *string
	Search     string
	SortBy     string
	Page       int
	PageSize   int
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	// Create creates a new team
	Create(team *models.Team) error

	// FindByID finds a team by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Team, error)

	// FindByInviteCode finds a team by invite code
	FindByInviteCode(code string) (*models.Team, error)

	// ListAll lists all teams
	ListAll() ([]models.Team, error)

	// Update updates a team
	Update(team *models.Team) error

	// Delete soft deletes a team
	Delete(id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// CreateWithEmployee creates a user and the employee record backing them
	// within a single transaction.
	CreateWithEmployee(user *models.User, employee *models.Employee) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}
