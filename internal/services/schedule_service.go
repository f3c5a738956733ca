package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/craftdesk/team-scheduler-api/internal/calendar"
	"github.com/craftdesk/team-scheduler-api/internal/constants"
	"github.com/craftdesk/team-scheduler-api/internal/models"
	"github.com/craftdesk/team-scheduler-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAssignmentNotFound    = errors.New("assignment not found")
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrTaskNotFound          = errors.New("task not found")
	ErrTaskReferenceRequired = errors.New("either a task id or a project and task type pair is required")
	ErrNoAssignmentIDs       = errors.New("at least one assignment ID is required")
)

// ValidationError is returned when an assignment fails placement validation.
// No writes happen when it is returned.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "assignment validation failed"
}

// SchedulePolicy carries the configurable scheduling rules.
type SchedulePolicy struct {
	// AllowWeekendAssignments permits placements on Saturday and Sunday.
	AllowWeekendAssignments bool
	// SkipWeekendWindowStart advances weekend-anchored day/week windows to
	// the next Monday.
	SkipWeekendWindowStart bool
}

// ScheduleService is the slot-based scheduling and capacity engine: it places
// assignments into per-employee, per-day AM/PM buckets, enforces the slot
// occupancy limit, keeps placement order stable and derives calendar views.
type ScheduleService struct {
	db             *gorm.DB
	assignmentRepo repository.AssignmentRepository
	taskRepo       repository.TaskRepository
	employeeRepo   repository.EmployeeRepository
	teamRepo       repository.TeamRepository
	authorizer     Authorizer
	policy         SchedulePolicy
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(db *gorm.DB, authorizer Authorizer, policy SchedulePolicy) *ScheduleService {
	return &ScheduleService{
		db:             db,
		assignmentRepo: repository.NewAssignmentRepository(db),
		taskRepo:       repository.NewTaskRepository(db),
		employeeRepo:   repository.NewEmployeeRepository(db),
		teamRepo:       repository.NewTeamRepository(db),
		authorizer:     authorizer,
		policy:         policy,
	}
}

// CreateAssignmentInput represents parameters to place a task into a slot.
// Either TaskID or the (ProjectID, TaskTypeID) pair must be supplied; the
// latter creates a new task inline.
type CreateAssignmentInput struct {
	EmployeeID  uint64
	TaskID      *uint64
	ProjectID   *uint64
	TaskTypeID  *uint64
	TaskTitle   string
	Date        time.Time
	Slot        models.Slot
	Notes       string
	Hours       *float64
	AbsenceType *string
}

// UpdateAssignmentInput is a sparse patch: only non-nil fields are applied.
// Priority, DueDate, Status and TaskTypeID mutate the referenced task and
// therefore affect every assignment sharing it.
type UpdateAssignmentInput struct {
	TaskID       *uint64
	EmployeeID   *uint64
	AssignedDate *time.Time
	Slot         *models.Slot
	Notes        *string
	Hours        *float64
	ClearHours   bool
	ColumnStart  *int

	Priority   *models.TaskPriority
	DueDate    *time.Time
	Status     *models.TaskStatus
	TaskTypeID *uint64
}

func (in UpdateAssignmentInput) hasTaskFields() bool {
	return in.Priority != nil || in.DueDate != nil || in.Status != nil || in.TaskTypeID != nil
}

// BulkCreateOptions controls batch placement behavior.
type BulkCreateOptions struct {
	// AllowOverbooking swallows per-item validation failures, collecting only
	// the successful placements.
	AllowOverbooking bool
	// ValidateConflicts pre-validates every spec before any writes.
	ValidateConflicts bool
}

// CreateAssignment validates and places a single assignment. The new
// assignment is appended to its slot group: SlotOrder becomes the current
// group maximum plus one, or 0 for an empty group.
func (s *ScheduleService) CreateAssignment(input CreateAssignmentInput) (*models.Assignment, error) {
	var created *models.Assignment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		assignment, err := s.createInTx(tx, input)
		if err != nil {
			return err
		}
		created = assignment
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.assignmentRepo.FindByID(created.ID, "Task", "Task.Project", "Task.TaskType", "Employee")
}

func (s *ScheduleService) createInTx(tx *gorm.DB, input CreateAssignmentInput) (*models.Assignment, error) {
	assignmentRepo := repository.NewAssignmentRepository(tx)
	taskRepo := repository.NewTaskRepository(tx)
	employeeRepo := repository.NewEmployeeRepository(tx)

	date := calendar.Truncate(input.Date)

	reasons, err := s.validatePlacement(assignmentRepo, taskRepo, employeeRepo, input.EmployeeID, input.TaskID, date, input.Slot)
	if err != nil {
		return nil, err
	}
	if len(reasons) > 0 {
		return nil, &ValidationError{Reasons: reasons}
	}

	taskID, err := s.resolveTaskID(taskRepo, input)
	if err != nil {
		return nil, err
	}

	slotOrder, err := assignmentRepo.NextSlotOrder(input.EmployeeID, date, input.Slot)
	if err != nil {
		return nil, fmt.Errorf("failed to compute slot order: %w", err)
	}

	assignment := &models.Assignment{
		TaskID:       taskID,
		EmployeeID:   input.EmployeeID,
		AssignedDate: date,
		Slot:         input.Slot,
		SlotOrder:    slotOrder,
		Hours:        input.Hours,
		Notes:        input.Notes,
		AbsenceType:  input.AbsenceType,
		IsActive:     true,
	}

	if err := assignmentRepo.Create(assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	return assignment, nil
}

// resolveTaskID returns the referenced task ID, creating a task inline when
// only a (project, task type) pair was supplied.
func (s *ScheduleService) resolveTaskID(taskRepo repository.TaskRepository, input CreateAssignmentInput) (uint64, error) {
	if input.TaskID != nil {
		return *input.TaskID, nil
	}
	if input.ProjectID == nil || input.TaskTypeID == nil {
		return 0, ErrTaskReferenceRequired
	}

	title := strings.TrimSpace(input.TaskTitle)
	if title == "" {
		title = "New task"
	}

	task := &models.Task{
		Title:          title,
		ProjectID:      *input.ProjectID,
		TaskTypeID:     *input.TaskTypeID,
		Priority:       models.TaskPriorityMedium,
		Status:         models.TaskStatusNotStarted,
		EstimatedHours: constants.DefaultEstimatedHours,
	}
	if err := taskRepo.Create(task); err != nil {
		return 0, fmt.Errorf("failed to create task: %w", err)
	}

	return task.ID, nil
}

// validatePlacement collects the reasons a placement would be invalid. A nil
// taskID skips the task existence check (the task is created afterwards).
func (s *ScheduleService) validatePlacement(
	assignmentRepo repository.AssignmentRepository,
	taskRepo repository.TaskRepository,
	employeeRepo repository.EmployeeRepository,
	employeeID uint64,
	taskID *uint64,
	date time.Time,
	slot models.Slot,
) ([]string, error) {
	var reasons []string

	if _, err := employeeRepo.FindByID(employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			reasons = append(reasons, "employee does not exist")
		} else {
			return nil, fmt.Errorf("failed to verify employee: %w", err)
		}
	}

	if taskID != nil {
		if _, err := taskRepo.FindByID(*taskID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				reasons = append(reasons, "task does not exist or is inactive")
			} else {
				return nil, fmt.Errorf("failed to verify task: %w", err)
			}
		}
	}

	if !s.policy.AllowWeekendAssignments && calendar.IsWeekend(date) {
		reasons = append(reasons, "weekend assignments are not allowed")
	}

	count, err := assignmentRepo.CountSlotGroup(employeeID, date, slot)
	if err != nil {
		return nil, fmt.Errorf("failed to check capacity: %w", err)
	}
	if count >= constants.MaxTasksPerSlot {
		reasons = append(reasons, "slot is at capacity")
	}

	return reasons, nil
}

// UpdateAssignment applies a sparse patch to an assignment. Task-level fields
// mutate the referenced task in place, affecting every assignment sharing it;
// use BulkUpdateAssignments for fork-isolating edits.
func (s *ScheduleService) UpdateAssignment(assignmentID uint64, input UpdateAssignmentInput) (*models.Assignment, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		assignmentRepo := repository.NewAssignmentRepository(tx)
		taskRepo := repository.NewTaskRepository(tx)

		assignment, err := assignmentRepo.FindByID(assignmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return fmt.Errorf("failed to find assignment: %w", err)
		}

		if input.hasTaskFields() {
			task, err := taskRepo.FindByID(assignment.TaskID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrTaskNotFound
				}
				return fmt.Errorf("failed to find task: %w", err)
			}
			applyTaskFields(task, input)
			if err := taskRepo.Update(task); err != nil {
				return fmt.Errorf("failed to update task: %w", err)
			}
		}

		applyAssignmentFields(assignment, input)
		if err := assignmentRepo.Update(assignment); err != nil {
			return fmt.Errorf("failed to update assignment: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.assignmentRepo.FindByID(assignmentID, "Task", "Task.Project", "Task.TaskType", "Employee")
}

// BulkUpdateAssignments applies the same sparse patch to every listed
// assignment within one transaction. Before a task-level field is mutated the
// task's sharing is checked under a row lock: when another active assignment
// still references the task, the task is forked and only the current
// assignment is repointed to the copy; otherwise the task is mutated in place.
// Assignment-level fields are always applied directly.
func (s *ScheduleService) BulkUpdateAssignments(assignmentIDs []uint64, input UpdateAssignmentInput) ([]models.Assignment, error) {
	if len(assignmentIDs) == 0 {
		return nil, ErrNoAssignmentIDs
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		assignmentRepo := repository.NewAssignmentRepository(tx)
		taskRepo := repository.NewTaskRepository(tx)

		for _, id := range assignmentIDs {
			assignment, err := assignmentRepo.FindByID(id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrAssignmentNotFound
				}
				return fmt.Errorf("failed to find assignment %d: %w", id, err)
			}

			if input.hasTaskFields() {
				if err := s.forkOrMutateTask(assignmentRepo, taskRepo, assignment, input); err != nil {
					return err
				}
			}

			applyAssignmentFields(assignment, input)
			if err := assignmentRepo.Update(assignment); err != nil {
				return fmt.Errorf("failed to update assignment %d: %w", id, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	updated := make([]models.Assignment, 0, len(assignmentIDs))
	for _, id := range assignmentIDs {
		assignment, err := s.assignmentRepo.FindByID(id, "Task", "Task.Project", "Task.TaskType")
		if err != nil {
			return nil, fmt.Errorf("failed to reload assignment %d: %w", id, err)
		}
		updated = append(updated, *assignment)
	}

	return updated, nil
}

// forkOrMutateTask applies task-level patch fields. The shared check and the
// resulting fork or in-place mutation run inside the caller's transaction so
// two concurrent editors cannot both decide the task is unshared.
func (s *ScheduleService) forkOrMutateTask(
	assignmentRepo repository.AssignmentRepository,
	taskRepo repository.TaskRepository,
	assignment *models.Assignment,
	input UpdateAssignmentInput,
) error {
	task, err := taskRepo.FindByID(assignment.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	sharers, err := assignmentRepo.CountOtherActiveByTask(task.ID, assignment.ID)
	if err != nil {
		return fmt.Errorf("failed to check task sharing: %w", err)
	}

	if sharers == 0 {
		applyTaskFields(task, input)
		if err := taskRepo.Update(task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		return nil
	}

	fork := &models.Task{
		Title:          task.Title,
		Description:    task.Description,
		ProjectID:      task.ProjectID,
		TaskTypeID:     task.TaskTypeID,
		Priority:       task.Priority,
		Status:         task.Status,
		DueDate:        task.DueDate,
		EstimatedHours: task.EstimatedHours,
		ActualHours:    task.ActualHours,
	}
	applyTaskFields(fork, input)

	if err := taskRepo.Create(fork); err != nil {
		return fmt.Errorf("failed to fork task: %w", err)
	}

	assignment.TaskID = fork.ID
	return nil
}

func applyTaskFields(task *models.Task, input UpdateAssignmentInput) {
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.TaskTypeID != nil {
		task.TaskTypeID = *input.TaskTypeID
	}
}

func applyAssignmentFields(assignment *models.Assignment, input UpdateAssignmentInput) {
	if input.TaskID != nil {
		assignment.TaskID = *input.TaskID
	}
	if input.EmployeeID != nil {
		assignment.EmployeeID = *input.EmployeeID
	}
	if input.AssignedDate != nil {
		assignment.AssignedDate = calendar.Truncate(*input.AssignedDate)
	}
	if input.Slot != nil {
		assignment.Slot = *input.Slot
	}
	if input.Notes != nil {
		assignment.Notes = *input.Notes
	}
	if input.ClearHours {
		assignment.Hours = nil
	} else if input.Hours != nil {
		assignment.Hours = input.Hours
	}
	if input.ColumnStart != nil {
		assignment.ColumnStart = input.ColumnStart
	}
}

// DeleteAssignment soft-deletes an assignment by flipping its active flag.
// The lookup only sees active assignments, so deleting an already-deleted
// assignment reports false. Sibling slot orders are never renumbered.
func (s *ScheduleService) DeleteAssignment(assignmentID uint64) (bool, error) {
	return s.assignmentRepo.Deactivate(assignmentID)
}

// BulkCreateAssignments places a batch of assignments inside one transaction.
//
// With ValidateConflicts set and AllowOverbooking unset, any invalid spec
// fails the whole batch before writes. With AllowOverbooking set, per-item
// failures are swallowed and skipped, returning only the successful
// placements; without it the first per-item failure aborts the batch.
func (s *ScheduleService) BulkCreateAssignments(specs []CreateAssignmentInput, opts BulkCreateOptions) ([]models.Assignment, error) {
	if opts.ValidateConflicts && !opts.AllowOverbooking {
		for _, spec := range specs {
			check, err := s.CheckCapacity(spec.EmployeeID, spec.Date, spec.Slot)
			if err != nil {
				return nil, err
			}
			if !check.IsAvailable {
				return nil, &ValidationError{Reasons: []string{
					fmt.Sprintf("slot %s on %s is at capacity for employee %d",
						spec.Slot, calendar.Truncate(spec.Date).Format("2006-01-02"), spec.EmployeeID),
				}}
			}
		}
	}

	var createdIDs []uint64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, spec := range specs {
			assignment, err := s.createInTx(tx, spec)
			if err != nil {
				var validationErr *ValidationError
				if errors.As(err, &validationErr) && opts.AllowOverbooking {
					continue
				}
				return err
			}
			createdIDs = append(createdIDs, assignment.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created := make([]models.Assignment, 0, len(createdIDs))
	for _, id := range createdIDs {
		assignment, err := s.assignmentRepo.FindByID(id, "Task")
		if err != nil {
			return nil, fmt.Errorf("failed to reload assignment %d: %w", id, err)
		}
		created = append(created, *assignment)
	}

	return created, nil
}

// MoveAssignment relocates an assignment to another (employee, date, slot)
// group, re-validating capacity at the destination first. Moving into a new
// group appends the assignment to that group's placement order; moving within
// the same group keeps its order.
func (s *ScheduleService) MoveAssignment(assignmentID, targetEmployeeID uint64, targetDate time.Time, targetSlot models.Slot) (*models.Assignment, error) {
	targetDate = calendar.Truncate(targetDate)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		assignmentRepo := repository.NewAssignmentRepository(tx)
		taskRepo := repository.NewTaskRepository(tx)
		employeeRepo := repository.NewEmployeeRepository(tx)

		assignment, err := assignmentRepo.FindByID(assignmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return fmt.Errorf("failed to find assignment: %w", err)
		}

		sameGroup := assignment.EmployeeID == targetEmployeeID &&
			assignment.AssignedDate.Equal(targetDate) &&
			assignment.Slot == targetSlot
		if sameGroup {
			return nil
		}

		reasons, err := s.validatePlacement(assignmentRepo, taskRepo, employeeRepo, targetEmployeeID, &assignment.TaskID, targetDate, targetSlot)
		if err != nil {
			return err
		}
		if len(reasons) > 0 {
			return &ValidationError{Reasons: reasons}
		}

		slotOrder, err := assignmentRepo.NextSlotOrder(targetEmployeeID, targetDate, targetSlot)
		if err != nil {
			return fmt.Errorf("failed to compute slot order: %w", err)
		}

		assignment.EmployeeID = targetEmployeeID
		assignment.AssignedDate = targetDate
		assignment.Slot = targetSlot
		assignment.SlotOrder = slotOrder

		if err := assignmentRepo.Update(assignment); err != nil {
			return fmt.Errorf("failed to move assignment: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.assignmentRepo.FindByID(assignmentID, "Task", "Employee")
}

// GetAssignment returns an active assignment with related data.
func (s *ScheduleService) GetAssignment(assignmentID uint64) (*models.Assignment, error) {
	assignment, err := s.assignmentRepo.FindByID(assignmentID, "Task", "Task.Project", "Task.TaskType", "Employee")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}
	return assignment, nil
}

// GetAssignmentsByDateRange lists active assignments for the given employees
// (all employees when none are given) across a date range.
func (s *ScheduleService) GetAssignmentsByDateRange(employeeIDs []uint64, start, end time.Time) ([]models.Assignment, error) {
	return s.assignmentRepo.ListByDateRange(repository.AssignmentFilter{
		EmployeeIDs: employeeIDs,
		StartDate:   calendar.Truncate(start),
		EndDate:     calendar.Truncate(end),
	})
}

func repositoryFilter(employeeID uint64, start, end time.Time) repository.AssignmentFilter {
	return repository.AssignmentFilter{
		EmployeeIDs: []uint64{employeeID},
		StartDate:   calendar.Truncate(start),
		EndDate:     calendar.Truncate(end),
	}
}
