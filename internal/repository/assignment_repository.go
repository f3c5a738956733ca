package repository

import (
	"time"

	"github.com/craftdesk/team-scheduler-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAssignmentRepository is a GORM implementation of AssignmentRepository
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

func (r *GormAssignmentRepository) active() *gorm.DB {
	return r.db.Model(&models.Assignment{}).Where("assignments.is_active = ?", true)
}

// Create creates a new assignment
func (r *GormAssignmentRepository) Create(assignment *models.Assignment) error {
	return r.db.Create(assignment).Error
}

// FindByID finds an active assignment by ID with optional preloading
func (r *GormAssignmentRepository) FindByID(id uint64, preload ...string) (*models.Assignment, error) {
	var assignment models.Assignment
	query := r.db.Where("is_active = ?", true)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&assignment, id).Error; err != nil {
		return nil, err
	}

	return &assignment, nil
}

// FindByIDIncludingInactive finds an assignment regardless of its active flag
func (r *GormAssignmentRepository) FindByIDIncludingInactive(id uint64) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.First(&assignment, id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListSlotGroup lists active assignments in a (employee, date, slot) group,
// ordered by slot order then creation time
func (r *GormAssignmentRepository) ListSlotGroup(employeeID uint64, date time.Time, slot models.Slot) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.active().
		Where("employee_id = ? AND assigned_date = ? AND slot = ?", employeeID, date, slot).
		Order("slot_order ASC, created_at ASC").
		Preload("Task").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// CountSlotGroup counts active assignments in a (employee, date, slot) group
func (r *GormAssignmentRepository) CountSlotGroup(employeeID uint64, date time.Time, slot models.Slot) (int64, error) {
	var count int64
	err := r.active().
		Where("employee_id = ? AND assigned_date = ? AND slot = ?", employeeID, date, slot).
		Count(&count).Error
	return count, err
}

// NextSlotOrder computes the slot order for the next placement into a group.
// Inactive assignments keep their slot order, so the max is taken over active
// rows only; an empty group starts at 0.
func (r *GormAssignmentRepository) NextSlotOrder(employeeID uint64, date time.Time, slot models.Slot) (int, error) {
	var max *int
	err := r.active().
		Where("employee_id = ? AND assigned_date = ? AND slot = ?", employeeID, date, slot).
		Select("MAX(slot_order)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}

// ListByDateRange lists assignments matching the filter, ordered for stable
// view building
func (r *GormAssignmentRepository) ListByDateRange(filter AssignmentFilter) ([]models.Assignment, error) {
	var assignments []models.Assignment

	query := r.db.Model(&models.Assignment{}).
		Where("assigned_date >= ? AND assigned_date <= ?", filter.StartDate, filter.EndDate)

	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if len(filter.EmployeeIDs) > 0 {
		query = query.Where("employee_id IN ?", filter.EmployeeIDs)
	}

	err := query.
		Order("assigned_date ASC, slot ASC, slot_order ASC, created_at ASC").
		Preload("Task").
		Preload("Task.Project").
		Preload("Task.TaskType").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}

	return assignments, nil
}

// CountOtherActiveByTask counts active assignments referencing a task other
// than the given assignment. Rows are locked FOR UPDATE so a concurrent editor
// cannot race the fork decision; sqlite has no row locks, its transactions
// serialize writers anyway.
func (r *GormAssignmentRepository) CountOtherActiveByTask(taskID, excludeAssignmentID uint64) (int64, error) {
	query := r.active().
		Where("task_id = ? AND id <> ?", taskID, excludeAssignmentID)

	if r.db.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

// Update persists all fields of an assignment
func (r *GormAssignmentRepository) Update(assignment *models.Assignment) error {
	return r.db.Save(assignment).Error
}

// Deactivate soft-deletes an active assignment. Sibling slot orders are never
// renumbered.
func (r *GormAssignmentRepository) Deactivate(id uint64) (bool, error) {
	result := r.db.Model(&models.Assignment{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
