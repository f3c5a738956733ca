package repository

import (
	"github.com/craftdesk/team-scheduler-api/internal/models"
	"gorm.io/gorm"
)

// GormEmployeeRepository is a GORM implementation of EmployeeRepository
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// Create creates a new employee
func (r *GormEmployeeRepository) Create(employee *models.Employee) error {
	return r.db.Create(employee).Error
}

// FindByID finds an employee by ID with optional preloading
func (r *GormEmployeeRepository) FindByID(id uint64, preload ...string) (*models.Employee, error) {
	var employee models.Employee
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&employee, id).Error; err != nil {
		return nil, err
	}

	return &employee, nil
}

// FindByUserID finds the employee record backing a user
func (r *GormEmployeeRepository) FindByUserID(userID uint64) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.Where("user_id = ?", userID).First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// List retrieves employees with filtering, sorting and pagination
func (r *GormEmployeeRepository) List(filter EmployeeFilter) ([]models.Employee, int64, error) {
	var employees []models.Employee

	query := r.db.Model(&models.Employee{})

	if filter.TeamID != nil {
		query = query.Where("team_id = ?", *filter.TeamID)
	} else if filter.Unassigned {
		query = query.Where("team_id IS NULL")
	}
	if filter.Position != nil {
		query = query.Where("position = ?", *filter.Position)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.SortBy {
	case "name":
		query = query.Order("last_name ASC, first_name ASC")
	case "position":
		query = query.Order("position ASC, last_name ASC")
	default:
		query = query.Order("id ASC")
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Preload("Team").Preload("User").Find(&employees).Error; err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

// ListByTeam lists employees belonging to a team
func (r *GormEmployeeRepository) ListByTeam(teamID uint64) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.Where("team_id = ?", teamID).
		Order("last_name ASC, first_name ASC").
		Find(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

// Update updates an employee
func (r *GormEmployeeRepository) Update(employee *models.Employee) error {
	return r.db.Save(employee).Error
}

// Delete soft deletes an employee
func (r *GormEmployeeRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Employee{}, id).Error
}
