package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/craftdesk/team-scheduler-api/internal/models"
	"github.com/craftdesk/team-scheduler-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrEmployeeNameRequired = errors.New("first and last name are required")
)

// EmployeeService provides business logic for employee operations.
type EmployeeService struct {
	employeeRepo repository.EmployeeRepository
	teamRepo     repository.TeamRepository
}

// NewEmployeeService creates a new EmployeeService.
func NewEmployeeService(employeeRepo repository.EmployeeRepository, teamRepo repository.TeamRepository) *EmployeeService {
	return &EmployeeService{
		employeeRepo: employeeRepo,
		teamRepo:     teamRepo,
	}
}

// ListEmployeesInput represents filters for listing employees.
type ListEmployeesInput struct {
	TeamID     *uint64
	Unassigned bool
	Position   *string
	Search     string
	SortBy     string
	Page       int
	PageSize   int
}

// ListEmployees returns employees matching the filters.
func (s *EmployeeService) ListEmployees(input ListEmployeesInput) ([]models.Employee, int64, error) {
	employees, total, err := s.employeeRepo.List(repository.EmployeeFilter{
		TeamID:     input.TeamID,
		Unassigned: input.Unassigned,
		Position:   input.Position,
		Search:     input.Search,
		SortBy:     input.SortBy,
		Page:       input.Page,
		PageSize:   input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, total, nil
}

// GetEmployee returns an employee with related data.
func (s *EmployeeService) GetEmployee(employeeID uint64) (*models.Employee, error) {
	employee, err := s.employeeRepo.FindByID(employeeID, "User", "Team", "Skills", "Skills.Skill")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}
	return employee, nil
}

// UpdateEmployeeInput represents a sparse employee update.
type UpdateEmployeeInput struct {
	FirstName *string
	LastName  *string
	Position  *string
	TeamID    *uint64
	ClearTeam bool
}

// UpdateEmployee updates an employee.
func (s *EmployeeService) UpdateEmployee(employeeID uint64, input UpdateEmployeeInput) (*models.Employee, error) {
	employee, err := s.employeeRepo.FindByID(employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}

	if input.FirstName != nil {
		if strings.TrimSpace(*input.FirstName) == "" {
			return nil, ErrEmployeeNameRequired
		}
		employee.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		if strings.TrimSpace(*input.LastName) == "" {
			return nil, ErrEmployeeNameRequired
		}
		employee.LastName = *input.LastName
	}
	if input.Position != nil {
		employee.Position = *input.Position
	}
	if input.ClearTeam {
		employee.TeamID = nil
	} else if input.TeamID != nil {
		if _, err := s.teamRepo.FindByID(*input.TeamID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, fmt.Errorf("failed to find team: %w", err)
		}
		employee.TeamID = input.TeamID
	}

	if err := s.employeeRepo.Update(employee); err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}

	return employee, nil
}

// DeleteEmployee soft deletes an employee.
func (s *EmployeeService) DeleteEmployee(employeeID uint64) error {
	if _, err := s.employeeRepo.FindByID(employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to find employee: %w", err)
	}

	if err := s.employeeRepo.Delete(employeeID); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	return nil
}
