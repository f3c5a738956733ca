package dto

import (
	"time"

	"github.com/craftdesk/team-scheduler-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID             uint64              `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description,omitempty"`
	ProjectID      uint64              `json:"project_id"`
	ProjectName    string              `json:"project_name,omitempty"`
	TaskTypeID     uint64              `json:"task_type_id"`
	TaskTypeName   string              `json:"task_type_name,omitempty"`
	Priority       models.TaskPriority `json:"priority"`
	Status         models.TaskStatus   `json:"status"`
	DueDate        *time.Time          `json:"due_date"`
	EstimatedHours float64             `json:"estimated_hours"`
	ActualHours    float64             `json:"actual_hours"`
}

// AssignmentDTO represents an assignment in API responses
type AssignmentDTO struct {
	ID           uint64      `json:"id"`
	TaskID       uint64      `json:"task_id"`
	EmployeeID   uint64      `json:"employee_id"`
	AssignedDate time.Time   `json:"assigned_date"`
	Slot         models.Slot `json:"slot"`
	SlotOrder    int         `json:"slot_order"`
	Hours        *float64    `json:"hours"`
	ColumnStart  *int        `json:"column_start"`
	Notes        string      `json:"notes,omitempty"`
	AbsenceType  *string     `json:"absence_type,omitempty"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	Task         *TaskDTO    `json:"task,omitempty"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:             task.ID,
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

	if task.Project.ID != 0 {
		dto.ProjectName = task.Project.Name
	}
	if task.TaskType.ID != 0 {
		dto.TaskTypeName = task.TaskType.Name
	}

	return dto
}

// ToAssignmentDTO converts an Assignment model to AssignmentDTO
func ToAssignmentDTO(assignment models.Assignment) AssignmentDTO {
	dto := AssignmentDTO{
		ID:           assignment.ID,
		TaskID:       assignment.TaskID,
		EmployeeID:   assignment.EmployeeID,
		AssignedDate: assignment.AssignedDate,
		Slot:         assignment.Slot,
		SlotOrder:    assignment.SlotOrder,
		Hours:        assignment.Hours,
		ColumnStart:  assignment.ColumnStart,
		Notes:        assignment.Notes,
		AbsenceType:  assignment.AbsenceType,
		IsActive:     assignment.IsActive,
		CreatedAt:    assignment.CreatedAt,
	}

	if assignment.Task.ID != 0 {
		task := ToTaskDTO(assignment.Task)
		dto.Task = &task
	}

	return dto
}

// ToAssignmentDTOs converts a slice of assignments
func ToAssignmentDTOs(assignments []models.Assignment) []AssignmentDTO {
	dtos := make([]AssignmentDTO, len(assignments))
	for i, a := range assignments {
		dtos[i] = ToAssignmentDTO(a)
	}
	return dtos
}
