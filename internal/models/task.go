package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "NOT_STARTED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

type TaskType struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(100);not null" json:"name"`
	Color     string         `gorm:"type:varchar(20)" json:"color"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Task is a unit of work owned by a project. Multiple assignments may reference
// the same task; editing task-level fields from one assignment forks the task
// when siblings still share it (see services.ScheduleService).
type Task struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Title          string         `gorm:"type:varchar(255);not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	ProjectID      uint64         `gorm:"not null;index" json:"project_id"`
	TaskTypeID     uint64         `gorm:"not null" json:"task_type_id"`
	Priority       TaskPriority   `gorm:"type:varchar(20);not null;default:'MEDIUM'" json:"priority"`
	Status         TaskStatus     `gorm:"type:varchar(20);not null;default:'NOT_STARTED'" json:"status"`
	DueDate        *time.Time     `json:"due_date"`
	EstimatedHours float64        `gorm:"not null;default:4" json:"estimated_hours"`
	ActualHours    float64        `gorm:"not null;default:0" json:"actual_hours"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project     Project      `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	TaskType    TaskType     `gorm:"foreignKey:TaskTypeID" json:"task_type,omitempty"`
	Assignments []Assignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
}
