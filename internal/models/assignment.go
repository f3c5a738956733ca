package models

import (
	"time"
)

type Slot string

const (
	SlotMorning   Slot = "MORNING"
	SlotAfternoon Slot = "AFTERNOON"
)

// Assignment places a task into an employee's half-day slot on a calendar day.
//
// SlotOrder is the placement rank within a (employee, date, slot) group:
// strictly increasing in placement order, never renumbered by edits or deletes.
// Hours, when set, overrides the automatic even split of the slot hour budget.
//
// Assignments are soft-deleted via IsActive rather than gorm.DeletedAt so that
// inactive rows stay reachable for audit queries.
type Assignment struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	TaskID       uint64    `gorm:"not null;index" json:"task_id"`
	EmployeeID   uint64    `gorm:"not null;index:idx_assignments_slot_group" json:"employee_id"`
	AssignedDate time.Time `gorm:"not null;index:idx_assignments_slot_group" json:"assigned_date"`
	Slot         Slot      `gorm:"type:varchar(20);not null;index:idx_assignments_slot_group" json:"slot"`
	SlotOrder    int       `gorm:"not null;default:0" json:"slot_order"`
	Hours        *float64  `json:"hours"`
	ColumnStart  *int      `json:"column_start"`
	Notes        string    `gorm:"type:text" json:"notes"`
	AbsenceType  *string   `gorm:"type:varchar(50)" json:"absence_type"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Task     Task     `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Employee Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

// IsAbsence reports whether the assignment represents an absence rather than
// project work.
func (a *Assignment) IsAbsence() bool {
	return a.AbsenceType != nil && *a.AbsenceType != ""
}
