package models

import (
	"time"

	"gorm.io/gorm"
)

type AbsenceStatus string

const (
	AbsenceStatusPending  AbsenceStatus = "PENDING"
	AbsenceStatusApproved AbsenceStatus = "APPROVED"
	AbsenceStatusRejected AbsenceStatus = "REJECTED"
)

// Common absence type values stored on Absence.Type and mirrored onto the
// absence assignments placed when an absence is approved.
const (
	AbsenceTypeVacation = "VACATION"
	AbsenceTypeSick     = "SICK"
	AbsenceTypeTraining = "TRAINING"
	AbsenceTypeOther    = "OTHER"
)

type Absence struct {
	ID         uint64         `gorm:"primarykey" json:"id"`
	EmployeeID uint64         `gorm:"not null;index" json:"employee_id"`
	Type       string         `gorm:"type:varchar(50);not null" json:"type"`
	StartDate  time.Time      `gorm:"not null" json:"start_date"`
	EndDate    time.Time      `gorm:"not null" json:"end_date"`
	Status     AbsenceStatus  `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Reason     string         `gorm:"type:text" json:"reason"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Employee Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}
