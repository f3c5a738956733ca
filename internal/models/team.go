package models

import (
	"time"

	"gorm.io/gorm"
)

type Team struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	LeadEmployeeID *uint64        `json:"lead_employee_id"`
	InviteCode     string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"invite_code"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	LeadEmployee *Employee  `gorm:"foreignKey:LeadEmployeeID" json:"lead_employee,omitempty"`
	Members      []Employee `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}
