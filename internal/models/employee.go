package models

import (
	"time"

	"gorm.io/gorm"
)

type Employee struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	UserID    uint64         `gorm:"not null;uniqueIndex" json:"user_id"`
	FirstName string         `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string         `gorm:"type:varchar(100);not null" json:"last_name"`
	Position  string         `gorm:"type:varchar(100)" json:"position"`
	TeamID    *uint64        `gorm:"index" json:"team_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User        User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Team        *Team           `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Assignments []Assignment    `gorm:"foreignKey:EmployeeID" json:"assignments,omitempty"`
	Skills      []EmployeeSkill `gorm:"foreignKey:EmployeeID" json:"skills,omitempty"`
}
