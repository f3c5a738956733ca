package models

import (
	"time"

	"gorm.io/gorm"
)

type Skill struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Category  string         `gorm:"type:varchar(100)" json:"category"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type EmployeeSkill struct {
	EmployeeID  uint64    `gorm:"primarykey" json:"employee_id"`
	SkillID     uint64    `gorm:"primarykey" json:"skill_id"`
	Proficiency int       `gorm:"not null;default:1" json:"proficiency"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Employee Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Skill    Skill    `gorm:"foreignKey:SkillID" json:"skill,omitempty"`
}
