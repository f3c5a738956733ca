package database

import (
	"gorm.io/gorm"

	"github.com/craftdesk/team-scheduler-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// ActiveAssignments restricts a query to assignments that have not been
// soft-deleted.
func ActiveAssignments(db *gorm.DB) *gorm.DB {
	return db.Where("assignments.is_active = ?", true)
}
