package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Assignment indexes for slot-group lookups and range scans
		{"assignments", "idx_assignments_employee_date_slot", "employee_id, assigned_date, slot"},
		{"assignments", "idx_assignments_task_id", "task_id"},
		{"assignments", "idx_assignments_assigned_date", "assigned_date"},
		{"assignments", "idx_assignments_is_active", "is_active"},

		// Task indexes for filtering and sorting
		{"tasks", "idx_tasks_project_id", "project_id"},
		{"tasks", "idx_tasks_status", "status"},
		{"tasks", "idx_tasks_due_date", "due_date"},

		// Employee and team indexes
		{"employees", "idx_employees_team_id", "team_id"},
		{"teams", "idx_teams_invite_code", "invite_code"},

		// Absence indexes for range queries
		{"absences", "idx_absences_employee_id", "employee_id"},
		{"absences", "idx_absences_start_date", "start_date"},
	}

	for _, idx := range indexes {
		exists, err := indexExists(db, idx.table, idx.name)
		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}
		if exists {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}

func indexExists(db *gorm.DB, table, name string) (bool, error) {
	var count int64
	var err error

	switch db.Dialector.Name() {
	case "mysql":
		err = db.Raw(`
			SELECT COUNT(*)
			FROM information_schema.statistics
			WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?
		`, table, name).Count(&count).Error
	case "postgres":
		err = db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, table, name).Count(&count).Error
	default:
		// sqlite
		err = db.Raw(`
			SELECT COUNT(*)
			FROM sqlite_master
			WHERE type = 'index' AND tbl_name = ? AND name = ?
		`, table, name).Count(&count).Error
	}

	return count > 0, err
}
