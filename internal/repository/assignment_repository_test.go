package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/craftdesk/team-scheduler-api/internal/models"
)

// setupMockDB wires GORM's mysql dialector onto a sqlmock connection so the
// generated SQL can be asserted without a database.
func setupMockDB(t *testing.T) (AssignmentRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return NewAssignmentRepository(db), mock
}

func TestNextSlotOrder_EmptyGroupStartsAtZero(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT MAX(slot_order) FROM `assignments`")).
		WillReturnRows(sqlmock.NewRows([]string{"MAX(slot_order)"}).AddRow(nil))

	order, err := repo.NextSlotOrder(1, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), models.SlotMorning)
	require.NoError(t, err)
	require.Equal(t, 0, order)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNextSlotOrder_AppendsAfterGroupMax(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT MAX(slot_order) FROM `assignments`")).
		WithArgs(true, uint64(1), sqlmock.AnyArg(), string(models.SlotMorning)).
		WillReturnRows(sqlmock.NewRows([]string{"MAX(slot_order)"}).AddRow(3))

	order, err := repo.NextSlotOrder(1, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), models.SlotMorning)
	require.NoError(t, err)
	require.Equal(t, 4, order)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountSlotGroup_FiltersInactiveRows(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `assignments` WHERE assignments\\.is_active = \\?").
		WithArgs(true, uint64(7), sqlmock.AnyArg(), string(models.SlotAfternoon)).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(4))

	count, err := repo.CountSlotGroup(7, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), models.SlotAfternoon)
	require.NoError(t, err)
	require.Equal(t, int64(4), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountOtherActiveByTask_LocksRowsForUpdate(t *testing.T) {
	repo, mock := setupMockDB(t)

	// The mysql dialector must emit a FOR UPDATE lock with the count.
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `assignments` WHERE .+ FOR UPDATE").
		WithArgs(true, uint64(5), uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	count, err := repo.CountOtherActiveByTask(5, 9)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDIncludingInactive_SeesSoftDeletedRows(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `assignments` WHERE `assignments`.`id` = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "task_id", "employee_id", "is_active"}).
			AddRow(42, 5, 1, false))

	assignment, err := repo.FindByIDIncludingInactive(42)
	require.NoError(t, err)
	require.False(t, assignment.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivate_ReportsWhetherARowFlipped(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `assignments` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deleted, err := repo.Deactivate(42)
	require.NoError(t, err)
	require.True(t, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivate_AlreadyInactiveReportsFalse(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `assignments` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	deleted, err := repo.Deactivate(42)
	require.NoError(t, err)
	require.False(t, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}
