package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/craftdesk/team-scheduler-api/internal/database"
	"github.com/craftdesk/team-scheduler-api/internal/models"
	"github.com/craftdesk/team-scheduler-api/internal/repository"
)

// ScheduleServiceTestSuite covers placement, capacity, ordering, forking and
// deletion semantics against an in-memory database.
type ScheduleServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	service  *ScheduleService
	project  *models.Project
	taskType *models.TaskType
}

func (suite *ScheduleServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Employee{},
		&models.Team{},
		&models.Client{},
		&models.Project{},
		&models.TaskType{},
		&models.Task{},
		&models.Assignment{},
		&models.Skill{},
		&models.EmployeeSkill{},
		&models.Absence{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	teamService := NewTeamService(
		repository.NewTeamRepository(suite.db),
		repository.NewEmployeeRepository(suite.db),
		repository.NewUserRepository(suite.db),
	)
	suite.service = NewScheduleService(suite.db, teamService, SchedulePolicy{
		AllowWeekendAssignments: false,
	})

	suite.project = &models.Project{Name: "Launch", Status: models.ProjectStatusActive}
	suite.Require().NoError(suite.db.Create(suite.project).Error)
	suite.taskType = &models.TaskType{Name: "Development"}
	suite.Require().NoError(suite.db.Create(suite.taskType).Error)
}

func (suite *ScheduleServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ScheduleServiceTestSuite) createTestEmployee(firstName string) *models.Employee {
	user := &models.User{
		Username:     firstName,
		PasswordHash: "hashedpassword",
		Role:         models.RoleEmployee,
	}
	suite.Require().NoError(suite.db.Create(user).Error)

	employee := &models.Employee{
		UserID:    user.ID,
		FirstName: firstName,
		LastName:  "Tester",
	}
	suite.Require().NoError(suite.db.Create(employee).Error)
	return employee
}

func (suite *ScheduleServiceTestSuite) createTestTask(title string) *models.Task {
	task := &models.Task{
		Title:          title,
		ProjectID:      suite.project.ID,
		TaskTypeID:     suite.taskType.ID,
		Priority:       models.TaskPriorityMedium,
		Status:         models.TaskStatusNotStarted,
		EstimatedHours: 4,
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	return task
}

func (suite *ScheduleServiceTestSuite) placeTask(employeeID, taskID uint64, date time.Time, slot models.Slot) *models.Assignment {
	assignment, err := suite.service.CreateAssignment(CreateAssignmentInput{
		EmployeeID: employeeID,
		TaskID:     &taskID,
		Date:       date,
		Slot:       slot,
	})
	suite.Require().NoError(err)
	return assignment
}

// Monday, safely a business day.
func monday() time.Time {
	return time.Date(2024, 6, 3, 0, 0, 0, 0, time.Local)
}

func (suite *ScheduleServiceTestSuite) TestCreateAssignment_AssignsSequentialSlotOrder() {
	employee := suite.createTestEmployee("ordering")

	for i := 0; i < 3; i++ {
		task := suite.createTestTask("Task")
		assignment := suite.placeTask(employee.ID, task.ID, monday(), models.SlotMorning)
		suite.Equal(i, assignment.SlotOrder)
	}
}

func (suite *ScheduleServiceTestSuite) TestCreateAssignment_RejectsFifthTask() {
	employee := suite.createTestEmployee("capacity")

	for i := 0; i < 4; i++ {
		task := suite.createTestTask("Task")
		suite.placeTask(employee.ID, task.ID, monday(), models.SlotMorning)
	}

	task := suite.createTestTask("One too many")
	_, err := suite.service.CreateAssignment(CreateAssignmentInput{
		EmployeeID: employee.ID,
		TaskID:     &task.ID,
		Date:       monday(),
		Slot:       models.SlotMorning,
	})

	var validationErr *ValidationError
	suite.Require().ErrorAs(err, &validationErr)
	suite.Contains(validationErr.Reasons, "slot is at capacity")

	// The other slot of the same day is unaffected.
	suite.placeTask(employee.ID, task.ID, monday(), models.SlotAfternoon)
}

func (suite *ScheduleServiceTestSuite) TestCreateAssignment_CollectsAllReasons() {
	saturday := time.Date(2024, 6, 8, 0, 0, 0, 0, time.Local)
	missingTask := uint64(9999)

	_, err := suite.service.CreateAssignment(CreateAssignmentInput{
		EmployeeID: 9999,
		TaskID:     &missingTask,
		Date:       saturday,
		Slot:       models.SlotMorning,
	})

	var validationErr *ValidationError
	suite.Require().ErrorAs(err, &validationErr)
	suite.Contains(validationErr.Reasons, "employee does not exist")
	suite.Contains(validationErr.Reasons, "task does not exist or is inactive")
	suite.Contains(validationErr.Reasons, "weekend assignments are not allowed")
}

func (suite *ScheduleServiceTestSuite) TestCreateAssignment_WeekendAllowedByPolicy() {
	teamService := NewTeamService(
		repository.NewTeamRepository(suite.db),
		repository.NewEmployeeRepository(suite.db),
		repository.NewUserRepository(suite.db),
	)
	permissive := NewScheduleService(suite.db, teamService, SchedulePolicy{
		AllowWeekendAssignments: true,
	})

	employee := suite.createTestEmployee("weekender")
	task := suite.createTestTask("Saturday shift")
	saturday := time.Date(2024, 6, 8, 0, 0, 0, 0, time.Local)

	assignment, err := permissive.CreateAssignment(CreateAssignmentInput{
		EmployeeID: employee.ID,
		TaskID:     &task.ID,
		Date:       saturday,
		Slot:       models.SlotMorning,
	})
	suite.Require().NoError(err)
	suite.Equal(saturday, assignment.AssignedDate)
}

func (suite *ScheduleServiceTestSuite) TestCreateAssignment_InlineTaskCreation() {
	employee := suite.createTestEmployee("inline")

	assignment, err := suite.service.CreateAssignment(CreateAssignmentInput{
		EmployeeID: employee.ID,
		ProjectID:  &suite.project.ID,
		TaskTypeID: &suite.taskType.ID,
		TaskTitle:  "Drafted from the calendar",
		Date:       monday(),
		Slot:       models.SlotAfternoon,
	})
	suite.Require().NoError(err)

	suite.Equal("Drafted from the calendar", assignment.Task.Title)
	suite.Equal(models.TaskPriorityMedium, assignment.Task.Priority)
	suite.Equal(models.TaskStatusNotStarted, assignment.Task.Status)
	suite.Equal(suite.project.ID, assignment.Task.ProjectID)
}

func (suite *ScheduleServiceTestSuite) TestCreateAssignment_RequiresTaskReference() {
	employee := suite.createTestEmployee("noref")

	_, err := suite.service.CreateAssignment(CreateAssignmentInput{
		EmployeeID: employee.ID,
		Date:       monday(),
		Slot:       models.SlotMorning,
	})
	suite.Require().ErrorIs(err, ErrTaskReferenceRequired)
}

func (suite *ScheduleServiceTestSuite) TestUpdateAssignment_SparsePatch() {
	employee := suite.createTestEmployee("patch")
	task := suite.createTestTask("Patchable")
	assignment := suite.placeTask(employee.ID, task.ID, monday(), models.SlotMorning)

	notes := "revised notes"
	hours := 1.5
	updated, err := suite.service.UpdateAssignment(assignment.ID, UpdateAssignmentInput{
		Notes: &notes,
		Hours: &hours,
	})
	suite.Require().NoError(err)

	suite.Equal("revised notes", updated.Notes)
	suite.Require().NotNil(updated.Hours)
	suite.Equal(1.5, *updated.Hours)
	// Untouched fields survive.
	suite.Equal(assignment.Slot, updated.Slot)
	suite.Equal(assignment.SlotOrder, updated.SlotOrder)

	cleared, err := suite.service.UpdateAssignment(assignment.ID, UpdateAssignmentInput{
		ClearHours: true,
	})
	suite.Require().NoError(err)
	suite.Nil(cleared.Hours)
	suite.Equal("revised notes", cleared.Notes)
}

func (suite *ScheduleServiceTestSuite) TestUpdateAssignment_TaskFieldsAffectSharers() {
	alice := suite.createTestEmployee("alice")
	bob := suite.createTestEmployee("bob")
	task := suite.createTestTask("Shared")

	suite.placeTask(alice.ID, task.ID, monday(), models.SlotMorning)
	other := suite.placeTask(bob.ID, task.ID, monday(), models.SlotMorning)

	done := models.TaskStatusDone
	first := suite.placeTask(alice.ID, task.ID, monday(), models.SlotAfternoon)
	_, err := suite.service.UpdateAssignment(first.ID, UpdateAssignmentInput{
		Status: &done,
	})
	suite.Require().NoError(err)

	// The single update mutates the shared task in place.
	reloaded, err := suite.service.GetAssignment(other.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusDone, reloaded.Task.Status)
}

func (suite *ScheduleServiceTestSuite) TestBulkUpdateAssignments_ForksSharedTask() {
	alice := suite.createTestEmployee("alice")
	bob := suite.createTestEmployee("bob")
	task := suite.createTestTask("Shared")

	target := suite.placeTask(alice.ID, task.ID, monday(), models.SlotMorning)
	bystander := suite.placeTask(bob.ID, task.ID, monday(), models.SlotMorning)

	high := models.TaskPriorityHigh
	updated, err := suite.service.BulkUpdateAssignments([]uint64{target.ID}, UpdateAssignmentInput{
		Priority: &high,
	})
	suite.Require().NoError(err)
	suite.Require().Len(updated, 1)

	// The edited assignment points at a fork carrying the new priority.
	suite.NotEqual(task.ID, updated[0].TaskID)
	suite.Equal(models.TaskPriorityHigh, updated[0].Task.Priority)
	suite.Equal(task.Title, updated[0].Task.Title)

	// The bystander still sees the original, untouched task.
	reloaded, err := suite.service.GetAssignment(bystander.ID)
	suite.Require().NoError(err)
	suite.Equal(task.ID, reloaded.TaskID)
	suite.Equal(models.TaskPriorityMedium, reloaded.Task.Priority)
}

func (suite *ScheduleServiceTestSuite) TestBulkUpdateAssignments_MutatesUnsharedTask() {
	employee := suite.createTestEmployee("solo")
	task := suite.createTestTask("Unshared")
	assignment := suite.placeTask(employee.ID, task.ID, monday(), models.SlotMorning)

	high := models.TaskPriorityHigh
	updated, err := suite.service.BulkUpdateAssignments([]uint64{assignment.ID}, UpdateAssignmentInput{
		Priority: &high,
	})
	suite.Require().NoError(err)

	// No fork: the task is mutated in place.
	suite.Equal(task.ID, updated[0].TaskID)
	suite.Equal(models.TaskPriorityHigh, updated[0].Task.Priority)

	var taskCount int64
	suite.db.Model(&models.Task{}).Count(&taskCount)
	suite.Equal(int64(1), taskCount)
}

func (suite *ScheduleServiceTestSuite) TestBulkUpdateAssignments_InactiveSharersDoNotForceFork() {
	alice := suite.createTestEmployee("alice")
	bob := suite.createTestEmployee("bob")
	task := suite.createTestTask("Half shared")

	target := suite.placeTask(alice.ID, task.ID, monday(), models.SlotMorning)
	ghost := suite.placeTask(bob.ID, task.ID, monday(), models.SlotMorning)

	deleted, err := suite.service.DeleteAssignment(ghost.ID)
	suite.Require().NoError(err)
	suite.True(deleted)

	done := models.TaskStatusDone
	updated, err := suite.service.BulkUpdateAssignments([]uint64{target.ID}, UpdateAssignmentInput{
		Status: &done,
	})
	suite.Require().NoError(err)

	// The only other reference is inactive, so the task mutates in place.
	suite.Equal(task.ID, updated[0].TaskID)
	suite.Equal(models.TaskStatusDone, updated[0].Task.Status)
}

func (suite *ScheduleServiceTestSuite) TestBulkUpdateAssignments_RequiresIDs() {
	_, err := suite.service.BulkUpdateAssignments(nil, UpdateAssignmentInput{})
	suite.Require().ErrorIs(err, ErrNoAssignmentIDs)
}

func (suite *ScheduleServiceTestSuite) TestDeleteAssignment_SoftDeleteKeepsOrderAndFreesCapacity() {
	employee := suite.createTestEmployee("deleter")

	assignments := make([]*models.Assignment, 0, 4)
	for i := 0; i < 4; i++ {
		task := suite.createTestTask("Task")
		assignments = append(assignments, suite.placeTask(employee.ID, task.ID, monday(), models.SlotMorning))
	}

	deleted, err := suite.service.DeleteAssignment(assignments[1].ID)
	suite.Require().NoError(err)
	suite.True(deleted)

	// Deleting again reports not found.
	deleted, err = suite.service.DeleteAssignment(assignments[1].ID)
	suite.Require().NoError(err)
	suite.False(deleted)

	// The row survives for audit, just inactive.
	var row models.Assignment
	suite.Require().NoError(suite.db.First(&row, assignments[1].ID).Error)
	suite.False(row.IsActive)

	// Capacity is freed and survivors keep their original order; the new
	// arrival continues beyond the highest order ever used.
	check, err := suite.service.CheckCapacity(employee.ID, monday(), models.SlotMorning)
	suite.Require().NoError(err)
	suite.Equal(3, check.CurrentCount)
	suite.True(check.IsAvailable)

	task := suite.createTestTask("Backfill")
	backfill := suite.placeTask(employee.ID, task.ID, monday(), models.SlotMorning)
	suite.Equal(4, backfill.SlotOrder)

	orders := make([]int, 0, 3)
	for _, a := range []*models.Assignment{assignments[0], assignments[2], assignments[3]} {
		reloaded, err := suite.service.GetAssignment(a.ID)
		suite.Require().NoError(err)
		orders = append(orders, reloaded.SlotOrder)
	}
	suite.Equal([]int{0, 2, 3}, orders)
}

func (suite *ScheduleServiceTestSuite) TestCheckCapacity_FullSlotIsNeitherAvailableNorOverbooked() {
	employee := suite.createTestEmployee("boundary")

	for i := 0; i < 4; i++ {
		task := suite.createTestTask("Task")
		suite.placeTask(employee.ID, task.ID, monday(), models.SlotMorning)
	}

	check, err := suite.service.CheckCapacity(employee.ID, monday(), models.SlotMorning)
	suite.Require().NoError(err)
	suite.Equal(4, check.CurrentCount)
	suite.False(check.IsAvailable)
	suite.False(check.IsOverbooked)
}

func (suite *ScheduleServiceTestSuite) TestBulkCreateAssignments_OverbookingSkipsInvalidSpecs() {
	employee := suite.createTestEmployee("bulk")
	for i := 0; i < 4; i++ {
		task := suite.createTestTask("Task")
		suite.placeTask(employee.ID, task.ID, monday(), models.SlotMorning)
	}

	full := suite.createTestTask("Overflow")
	open := suite.createTestTask("Fits")
	specs := []CreateAssignmentInput{
		{EmployeeID: employee.ID, TaskID: &full.ID, Date: monday(), Slot: models.SlotMorning},
		{EmployeeID: employee.ID, TaskID: &open.ID, Date: monday(), Slot: models.SlotAfternoon},
	}

	created, err := suite.service.BulkCreateAssignments(specs, BulkCreateOptions{
		AllowOverbooking: true,
	})
	suite.Require().NoError(err)
	suite.Require().Len(created, 1)
	suite.Equal(open.ID, created[0].TaskID)
	suite.Equal(models.SlotAfternoon, created[0].Slot)
}

func (suite *ScheduleServiceTestSuite) TestBulkCreateAssignments_StrictModeAbortsBatch() {
	employee := suite.createTestEmployee("strict")
	for i := 0; i < 4; i++ {
		task := suite.createTestTask("Task")
		suite.placeTask(employee.ID, task.ID, monday(), models.SlotMorning)
	}

	full := suite.createTestTask("Overflow")
	open := suite.createTestTask("Would fit")
	specs := []CreateAssignmentInput{
		{EmployeeID: employee.ID, TaskID: &open.ID, Date: monday(), Slot: models.SlotAfternoon},
		{EmployeeID: employee.ID, TaskID: &full.ID, Date: monday(), Slot: models.SlotMorning},
	}

	_, err := suite.service.BulkCreateAssignments(specs, BulkCreateOptions{
		ValidateConflicts: true,
	})
	var validationErr *ValidationError
	suite.Require().ErrorAs(err, &validationErr)

	// Nothing was written, not even the valid spec.
	check, err := suite.service.CheckCapacity(employee.ID, monday(), models.SlotAfternoon)
	suite.Require().NoError(err)
	suite.Equal(0, check.CurrentCount)
}

func (suite *ScheduleServiceTestSuite) TestMoveAssignment_AppendsToDestinationOrder() {
	employee := suite.createTestEmployee("mover")

	taskA := suite.createTestTask("Stays")
	suite.placeTask(employee.ID, taskA.ID, monday(), models.SlotAfternoon)

	taskB := suite.createTestTask("Moves")
	moving := suite.placeTask(employee.ID, taskB.ID, monday(), models.SlotMorning)
	suite.Equal(0, moving.SlotOrder)

	moved, err := suite.service.MoveAssignment(moving.ID, employee.ID, monday(), models.SlotAfternoon)
	suite.Require().NoError(err)
	suite.Equal(models.SlotAfternoon, moved.Slot)
	suite.Equal(1, moved.SlotOrder)
}

func (suite *ScheduleServiceTestSuite) TestMoveAssignment_RejectsFullDestination() {
	employee := suite.createTestEmployee("mover")
	for i := 0; i < 4; i++ {
		task := suite.createTestTask("Task")
		suite.placeTask(employee.ID, task.ID, monday(), models.SlotAfternoon)
	}

	task := suite.createTestTask("Blocked")
	moving := suite.placeTask(employee.ID, task.ID, monday(), models.SlotMorning)

	_, err := suite.service.MoveAssignment(moving.ID, employee.ID, monday(), models.SlotAfternoon)
	var validationErr *ValidationError
	suite.Require().ErrorAs(err, &validationErr)
	suite.Contains(validationErr.Reasons, "slot is at capacity")

	// The assignment stayed put.
	reloaded, err := suite.service.GetAssignment(moving.ID)
	suite.Require().NoError(err)
	suite.Equal(models.SlotMorning, reloaded.Slot)
}

func (suite *ScheduleServiceTestSuite) TestMoveAssignment_SameGroupIsNoOp() {
	employee := suite.createTestEmployee("idle")
	task := suite.createTestTask("Idle")
	assignment := suite.placeTask(employee.ID, task.ID, monday(), models.SlotMorning)

	moved, err := suite.service.MoveAssignment(assignment.ID, employee.ID, monday(), models.SlotMorning)
	suite.Require().NoError(err)
	suite.Equal(assignment.SlotOrder, moved.SlotOrder)
}

func (suite *ScheduleServiceTestSuite) TestAvailabilityMatrix() {
	employee := suite.createTestEmployee("matrix")
	for i := 0; i < 4; i++ {
		task := suite.createTestTask("Task")
		suite.placeTask(employee.ID, task.ID, monday(), models.SlotMorning)
	}

	friday := time.Date(2024, 6, 7, 0, 0, 0, 0, time.Local)
	matrix, err := suite.service.AvailabilityMatrix(employee.ID, monday(), friday)
	suite.Require().NoError(err)
	suite.Require().Len(matrix, 5)

	suite.False(matrix["2024-06-03"][models.SlotMorning])
	suite.True(matrix["2024-06-03"][models.SlotAfternoon])
	suite.True(matrix["2024-06-04"][models.SlotMorning])
}

func TestScheduleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ScheduleServiceTestSuite))
}
