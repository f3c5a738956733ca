package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftdesk/team-scheduler-api/internal/calendar"
	"github.com/craftdesk/team-scheduler-api/internal/models"
)

func viewDay(t time.Time) calendar.Day {
	return calendar.Day{Date: t, DayName: t.Weekday().String()}
}

func viewAssignment(id, employeeID uint64, date time.Time, slot models.Slot, order int, title string) models.Assignment {
	return models.Assignment{
		ID:           id,
		TaskID:       id,
		EmployeeID:   employeeID,
		AssignedDate: date,
		Slot:         slot,
		SlotOrder:    order,
		IsActive:     true,
		Task:         models.Task{ID: id, Title: title, Priority: models.TaskPriorityMedium},
	}
}

func TestBuildScheduleView_GroupsBySlotAndPreservesOrder(t *testing.T) {
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.Local)
	employees := []models.Employee{
		{ID: 1, FirstName: "Ada", LastName: "Lovelace"},
	}
	// Input order mirrors the repository ordering: slot order ascending.
	assignments := []models.Assignment{
		viewAssignment(10, 1, day, models.SlotMorning, 0, "first"),
		viewAssignment(11, 1, day, models.SlotMorning, 1, "second"),
		viewAssignment(12, 1, day, models.SlotAfternoon, 0, "pm"),
	}

	view := BuildScheduleView(employees, assignments, []calendar.Day{viewDay(day)})
	require.Len(t, view, 1)
	require.Len(t, view[0].Days, 1)

	morning := view[0].Days[0].Morning
	require.Len(t, morning.Tasks, 2)
	assert.Equal(t, "first", morning.Tasks[0].Title)
	assert.Equal(t, "second", morning.Tasks[1].Title)
	assert.Equal(t, 2, morning.AvailableCapacity)
	assert.False(t, morning.IsOverbooked)

	afternoon := view[0].Days[0].Afternoon
	require.Len(t, afternoon.Tasks, 1)
	assert.Equal(t, 3, afternoon.AvailableCapacity)

	assert.Equal(t, "Ada Lovelace", view[0].EmployeeName)
	assert.False(t, view[0].Days[0].HasConflicts)
}

func TestBuildScheduleView_SplitsHoursEvenly(t *testing.T) {
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.Local)
	employees := []models.Employee{{ID: 1, FirstName: "Ada", LastName: "Lovelace"}}

	override := 3.0
	a := viewAssignment(10, 1, day, models.SlotMorning, 0, "auto")
	b := viewAssignment(11, 1, day, models.SlotMorning, 1, "manual")
	b.Hours = &override

	view := BuildScheduleView(employees, []models.Assignment{a, b}, []calendar.Day{viewDay(day)})
	tasks := view[0].Days[0].Morning.Tasks
	require.Len(t, tasks, 2)

	// Two tasks in the slot: the automatic share is 4.0 / 2.
	assert.Equal(t, 2.0, tasks[0].Hours)
	assert.False(t, tasks[0].HoursManual)
	// The override wins and does not change the sibling's share.
	assert.Equal(t, 3.0, tasks[1].Hours)
	assert.True(t, tasks[1].HoursManual)
}

func TestBuildScheduleView_FlagsOverbookedSlots(t *testing.T) {
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.Local)
	employees := []models.Employee{{ID: 1, FirstName: "Ada", LastName: "Lovelace"}}

	assignments := make([]models.Assignment, 0, 5)
	for i := 0; i < 5; i++ {
		assignments = append(assignments, viewAssignment(uint64(10+i), 1, day, models.SlotMorning, i, "crowded"))
	}

	view := BuildScheduleView(employees, assignments, []calendar.Day{viewDay(day)})
	morning := view[0].Days[0].Morning
	assert.True(t, morning.IsOverbooked)
	assert.Equal(t, 0, morning.AvailableCapacity)
	assert.True(t, view[0].Days[0].HasConflicts)
	assert.Equal(t, 0.8, morning.Tasks[0].Hours)
}

func TestBuildScheduleView_EmployeesWithoutAssignmentsGetEmptyDays(t *testing.T) {
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.Local)
	employees := []models.Employee{
		{ID: 1, FirstName: "Ada", LastName: "Lovelace"},
		{ID: 2, FirstName: "Grace", LastName: "Hopper"},
	}
	assignments := []models.Assignment{
		viewAssignment(10, 1, day, models.SlotMorning, 0, "busy"),
	}

	view := BuildScheduleView(employees, assignments, []calendar.Day{viewDay(day)})
	require.Len(t, view, 2)
	assert.Empty(t, view[1].Days[0].Morning.Tasks)
	assert.Equal(t, 4, view[1].Days[0].Morning.AvailableCapacity)
}
