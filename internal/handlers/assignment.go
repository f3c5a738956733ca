package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/craftdesk/team-scheduler-api/internal/dto"
	apierrors "github.com/craftdesk/team-scheduler-api/internal/errors"
	"github.com/craftdesk/team-scheduler-api/internal/models"
	"github.com/craftdesk/team-scheduler-api/internal/services"
	"github.com/gin-gonic/gin"
)

// AssignmentHandler exposes the assignment placement engine over HTTP.
type AssignmentHandler struct {
	scheduleService *services.ScheduleService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(scheduleService *services.ScheduleService) *AssignmentHandler {
	return &AssignmentHandler{
		scheduleService: scheduleService,
	}
}

// assignmentSpec is the wire form of a placement request.
type assignmentSpec struct {
	EmployeeID  uint64   `json:"employee_id" binding:"required"`
	TaskID      *uint64  `json:"task_id"`
	ProjectID   *uint64  `json:"project_id"`
	TaskTypeID  *uint64  `json:"task_type_id"`
	TaskTitle   string   `json:"task_title"`
	Date        string   `json:"date" binding:"required"`
	Slot        string   `json:"slot" binding:"required"`
	Notes       string   `json:"notes"`
	Hours       *float64 `json:"hours"`
	AbsenceType *string  `json:"absence_type"`
}

func (spec assignmentSpec) toInput() (services.CreateAssignmentInput, error) {
	date, err := parseDate(spec.Date)
	if err != nil {
		return services.CreateAssignmentInput{}, err
	}
	slot, ok := parseSlot(spec.Slot)
	if !ok {
		return services.CreateAssignmentInput{}, errors.New("slot must be MORNING or AFTERNOON")
	}

	return services.CreateAssignmentInput{
		EmployeeID:  spec.EmployeeID,
		TaskID:      spec.TaskID,
		ProjectID:   spec.ProjectID,
		TaskTypeID:  spec.TaskTypeID,
		TaskTitle:   spec.TaskTitle,
		Date:        date,
		Slot:        slot,
		Notes:       spec.Notes,
		Hours:       spec.Hours,
		AbsenceType: spec.AbsenceType,
	}, nil
}

// CreateAssignment places a single assignment.
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var spec assignmentSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, err := spec.toInput()
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	assignment, err := h.scheduleService.CreateAssignment(input)
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAssignmentDTO(*assignment))
}

// GetAssignment returns a single active assignment.
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	assignment, err := h.scheduleService.GetAssignment(id)
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentDTO(*assignment))
}

// UpdateAssignment applies a sparse patch to an assignment. Only fields
// present in the body are touched; task-level fields affect every assignment
// sharing the task.
func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	input, err := bindUpdateInput(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	assignment, err := h.scheduleService.UpdateAssignment(id, input)
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentDTO(*assignment))
}

// BulkUpdateAssignments applies the same sparse patch to a list of
// assignments, forking shared tasks to isolate task-level edits.
func (h *AssignmentHandler) BulkUpdateAssignments(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	ids, err := parseIDList(raw["assignment_ids"])
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	input, err := updateInputFromRaw(raw)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	assignments, err := h.scheduleService.BulkUpdateAssignments(ids, input)
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assignments": dto.ToAssignmentDTOs(assignments),
	})
}

// BulkCreateAssignments places a batch of assignments.
func (h *AssignmentHandler) BulkCreateAssignments(c *gin.Context) {
	type BulkCreateRequest struct {
		Assignments       []assignmentSpec `json:"assignments" binding:"required"`
		AllowOverbooking  bool             `json:"allow_overbooking"`
		ValidateConflicts bool             `json:"validate_conflicts"`
	}

	var req BulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	specs := make([]services.CreateAssignmentInput, 0, len(req.Assignments))
	for _, spec := range req.Assignments {
		input, err := spec.toInput()
		if err != nil {
			apierrors.BadRequest(c, err.Error())
			return
		}
		specs = append(specs, input)
	}

	created, err := h.scheduleService.BulkCreateAssignments(specs, services.BulkCreateOptions{
		AllowOverbooking:  req.AllowOverbooking,
		ValidateConflicts: req.ValidateConflicts,
	})
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"assignments": dto.ToAssignmentDTOs(created),
		"created":     len(created),
		"requested":   len(specs),
	})
}

// DeleteAssignment soft-deletes an assignment.
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	deleted, err := h.scheduleService.DeleteAssignment(id)
	if err != nil {
		apierrors.InternalError(c, "Failed to delete assignment")
		return
	}
	if !deleted {
		apierrors.NotFound(c, "Assignment not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Assignment deleted successfully",
	})
}

// MoveAssignment relocates an assignment to another slot, re-validating
// capacity at the destination.
func (h *AssignmentHandler) MoveAssignment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type MoveRequest struct {
		EmployeeID uint64 `json:"employee_id" binding:"required"`
		Date       string `json:"date" binding:"required"`
		Slot       string `json:"slot" binding:"required"`
	}

	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	slot, okSlot := parseSlot(req.Slot)
	if !okSlot {
		apierrors.BadRequest(c, "slot must be MORNING or AFTERNOON")
		return
	}

	assignment, err := h.scheduleService.MoveAssignment(id, req.EmployeeID, date, slot)
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentDTO(*assignment))
}

// bindUpdateInput parses the raw JSON body so absent fields stay untouched.
func bindUpdateInput(c *gin.Context) (services.UpdateAssignmentInput, error) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		return services.UpdateAssignmentInput{}, errors.New("invalid request body")
	}
	return updateInputFromRaw(raw)
}

func updateInputFromRaw(raw map[string]any) (services.UpdateAssignmentInput, error) {
	var input services.UpdateAssignmentInput

	if v, ok := raw["task_id"]; ok {
		id, err := asUint64(v)
		if err != nil {
			return input, errors.New("invalid task_id")
		}
		input.TaskID = &id
	}
	if v, ok := raw["employee_id"]; ok {
		id, err := asUint64(v)
		if err != nil {
			return input, errors.New("invalid employee_id")
		}
		input.EmployeeID = &id
	}
	if v, ok := raw["assigned_date"]; ok {
		s, _ := v.(string)
		date, err := parseDate(s)
		if err != nil {
			return input, err
		}
		input.AssignedDate = &date
	}
	if v, ok := raw["slot"]; ok {
		s, _ := v.(string)
		slot, okSlot := parseSlot(s)
		if !okSlot {
			return input, errors.New("slot must be MORNING or AFTERNOON")
		}
		input.Slot = &slot
	}
	if v, ok := raw["notes"]; ok {
		if s, okStr := v.(string); okStr {
			input.Notes = &s
		}
	}
	if v, ok := raw["hours"]; ok {
		if v == nil {
			input.ClearHours = true
		} else if f, okNum := v.(float64); okNum {
			input.Hours = &f
		}
	}
	if v, ok := raw["column_start"]; ok {
		if f, okNum := v.(float64); okNum {
			col := int(f)
			input.ColumnStart = &col
		}
	}
	if v, ok := raw["priority"]; ok {
		if s, okStr := v.(string); okStr {
			priority := models.TaskPriority(s)
			input.Priority = &priority
		}
	}
	if v, ok := raw["due_date"]; ok {
		if s, okStr := v.(string); okStr {
			date, err := parseDate(s)
			if err != nil {
				return input, err
			}
			input.DueDate = &date
		}
	}
	if v, ok := raw["status"]; ok {
		if s, okStr := v.(string); okStr {
			status := models.TaskStatus(s)
			input.Status = &status
		}
	}
	if v, ok := raw["task_type_id"]; ok {
		id, err := asUint64(v)
		if err != nil {
			return input, errors.New("invalid task_type_id")
		}
		input.TaskTypeID = &id
	}

	return input, nil
}

func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid assignment ID")
		return 0, false
	}
	return id, true
}

func parseIDList(v any) ([]uint64, error) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, errors.New("assignment_ids is required")
	}

	ids := make([]uint64, 0, len(list))
	for _, item := range list {
		id, err := asUint64(item)
		if err != nil {
			return nil, errors.New("assignment_ids must contain numeric IDs")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func asUint64(v any) (uint64, error) {
	f, ok := v.(float64)
	if !ok || f < 0 {
		return 0, errors.New("not a numeric ID")
	}
	return uint64(f), nil
}

// parseDate accepts either a plain calendar date or an RFC3339 timestamp,
// truncating to midnight either way.
func parseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), nil
	}
	return time.Time{}, errors.New("date must be YYYY-MM-DD or RFC3339")
}

func parseSlot(s string) (models.Slot, bool) {
	switch models.Slot(s) {
	case models.SlotMorning, models.SlotAfternoon:
		return models.Slot(s), true
	default:
		return "", false
	}
}

func respondScheduleError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		apierrors.ValidationFailed(c, validationErr.Error(), validationErr.Reasons)
	case errors.Is(err, services.ErrAssignmentNotFound),
		errors.Is(err, services.ErrEmployeeNotFound),
		errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTaskReferenceRequired),
		errors.Is(err, services.ErrNoAssignmentIDs):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
