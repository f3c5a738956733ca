package handlers

import (
	"errors"
	"net/http"
	"strconv"

	apierrors "github.com/craftdesk/team-scheduler-api/internal/errors"
	"github.com/craftdesk/team-scheduler-api/internal/models"
	"github.com/craftdesk/team-scheduler-api/internal/services"
	"github.com/gin-gonic/gin"
)

// AbsenceHandler handles absence requests and their approval flow.
type AbsenceHandler struct {
	absenceService *services.AbsenceService
}

// NewAbsenceHandler creates a new AbsenceHandler.
func NewAbsenceHandler(absenceService *services.AbsenceService) *AbsenceHandler {
	return &AbsenceHandler{
		absenceService: absenceService,
	}
}

// CreateAbsence records a pending absence request.
func (h *AbsenceHandler) CreateAbsence(c *gin.Context) {
	type CreateAbsenceRequest struct {
		EmployeeID uint64 `json:"employee_id" binding:"required"`
		Type       string `json:"type" binding:"required"`
		StartDate  string `json:"start_date" binding:"required"`
		EndDate    string `json:"end_date" binding:"required"`
		Reason     string `json:"reason"`
	}

	var req CreateAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		apierrors.BadRequest(c, "invalid start_date: "+err.Error())
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		apierrors.BadRequest(c, "invalid end_date: "+err.Error())
		return
	}

	absence, err := h.absenceService.CreateAbsence(services.CreateAbsenceInput{
		EmployeeID: req.EmployeeID,
		Type:       req.Type,
		StartDate:  start,
		EndDate:    end,
		Reason:     req.Reason,
	})
	if err != nil {
		respondAbsenceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, absence)
}

// ListAbsences returns absences, filterable by employee_id and status.
func (h *AbsenceHandler) ListAbsences(c *gin.Context) {
	var employeeID *uint64
	if raw := c.Query("employee_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid employee_id")
			return
		}
		employeeID = &id
	}

	var status *models.AbsenceStatus
	if raw := c.Query("status"); raw != "" {
		s := models.AbsenceStatus(raw)
		switch s {
		case models.AbsenceStatusPending, models.AbsenceStatusApproved, models.AbsenceStatusRejected:
			status = &s
		default:
			apierrors.BadRequest(c, "Invalid status")
			return
		}
	}

	absences, err := h.absenceService.ListAbsences(employeeID, status)
	if err != nil {
		apierrors.InternalError(c, "Failed to list absences")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"absences": absences,
	})
}

// GetAbsence returns one absence request.
func (h *AbsenceHandler) GetAbsence(c *gin.Context) {
	absenceID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid absence ID")
		return
	}

	absence, err := h.absenceService.GetAbsence(absenceID)
	if err != nil {
		respondAbsenceError(c, err)
		return
	}

	c.JSON(http.StatusOK, absence)
}

// ApproveAbsence approves a pending absence and books absence assignments
// into both slots of every business day in its range. The body names the
// bookkeeping project and task type those assignments are filed under.
func (h *AbsenceHandler) ApproveAbsence(c *gin.Context) {
	absenceID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid absence ID")
		return
	}

	type ApproveRequest struct {
		ProjectID  uint64 `json:"project_id" binding:"required"`
		TaskTypeID uint64 `json:"task_type_id" binding:"required"`
	}

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	absence, err := h.absenceService.ApproveAbsence(absenceID, req.ProjectID, req.TaskTypeID)
	if err != nil {
		respondAbsenceError(c, err)
		return
	}

	c.JSON(http.StatusOK, absence)
}

// RejectAbsence rejects a pending absence.
func (h *AbsenceHandler) RejectAbsence(c *gin.Context) {
	absenceID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid absence ID")
		return
	}

	absence, err := h.absenceService.RejectAbsence(absenceID)
	if err != nil {
		respondAbsenceError(c, err)
		return
	}

	c.JSON(http.StatusOK, absence)
}

// DeleteAbsence removes an absence request, deactivating any assignments it
// booked.
func (h *AbsenceHandler) DeleteAbsence(c *gin.Context) {
	absenceID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid absence ID")
		return
	}

	if err := h.absenceService.DeleteAbsence(absenceID); err != nil {
		respondAbsenceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Absence deleted successfully",
	})
}

func respondAbsenceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAbsenceNotFound):
		apierrors.NotFound(c, "Absence not found")
	case errors.Is(err, services.ErrEmployeeNotFound):
		apierrors.NotFound(c, "Employee not found")
	case errors.Is(err, services.ErrAbsenceInvalidRange):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAbsenceNotPending):
		apierrors.Conflict(c, err.Error())
	default:
		respondScheduleError(c, err)
	}
}
