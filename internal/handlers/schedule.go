package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/craftdesk/team-scheduler-api/internal/calendar"
	apierrors "github.com/craftdesk/team-scheduler-api/internal/errors"
	"github.com/craftdesk/team-scheduler-api/internal/middleware"
	"github.com/craftdesk/team-scheduler-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ScheduleHandler serves calendar views and capacity queries.
type ScheduleHandler struct {
	scheduleService *services.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
	}
}

// GetCalendarView returns the schedule for the window containing the anchor
// date. Query params: view (day|week|biweek|month, default week), date
// (YYYY-MM-DD, default today), and at most one scope selector: team_id,
// employee_ids (comma-separated), or mine=true for the caller's managed
// employees. group_by_team=true adds a per-team grouping.
func (h *ScheduleHandler) GetCalendarView(c *gin.Context) {
	viewType := calendar.ParseViewType(c.DefaultQuery("view", "week"))

	anchor := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			apierrors.BadRequest(c, err.Error())
			return
		}
		anchor = parsed
	}

	scope, ok := h.parseViewScope(c)
	if !ok {
		return
	}

	view, err := h.scheduleService.GetCalendarView(anchor, viewType, scope)
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// CheckCapacity reports occupancy of one (employee, date, slot) group.
func (h *ScheduleHandler) CheckCapacity(c *gin.Context) {
	employeeID, err := strconv.ParseUint(c.Query("employee_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "employee_id is required")
		return
	}

	date, err := parseDate(c.Query("date"))
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	slot, ok := parseSlot(c.Query("slot"))
	if !ok {
		apierrors.BadRequest(c, "slot must be MORNING or AFTERNOON")
		return
	}

	check, err := h.scheduleService.CheckCapacity(employeeID, date, slot)
	if err != nil {
		apierrors.InternalError(c, "Failed to check capacity")
		return
	}

	c.JSON(http.StatusOK, check)
}

// GetAvailability returns, per business day and slot in [start_date, end_date],
// whether the employee still has capacity.
func (h *ScheduleHandler) GetAvailability(c *gin.Context) {
	employeeID, err := strconv.ParseUint(c.Query("employee_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "employee_id is required")
		return
	}

	start, err := parseDate(c.Query("start_date"))
	if err != nil {
		apierrors.BadRequest(c, "invalid start_date: "+err.Error())
		return
	}
	end, err := parseDate(c.Query("end_date"))
	if err != nil {
		apierrors.BadRequest(c, "invalid end_date: "+err.Error())
		return
	}
	if end.Before(start) {
		apierrors.BadRequest(c, "end_date must not precede start_date")
		return
	}

	matrix, err := h.scheduleService.AvailabilityMatrix(employeeID, start, end)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute availability")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"employee_id":  employeeID,
		"availability": matrix,
	})
}

func (h *ScheduleHandler) parseViewScope(c *gin.Context) (services.ViewScope, bool) {
	scope := services.ViewScope{
		GroupByTeam: c.Query("group_by_team") == "true",
	}

	if raw := c.Query("team_id"); raw != "" {
		teamID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid team_id")
			return services.ViewScope{}, false
		}
		scope.TeamID = &teamID
	}

	if raw := c.Query("employee_ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
			if err != nil {
				apierrors.BadRequest(c, "Invalid employee_ids")
				return services.ViewScope{}, false
			}
			scope.EmployeeIDs = append(scope.EmployeeIDs, id)
		}
	}

	if c.Query("mine") == "true" {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			apierrors.Unauthorized(c, "Not authenticated")
			return services.ViewScope{}, false
		}
		scope.ManagerUserID = &userID
	}

	return scope, true
}
