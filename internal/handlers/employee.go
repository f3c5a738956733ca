package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/craftdesk/team-scheduler-api/internal/dto"
	apierrors "github.com/craftdesk/team-scheduler-api/internal/errors"
	"github.com/craftdesk/team-scheduler-api/internal/services"
	"github.com/craftdesk/team-scheduler-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// EmployeeHandler handles employee management endpoints.
type EmployeeHandler struct {
	employeeService *services.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(employeeService *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{
		employeeService: employeeService,
	}
}

// ListEmployees returns employees, filterable by team_id, unassigned,
// position and search; paginated.
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	pagination := utils.GetPaginationParams(c)

	input := services.ListEmployeesInput{
		Unassigned: c.Query("unassigned") == "true",
		Search:     c.Query("search"),
		SortBy:     c.DefaultQuery("sort_by", "name"),
		Page:       pagination.Page,
		PageSize:   pagination.Limit,
	}

	if raw := c.Query("team_id"); raw != "" {
		teamID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid team_id")
			return
		}
		input.TeamID = &teamID
	}
	if raw := c.Query("position"); raw != "" {
		input.Position = &raw
	}

	employees, total, err := h.employeeService.ListEmployees(input)
	if err != nil {
		apierrors.InternalError(c, "Failed to list employees")
		return
	}

	results := make([]dto.EmployeeDTO, len(employees))
	for i, employee := range employees {
		results[i] = dto.ToEmployeeDTO(employee)
	}

	c.JSON(http.StatusOK, gin.H{
		"employees": results,
		"pagination": utils.PaginationResponse{
			Page:  pagination.Page,
			Limit: pagination.Limit,
			Total: total,
		},
	})
}

// GetEmployee returns one employee with team, user and skills preloaded.
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	employeeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid employee ID")
		return
	}

	employee, err := h.employeeService.GetEmployee(employeeID)
	if err != nil {
		respondEmployeeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDTO(*employee))
}

// UpdateEmployee applies a sparse patch; team_id null detaches the employee
// from their team.
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	employeeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid employee ID")
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateEmployeeInput
	if v, ok := raw["first_name"]; ok {
		if s, okStr := v.(string); okStr {
			input.FirstName = &s
		}
	}
	if v, ok := raw["last_name"]; ok {
		if s, okStr := v.(string); okStr {
			input.LastName = &s
		}
	}
	if v, ok := raw["position"]; ok {
		if s, okStr := v.(string); okStr {
			input.Position = &s
		}
	}
	if v, ok := raw["team_id"]; ok {
		if v == nil {
			input.ClearTeam = true
		} else if f, okNum := v.(float64); okNum {
			teamID := uint64(f)
			input.TeamID = &teamID
		}
	}

	employee, err := h.employeeService.UpdateEmployee(employeeID, input)
	if err != nil {
		respondEmployeeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDTO(*employee))
}

// DeleteEmployee removes an employee record.
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	employeeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid employee ID")
		return
	}

	if err := h.employeeService.DeleteEmployee(employeeID); err != nil {
		respondEmployeeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Employee deleted successfully",
	})
}

func respondEmployeeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmployeeNotFound):
		apierrors.NotFound(c, "Employee not found")
	case errors.Is(err, services.ErrEmployeeNameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTeamNotFound):
		apierrors.BadRequest(c, "Team does not exist")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
