package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/craftdesk/team-scheduler-api/internal/dto"
	apierrors "github.com/craftdesk/team-scheduler-api/internal/errors"
	"github.com/craftdesk/team-scheduler-api/internal/services"
	"github.com/gin-gonic/gin"
)

// TeamHandler handles team management endpoints.
type TeamHandler struct {
	teamService *services.TeamService
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// CreateTeam creates a team and returns it with its invite code.
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	type CreateTeamRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.CreateTeam(services.CreateTeamInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamDTO(*team, true))
}

// ListTeams returns all teams without invite codes.
func (h *TeamHandler) ListTeams(c *gin.Context) {
	teams, err := h.teamService.ListTeams()
	if err != nil {
		apierrors.InternalError(c, "Failed to list teams")
		return
	}

	results := make([]dto.TeamDTO, len(teams))
	for i, team := range teams {
		results[i] = dto.ToTeamDTO(team, false)
	}

	c.JSON(http.StatusOK, gin.H{
		"teams": results,
	})
}

// GetTeam returns one team with its members.
func (h *TeamHandler) GetTeam(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	team, err := h.teamService.GetTeam(teamID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team, false))
}

// UpdateTeam applies a sparse patch to a team.
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	type UpdateTeamRequest struct {
		Name           *string `json:"name"`
		Description    *string `json:"description"`
		LeadEmployeeID *uint64 `json:"lead_employee_id"`
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.UpdateTeam(teamID, services.UpdateTeamInput{
		Name:           req.Name,
		Description:    req.Description,
		LeadEmployeeID: req.LeadEmployeeID,
	})
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team, true))
}

// DeleteTeam removes a team, detaching its members.
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	if err := h.teamService.DeleteTeam(teamID); err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Team deleted successfully",
	})
}

// JoinTeam attaches an employee to the team matching the invite code.
func (h *TeamHandler) JoinTeam(c *gin.Context) {
	type JoinTeamRequest struct {
		EmployeeID uint64 `json:"employee_id" binding:"required"`
		InviteCode string `json:"invite_code" binding:"required"`
	}

	var req JoinTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.JoinTeam(req.EmployeeID, req.InviteCode)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team, false))
}

func respondTeamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTeamNotFound):
		apierrors.NotFound(c, "Team not found")
	case errors.Is(err, services.ErrEmployeeNotFound):
		apierrors.NotFound(c, "Employee not found")
	case errors.Is(err, services.ErrInvalidInviteCode):
		apierrors.NotFound(c, "Invalid invite code")
	case errors.Is(err, services.ErrInvalidTeamName):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrLeadNotTeamMember):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAlreadyTeamMember):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
