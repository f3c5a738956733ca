package dto

import (
	"github.com/craftdesk/team-scheduler-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64          `json:"id"`
	Username string          `json:"username"`
	Role     models.UserRole `json:"role"`
}

// EmployeeDTO represents an employee in API responses
type EmployeeDTO struct {
	ID        uint64   `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Position  string   `json:"position,omitempty"`
	TeamID    *uint64  `json:"team_id,omitempty"`
	TeamName  string   `json:"team_name,omitempty"`
	User      *UserDTO `json:"user,omitempty"`
}

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID             uint64        `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	LeadEmployeeID *uint64       `json:"lead_employee_id,omitempty"`
	InviteCode     string        `json:"invite_code,omitempty"`
	Members        []EmployeeDTO `json:"members,omitempty"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
}

// ToEmployeeDTO converts an Employee model to EmployeeDTO
func ToEmployeeDTO(employee models.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:        employee.ID,
		FirstName: employee.FirstName,
		LastName:  employee.LastName,
		Position:  employee.Position,
		TeamID:    employee.TeamID,
	}

	// Include team name if preloaded
	if employee.Team != nil && employee.Team.ID != 0 {
		dto.TeamName = employee.Team.Name
	}

	// Include user if preloaded
	if employee.User.ID != 0 {
		user := ToUserDTO(employee.User)
		dto.User = &user
	}

	return dto
}

// ToTeamDTO converts a Team model to TeamDTO
func ToTeamDTO(team models.Team, includeInviteCode bool) TeamDTO {
	dto := TeamDTO{
		ID:             team.ID,
		Name:           team.Name,
		Description:    team.Description,
		LeadEmployeeID: team.LeadEmployeeID,
	}
	if includeInviteCode {
		dto.InviteCode = team.InviteCode
	}

	if len(team.Members) > 0 {
		dto.Members = make([]EmployeeDTO, len(team.Members))
		for i, member := range team.Members {
			dto.Members[i] = ToEmployeeDTO(member)
		}
	}

	return dto
}
