package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/craftdesk/team-scheduler-api/internal/models"
	"github.com/craftdesk/team-scheduler-api/internal/repository"
	"github.com/craftdesk/team-scheduler-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTeamNotFound               = errors.New("team not found")
	ErrInvalidTeamName            = errors.New("team name cannot be empty")
	ErrInviteCodeGenerationFailed = errors.New("failed to generate invite code")
	ErrInvalidInviteCode          = errors.New("invalid invite code")
	ErrAlreadyTeamMember          = errors.New("employee is already a member of this team")
	ErrLeadNotTeamMember          = errors.New("team lead must be a member of the team")
)

// TeamService provides business logic for team management. It also implements
// the Authorizer collaborator: admins manage everyone, and a team lead manages
// the members of the teams they lead.
type TeamService struct {
	teamRepo     repository.TeamRepository
	employeeRepo repository.EmployeeRepository
	userRepo     repository.UserRepository
}

// NewTeamService creates a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository, employeeRepo repository.EmployeeRepository, userRepo repository.UserRepository) *TeamService {
	return &TeamService{
		teamRepo:     teamRepo,
		employeeRepo: employeeRepo,
		userRepo:     userRepo,
	}
}

// CreateTeamInput represents parameters to create a new team.
type CreateTeamInput struct {
	Name        string
	Description string
}

// CreateTeam creates a new team with a fresh invite code.
func (s *TeamService) CreateTeam(input CreateTeamInput) (*models.Team, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidTeamName
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	team := &models.Team{
		Name:        input.Name,
		Description: input.Description,
		InviteCode:  inviteCode,
	}

	if err := s.teamRepo.Create(team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return team, nil
}

// GetTeam returns a team with its members.
func (s *TeamService) GetTeam(teamID uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(teamID, "Members", "LeadEmployee")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return team, nil
}

// ListTeams returns all teams.
func (s *TeamService) ListTeams() ([]models.Team, error) {
	return s.teamRepo.ListAll()
}

// UpdateTeamInput represents a sparse team update.
type UpdateTeamInput struct {
	Name           *string
	Description    *string
	LeadEmployeeID *uint64
}

// UpdateTeam updates a team. Setting a lead requires the lead to belong to
// the team.
func (s *TeamService) UpdateTeam(teamID uint64, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidTeamName
		}
		team.Name = *input.Name
	}
	if input.Description != nil {
		team.Description = *input.Description
	}
	if input.LeadEmployeeID != nil {
		lead, err := s.employeeRepo.FindByID(*input.LeadEmployeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrEmployeeNotFound
			}
			return nil, fmt.Errorf("failed to find employee: %w", err)
		}
		if lead.TeamID == nil || *lead.TeamID != teamID {
			return nil, ErrLeadNotTeamMember
		}
		team.LeadEmployeeID = input.LeadEmployeeID
	}

	if err := s.teamRepo.Update(team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	return team, nil
}

// DeleteTeam deletes a team and detaches its members.
func (s *TeamService) DeleteTeam(teamID uint64) error {
	if _, err := s.teamRepo.FindByID(teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to find team: %w", err)
	}

	if err := s.teamRepo.Delete(teamID); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	return nil
}

// JoinTeam adds an employee to the team matching the invite code.
func (s *TeamService) JoinTeam(employeeID uint64, inviteCode string) (*models.Team, error) {
	team, err := s.teamRepo.FindByInviteCode(inviteCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	employee, err := s.employeeRepo.FindByID(employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}

	if employee.TeamID != nil && *employee.TeamID == team.ID {
		return nil, ErrAlreadyTeamMember
	}

	employee.TeamID = &team.ID
	if err := s.employeeRepo.Update(employee); err != nil {
		return nil, fmt.Errorf("failed to join team: %w", err)
	}

	return team, nil
}

// CanManageEmployee implements Authorizer. Admin users manage every employee;
// a team lead manages members of the teams they lead; everyone manages
// themselves.
func (s *TeamService) CanManageEmployee(userID, employeeID uint64) (bool, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find user: %w", err)
	}
	if user.Role == models.RoleAdmin {
		return true, nil
	}

	actor, err := s.employeeRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find employee: %w", err)
	}
	if actor.ID == employeeID {
		return true, nil
	}

	target, err := s.employeeRepo.FindByID(employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find employee: %w", err)
	}
	if target.TeamID == nil {
		return false, nil
	}

	team, err := s.teamRepo.FindByID(*target.TeamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find team: %w", err)
	}

	return team.LeadEmployeeID != nil && *team.LeadEmployeeID == actor.ID, nil
}

// ManagedEmployees implements Authorizer. For an admin this is every
// employee; for a team lead the members of their teams plus themselves; for
// anyone else just themselves.
func (s *TeamService) ManagedEmployees(userID uint64) ([]models.Employee, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user.Role == models.RoleAdmin {
		employees, _, err := s.employeeRepo.List(repository.EmployeeFilter{SortBy: "name"})
		return employees, err
	}

	actor, err := s.employeeRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}

	managed := []models.Employee{*actor}
	seen := map[uint64]struct{}{actor.ID: {}}

	teams, err := s.teamRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	for _, team := range teams {
		if team.LeadEmployeeID == nil || *team.LeadEmployeeID != actor.ID {
			continue
		}
		members, err := s.employeeRepo.ListByTeam(team.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list team members: %w", err)
		}
		for _, member := range members {
			if _, ok := seen[member.ID]; ok {
				continue
			}
			seen[member.ID] = struct{}{}
			managed = append(managed, member)
		}
	}

	return managed, nil
}
