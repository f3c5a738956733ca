package repository

import (
	"github.com/craftdesk/team-scheduler-api/internal/models"
	"gorm.io/gorm"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// Create creates a new team
func (r *GormTeamRepository) Create(team *models.Team) error {
	return r.db.Create(team).Error
}

// FindByID finds a team by ID with optional preloading
func (r *GormTeamRepository) FindByID(id uint64, preload ...string) (*models.Team, error) {
	var team models.Team
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&team, id).Error; err != nil {
		return nil, err
	}

	return &team, nil
}

// FindByInviteCode finds a team by invite code
func (r *GormTeamRepository) FindByInviteCode(code string) (*models.Team, error) {
	var team models.Team
	if err := r.db.Where("invite_code = ?", code).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// ListAll lists all teams
func (r *GormTeamRepository) ListAll() ([]models.Team, error) {
	var teams []models.Team
	if err := r.db.Order("name ASC").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// Update updates a team
func (r *GormTeamRepository) Update(team *models.Team) error {
	return r.db.Save(team).Error
}

// Delete soft deletes a team and detaches its members
func (r *GormTeamRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Employee{}).
			Where("team_id = ?", id).
			Update("team_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Team{}, id).Error
	})
}
