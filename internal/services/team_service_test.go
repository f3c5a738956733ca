package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/craftdesk/team-scheduler-api/internal/database"
	"github.com/craftdesk/team-scheduler-api/internal/models"
	"github.com/craftdesk/team-scheduler-api/internal/repository"
)

type TeamServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *TeamService
}

func (suite *TeamServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Employee{},
		&models.Team{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	suite.service = NewTeamService(
		repository.NewTeamRepository(suite.db),
		repository.NewEmployeeRepository(suite.db),
		repository.NewUserRepository(suite.db),
	)
}

func (suite *TeamServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TeamServiceTestSuite) createTestEmployee(username string, role models.UserRole) *models.Employee {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	suite.Require().NoError(suite.db.Create(user).Error)

	employee := &models.Employee{
		UserID:    user.ID,
		FirstName: username,
		LastName:  "Tester",
	}
	suite.Require().NoError(suite.db.Create(employee).Error)
	return employee
}

func (suite *TeamServiceTestSuite) TestCreateTeam_GeneratesInviteCode() {
	team, err := suite.service.CreateTeam(CreateTeamInput{Name: "Platform"})
	suite.Require().NoError(err)
	suite.NotEmpty(team.InviteCode)

	other, err := suite.service.CreateTeam(CreateTeamInput{Name: "Design"})
	suite.Require().NoError(err)
	suite.NotEqual(team.InviteCode, other.InviteCode)
}

func (suite *TeamServiceTestSuite) TestCreateTeam_RejectsBlankName() {
	_, err := suite.service.CreateTeam(CreateTeamInput{Name: "   "})
	suite.Require().ErrorIs(err, ErrInvalidTeamName)
}

func (suite *TeamServiceTestSuite) TestJoinTeam() {
	team, err := suite.service.CreateTeam(CreateTeamInput{Name: "Platform"})
	suite.Require().NoError(err)
	employee := suite.createTestEmployee("joiner", models.RoleEmployee)

	joined, err := suite.service.JoinTeam(employee.ID, team.InviteCode)
	suite.Require().NoError(err)
	suite.Equal(team.ID, joined.ID)

	// Joining twice is rejected.
	_, err = suite.service.JoinTeam(employee.ID, team.InviteCode)
	suite.Require().ErrorIs(err, ErrAlreadyTeamMember)

	// Bad code is rejected.
	_, err = suite.service.JoinTeam(employee.ID, "XXXX-XXXX-XXXX")
	suite.Require().ErrorIs(err, ErrInvalidInviteCode)
}

func (suite *TeamServiceTestSuite) TestUpdateTeam_LeadMustBeMember() {
	team, err := suite.service.CreateTeam(CreateTeamInput{Name: "Platform"})
	suite.Require().NoError(err)
	outsider := suite.createTestEmployee("outsider", models.RoleEmployee)

	_, err = suite.service.UpdateTeam(team.ID, UpdateTeamInput{
		LeadEmployeeID: &outsider.ID,
	})
	suite.Require().ErrorIs(err, ErrLeadNotTeamMember)

	_, err = suite.service.JoinTeam(outsider.ID, team.InviteCode)
	suite.Require().NoError(err)

	updated, err := suite.service.UpdateTeam(team.ID, UpdateTeamInput{
		LeadEmployeeID: &outsider.ID,
	})
	suite.Require().NoError(err)
	suite.Require().NotNil(updated.LeadEmployeeID)
	suite.Equal(outsider.ID, *updated.LeadEmployeeID)
}

func (suite *TeamServiceTestSuite) TestCanManageEmployee() {
	team, err := suite.service.CreateTeam(CreateTeamInput{Name: "Platform"})
	suite.Require().NoError(err)

	admin := suite.createTestEmployee("admin", models.RoleAdmin)
	lead := suite.createTestEmployee("lead", models.RoleEmployee)
	member := suite.createTestEmployee("member", models.RoleEmployee)
	stranger := suite.createTestEmployee("stranger", models.RoleEmployee)

	_, err = suite.service.JoinTeam(lead.ID, team.InviteCode)
	suite.Require().NoError(err)
	_, err = suite.service.JoinTeam(member.ID, team.InviteCode)
	suite.Require().NoError(err)
	_, err = suite.service.UpdateTeam(team.ID, UpdateTeamInput{LeadEmployeeID: &lead.ID})
	suite.Require().NoError(err)

	cases := []struct {
		name       string
		userID     uint64
		employeeID uint64
		want       bool
	}{
		{"admin manages anyone", admin.UserID, stranger.ID, true},
		{"lead manages team member", lead.UserID, member.ID, true},
		{"lead does not manage outsiders", lead.UserID, stranger.ID, false},
		{"everyone manages themselves", stranger.UserID, stranger.ID, true},
		{"member does not manage the lead", member.UserID, lead.ID, false},
	}
	for _, tc := range cases {
		got, err := suite.service.CanManageEmployee(tc.userID, tc.employeeID)
		suite.Require().NoError(err)
		suite.Equal(tc.want, got, tc.name)
	}
}

func (suite *TeamServiceTestSuite) TestManagedEmployees() {
	team, err := suite.service.CreateTeam(CreateTeamInput{Name: "Platform"})
	suite.Require().NoError(err)

	lead := suite.createTestEmployee("lead", models.RoleEmployee)
	member := suite.createTestEmployee("member", models.RoleEmployee)
	suite.createTestEmployee("stranger", models.RoleEmployee)

	_, err = suite.service.JoinTeam(lead.ID, team.InviteCode)
	suite.Require().NoError(err)
	_, err = suite.service.JoinTeam(member.ID, team.InviteCode)
	suite.Require().NoError(err)
	_, err = suite.service.UpdateTeam(team.ID, UpdateTeamInput{LeadEmployeeID: &lead.ID})
	suite.Require().NoError(err)

	managed, err := suite.service.ManagedEmployees(lead.UserID)
	suite.Require().NoError(err)

	ids := make([]uint64, 0, len(managed))
	for _, e := range managed {
		ids = append(ids, e.ID)
	}
	suite.ElementsMatch([]uint64{lead.ID, member.ID}, ids)
}

func (suite *TeamServiceTestSuite) TestDeleteTeam_DetachesMembers() {
	team, err := suite.service.CreateTeam(CreateTeamInput{Name: "Doomed"})
	suite.Require().NoError(err)
	member := suite.createTestEmployee("member", models.RoleEmployee)
	_, err = suite.service.JoinTeam(member.ID, team.InviteCode)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.DeleteTeam(team.ID))

	var reloaded models.Employee
	suite.Require().NoError(suite.db.First(&reloaded, member.ID).Error)
	suite.Nil(reloaded.TeamID)

	suite.Require().ErrorIs(suite.service.DeleteTeam(team.ID), ErrTeamNotFound)
}

func TestTeamServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TeamServiceTestSuite))
}
