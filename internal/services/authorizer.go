package services

import (
	"github.com/craftdesk/team-scheduler-api/internal/models"
)

// Authorizer scopes which employees a user may schedule. The scheduling
// engine consumes it as a collaborator; TeamService provides the default
// team-lead based implementation.
type Authorizer interface {
	// CanManageEmployee reports whether the user may schedule the employee.
	CanManageEmployee(userID, employeeID uint64) (bool, error)

	// ManagedEmployees lists the employees the user may schedule.
	ManagedEmployees(userID uint64) ([]models.Employee, error)
}
