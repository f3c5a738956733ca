package middleware

import (
	"net/http"
	"strconv"

	"github.com/craftdesk/team-scheduler-api/internal/database"
	"github.com/craftdesk/team-scheduler-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireEmployeeAccess checks if the user may act on the employee named in
// the :id route parameter. Admins pass; otherwise the user must either be the
// employee or lead the employee's team.
func RequireEmployeeAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		employeeIDStr := c.Param("id")
		employeeID, err := strconv.ParseUint(employeeIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid employee ID",
			})
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		var employee models.Employee
		if err := database.GetDB().
			Preload("Team").
			Preload("User").
			First(&employee, employeeID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Employee not found",
			})
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		if user.Role != models.RoleAdmin && employee.UserID != userID {
			leads, err := leadsEmployee(userID, &employee)
			if err != nil || !leads {
				// Return 404 instead of 403 to avoid leaking employee existence
				c.JSON(http.StatusNotFound, gin.H{
					"error": "Employee not found",
				})
				c.Abort()
				return
			}
		}

		c.Set("employee", employee)
		c.Next()
	}
}

func leadsEmployee(userID uint64, employee *models.Employee) (bool, error) {
	if employee.TeamID == nil {
		return false, nil
	}

	var actor models.Employee
	if err := database.GetDB().Where("user_id = ?", userID).First(&actor).Error; err != nil {
		return false, err
	}

	var team models.Team
	if err := database.GetDB().First(&team, *employee.TeamID).Error; err != nil {
		return false, err
	}

	return team.LeadEmployeeID != nil && *team.LeadEmployeeID == actor.ID, nil
}
