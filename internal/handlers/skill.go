package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/craftdesk/team-scheduler-api/internal/database"
	apierrors "github.com/craftdesk/team-scheduler-api/internal/errors"
	"github.com/craftdesk/team-scheduler-api/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SkillHandler handles the skill catalog and employee skill assignments.
type SkillHandler struct{}

// NewSkillHandler creates a new SkillHandler.
func NewSkillHandler() *SkillHandler {
	return &SkillHandler{}
}

// ListSkills returns the skill catalog, filterable by category.
func (h *SkillHandler) ListSkills(c *gin.Context) {
	query := database.GetDB().Order("name ASC")
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var skills []models.Skill
	if err := query.Find(&skills).Error; err != nil {
		apierrors.InternalError(c, "Failed to fetch skills")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"skills": skills,
	})
}

// CreateSkill adds a skill to the catalog. Names are unique.
func (h *SkillHandler) CreateSkill(c *gin.Context) {
	type CreateSkillRequest struct {
		Name     string `json:"name" binding:"required"`
		Category string `json:"category"`
	}

	var req CreateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	skill := models.Skill{
		Name:     req.Name,
		Category: req.Category,
	}
	if err := database.GetDB().Create(&skill).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			apierrors.Conflict(c, "Skill already exists")
			return
		}
		apierrors.InternalError(c, "Failed to create skill")
		return
	}

	c.JSON(http.StatusCreated, skill)
}

// SetEmployeeSkill upserts an employee's proficiency in a skill. The employee
// is resolved by the RequireEmployeeAccess middleware.
func (h *SkillHandler) SetEmployeeSkill(c *gin.Context) {
	employee, ok := employeeFromContext(c)
	if !ok {
		return
	}

	type SetSkillRequest struct {
		SkillID     uint64 `json:"skill_id" binding:"required"`
		Proficiency int    `json:"proficiency" binding:"required,min=1,max=5"`
	}

	var req SetSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var skill models.Skill
	if err := database.GetDB().First(&skill, req.SkillID).Error; err != nil {
		apierrors.NotFound(c, "Skill not found")
		return
	}

	employeeSkill := models.EmployeeSkill{
		EmployeeID:  employee.ID,
		SkillID:     req.SkillID,
		Proficiency: req.Proficiency,
	}
	err := database.GetDB().
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "skill_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"proficiency"}),
		}).
		Create(&employeeSkill).Error
	if err != nil {
		apierrors.InternalError(c, "Failed to set skill")
		return
	}

	employeeSkill.Skill = skill
	c.JSON(http.StatusOK, employeeSkill)
}

// RemoveEmployeeSkill removes a skill from an employee.
func (h *SkillHandler) RemoveEmployeeSkill(c *gin.Context) {
	employee, ok := employeeFromContext(c)
	if !ok {
		return
	}

	skillID, err := strconv.ParseUint(c.Param("skill_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid skill ID")
		return
	}

	result := database.GetDB().
		Where("employee_id = ? AND skill_id = ?", employee.ID, skillID).
		Delete(&models.EmployeeSkill{})
	if result.Error != nil {
		apierrors.InternalError(c, "Failed to remove skill")
		return
	}
	if result.RowsAffected == 0 {
		apierrors.NotFound(c, "Skill not assigned to employee")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Skill removed successfully",
	})
}

func employeeFromContext(c *gin.Context) (models.Employee, bool) {
	value, exists := c.Get("employee")
	if !exists {
		apierrors.InternalError(c, "Employee not loaded")
		return models.Employee{}, false
	}
	employee, ok := value.(models.Employee)
	if !ok {
		apierrors.InternalError(c, "Employee not loaded")
		return models.Employee{}, false
	}
	return employee, true
}
