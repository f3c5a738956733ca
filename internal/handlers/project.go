package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/craftdesk/team-scheduler-api/internal/database"
	apierrors "github.com/craftdesk/team-scheduler-api/internal/errors"
	"github.com/craftdesk/team-scheduler-api/internal/models"
	"github.com/craftdesk/team-scheduler-api/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProjectHandler handles project, client and task-type catalog endpoints.
type ProjectHandler struct{}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler() *ProjectHandler {
	return &ProjectHandler{}
}

// ListProjects returns projects, filterable by status and client_id.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	query := database.GetDB().Model(&models.Project{}).Preload("Client")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if raw := c.Query("client_id"); raw != "" {
		clientID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid client_id")
			return
		}
		query = query.Where("client_id = ?", clientID)
	}

	var total int64
	query.Count(&total)

	var projects []models.Project
	if err := query.Scopes(database.Paginate(params)).Order("name ASC").Find(&projects).Error; err != nil {
		apierrors.InternalError(c, "Failed to fetch projects")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetProject returns one project with its client and tasks.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	var project models.Project
	if err := database.GetDB().
		Preload("Client").
		Preload("Tasks").
		Preload("Tasks.TaskType").
		First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch project")
		return
	}

	c.JSON(http.StatusOK, project)
}

// CreateProject creates a project.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		ClientID    *uint64 `json:"client_id"`
		StartDate   *string `json:"start_date"`
		EndDate     *string `json:"end_date"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      models.ProjectStatusActive,
		ClientID:    req.ClientID,
	}

	var err error
	if project.StartDate, err = parseOptionalDate(req.StartDate); err != nil {
		apierrors.BadRequest(c, "invalid start_date: "+err.Error())
		return
	}
	if project.EndDate, err = parseOptionalDate(req.EndDate); err != nil {
		apierrors.BadRequest(c, "invalid end_date: "+err.Error())
		return
	}

	if req.ClientID != nil {
		var client models.Client
		if err := database.GetDB().First(&client, *req.ClientID).Error; err != nil {
			apierrors.BadRequest(c, "Client does not exist")
			return
		}
	}

	if err := database.GetDB().Create(&project).Error; err != nil {
		apierrors.InternalError(c, "Failed to create project")
		return
	}

	c.JSON(http.StatusCreated, project)
}

// UpdateProject applies a sparse patch to a project.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	var project models.Project
	if err := database.GetDB().First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch project")
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if v, ok := raw["name"].(string); ok && v != "" {
		project.Name = v
	}
	if v, ok := raw["description"].(string); ok {
		project.Description = v
	}
	if v, ok := raw["status"].(string); ok {
		switch models.ProjectStatus(v) {
		case models.ProjectStatusActive, models.ProjectStatusOnHold, models.ProjectStatusCompleted:
			project.Status = models.ProjectStatus(v)
		default:
			apierrors.BadRequest(c, "Invalid status")
			return
		}
	}

	if err := database.GetDB().Save(&project).Error; err != nil {
		apierrors.InternalError(c, "Failed to update project")
		return
	}

	c.JSON(http.StatusOK, project)
}

// ListClients returns all clients.
func (h *ProjectHandler) ListClients(c *gin.Context) {
	var clients []models.Client
	if err := database.GetDB().Order("name ASC").Find(&clients).Error; err != nil {
		apierrors.InternalError(c, "Failed to fetch clients")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clients": clients,
	})
}

// CreateClient creates a client.
func (h *ProjectHandler) CreateClient(c *gin.Context) {
	type CreateClientRequest struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email"`
	}

	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	client := models.Client{
		Name:  req.Name,
		Email: req.Email,
	}
	if err := database.GetDB().Create(&client).Error; err != nil {
		apierrors.InternalError(c, "Failed to create client")
		return
	}

	c.JSON(http.StatusCreated, client)
}

// ListTaskTypes returns the task type catalog.
func (h *ProjectHandler) ListTaskTypes(c *gin.Context) {
	var taskTypes []models.TaskType
	if err := database.GetDB().Order("name ASC").Find(&taskTypes).Error; err != nil {
		apierrors.InternalError(c, "Failed to fetch task types")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task_types": taskTypes,
	})
}

// CreateTaskType adds a task type to the catalog.
func (h *ProjectHandler) CreateTaskType(c *gin.Context) {
	type CreateTaskTypeRequest struct {
		Name  string `json:"name" binding:"required"`
		Color string `json:"color"`
	}

	var req CreateTaskTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	taskType := models.TaskType{
		Name:  req.Name,
		Color: req.Color,
	}
	if err := database.GetDB().Create(&taskType).Error; err != nil {
		apierrors.InternalError(c, "Failed to create task type")
		return
	}

	c.JSON(http.StatusCreated, taskType)
}

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := parseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
