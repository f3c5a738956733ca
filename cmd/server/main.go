package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"github.com/craftdesk/team-scheduler-api/internal/config"
	"github.com/craftdesk/team-scheduler-api/internal/constants"
	"github.com/craftdesk/team-scheduler-api/internal/database"
	"github.com/craftdesk/team-scheduler-api/internal/handlers"
	"github.com/craftdesk/team-scheduler-api/internal/middleware"
	"github.com/craftdesk/team-scheduler-api/internal/repository"
	"github.com/craftdesk/team-scheduler-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()
	if err := database.AddIndexes(db); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	teamRepo := repository.NewTeamRepository(db)

	// Services. TeamService doubles as the authorizer for schedule views.
	teamService := services.NewTeamService(teamRepo, employeeRepo, userRepo)
	scheduleService := services.NewScheduleService(db, teamService, services.SchedulePolicy{
		AllowWeekendAssignments: cfg.AllowWeekendAssignments,
		SkipWeekendWindowStart:  cfg.SkipWeekendWindowStart,
	})
	employeeService := services.NewEmployeeService(employeeRepo, teamRepo)
	absenceService := services.NewAbsenceService(db, scheduleService)
	authService := services.NewAuthService(userRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	assignmentHandler := handlers.NewAssignmentHandler(scheduleService)
	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	teamHandler := handlers.NewTeamHandler(teamService)
	projectHandler := handlers.NewProjectHandler()
	skillHandler := handlers.NewSkillHandler()
	absenceHandler := handlers.NewAbsenceHandler(absenceService)

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Team Scheduler API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Calendar and capacity routes (protected)
		schedule := api.Group("/schedule")
		schedule.Use(middleware.RequireAuth())
		{
			schedule.GET("", scheduleHandler.GetCalendarView)
			schedule.GET("/capacity", scheduleHandler.CheckCapacity)
			schedule.GET("/availability", scheduleHandler.GetAvailability)
		}

		// Assignment routes (protected)
		assignments := api.Group("/assignments")
		assignments.Use(middleware.RequireAuth())
		{
			assignments.POST("", assignmentHandler.CreateAssignment)
			assignments.POST("/bulk", assignmentHandler.BulkCreateAssignments)
			assignments.PATCH("/bulk", assignmentHandler.BulkUpdateAssignments)
			assignments.GET("/:id", assignmentHandler.GetAssignment)
			assignments.PATCH("/:id", assignmentHandler.UpdateAssignment)
			assignments.DELETE("/:id", assignmentHandler.DeleteAssignment)
			assignments.POST("/:id/move", assignmentHandler.MoveAssignment)
		}

		// Employee routes (protected)
		employees := api.Group("/employees")
		employees.Use(middleware.RequireAuth())
		{
			employees.GET("", employeeHandler.ListEmployees)
			employees.GET("/:id", middleware.RequireEmployeeAccess(), employeeHandler.GetEmployee)
			employees.PATCH("/:id", middleware.RequireEmployeeAccess(), employeeHandler.UpdateEmployee)
			employees.DELETE("/:id", middleware.RequireEmployeeAccess(), employeeHandler.DeleteEmployee)
			employees.POST("/:id/skills", middleware.RequireEmployeeAccess(), skillHandler.SetEmployeeSkill)
			employees.DELETE("/:id/skills/:skill_id", middleware.RequireEmployeeAccess(), skillHandler.RemoveEmployeeSkill)
		}

		// Team routes (protected)
		teams := api.Group("/teams")
		teams.Use(middleware.RequireAuth())
		{
			teams.POST("", teamHandler.CreateTeam)
			teams.GET("", teamHandler.ListTeams)
			teams.POST("/join", teamHandler.JoinTeam)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.PATCH("/:id", teamHandler.UpdateTeam)
			teams.DELETE("/:id", teamHandler.DeleteTeam)
		}

		// Project catalog routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PATCH("/:id", projectHandler.UpdateProject)
		}

		clients := api.Group("/clients")
		clients.Use(middleware.RequireAuth())
		{
			clients.GET("", projectHandler.ListClients)
			clients.POST("", projectHandler.CreateClient)
		}

		taskTypes := api.Group("/task-types")
		taskTypes.Use(middleware.RequireAuth())
		{
			taskTypes.GET("", projectHandler.ListTaskTypes)
			taskTypes.POST("", projectHandler.CreateTaskType)
		}

		// Skill catalog routes (protected)
		skills := api.Group("/skills")
		skills.Use(middleware.RequireAuth())
		{
			skills.GET("", skillHandler.ListSkills)
			skills.POST("", skillHandler.CreateSkill)
		}

		// Absence routes (protected)
		absences := api.Group("/absences")
		absences.Use(middleware.RequireAuth())
		{
			absences.POST("", absenceHandler.CreateAbsence)
			absences.GET("", absenceHandler.ListAbsences)
			absences.GET("/:id", absenceHandler.GetAbsence)
			absences.POST("/:id/approve", absenceHandler.ApproveAbsence)
			absences.POST("/:id/reject", absenceHandler.RejectAbsence)
			absences.DELETE("/:id", absenceHandler.DeleteAbsence)
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
