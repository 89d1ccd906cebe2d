package main

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tablecraft/tablecraft-api/internal/config"
	"github.com/tablecraft/tablecraft-api/internal/database"
	"github.com/tablecraft/tablecraft-api/internal/handlers"
	"github.com/tablecraft/tablecraft-api/internal/middleware"
	"github.com/tablecraft/tablecraft-api/internal/realtime"
	"github.com/tablecraft/tablecraft-api/internal/repository"
	"github.com/tablecraft/tablecraft-api/internal/services"
	"github.com/tablecraft/tablecraft-api/internal/token"
	"github.com/tablecraft/tablecraft-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.Options{})
		logger.Get().Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.GinMode != "release",
	})

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Start the realtime hub
	hub := realtime.NewHub()
	go hub.Run()

	// Wire repositories, services and handlers
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	authService := services.NewAuthService(userRepo, tokens)
	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo, userRepo, hub)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, hub)
	advisorService := services.NewAdvisorService(projectRepo, taskRepo, userRepo)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	aiHandler := handlers.NewAIHandler(advisorService)

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	corsConfig := cors.DefaultConfig()
	if cfg.CORSOrigin == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{cfg.CORSOrigin}
	}
	corsConfig.AllowCredentials = !corsConfig.AllowAllOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	// Health, info and metrics endpoints
	r.GET("/health", handlers.Health)
	r.GET("/api", handlers.APIInfo)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Realtime websocket endpoint
	r.GET("/ws", realtime.ServeWS(hub))

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/profile", middleware.RequireAuth(authService), authHandler.GetProfile)
			auth.PUT("/profile", middleware.RequireAuth(authService), authHandler.UpdateProfile)
			auth.GET("/verify", middleware.RequireAuth(authService), authHandler.Verify)
		}

		// Task routes
		tasks := api.Group("/tasks")
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		// Project routes
		projects := api.Group("/projects")
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
		}

		// User routes
		users := api.Group("/users")
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", userHandler.CreateUser)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		// Advisor routes
		ai := api.Group("/ai")
		{
			ai.GET("/recommendations/:projectId", aiHandler.GetRecommendations)
			ai.GET("/insights/:projectId", aiHandler.GetInsights)
			ai.GET("/assignment-suggestions/:taskId", aiHandler.GetAssignmentSuggestions)
		}
	}

	// Start server
	log.Info().Str("port", cfg.Port).Msg("Server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Error().Err(err).Msg("Server stopped")
		os.Exit(1)
	}
}
