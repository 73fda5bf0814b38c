package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/civicgrid/backend/internal/config"
	"github.com/civicgrid/backend/internal/database"
	"github.com/civicgrid/backend/internal/handlers"
	"github.com/civicgrid/backend/internal/middleware"
	"github.com/civicgrid/backend/internal/repository"
	"github.com/civicgrid/backend/internal/services"
	"github.com/civicgrid/backend/internal/storage"
	"github.com/civicgrid/backend/pkg/utils"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := database.Seed(db); err != nil {
		log.Printf("Warning: Failed to seed database: %v", err)
	}

	redisClient, err := database.ConnectRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer database.CloseRedis(redisClient)

	minioStorage, err := storage.NewMinIOStorage(&cfg.MinIO)
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpireHour)
	sessionStore := database.NewSessionStore(redisClient)
	slaCache := database.NewSLACache(redisClient, cfg.SLA.CacheTTL)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	complaintRepo := repository.NewComplaintRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db, cfg.SLA.WorkerCapacity)

	// Initialize services
	authService := services.NewAuthService(userRepo, departmentRepo, jwtManager, sessionStore)
	deadlineService := services.NewDeadlineService(departmentRepo, slaCache, cfg.SLA.DefaultHours)
	notificationService := services.NewNotificationService(notificationRepo)
	complaintService := services.NewComplaintService(complaintRepo, assignmentRepo, deadlineService, notificationService, minioStorage)
	dashboardService := services.NewDashboardService(complaintRepo, userRepo)

	slaMonitor := services.NewSLAMonitor(complaintRepo, notificationService, cfg.SLA.WarningWindow, cfg.SLA.CheckInterval)
	ctx := context.Background()
	slaMonitor.Start(ctx)
	defer slaMonitor.Stop()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	complaintHandler := handlers.NewComplaintHandler(complaintService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, slaMonitor)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	departmentHandler := handlers.NewDepartmentHandler(departmentRepo, slaCache, cfg.SLA.DefaultHours)
	healthHandler := handlers.NewHealthHandler(db, redisClient)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	app := fiber.New(fiber.Config{
		AppName:      "CivicGrid Backend",
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000,http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
	}))

	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health routes
	v1.Get("/health", healthHandler.Health)
	v1.Get("/ready", healthHandler.Ready)

	// Auth routes
	auth := v1.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authMiddleware.Authenticate(), authHandler.Logout)

	// Department catalog and city-wide public views
	v1.Get("/departments", departmentHandler.List)
	v1.Get("/heatmap", dashboardHandler.Heatmap)
	v1.Get("/analytics", dashboardHandler.Analytics)

	// Complaint routes
	complaints := v1.Group("/complaints", authMiddleware.Authenticate())
	complaints.Post("/", authMiddleware.RequireRole("citizen"), complaintHandler.Submit)
	complaints.Get("/mine", authMiddleware.RequireRole("citizen"), complaintHandler.Mine)
	complaints.Get("/:id", complaintHandler.Detail)
	complaints.Patch("/:id/toggle", authMiddleware.RequireRole("worker"), complaintHandler.Toggle)
	complaints.Delete("/:id", authMiddleware.RequireRole("manager"), complaintHandler.Delete)

	// Worker views
	workers := v1.Group("/workers", authMiddleware.Authenticate(), authMiddleware.RequireRole("worker"))
	workers.Get("/me/complaints", complaintHandler.Assigned)
	workers.Get("/me/sla", complaintHandler.WorkerSLA)

	// Worker notifications
	notifications := v1.Group("/notifications", authMiddleware.Authenticate(), authMiddleware.RequireRole("worker"))
	notifications.Get("/", notificationHandler.List)
	notifications.Patch("/:id/read", notificationHandler.MarkRead)

	// On-demand SLA sweep
	v1.Post("/sla/check", authMiddleware.Authenticate(), authMiddleware.RequireRole("manager"), dashboardHandler.CheckSLA)

	// Manager dashboard
	manager := v1.Group("/manager", authMiddleware.Authenticate(), authMiddleware.RequireRole("manager"))
	manager.Get("/workers", dashboardHandler.Workers)
	manager.Get("/complaints", dashboardHandler.Complaints)
	manager.Get("/stats", dashboardHandler.Stats)
	manager.Get("/sla-violations", dashboardHandler.SLAViolations)
	manager.Get("/heatmap", dashboardHandler.Heatmap)
	manager.Post("/departments", departmentHandler.Create)

	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
