package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/studyhall/membership-backend/internal/config"
	"github.com/studyhall/membership-backend/internal/database"
	"github.com/studyhall/membership-backend/internal/handlers"
	"github.com/studyhall/membership-backend/internal/middleware"
	"github.com/studyhall/membership-backend/internal/models"
	"github.com/studyhall/membership-backend/internal/services"
	"github.com/studyhall/membership-backend/pkg/jwt"
	"github.com/studyhall/membership-backend/pkg/notify"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Study Hall Membership Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	logger.Infof("Database ready at %s", cfg.Database.Path)

	// Initialize repositories
	memberRepo := database.NewMemberRepository(db)
	planRepo := database.NewPlanRepository(db)
	paymentRepo := database.NewPaymentRepository(db)
	attendanceRepo := database.NewAttendanceRepository(db)
	notificationRepo := database.NewNotificationRepository(db)
	settingsRepo := database.NewSettingsRepository(db)
	userRepo := database.NewUserRepository(db)
	reportRepo := database.NewReportRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	authService := services.NewAuthService(userRepo, jwtService, logger)
	membershipService := services.NewMembershipService(db, memberRepo, planRepo, paymentRepo, logger)
	attendanceService := services.NewAttendanceService(attendanceRepo, memberRepo, logger)

	// Reminder delivery: log-only sender until a real gateway is wired in
	var sender notify.Sender = notify.NewLogSender(logger)
	notifierService := services.NewNotifierService(memberRepo, notificationRepo, settingsRepo, sender, logger)

	backupService := services.NewBackupService(db, cfg.Database.Path, cfg.Backup.Dir, cfg.Backup.Retention, settingsRepo, logger)

	schedulerService := services.NewSchedulerService(cfg.Scheduler, memberRepo, notifierService, backupService, logger)
	if err := schedulerService.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}

	// Catch up on anything that expired while the process was down
	if expired, err := schedulerService.RunExpirySweepNow(); err != nil {
		logger.Errorf("Startup expiry sweep failed: %v", err)
	} else if expired > 0 {
		logger.Infof("Startup expiry sweep marked %d members expired", expired)
	}

	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	memberHandler := handlers.NewMemberHandler(membershipService)
	planHandler := handlers.NewPlanHandler(membershipService)
	paymentHandler := handlers.NewPaymentHandler(membershipService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	dashboardHandler := handlers.NewDashboardHandler(reportRepo, notifierService)
	settingsHandler := handlers.NewSettingsHandler(settingsRepo)
	schedulerHandler := handlers.NewSchedulerHandler(schedulerService, backupService)
	biometricHandler := handlers.NewBiometricHandler(membershipService, attendanceService, cfg.Biometric.SharedToken, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// Device helper endpoint (shared-token auth, outside the JWT surface)
	router.POST("/biometric-event", biometricHandler.HandleEvent)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
		}

		// All remaining routes require a staff JWT
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(jwtService))
		{
			// Members
			members := protected.Group("/members")
			{
				members.GET("", memberHandler.ListMembers)
				members.POST("", memberHandler.EnrollMember)
				members.GET("/:id", memberHandler.GetMember)
				members.PUT("/:id", memberHandler.UpdateMember)
				members.DELETE("/:id", memberHandler.DeleteMember)
				members.POST("/:id/renew", memberHandler.RenewMember)
				members.POST("/:id/suspend", memberHandler.SuspendMember)
				members.POST("/:id/reactivate", memberHandler.ReactivateMember)
				members.GET("/:id/notifications", dashboardHandler.GetNotificationHistory)
			}

			// Plans
			plans := protected.Group("/plans")
			{
				plans.GET("", planHandler.ListPlans)
				plans.POST("", middleware.RequireRole(models.RoleAdmin), planHandler.CreatePlan)
			}

			// Payments
			payments := protected.Group("/payments")
			{
				payments.GET("", paymentHandler.ListPayments)
				payments.POST("", paymentHandler.RecordPayment)
			}

			// Attendance
			attendance := protected.Group("/attendance")
			{
				attendance.GET("", attendanceHandler.ListAttendance)
				attendance.GET("/today", attendanceHandler.TodayAttendance)
				attendance.POST("/:id/check-in", attendanceHandler.CheckIn)
				attendance.POST("/:id/check-out", attendanceHandler.CheckOut)
			}

			// Dashboard and reports
			protected.GET("/dashboard/stats", dashboardHandler.GetStats)
			reports := protected.Group("/reports")
			{
				reports.GET("/attendance", dashboardHandler.GetAttendanceReport)
				reports.GET("/payments", dashboardHandler.GetPaymentReport)
			}

			// Settings
			settings := protected.Group("/settings")
			{
				settings.GET("", settingsHandler.GetSettings)
				settings.PUT("", middleware.RequireRole(models.RoleAdmin), settingsHandler.UpdateSettings)
			}

			// Scheduler and backups (admin only)
			admin := protected.Group("", middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/scheduler/status", schedulerHandler.GetStatus)
				admin.POST("/scheduler/sweep", schedulerHandler.TriggerExpirySweep)
				admin.POST("/scheduler/reminders", schedulerHandler.TriggerReminders)
				admin.POST("/scheduler/backup", schedulerHandler.TriggerBackup)
				admin.GET("/backups", schedulerHandler.ListBackups)
			}
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Stop the scheduler first so no job races the closing database
	schedulerService.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if userCtx, exists := middleware.GetUserContext(c); exists {
			fields["user_id"] = userCtx.UserID
			fields["role"] = userCtx.Role
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case len(c.Errors) > 0:
			entry.WithField("errors", c.Errors.String()).Error("Request failed with errors")
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
