package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campusdesk/campusdesk-api/api/swagger"
	"github.com/campusdesk/campusdesk-api/internal/handler"
	"github.com/campusdesk/campusdesk-api/internal/middleware"
	"github.com/campusdesk/campusdesk-api/internal/models"
	"github.com/campusdesk/campusdesk-api/internal/repository"
	"github.com/campusdesk/campusdesk-api/internal/service"
	"github.com/campusdesk/campusdesk-api/pkg/cache"
	"github.com/campusdesk/campusdesk-api/pkg/config"
	"github.com/campusdesk/campusdesk-api/pkg/database"
	"github.com/campusdesk/campusdesk-api/pkg/logger"
	corsmiddleware "github.com/campusdesk/campusdesk-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campusdesk/campusdesk-api/pkg/middleware/requestid"
	timeoutmiddleware "github.com/campusdesk/campusdesk-api/pkg/middleware/timeout"
	"github.com/campusdesk/campusdesk-api/pkg/storage"
)

// @title CampusDesk API
// @version 1.0.0
// @description Multi-tenant college administration backend
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, dashboard caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	collegeRepo := repository.NewCollegeRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	classRepo := repository.NewClassRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, redisClient != nil)
	activitySvc := service.NewActivityService(activityRepo, logr, cfg.Activity.Enabled)
	authSvc := service.NewAuthService(userRepo, studentRepo, activitySvc, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	registrationSvc := service.NewRegistrationService(collegeRepo, activitySvc, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, logr)
	studentSvc := service.NewStudentService(studentRepo, classRepo, activitySvc, validate, logr)
	classSvc := service.NewClassService(classRepo, studentRepo, activitySvc, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, classRepo, studentRepo, activitySvc, validate, logr)
	announcementSvc := service.NewAnnouncementService(announcementRepo, activitySvc, validate, logr)
	var exportArchive *storage.LocalStorage
	if cfg.Export.Enabled && cfg.Export.ArchiveDir != "" {
		exportArchive, err = storage.NewLocalStorage(cfg.Export.ArchiveDir)
		if err != nil {
			logr.Sugar().Warnw("export archive unavailable", "error", err)
		}
	}
	if exportArchive != nil && cfg.Export.ArchiveRetention > 0 {
		// Hourly sweep of expired register exports.
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for {
				removed, err := exportArchive.CleanupOlderThan(cfg.Export.ArchiveRetention)
				if err != nil {
					logr.Sugar().Warnw("export archive cleanup failed", "error", err, "dir", exportArchive.Path(""))
				} else if len(removed) > 0 {
					logr.Sugar().Infow("export archive cleaned", "removed", len(removed), "dir", exportArchive.Path(""))
				}
				<-ticker.C
			}
		}()
	}
	attendanceSvc := service.NewAttendanceService(attendanceRepo, classRepo, studentRepo, activitySvc, exportArchive, validate, logr, cfg.Export.Enabled, cfg.Export.MaxRows)
	dashboardSvc := service.NewDashboardService(teacherRepo, studentRepo, classRepo, assignmentRepo, announcementRepo, attendanceRepo, activitySvc, cacheSvc, metricsSvc, logr, cfg.Dashboard.CacheTTL, cfg.Dashboard.RecentActivities)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	registerHandler := handler.NewRegisterHandler(registrationSvc)
	adminHandler := handler.NewAdminHandler(dashboardSvc, teacherSvc, studentSvc, classSvc, announcementSvc, activitySvc)
	teacherHandler := handler.NewTeacherHandler(dashboardSvc, classSvc, assignmentSvc, announcementSvc, attendanceSvc)
	studentHandler := handler.NewStudentHandler(dashboardSvc, studentSvc, assignmentSvc, attendanceSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(timeoutmiddleware.Middleware(cfg.RequestTimeout))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix + "/api")
	api.POST("/register", registerHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	authed.Use(middleware.InvalidateDashboards(cacheSvc))
	authed.GET("/auth/me", authHandler.Me)

	admin := authed.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.GET("/teachers", adminHandler.ListTeachers)
	admin.GET("/staff", adminHandler.ListStaff)
	admin.GET("/students", adminHandler.ListStudents)
	admin.POST("/students", adminHandler.AddStudent)
	admin.GET("/classes", adminHandler.ListClasses)
	admin.GET("/announcements", adminHandler.ListAnnouncements)
	admin.POST("/announcements", adminHandler.SaveAnnouncement)
	admin.DELETE("/announcements/:id", adminHandler.DeleteAnnouncement)
	admin.GET("/activities", adminHandler.ListActivities)

	teacher := authed.Group("/teacher", middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin))
	teacher.GET("/dashboard", teacherHandler.Dashboard)
	teacher.GET("/classes", teacherHandler.ListClasses)
	teacher.POST("/classes", teacherHandler.SaveClass)
	teacher.GET("/classes/:id", teacherHandler.GetClass)
	teacher.DELETE("/classes/:id", teacherHandler.DeleteClass)
	teacher.GET("/classes/:id/students", teacherHandler.ClassRoster)
	teacher.GET("/classes/:id/attendance", teacherHandler.AttendanceRegister)
	teacher.GET("/classes/:id/attendance/export", teacherHandler.ExportAttendance)
	teacher.POST("/attendance", teacherHandler.RecordAttendance)
	teacher.GET("/assignments", teacherHandler.ListAssignments)
	teacher.POST("/assignments", teacherHandler.SaveAssignment)
	teacher.DELETE("/assignments/:id", teacherHandler.DeleteAssignment)
	teacher.GET("/assignments/:id/submissions", teacherHandler.AssignmentSubmissions)
	teacher.GET("/announcements", teacherHandler.ListAnnouncements)
	teacher.POST("/announcements", teacherHandler.SaveAnnouncement)
	teacher.DELETE("/announcements/:id", teacherHandler.DeleteAnnouncement)

	student := authed.Group("/student", middleware.RequireRoles(models.RoleStudent))
	student.GET("/dashboard", studentHandler.Dashboard)
	student.GET("/profile", studentHandler.Profile)
	student.GET("/classes", studentHandler.Classes)
	student.GET("/assignments", studentHandler.Assignments)
	student.POST("/assignments/:id/submit", studentHandler.SubmitAssignment)
	student.GET("/attendance", studentHandler.Attendance)

	// Staff may read any tenant student; a student only their own record.
	students := authed.Group("/students", middleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher), middleware.SelfMarker))
	students.GET("/:id", studentHandler.GetByID)
	students.GET("/:id/attendance", studentHandler.AttendanceByID)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("forced shutdown", "error", err)
	}
}
