package app

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/digitalmerch4862/KingdomKids-sub000/internal/attendance"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/audit"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/auth"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/faceclient"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/fairness"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/followup"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/leaderboard"
	kafka "github.com/digitalmerch4862/KingdomKids-sub000/internal/messaging/kafka"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/middleware"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/points"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/portal"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/rbac"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/settings"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/shared/counter"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/storyclient"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/student"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	auditor audit.Logger,
) error {
	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))
	router.Use(middleware.Metrics())

	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	settingsRepo := settings.NewRepository(gormDB)
	studentRepo := student.NewRepository(gormDB)
	pointsRepo := points.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	leaderboardRepo := leaderboard.NewRepository(gormDB)
	fairnessRepo := fairness.NewRepository(gormDB)
	followupRepo := followup.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}

	// --- External clients ---
	faceClient := faceclient.New(
		os.Getenv("FACE_SERVICE_URL"),
		os.Getenv("FACE_SERVICE_SKIP") == "true",
	)
	storyClient := storyclient.New(
		os.Getenv("STORY_SERVICE_URL"),
		os.Getenv("STORY_SERVICE_SKIP") == "true",
	)

	// --- Services ---
	authService := auth.NewService(authRepo)
	settingsService := settings.NewService(settingsRepo, 0)
	studentService := student.NewService(studentRepo, counterRepo, faceClient, settingsService)
	pointsService := points.NewService(pointsRepo, settingsService, auditor, rdb)
	attendanceService := attendance.NewService(
		db,
		attendanceRepo,
		studentRepo,
		pointsService,
		pointsRepo,
		settingsService,
		auditor,
		outboxRepo,
		rdb,
	)
	leaderboardService := leaderboard.NewService(leaderboardRepo, rdb)
	fairnessService := fairness.NewService(fairnessRepo)
	followupService := followup.NewService(followupRepo, auditor)
	portalService := portal.NewService(
		studentRepo,
		pointsService,
		leaderboardService,
		attendanceService,
		storyClient,
	)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	settingsHandler := settings.NewHandler(settingsService)
	studentHandler := student.NewHandler(studentService)
	pointsHandler := points.NewHandlerWithRedis(pointsService, rdb)
	attendanceHandler := attendance.NewHandler(attendanceService)
	leaderboardHandler := leaderboard.NewHandler(leaderboardService)
	fairnessHandler := fairness.NewHandler(fairnessService)
	followupHandler := followup.NewHandler(followupService)
	portalHandler := portal.NewHandler(portalService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, enforcer)
		settings.RegisterRoutes(api, settingsHandler, enforcer)
		student.RegisterRoutes(api, studentHandler, enforcer)
		points.RegisterRoutes(api, pointsHandler, enforcer, rdb)
		attendance.RegisterRoutes(api, attendanceHandler, enforcer)
		leaderboard.RegisterRoutes(api, leaderboardHandler, enforcer)
		fairness.RegisterRoutes(api, fairnessHandler, enforcer)
		followup.RegisterRoutes(api, followupHandler, enforcer)
		portal.RegisterRoutes(api, portalHandler)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return nil
}
