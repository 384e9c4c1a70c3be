package app

import (
	"os"

	"github.com/digitalmerch4862/KingdomKids-sub000/internal/audit"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure and registers every module on the
// router. It returns the audit logger so the server can record its own
// shutdown.
func BuildApp(router *gin.Engine) (audit.Logger, error) {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		zap.L().Warn("redis unavailable, caching and idempotency disabled", zap.Error(err))
		rdb = nil
	}

	auditor := audit.NewGormLogger(gormDB)

	if err := registerModules(router, sqlDB, gormDB, rdb, auditor); err != nil {
		return nil, err
	}
	return auditor, nil
}
