package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/digitalmerch4862/KingdomKids-sub000/internal/audit"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/followup"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/shared/connection"

	"go.uber.org/zap"
)

// RunConsumer turns frozen-student events into follow-up queue entries until
// interrupted.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

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
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	followupRepo := followup.NewRepository(gormDB)
	followupService := followup.NewService(followupRepo, audit.NewGormLogger(gormDB))

	consumer := followup.NewStudentFrozenConsumer(
		kafkaBroker,
		"kingdomkids-followup",
		followupService,
		logger,
	)
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
