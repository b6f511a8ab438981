package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"booking-service/src/internal/config"
	"booking-service/src/internal/usecase"
	"booking-service/src/pkg/log"

	"github.com/hibiken/asynq"
)

func main() {

	viperConfig := config.NewViper()
	log.InitLogger(viperConfig)
	logger := log.GetLogger()

	config.NewKafkaConfig(viperConfig)
	config.LoadRedisConfig(viperConfig)

	db := config.NewDatabase(viperConfig, logger)
	redisClient := config.NewRedis()
	producer := config.NewKafkaProducer(viperConfig, logger)
	validate := config.NewValidator(viperConfig)
	app := config.NewFiber(viperConfig)

	geocoder, err := config.NewGeoService(viperConfig)
	if err != nil {
		logger.Error("main", fmt.Sprintf("Failed to init geocoder: %v", err), "main", "")
	}

	asynqClient := config.NewAsynqClient(viperConfig)
	asynqMux := config.NewAsynqMux()
	asynqServer := config.NewAsynqServer(viperConfig)
	scheduler := config.NewAsynqScheduler(viperConfig)

	config.Bootstrap(&config.BootstrapConfig{
		DB:          db,
		App:         app,
		Log:         logger,
		Validate:    validate,
		Config:      viperConfig,
		Producer:    producer,
		Redis:       redisClient,
		Geoservice:  geocoder,
		AsynqClient: asynqClient,
		Async:       asynqMux,
	})

	sweepEvery := viperConfig.GetInt("booking.sweep_interval_sec")
	if _, err := scheduler.Register(
		fmt.Sprintf("@every %ds", sweepEvery),
		asynq.NewTask(usecase.TaskAutoRelease, nil),
	); err != nil {
		logger.Error("main", fmt.Sprintf("Failed to register auto-release schedule: %v", err), "main", "")
	}

	if err := asynqServer.Start(asynqMux); err != nil {
		logger.Error("main", fmt.Sprintf("Failed to start asynq server: %v", err), "main", "")
	}
	if err := scheduler.Start(); err != nil {
		logger.Error("main", fmt.Sprintf("Failed to start scheduler: %v", err), "main", "")
	}

	go func() {
		webPort := viperConfig.GetInt("web.port")
		if err := app.Listen(fmt.Sprintf(":%d", webPort)); err != nil {
			logger.Error("main", fmt.Sprintf("Failed to start server: %v", err), "main", "")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("main", "Server booking-service is shutting down...", "graceful", "")

	scheduler.Shutdown()
	asynqServer.Shutdown()
	if err := asynqClient.Close(); err != nil {
		logger.Error("main", fmt.Sprintf("Error closing asynq client: %v", err), "graceful", "")
	}
	if err := app.Shutdown(); err != nil {
		logger.Error("main", fmt.Sprintf("Error during shutdown: %v", err), "graceful", "")
	}

	logger.Info("main", fmt.Sprintf("Server %s stopped", viperConfig.GetString("app.name")), "graceful", "")
}
