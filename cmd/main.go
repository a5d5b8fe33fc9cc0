package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"assistance-service/internal/auth"
	"assistance-service/internal/config"
	"assistance-service/internal/database/minio"
	"assistance-service/internal/database/postgres"
	"assistance-service/internal/database/redis"
	"assistance-service/internal/event"
	"assistance-service/internal/geocoding"
	"assistance-service/internal/handlers"
	"assistance-service/internal/repository"
	"assistance-service/internal/services"
	"assistance-service/internal/worker"
)

func setupLogging() (*os.File, error) {
	logDir := filepath.Join("/assistance", "log", "assistance_service")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	logFileName := fmt.Sprintf("log_%s.log", time.Now().Format("2006-01-02"))
	file, err := os.OpenFile(filepath.Join(logDir, logFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	slog.SetDefault(slog.New(slog.NewJSONHandler(file, nil)))

	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	cfg := config.New()

	log.Printf("Connecting to PostgreSQL with: host=%s, port=%s, user=%s, dbname=%s",
		cfg.PostgresCfg.Host, cfg.PostgresCfg.Port, cfg.PostgresCfg.Username, cfg.PostgresCfg.DBname)
	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		log.Printf("error connect to database: %s", err)
		go postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)
	}

	redisClient, err := redis.Connect(cfg.RedisCfg)
	if err != nil {
		log.Fatalf("error connect to redis: %s", err)
	}
	defer redisClient.Close()

	minioClient, err := minio.NewMinioClient(cfg.MinioCfg)
	if err != nil {
		log.Fatalf("error connect to minio: %s", err)
	}

	// RabbitMQ is optional: workflow events are best effort and the service
	// stays up without a broker.
	var notifier services.Notifier
	publisher, err := event.NewPublisher(cfg.RabbitMQCfg)
	if err != nil {
		log.Printf("error connect to rabbitmq, events disabled: %s", err)
	} else {
		defer publisher.Close()
		notifier = publisher
	}

	// Repositories
	projectRepo := repository.NewTravelProjectRepository(db)
	productRepo := repository.NewProductRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	hospitalRepo := repository.NewHospitalRepository(db)
	sinistreRepo := repository.NewSinistreRepository(db)
	stayRepo := repository.NewHospitalStayRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	// Services
	roleChecker := auth.NewRedisRoleProvider(redisClient)
	geocoder := geocoding.NewHTTPGeocoder(cfg.GeocoderCfg)

	projectService := services.NewTravelProjectService(projectRepo, productRepo)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, productRepo, projectRepo, roleChecker, notifier)
	dispatchService := services.NewAlertDispatchService(alertRepo, hospitalRepo, subscriptionRepo, geocoder, redisClient, notifier)
	sinistreService := services.NewSinistreService(sinistreRepo, stayRepo, invoiceRepo, alertRepo, hospitalRepo, roleChecker, notifier)
	documentService := services.NewReportDocumentService(stayRepo, minioClient)

	// Background workers: periodic subscription expiry.
	pool := worker.NewPool("assistance", cfg.WorkerCfg.PoolWorkers, cfg.WorkerCfg.PoolQueueSize)
	pool.RegisterJob("expire_subscriptions", func(ctx context.Context, _ map[string]any) error {
		_, err := subscriptionService.ExpireSubscriptions(ctx, time.Now().Unix())
		return err
	})

	manager := worker.NewManager(pool)
	manager.Schedule("subscription-expiry",
		time.Duration(cfg.WorkerCfg.ExpiryIntervalSeconds)*time.Second,
		worker.JobPayload{Type: "expire_subscriptions", MaxRetries: 2})
	manager.Start(context.Background())
	defer manager.Stop()

	// HTTP surface
	app := fiber.New()
	app.Get("/checkhealth", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("Assistance service is healthy")
	})

	app.Use("/assistance/protected", auth.NewJWTMiddleware(cfg.JWTSecret))

	handlers.NewTravelProjectHandler(projectService).Register(app)
	handlers.NewSubscriptionHandler(subscriptionService).Register(app)
	handlers.NewAlertHandler(dispatchService).Register(app)
	handlers.NewSinistreHandler(sinistreService, documentService).Register(app)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("server stopped: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")
	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
}
