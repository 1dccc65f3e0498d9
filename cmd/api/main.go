package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/talentlens/interview-api/internal/config"
	"github.com/talentlens/interview-api/internal/database"
	"github.com/talentlens/interview-api/internal/handler"
	"github.com/talentlens/interview-api/internal/interview"
	"github.com/talentlens/interview-api/internal/middleware"
	"github.com/talentlens/interview-api/internal/models"
	"github.com/talentlens/interview-api/internal/repository"
	"github.com/talentlens/interview-api/internal/router"
	"github.com/talentlens/interview-api/internal/service"
	cloud "github.com/talentlens/interview-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Candidate{}, &models.Video{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, admin listing served uncached")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	candidateRepo := repository.NewCandidateRepository(db)
	videoRepo := repository.NewVideoRepository(db)

	candidateService := service.NewCandidateService(candidateRepo, validate, logger)
	pipeline := service.NewSubmissionPipeline(uploader, videoRepo, logger)
	notifier := service.NewCompletionNotifier(natsConn, logger)
	adminService := service.NewAdminService(candidateRepo, videoRepo, redisClient, cfg.AdminCacheTTL, service.AdminConfig{
		Username:  cfg.AdminUsername,
		Password:  cfg.AdminPassword,
		JWTSecret: cfg.JWTSecret,
	}, logger)

	registry := interview.NewRegistry(func() *interview.Controller {
		board := interview.NewBoard(models.Questions(), cfg.RecordingCeiling, logger)
		return interview.NewController(board, candidateService, pipeline, notifier, logger)
	})

	interviewHandler := handler.NewInterviewHandler(registry, validate, logger)
	adminHandler := handler.NewAdminHandler(adminService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		InterviewHandler: interviewHandler,
		AdminHandler:     adminHandler,
		JWTMiddleware:    middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
