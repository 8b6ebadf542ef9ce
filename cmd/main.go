package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/hackdays-io/hackathon-system/config"
	"github.com/hackdays-io/hackathon-system/db"
	"github.com/hackdays-io/hackathon-system/directory"
	"github.com/hackdays-io/hackathon-system/events"
	"github.com/hackdays-io/hackathon-system/handlers"
	"github.com/hackdays-io/hackathon-system/middleware"
	"github.com/hackdays-io/hackathon-system/repositories"
	api "github.com/hackdays-io/hackathon-system/routes"
	"github.com/hackdays-io/hackathon-system/services"
	"github.com/hackdays-io/hackathon-system/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	for _, warning := range cfg.Warnings() {
		logger.Warn(warning)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Хранилище логотипов (Cloudflare R2), если настроено
	var uploader storage.FileUploader
	r2cfg := storage.R2Config{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if r2cfg.Configured() {
		uploader, err = storage.NewR2Uploader(r2cfg)
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("R2 uploader initialized")
	} else {
		logger.Info("R2 storage not configured, logo upload disabled")
	}

	// WebSocket Hub и внешний pub/sub
	wsHub := events.NewHub(logger)
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	var pusher *events.PusherClient
	if cfg.PusherURL != "" {
		pusher = events.NewPusherClient(events.PusherConfig{
			URL:     cfg.PusherURL,
			Channel: cfg.PusherChannel,
		})
	}
	broadcaster := events.NewService(pusher, wsHub, logger)

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	hackRepo := repositories.NewPostgresHackRepository(dbConn)
	challengeRepo := repositories.NewPostgresChallengeRepository(dbConn)
	attendeeRepo := repositories.NewPostgresAttendeeRepository(dbConn)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	teamService := services.NewTeamService(teamRepo, userRepo, hackRepo, uploader, broadcaster, logger)
	userService := services.NewUserService(userRepo, teamRepo)
	hackService := services.NewHackService(hackRepo, challengeRepo, teamRepo)
	challengeService := services.NewChallengeService(challengeRepo)
	attendeeService := services.NewAttendeeService(attendeeRepo)

	teamMembers := services.NewTeamMembersRelation(teamRepo, userRepo, broadcaster)
	teamEntries := services.NewTeamEntriesRelation(teamRepo, hackRepo, broadcaster)
	hackChallenges := services.NewHackChallengesRelation(hackRepo, challengeRepo, broadcaster)
	logger.Info("Services initialized")

	// Справочник Slack, если задан токен
	var dir directory.Lookup
	if cfg.SlackToken != "" {
		dir = directory.NewSlackClient(directory.SlackConfig{
			Token:   cfg.SlackToken,
			BaseURL: cfg.SlackAPIURL,
		})
	}

	auth := middleware.NewAuth(middleware.AuthConfig{
		AdminUser:       cfg.AdminUser,
		AdminPassword:   cfg.AdminPassword,
		ServicePassword: cfg.ServicePassword,
	}, attendeeRepo, dir, logger)

	// Инициализация обработчиков HTTP
	h := api.Handlers{
		Root:           handlers.NewRootHandler(teamRepo, userRepo, hackRepo, challengeRepo, attendeeRepo),
		Teams:          handlers.NewTeamHandler(teamService),
		Users:          handlers.NewUserHandler(userService),
		Hacks:          handlers.NewHackHandler(hackService),
		Challenges:     handlers.NewChallengeHandler(challengeService),
		Attendees:      handlers.NewAttendeeHandler(attendeeService),
		TeamMembers:    handlers.NewRelationHandler(teamMembers, "teamID"),
		TeamEntries:    handlers.NewRelationHandler(teamEntries, "teamID"),
		HackChallenges: handlers.NewRelationHandler(hackChallenges, "hackID"),
		Events:         handlers.NewEventsHandler(wsHub, cfg.SocketSecret, logger),
	}

	router := api.InitRoutes(h, auth)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if err := server.Close(); err != nil {
				logger.Error("forced shutdown failed", slog.Any("error", err))
			}
		}
		logger.Info("server stopped")
	}
}
