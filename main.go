package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"autopost/infrastructure/cache"
	"autopost/infrastructure/clients/googleauth"
	"autopost/infrastructure/clients/googledrive"
	youtubeclient "autopost/infrastructure/clients/youtube"
	"autopost/infrastructure/configuration"
	"autopost/infrastructure/logger"
	"autopost/infrastructure/persistence"
	"autopost/infrastructure/pubsub"
	httpHandler "autopost/interfaces/http"
	"autopost/server"
	"autopost/usecase"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	psqlDb, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to the database")
		os.Exit(1)
	}
	if err := persistence.EnsureSchema(psqlDb); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed ensuring database schema")
		os.Exit(1)
	}
	logger.GetLogger().WithField("PSQLDb", psqlDb.Ping()).Info("Database connected.")

	pubSubClient, err := pubsub.NewPubSub(ctx, configuration.C.Pubsub.ProjectID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Pub/Sub not available - continuing without event publishing")
		pubSubClient = nil
	}
	eventPublisher := pubsub.NewEventPublisher(pubSubClient)

	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - continuing without dashboard cache")
		redisClient = nil
	}
	dashboardCache := cache.NewDashboardCache(redisClient)

	userRepository := persistence.NewUserRepository(psqlDb)
	postRepository := persistence.NewPostRepository(psqlDb)
	logRepository := persistence.NewLogRepository(psqlDb)
	oauthTokenRepository := persistence.NewOAuthTokenRepository(psqlDb)
	settingsRepository := persistence.NewUserSettingsRepository(psqlDb)

	tokenProvider := googleauth.NewTokenProvider(oauthTokenRepository)
	driveClient := googledrive.NewDriveClient(tokenProvider)
	youtubeClient := youtubeclient.NewYouTubeClient(tokenProvider)

	if !configuration.IsGoogleConfigured() {
		logger.GetLogger().Warn("Google OAuth client not configured - Drive and YouTube features will fail until GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and GOOGLE_REDIRECT_URI are set")
	}

	scheduler := usecase.NewScheduler(
		postRepository,
		logRepository,
		settingsRepository,
		driveClient,
		youtubeClient,
		configuration.C.Scheduler.CronSpec,
	).WithEvents(eventPublisher, configuration.C.Pubsub.Topic)

	userUsecase := usecase.NewUserUsecase(userRepository)
	postUsecase := usecase.NewPostUsecase(postRepository, logRepository, settingsRepository, dashboardCache)
	settingsUsecase := usecase.NewSettingsUsecase(settingsRepository, driveClient)

	userHandler := httpHandler.NewUserHandler(userUsecase)
	postHandler := httpHandler.NewPostHandler(postUsecase, scheduler)
	schedulerHandler := httpHandler.NewSchedulerHandler(scheduler)
	googleAuthHandler := httpHandler.NewGoogleAuthHandler(oauthTokenRepository, tokenProvider, youtubeClient)
	driveHandler := httpHandler.NewDriveHandler(driveClient)
	settingsHandler := httpHandler.NewSettingsHandler(settingsUsecase)

	router := server.InitiateRouter(
		userHandler,
		postHandler,
		schedulerHandler,
		googleAuthHandler,
		driveHandler,
		settingsHandler,
		userRepository,
	)

	if configuration.C.Scheduler.Disabled {
		logger.GetLogger().Info("Scheduler disabled by configuration")
	} else {
		scheduler.Start()
		defer scheduler.Stop()
	}

	port := app.Port
	logger.GetLogger().WithField("port", port).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}
