package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fairway/scorecard-server/internal/config"
	"github.com/fairway/scorecard-server/internal/database"
	"github.com/fairway/scorecard-server/internal/handler"
	"github.com/fairway/scorecard-server/internal/jobs"
	"github.com/fairway/scorecard-server/internal/lockout"
	"github.com/fairway/scorecard-server/internal/middleware"
	"github.com/fairway/scorecard-server/internal/redis"
	"github.com/fairway/scorecard-server/internal/repository"
	"github.com/fairway/scorecard-server/internal/service"
	"github.com/fairway/scorecard-server/internal/session"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("FLY_APP_NAME") != ""
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	profileRepo := repository.NewProfileRepository(db.DB)
	courseRepo := repository.NewCourseRepository(db.DB)
	roundRepo := repository.NewRoundRepository(db.DB)

	authService := service.NewAuthService(profileRepo, lockout.DefaultPolicy())
	roundService := service.NewRoundService(db, roundRepo, courseRepo)
	statsService := service.NewStatsService(roundRepo)

	throttleChecker := middleware.NewRedisThrottleChecker(redisClient.Client, cfg.LoginAttemptsPerMin)
	loginThrottle := middleware.NewLoginThrottle(throttleChecker)
	requireAuth := session.NewRequireAuth(cfg.LoginPath)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(isProduction)

	authHandler := handler.NewAuthHandler(authService, loginThrottle.Handler)
	roundHandler := handler.NewRoundHandler(roundService)
	companionHandler := handler.NewCompanionHandler(roundService)
	courseHandler := handler.NewCourseHandler(courseRepo)
	statsHandler := handler.NewStatsHandler(statsService)
	spaHandler := handler.NewSPAHandler(cfg.StaticDir)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)
	r.Use(securityHeadersMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes())

		r.Group(func(r chi.Router) {
			r.Use(requireAuth.Handler)
			r.Mount("/rounds", roundHandler.Routes())
			r.Mount("/courses", courseHandler.Routes())
			r.Get("/companions", companionHandler.List)
			r.Get("/stats/summary", statsHandler.Summary)
		})
	})

	r.Handle("/*", spaHandler)

	cleanupJob := jobs.NewCleanupJob(profileRepo, config.CleanupJobInterval)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
