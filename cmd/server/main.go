package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/saraswati/exam-gateway/internal/cache"
	"github.com/saraswati/exam-gateway/internal/config"
	"github.com/saraswati/exam-gateway/internal/database"
	"github.com/saraswati/exam-gateway/internal/handler"
	"github.com/saraswati/exam-gateway/internal/logger"
	"github.com/saraswati/exam-gateway/internal/questionbank"
	"github.com/saraswati/exam-gateway/internal/repository"
	"github.com/saraswati/exam-gateway/internal/router"
	"github.com/saraswati/exam-gateway/internal/service"
	"github.com/saraswati/exam-gateway/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Saraswati Exam Gateway")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis (advisory cache, degraded mode allowed) ──────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	examRepo := repository.NewExamRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	configCache := cache.NewConfigCache(rdb, cfg.CacheTimeout, log)
	resolver := service.NewConfigResolver(configCache, examRepo, log)
	admissionService := service.NewAdmissionService(userRepo, resolver, log)
	resetService := service.NewResetService(userRepo, log)
	examService := service.NewExamService(examRepo, log)
	userService := service.NewUserService(userRepo, log)

	qbankClient := questionbank.NewClient(cfg.QuestionBankURI, cfg.AdminToken, cfg.QuestionBankTimeout, log)
	questionService := service.NewQuestionService(userRepo, resolver, qbankClient, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Session:  handler.NewSessionHandler(admissionService, resetService),
		Question: handler.NewQuestionHandler(questionService),
		Exam:     handler.NewExamHandler(examService),
		User:     handler.NewUserHandler(userService),
	}

	// ─── Prewarm Config Cache ─────────────────────────────────────────
	// Load every exam's config into Redis BEFORE accepting traffic, so the
	// first login wave hits warm keys instead of stampeding Postgres.
	if err := resolver.PrewarmAll(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
