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

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	llmadapter "github.com/ballek12/youtube-video-analysis-saa-s/internal/adapters/llm"
	httpServer "github.com/ballek12/youtube-video-analysis-saa-s/internal/adapters/http/server"
	memorystorage "github.com/ballek12/youtube-video-analysis-saa-s/internal/adapters/storage/memory"
	redisstorage "github.com/ballek12/youtube-video-analysis-saa-s/internal/adapters/storage/redis"
	sqlitestorage "github.com/ballek12/youtube-video-analysis-saa-s/internal/adapters/storage/sqlite"
	"github.com/ballek12/youtube-video-analysis-saa-s/internal/config"
	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/ports"
	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/services"
	"github.com/ballek12/youtube-video-analysis-saa-s/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}

	storage, closeStorage, err := initStorage(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init storage")
	}
	defer closeStorage()

	limiter, err := services.NewRateLimiterService(storage, services.Config{
		DefaultRule:   cfg.RateLimiter.Rule(),
		SweepInterval: cfg.RateLimiter.SweepInterval(),
		Logger:        log.With().Str("component", "rate_limiter").Logger(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create limiter")
	}
	defer limiter.Close()

	history, closeHistory := initHistory(cfg.History, log)
	defer closeHistory()

	insights := services.NewInsightsService(initGenerator(cfg.LLM, log), services.InsightsConfig{
		Timeout:  cfg.LLM.Timeout(),
		Throttle: newThrottle(cfg.LLM),
		Logger:   log.With().Str("component", "insights").Logger(),
	})

	analyzer, err := services.NewAnalysisService(insights, history, services.AnalysisConfig{
		Logger: log.With().Str("component", "analysis").Logger(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create analysis service")
	}

	srv := &http.Server{
		Addr: fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: httpServer.NewRouter(httpServer.Deps{
			Limiter:  limiter,
			Rule:     cfg.RateLimiter.Rule(),
			Analyzer: analyzer,
			Logger:   log,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("storage", cfg.Storage.Type).Msg("server listening")
		err := srv.ListenAndServe()
		if err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			return
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func initStorage(cfg config.StorageConfig, log zerolog.Logger) (ports.Storage, func(), error) {
	switch cfg.Type {
	case "memory":
		return memorystorage.New(), func() {}, nil
	case "redis":
		redisCfg := redisstorage.Config{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}
		storage, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, nil, err
		}
		return storage, func() {
			if err := storage.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close redis storage")
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// initHistory devolve um repositório nil quando HISTORY_DB_PATH não está definido.
func initHistory(cfg config.HistoryConfig, log zerolog.Logger) (ports.HistoryRepository, func()) {
	if cfg.DBPath == "" {
		return nil, func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	repo, err := sqlitestorage.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Warn().Err(err).Msg("history db init failed, history disabled")
		return nil, func() {}
	}
	log.Info().Str("path", cfg.DBPath).Msg("history db initialized")
	return repo, func() {
		if err := repo.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close history db")
		}
	}
}

func initGenerator(cfg config.LLMConfig, log zerolog.Logger) ports.TextGenerator {
	if cfg.APIKey == "" {
		log.Warn().Msg("LLM_API_KEY not set, serving default insights")
		return nil
	}

	client, err := llmadapter.New(llmadapter.Config{
		APIBase:      cfg.APIBase,
		APIKey:       cfg.APIKey,
		FallbackKeys: cfg.APIKeyFallbacks,
		Model:        cfg.Model,
		MaxTokens:    cfg.MaxTokens,
		Temperature:  cfg.Temperature,
	})
	if err != nil {
		log.Warn().Err(err).Msg("llm client init failed, serving default insights")
		return nil
	}
	log.Info().Str("model", cfg.Model).Msg("llm client initialized")
	return client
}

func newThrottle(cfg config.LLMConfig) *rate.Limiter {
	if cfg.RequestsPerMinute <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), burst)
}
