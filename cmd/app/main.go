// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pdf-assistant/internal/config"
	"pdf-assistant/internal/domain/ports/adapter"
	"pdf-assistant/internal/domain/ports/repository"
	aiAdapters "pdf-assistant/internal/infra/adapters/ai"
	"pdf-assistant/internal/infra/adapters/docengine"
	pg "pdf-assistant/internal/infra/db/postgres"
	"pdf-assistant/internal/infra/logging"
	"pdf-assistant/internal/infra/metrics"
	red "pdf-assistant/internal/infra/redis"
	"pdf-assistant/internal/infra/storage/local"
	"pdf-assistant/internal/infra/store/memory"
	"pdf-assistant/internal/infra/web"
	"pdf-assistant/internal/infra/worker"
	"pdf-assistant/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (relaxed secrets, noop fallbacks)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	logging.Global = *logger
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Blob store ----
	blobs, err := local.NewBlobStore(cfg.Storage.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("blob store init failed")
	}

	// ---- Redis (optional) ----
	var (
		redisClient *red.Client
		limiter     usecase.RateLimiter
		cache       *red.SessionCache
	)
	if cfg.Redis.URL != "" {
		redisClient, err = red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connect failed")
		}
		defer redisClient.Close()
		limiter = red.NewRateLimiter(redisClient)
		cache = red.NewSessionCache(redisClient, cfg.Redis.TTL)
	}

	// ---- Session repository ----
	var sessions repository.SessionRepository
	if cfg.Database.URL != "" {
		pool, perr := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
		if perr != nil {
			logger.Fatal().Err(perr).Msg("postgres connect failed")
		}
		defer pool.Close()
		if serr := pg.EnsureSchema(ctx, pool); serr != nil {
			logger.Fatal().Err(serr).Msg("schema setup failed")
		}
		sessions = pg.NewSessionRepo(pool, cache)
		logger.Info().Msg("using postgres session store")
	} else {
		sessions = memory.NewSessionRepo()
		logger.Info().Msg("using in-memory session store")
	}

	// ---- Command generator ----
	ai, err := buildAIAdapter(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("command generator init failed")
	}

	// ---- Document engine ----
	var inner adapter.DocumentEngine
	if cfg.Engine.Mode == "remote" {
		inner, err = docengine.NewRemoteEngine(cfg.Engine.BaseURL, cfg.Engine.APIKey, cfg.Engine.Timeout)
		if err != nil {
			logger.Fatal().Err(err).Msg("remote engine init failed")
		}
	} else {
		inner = docengine.NewLocalEngine(blobs)
	}
	pool := worker.NewPool(cfg.Engine.Workers, logger)
	pool.Start(ctx)
	defer pool.Stop()
	engine := docengine.NewPooled(inner, pool)

	// ---- Download references ----
	secret := cfg.Security.DownloadSecret
	if secret == "" {
		// LoadConfig only lets this through in dev mode.
		secret = "dev-download-secret"
	}
	signer := web.NewDownloadSigner(secret, cfg.Security.DownloadTTL)

	hub := web.NewHub(logger)

	// ---- Use cases ----
	chatUC := usecase.NewChatUseCase(
		sessions, ai, engine, signer, hub, limiter,
		cfg.AI.DefaultModel, cfg.Chat.MessageLimit, cfg.Chat.MessageWindow, logger,
	)
	fileUC := usecase.NewFileUseCase(sessions, blobs, logger)

	// ---- HTTP server ----
	srv := web.NewServer(chatUC, fileUC, signer, hub, cfg.Storage.MaxUploadMB<<20, logger)
	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("http server listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// ---- Graceful shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
}

// buildAIAdapter picks the configured generator backend. Key presence
// decides; dev mode falls back to the noop generator so the pipeline
// stays usable without credentials.
func buildAIAdapter(ctx context.Context, cfg *config.Config) (adapter.AIServiceAdapter, error) {
	switch {
	case cfg.AI.OpenAIKey != "":
		return aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.DefaultModel, cfg.AI.OpenAIURL)
	case cfg.AI.GeminiKey != "":
		return aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel, cfg.AI.MaxTokens)
	case cfg.Runtime.Dev:
		return aiAdapters.NewNoopAIAdapter(), nil
	}
	return nil, fmt.Errorf("no generator configured: set ai.openai_key or ai.gemini_key")
}
