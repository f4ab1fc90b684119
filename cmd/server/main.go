package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Santiagodiaz04/chatbot-api/internal/config"
	"github.com/Santiagodiaz04/chatbot-api/internal/dialogue"
	"github.com/Santiagodiaz04/chatbot-api/internal/handler"
	"github.com/Santiagodiaz04/chatbot-api/internal/llm"
	"github.com/Santiagodiaz04/chatbot-api/internal/log"
	"github.com/Santiagodiaz04/chatbot-api/internal/repository"
	"github.com/Santiagodiaz04/chatbot-api/internal/scheduling"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(log.Fields{"error": err}, "failed to load configuration")
	}

	log.Init(log.Options{Level: cfg.Logging.Level, File: cfg.Logging.File})
	log.Info(log.Fields{"version": Version, "build_time": BuildTime, "git_commit": GitCommit}, "chatbot api starting")

	gin.SetMode(cfg.Server.GinMode)
	if err := handler.RegisterValidators(); err != nil {
		log.Fatal(log.Fields{"error": err}, "failed to register validators")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatal(log.Fields{"error": err}, "failed to connect to database")
	}
	defer repo.Close()
	log.Info(nil, "connected to PostgreSQL")

	if cfg.PostgreSQL.AutoMigrate {
		if err := repo.Migrate(ctx); err != nil {
			log.Fatal(log.Fields{"error": err}, "failed to apply schema")
		}
		log.Info(nil, "schema applied")
	}

	// Settings cache is optional
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = repository.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn(log.Fields{"error": err}, "redis unavailable, settings will be read from PostgreSQL")
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Info(log.Fields{"addr": cfg.Redis.Addr}, "settings cache enabled")
		}
	}
	settings := repository.NewCachedSettings(repo, redisClient, cfg.Redis.SettingsTTL)

	rewriter, closeRewriter := newRewriter(ctx, cfg)
	defer closeRewriter()

	dispatcher := dialogue.NewDispatcher(dialogue.Deps{
		Catalog:       repo,
		FAQ:           repo,
		Settings:      settings,
		Conversations: repo,
		Scheduler:     scheduling.NewClient(&cfg.Scheduler),
		Rewriter:      rewriter,
	}, dialogue.Options{
		SiteBaseURL:     cfg.Chat.SiteBaseURL,
		MaxRewriteChars: cfg.Rewriter.MaxReplyChar,
	})

	// Initialize handlers
	chatHandler := handler.NewChatHandler(dispatcher, repo, cfg.Chat.Origin)

	var limiter *handler.RateLimiter
	if cfg.Server.RateLimit > 0 {
		limiter = handler.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)
	}

	router := handler.NewRouter(handler.RouterConfig{
		Chat:           chatHandler,
		Property:       handler.NewPropertyHandler(repo, dialogue.NewCardBuilder(cfg.Chat.SiteBaseURL)),
		Feedback:       handler.NewFeedbackHandler(repo),
		Embedding:      handler.NewEmbeddingHandler(repo, cfg.Chat.EmbeddingDimensions),
		Health:         handler.NewHealthHandler(repo, handler.BuildInfo{Version: Version, BuildTime: BuildTime, GitCommit: GitCommit}),
		Limiter:        limiter,
		Metrics:        promhttp.Handler(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: cfg.Server.AllowedMethods,
		AllowedHeaders: cfg.Server.AllowedHeaders,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info(log.Fields{"addr": addr}, "starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(log.Fields{"error": err}, "failed to start server")
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	log.Info(nil, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(log.Fields{"error": err}, "server forced to shut down")
	}
	chatHandler.Wait()

	log.Info(nil, "server stopped")
}

// newRewriter builds the configured rewriter. A missing key or an unknown
// provider leaves the dispatcher with rule-based replies only.
func newRewriter(ctx context.Context, cfg *config.Config) (dialogue.Rewriter, func()) {
	noop := func() {}
	if !cfg.RewriterEnabled() {
		log.Warn(log.Fields{"provider": cfg.Rewriter.Provider}, "rewriter disabled, replies will not be rewritten")
		return nil, noop
	}

	switch cfg.Rewriter.Provider {
	case config.ProviderGemini:
		g, err := llm.NewGeminiRewriter(ctx, &cfg.Gemini, &cfg.Rewriter)
		if err != nil {
			log.Warn(log.Fields{"error": err}, "gemini rewriter unavailable")
			return nil, noop
		}
		log.Info(log.Fields{"model": cfg.Gemini.Model}, "gemini rewriter enabled")
		return g, func() { g.Close() }
	case config.ProviderOpenAI:
		log.Info(log.Fields{"model": cfg.OpenAI.Model, "api_base": cfg.OpenAI.APIBase}, "openai rewriter enabled")
		return llm.NewOpenAIRewriter(&cfg.OpenAI, &cfg.Rewriter), noop
	}
	return nil, noop
}
