// Package main is the entry point for the ANY.RUN sandbox Telegram bot.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/api/handlers"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/api/middleware"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/api/routes"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/bot"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/config"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/core/cache"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/core/userdb"
	rediscache "github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/infrastructure/cache/redis"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/infrastructure/userdb/mongodb"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/logging"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/pkg/encryption"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/access"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/anyrun"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/session"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/telegram"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Setup(cfg.Log)

	ctx := context.Background()

	// Initialize cache client using factory pattern
	cacheClient, err := createCacheClient(cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize cache client")
	}
	defer cacheClient.Close()

	// Initialize user store
	userStore, err := createUserStore(ctx, cfg.UserDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize user store")
	}
	defer userStore.Close(ctx)

	// Ensure database indexes
	if err := userStore.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure indexes")
	}

	// Initialize encryptor
	encryptor, err := createEncryptor(cfg.Session)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize encryptor")
	}

	// Initialize session service
	sessionService, err := session.NewService(&session.Config{
		CacheClient: cacheClient,
		Encryptor:   encryptor,
		TTL:         cfg.Session.TTL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize session service")
	}

	// Initialize outbound clients
	telegramClient, err := telegram.NewClient(&telegram.ClientConfig{
		Token:   cfg.Telegram.Token,
		APIURL:  cfg.Telegram.APIURL,
		Timeout: cfg.Telegram.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telegram client")
	}

	sandboxClient := anyrun.NewClient(&anyrun.ClientConfig{
		BaseURL: cfg.Sandbox.APIURL,
		Timeout: cfg.Sandbox.Timeout,
	})

	// Initialize access gate and bot
	gate, err := access.NewService(userStore, telegramClient, cfg.Telegram.RequiredGroupIDs)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize access gate")
	}

	telegramBot, err := bot.New(userStore, sessionService, telegramClient, sandboxClient, gate)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize bot")
	}

	// Verify the token and register the webhook
	me, err := telegramClient.GetMe(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to reach the Telegram Bot API")
	}
	log.Info().Str("username", me.Username).Msg("Bot account resolved")

	if cfg.Telegram.WebhookURL != "" {
		if err := telegramClient.SetWebhook(ctx, cfg.Telegram.WebhookURL); err != nil {
			log.Fatal().Err(err).Msg("failed to register webhook")
		}
		log.Info().Str("webhook_url", cfg.Telegram.WebhookURL).Msg("Webhook registered")
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Setup router
	router := setupRouter(cfg, cacheClient, userStore, telegramBot)

	// Create HTTP server
	srv := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("address", cfg.Server.Address()).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// createCacheClient creates a cache client based on the configuration.
func createCacheClient(cfg config.CacheConfig) (cache.Client, error) {
	cacheType := cache.Type(cfg.Type)

	switch cacheType {
	case cache.TypeRedis:
		return rediscache.NewClient(rediscache.Config{
			Host:       cfg.Host,
			Port:       cfg.Port,
			Password:   cfg.Password,
			DB:         cfg.DB,
			DefaultTTL: cfg.TTL,
		})
	default:
		log.Fatal().Str("type", cfg.Type).Msg("unsupported cache type")
		return nil, nil
	}
}

// createUserStore creates a user store based on the configuration.
func createUserStore(ctx context.Context, cfg config.UserDBConfig) (userdb.Store, error) {
	storeType := userdb.Type(cfg.Type)

	switch storeType {
	case userdb.TypeMongoDB:
		return mongodb.NewStore(ctx, &mongodb.ClientConfig{
			URI:          cfg.URI,
			DatabaseName: cfg.Database,
		})
	default:
		log.Fatal().Str("type", cfg.Type).Msg("unsupported userdb type")
		return nil, nil
	}
}

// createEncryptor creates the session-state encryptor.
func createEncryptor(cfg config.SessionConfig) (encryption.Encryptor, error) {
	if cfg.EncryptionKey == "" {
		// Session payloads carry API-key identifiers; running without
		// encryption is for development only.
		log.Warn().Msg("SESSION_ENCRYPTION_KEY not set, using NoOp encryptor")
		return encryption.NewNoOpEncryptor(), nil
	}
	return encryption.NewAESEncryptor(cfg.EncryptionKey)
}

// setupRouter creates and configures the Gin router.
func setupRouter(cfg *config.Config, cacheClient cache.Client, userStore userdb.Store, telegramBot *bot.Bot) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Create middleware
	loggingMw := middleware.NewLoggingMiddleware()
	errorMw := middleware.NewErrorMiddleware()

	// Create handlers
	healthHandler := handlers.NewHealthHandler(cacheClient, userStore)
	webhookHandler := handlers.NewWebhookHandler(telegramBot, cfg.Telegram.Token)

	// Setup routes
	routesCfg := &routes.Config{
		HealthHandler:  healthHandler,
		WebhookHandler: webhookHandler,
	}

	routes.SetupWithMiddleware(router, routesCfg, loggingMw, errorMw)

	return router
}
