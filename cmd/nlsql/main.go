package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"nlsql/internal/api"
	"nlsql/internal/api/handlers"
	"nlsql/internal/cache"
	"nlsql/internal/llm"
	"nlsql/internal/repository"
	"nlsql/internal/service"
	"nlsql/internal/sqlguard"
	"nlsql/internal/vectorstore"
	"nlsql/pkg/auth"
	"nlsql/pkg/config"
	"nlsql/pkg/logger"
	"nlsql/pkg/postgres"
	"nlsql/pkg/secrets"

	"go.uber.org/zap"
)

// @title NLSQL API
// @version 1.0
// @description Text-to-SQL service with a semantic query cache, SQL safety validation, schema discovery and table vectorization.

// @host localhost:8000
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and an API token from GET /api/token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting NLSQL service")

	// Metadata database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to metadata database", zap.Error(err))
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Vector store: remote when reachable, embedded otherwise
	store, err := vectorstore.Connect(ctx, &cfg.VectorStore, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open vector store", zap.Error(err))
	}
	defer store.Close()

	// LLM provider serves both generation and embeddings
	generator, embedder, err := llm.New(ctx, &cfg.LLM, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM client", zap.Error(err))
	}
	defer generator.Close()

	cipher, err := secrets.NewCipher(cfg.Security.CredentialsKey)
	if err != nil {
		appLogger.Fatal("Failed to initialize credentials cipher", zap.Error(err))
	}

	// Repositories
	connectionRepo := repository.NewConnectionRepository(db, appLogger)
	tableRepo := repository.NewTableConfigRepository(db, appLogger)
	jobRepo := repository.NewJobRepository(db, appLogger)

	// Semantic query cache
	var qcache *cache.QueryCache
	if cfg.Cache.Enabled {
		qcache, err = cache.New(ctx, store, cfg.Cache.Collection, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize query cache", zap.Error(err))
		}
	} else {
		appLogger.Info("Semantic query cache disabled")
	}

	tokens := auth.NewTokenManager(cfg.Security.TokenSecret, cfg.Security.TokenTTL)
	if !tokens.Enabled() {
		appLogger.Warn("TOKEN_SECRET not set, mutating endpoints are unprotected")
	}

	guard := sqlguard.New()

	// Services
	textToSQL := service.NewTextToSQLService(
		generator, embedder, qcache, guard, connectionRepo, cipher, db, cfg, appLogger)
	discovery := service.NewDiscoveryService(
		connectionRepo, tableRepo, cipher, &cfg.Vectorization, embedder.ModelName(), appLogger)
	vectorization := service.NewVectorizationService(
		jobRepo, tableRepo, connectionRepo, store, embedder, cipher, &cfg.Vectorization, appLogger)

	// Handlers
	queryHandler := handlers.NewQueryHandler(textToSQL, cfg, appLogger)
	connectionHandler := handlers.NewConnectionHandler(discovery, appLogger)
	vectorizationHandler := handlers.NewVectorizationHandler(vectorization, appLogger)
	tokenHandler := handlers.NewTokenHandler(tokens, appLogger)

	app := api.SetupRouter(
		&cfg.Server, queryHandler, connectionHandler, vectorizationHandler,
		tokenHandler, tokens, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
