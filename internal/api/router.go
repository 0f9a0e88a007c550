package api

import (
	"nlsql/docs"
	"nlsql/internal/api/handlers"
	"nlsql/pkg/auth"
	"nlsql/pkg/config"
	"nlsql/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func SetupRouter(
	serverCfg *config.ServerConfig,
	queryHandler *handlers.QueryHandler,
	connectionHandler *handlers.ConnectionHandler,
	vectorizationHandler *handlers.VectorizationHandler,
	tokenHandler *handlers.TokenHandler,
	tokens *auth.TokenManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Token",
	}))
	app.Use(logger.New())

	_ = docs.SwaggerInfo // ensure docs package is imported and init() is called
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", queryHandler.Health)

	api := app.Group("/api")
	api.Get("/token", tokenHandler.Issue)

	// RequireToken is a no-op when no secret is configured; main logs a
	// warning about running unprotected in that case.
	guarded := middleware.RequireToken(tokens, appLogger)

	// Query endpoints
	api.Post("/text-to-sql", queryHandler.TextToSQL)
	api.Post("/execute-sql", guarded, queryHandler.ExecuteSQL)
	api.Post("/text-to-sql-and-execute", guarded, queryHandler.TextToSQLAndExecute)
	api.Post("/explain-sql", queryHandler.ExplainSQL)
	api.Post("/validate-sql", queryHandler.ValidateSQL)
	api.Post("/validate-sql-with-llm", queryHandler.ValidateSQLWithLLM)

	// Semantic cache administration
	cache := api.Group("/cache")
	cache.Get("/stats", queryHandler.CacheStats)
	cache.Get("/entries", queryHandler.CacheEntries)
	cache.Delete("/entries/:id", guarded, queryHandler.RemoveCacheEntry)
	cache.Post("/clear", guarded, queryHandler.ClearCache)

	// Source database registry
	connections := api.Group("/connections")
	connections.Post("", guarded, connectionHandler.CreateConnection)
	connections.Get("", connectionHandler.ListConnections)
	connections.Get("/:id/test", connectionHandler.TestConnection)
	connections.Delete("/:id", guarded, connectionHandler.DeactivateConnection)

	// Schema discovery
	discovery := api.Group("/discovery")
	discovery.Post("/:id", guarded, connectionHandler.DiscoverSchema)
	discovery.Post("/:id/tables/:table/auto-configure", guarded, connectionHandler.AutoConfigureTable)

	// Vectorization jobs. The static jobs routes are registered before the
	// :id routes so "jobs" never binds as a table config ID.
	vectorize := api.Group("/vectorize")
	vectorize.Get("/jobs", vectorizationHandler.ListJobs)
	vectorize.Get("/jobs/:id", vectorizationHandler.JobStatus)
	vectorize.Post("/jobs/:id/process", guarded, vectorizationHandler.ProcessJob)
	vectorize.Post("/jobs/:id/cancel", guarded, vectorizationHandler.CancelJob)
	vectorize.Post("/:id/start", guarded, vectorizationHandler.StartJob)

	// Similarity search over vectorized tables
	api.Post("/search/:id", vectorizationHandler.Search)

	return app
}
