package handlers

import (
	"nlsql/internal/dto"
	"nlsql/internal/service"
	"nlsql/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type QueryHandler struct {
	svc    *service.TextToSQLService
	cfg    *config.Config
	logger *zap.Logger
}

func NewQueryHandler(svc *service.TextToSQLService, cfg *config.Config, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{
		svc:    svc,
		cfg:    cfg,
		logger: logger,
	}
}

// readonly resolves the effective policy for one request. The server-wide
// default applies unless the request overrides it.
func (h *QueryHandler) readonly(override *bool) bool {
	if override != nil {
		return *override
	}
	return h.cfg.LLM.Readonly
}

// TextToSQL godoc
// @Summary Convert a natural language question to SQL
// @Description Generate validated SQL from a question, consulting the semantic cache first
// @Tags query
// @Accept json
// @Produce json
// @Param request body dto.TextToSQLRequest true "Question"
// @Success 200 {object} service.QueryResult
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/text-to-sql [post]
func (h *QueryHandler) TextToSQL(c *fiber.Ctx) error {
	var req dto.TextToSQLRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Question is required",
		})
	}

	result, err := h.svc.ProcessQuestion(c.Context(), req.Question, h.readonly(req.ReadonlyMode))
	if err != nil {
		return respondError(c, h.logger, "Failed to process question", err)
	}
	return c.JSON(result)
}

// ExecuteSQL godoc
// @Summary Execute SQL against a registered connection
// @Description Validate the statement, then run it on the source database. Execution failures are reported in the body, not as HTTP errors.
// @Tags query
// @Accept json
// @Produce json
// @Param request body dto.ExecuteSQLRequest true "SQL and target connection"
// @Security Bearer
// @Success 200 {object} service.ExecResult
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/execute-sql [post]
func (h *QueryHandler) ExecuteSQL(c *fiber.Ctx) error {
	var req dto.ExecuteSQLRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	connectionID, err := uuid.Parse(req.ConnectionID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid connection ID",
		})
	}

	result, err := h.svc.ExecuteSQL(c.Context(), connectionID, req.SQL, h.readonly(req.ReadonlyMode))
	if err != nil {
		return respondError(c, h.logger, "Failed to execute SQL", err)
	}
	return c.JSON(result)
}

// TextToSQLAndExecute godoc
// @Summary Convert a question to SQL and execute it
// @Description One round trip: generate and validate SQL, then run it on the source database
// @Tags query
// @Accept json
// @Produce json
// @Param request body dto.TextToSQLExecuteRequest true "Question and target connection"
// @Security Bearer
// @Success 200 {object} dto.TextToSQLExecuteResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/text-to-sql-and-execute [post]
func (h *QueryHandler) TextToSQLAndExecute(c *fiber.Ctx) error {
	var req dto.TextToSQLExecuteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Question is required",
		})
	}
	connectionID, err := uuid.Parse(req.ConnectionID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid connection ID",
		})
	}

	readonly := h.readonly(req.ReadonlyMode)
	generation, err := h.svc.ProcessQuestion(c.Context(), req.Question, readonly)
	if err != nil {
		return respondError(c, h.logger, "Failed to process question", err)
	}

	resp := dto.TextToSQLExecuteResponse{Generation: generation}
	if generation.IsValid {
		execution, err := h.svc.ExecuteSQL(c.Context(), connectionID, generation.SQL, readonly)
		if err != nil {
			return respondError(c, h.logger, "Failed to execute SQL", err)
		}
		resp.Execution = execution
	}
	return c.JSON(resp)
}

// ExplainSQL godoc
// @Summary Explain a SQL query in plain language
// @Tags query
// @Accept json
// @Produce json
// @Param request body dto.ExplainSQLRequest true "SQL to explain"
// @Success 200 {object} dto.ExplainSQLResponse
// @Failure 400 {object} map[string]string
// @Router /api/explain-sql [post]
func (h *QueryHandler) ExplainSQL(c *fiber.Ctx) error {
	var req dto.ExplainSQLRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	explanation, err := h.svc.ExplainSQL(c.Context(), req.SQL)
	if err != nil {
		return respondError(c, h.logger, "Failed to explain SQL", err)
	}
	return c.JSON(dto.ExplainSQLResponse{SQL: req.SQL, Explanation: explanation})
}

// ValidateSQL godoc
// @Summary Validate a SQL query locally
// @Description Runs the lexer-based validator only; no model calls are made
// @Tags query
// @Accept json
// @Produce json
// @Param request body dto.ValidateSQLRequest true "SQL to validate"
// @Success 200 {object} sqlguard.ValidationResult
// @Failure 400 {object} map[string]string
// @Router /api/validate-sql [post]
func (h *QueryHandler) ValidateSQL(c *fiber.Ctx) error {
	var req dto.ValidateSQLRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	return c.JSON(h.svc.Validate(req.SQL, h.readonly(req.ReadonlyMode)))
}

// ValidateSQLWithLLM godoc
// @Summary Validate a SQL query, correcting it with the LLM when needed
// @Description Local validation runs first; only failing statements are sent to the model for correction
// @Tags query
// @Accept json
// @Produce json
// @Param request body dto.ValidateSQLRequest true "SQL to validate"
// @Success 200 {object} service.LLMValidation
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/validate-sql-with-llm [post]
func (h *QueryHandler) ValidateSQLWithLLM(c *fiber.Ctx) error {
	var req dto.ValidateSQLRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := h.svc.ValidateWithLLM(c.Context(), req.SQL, h.readonly(req.ReadonlyMode))
	if err != nil {
		return respondError(c, h.logger, "Failed to validate SQL", err)
	}
	return c.JSON(result)
}

// CacheStats godoc
// @Summary Semantic cache statistics
// @Tags cache
// @Produce json
// @Success 200 {object} cache.Stats
// @Failure 409 {object} map[string]string
// @Router /api/cache/stats [get]
func (h *QueryHandler) CacheStats(c *fiber.Ctx) error {
	stats, err := h.svc.CacheStats(c.Context())
	if err != nil {
		return respondError(c, h.logger, "Failed to read cache stats", err)
	}
	return c.JSON(stats)
}

// CacheEntries godoc
// @Summary List cached question/SQL pairs
// @Tags cache
// @Produce json
// @Param limit query int false "Limit" default(50)
// @Success 200 {array} cache.Entry
// @Failure 409 {object} map[string]string
// @Router /api/cache/entries [get]
func (h *QueryHandler) CacheEntries(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)

	entries, err := h.svc.CacheEntries(c.Context(), limit)
	if err != nil {
		return respondError(c, h.logger, "Failed to list cache entries", err)
	}
	return c.JSON(entries)
}

// RemoveCacheEntry godoc
// @Summary Delete one cached entry
// @Tags cache
// @Produce json
// @Param id path string true "Cache entry ID"
// @Security Bearer
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/cache/entries/{id} [delete]
func (h *QueryHandler) RemoveCacheEntry(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Entry ID is required",
		})
	}

	if err := h.svc.RemoveCacheEntry(c.Context(), id); err != nil {
		return respondError(c, h.logger, "Failed to remove cache entry", err)
	}
	return c.JSON(fiber.Map{"status": "removed"})
}

// ClearCache godoc
// @Summary Empty the semantic cache
// @Tags cache
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/cache/clear [post]
func (h *QueryHandler) ClearCache(c *fiber.Ctx) error {
	if err := h.svc.ClearCache(c.Context()); err != nil {
		return respondError(c, h.logger, "Failed to clear cache", err)
	}
	return c.JSON(fiber.Map{"status": "cleared"})
}

// Health godoc
// @Summary Component health
// @Description Probes the LLM, embeddings, cache and metadata database independently
// @Tags system
// @Produce json
// @Success 200 {object} service.HealthReport
// @Router /health [get]
func (h *QueryHandler) Health(c *fiber.Ctx) error {
	return c.JSON(h.svc.Health(c.Context()))
}
