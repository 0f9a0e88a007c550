package handlers

import (
	"nlsql/internal/dto"
	"nlsql/internal/models"
	"nlsql/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ConnectionHandler struct {
	discovery *service.DiscoveryService
	logger    *zap.Logger
}

func NewConnectionHandler(discovery *service.DiscoveryService, logger *zap.Logger) *ConnectionHandler {
	return &ConnectionHandler{
		discovery: discovery,
		logger:    logger,
	}
}

// CreateConnection godoc
// @Summary Register a source database connection
// @Description Probes the database before saving; credentials are stored encrypted
// @Tags connections
// @Accept json
// @Produce json
// @Param request body dto.CreateConnectionRequest true "Connection details"
// @Security Bearer
// @Success 201 {object} dto.ConnectionResponse
// @Failure 400 {object} map[string]string
// @Router /api/connections [post]
func (h *ConnectionHandler) CreateConnection(c *fiber.Ctx) error {
	var req dto.CreateConnectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	conn := &models.DatabaseConnection{
		Name:             req.Name,
		DBType:           models.DBType(req.DBType),
		Host:             req.Host,
		Port:             req.Port,
		DatabaseName:     req.DatabaseName,
		Username:         req.Username,
		ConnectionParams: req.ConnectionParams,
	}
	if err := h.discovery.CreateConnection(c.Context(), conn, req.Password); err != nil {
		h.logger.Warn("Connection registration rejected", zap.String("name", req.Name), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.ConnectionFromModel(conn))
}

// ListConnections godoc
// @Summary List registered connections
// @Tags connections
// @Produce json
// @Param include_inactive query bool false "Include deactivated connections"
// @Success 200 {array} dto.ConnectionResponse
// @Router /api/connections [get]
func (h *ConnectionHandler) ListConnections(c *fiber.Ctx) error {
	includeInactive := c.QueryBool("include_inactive", false)

	conns, err := h.discovery.ListConnections(c.Context(), includeInactive)
	if err != nil {
		return respondError(c, h.logger, "Failed to list connections", err)
	}
	return c.JSON(dto.ConnectionsFromModels(conns))
}

// TestConnection godoc
// @Summary Probe a registered connection
// @Description Opens the source database and pings it, recording the outcome
// @Tags connections
// @Produce json
// @Param id path string true "Connection ID"
// @Success 200 {object} service.TestResult
// @Failure 404 {object} map[string]string
// @Router /api/connections/{id}/test [get]
func (h *ConnectionHandler) TestConnection(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid connection ID",
		})
	}

	result, err := h.discovery.TestConnection(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, "Failed to test connection", err)
	}
	return c.JSON(result)
}

// DeactivateConnection godoc
// @Summary Deactivate a connection
// @Description Soft delete: job history and table configs stay intact
// @Tags connections
// @Produce json
// @Param id path string true "Connection ID"
// @Security Bearer
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/connections/{id} [delete]
func (h *ConnectionHandler) DeactivateConnection(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid connection ID",
		})
	}

	if err := h.discovery.DeactivateConnection(c.Context(), id); err != nil {
		return respondError(c, h.logger, "Failed to deactivate connection", err)
	}
	return c.JSON(fiber.Map{"status": "deactivated"})
}

// DiscoverSchema godoc
// @Summary Analyze a source database schema
// @Description Profiles every table for vectorization potential
// @Tags discovery
// @Produce json
// @Param id path string true "Connection ID"
// @Security Bearer
// @Success 200 {object} models.SchemaReport
// @Failure 404 {object} map[string]string
// @Router /api/discovery/{id} [post]
func (h *ConnectionHandler) DiscoverSchema(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid connection ID",
		})
	}

	report, err := h.discovery.DiscoverSchema(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, "Failed to discover schema", err)
	}
	return c.JSON(report)
}

// AutoConfigureTable godoc
// @Summary Create a table config from discovery recommendations
// @Description Analyzes one table and persists the recommended strategy and column settings
// @Tags discovery
// @Produce json
// @Param id path string true "Connection ID"
// @Param table path string true "Table name"
// @Security Bearer
// @Success 201 {object} dto.TableConfigResponse
// @Failure 404 {object} map[string]string
// @Router /api/discovery/{id}/tables/{table}/auto-configure [post]
func (h *ConnectionHandler) AutoConfigureTable(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid connection ID",
		})
	}
	table := c.Params("table")
	if table == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Table name is required",
		})
	}

	cfg, err := h.discovery.AutoConfigureTable(c.Context(), id, table)
	if err != nil {
		return respondError(c, h.logger, "Failed to configure table", err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TableConfigFromModel(cfg))
}
