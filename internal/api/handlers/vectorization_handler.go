package handlers

import (
	"context"

	"nlsql/internal/dto"
	"nlsql/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type VectorizationHandler struct {
	svc    *service.VectorizationService
	logger *zap.Logger
}

func NewVectorizationHandler(svc *service.VectorizationService, logger *zap.Logger) *VectorizationHandler {
	return &VectorizationHandler{
		svc:    svc,
		logger: logger,
	}
}

// StartJob godoc
// @Summary Create a vectorization job for a table config
// @Description Registers a pending job; at most one active job per table config
// @Tags vectorization
// @Produce json
// @Param id path string true "Table config ID"
// @Security Bearer
// @Success 201 {object} dto.JobResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/vectorize/{id}/start [post]
func (h *VectorizationHandler) StartJob(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid table config ID",
		})
	}

	job, err := h.svc.StartJob(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, "Failed to start vectorization job", err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.JobFromModel(job))
}

// ProcessJob godoc
// @Summary Run a pending vectorization job
// @Description Kicks off processing in the background and returns immediately
// @Tags vectorization
// @Produce json
// @Param id path string true "Job ID"
// @Security Bearer
// @Success 202 {object} dto.JobResponse
// @Failure 404 {object} map[string]string
// @Router /api/vectorize/jobs/{id}/process [post]
func (h *VectorizationHandler) ProcessJob(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID",
		})
	}

	job, err := h.svc.JobStatus(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, "Failed to load job", err)
	}

	// The request context dies with this response; the job must not.
	go func() {
		if err := h.svc.ProcessJob(context.Background(), id); err != nil {
			h.logger.Error("Vectorization job failed",
				zap.String("job_id", id.String()), zap.Error(err))
		}
	}()

	return c.Status(fiber.StatusAccepted).JSON(dto.JobFromModel(job))
}

// JobStatus godoc
// @Summary Vectorization job status and progress
// @Tags vectorization
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} dto.JobResponse
// @Failure 404 {object} map[string]string
// @Router /api/vectorize/jobs/{id} [get]
func (h *VectorizationHandler) JobStatus(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID",
		})
	}

	job, err := h.svc.JobStatus(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, "Failed to load job", err)
	}
	return c.JSON(dto.JobFromModel(job))
}

// ListJobs godoc
// @Summary List recent vectorization jobs
// @Tags vectorization
// @Produce json
// @Param limit query int false "Limit" default(20)
// @Success 200 {array} dto.JobResponse
// @Router /api/vectorize/jobs [get]
func (h *VectorizationHandler) ListJobs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)

	jobs, err := h.svc.RecentJobs(c.Context(), limit)
	if err != nil {
		return respondError(c, h.logger, "Failed to list jobs", err)
	}
	return c.JSON(dto.JobsFromModels(jobs))
}

// CancelJob godoc
// @Summary Cancel a pending or running vectorization job
// @Description A running worker stops at the next batch boundary
// @Tags vectorization
// @Produce json
// @Param id path string true "Job ID"
// @Security Bearer
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/vectorize/jobs/{id}/cancel [post]
func (h *VectorizationHandler) CancelJob(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID",
		})
	}

	if err := h.svc.CancelJob(c.Context(), id); err != nil {
		return respondError(c, h.logger, "Failed to cancel job", err)
	}
	return c.JSON(fiber.Map{"status": "cancelled"})
}

// Search godoc
// @Summary Similarity search over a vectorized table
// @Tags search
// @Accept json
// @Produce json
// @Param id path string true "Table config ID"
// @Param request body dto.SearchRequest true "Query text"
// @Success 200 {array} models.SearchResult
// @Failure 404 {object} map[string]string
// @Router /api/search/{id} [post]
func (h *VectorizationHandler) Search(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid table config ID",
		})
	}

	var req dto.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query is required",
		})
	}

	results, err := h.svc.Search(c.Context(), id, req.Query, req.Limit)
	if err != nil {
		return respondError(c, h.logger, "Failed to search", err)
	}
	return c.JSON(results)
}
