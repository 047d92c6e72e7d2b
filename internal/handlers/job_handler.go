package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/placement-copilot/internal/catalog"
	"alfredoptarigan/placement-copilot/internal/models"
	"alfredoptarigan/placement-copilot/internal/services"
)

type JobHandler struct{}

func NewJobHandler() *JobHandler {
	return &JobHandler{}
}

// HandleListJobs handles GET /api/v1/student/jobs
func (h *JobHandler) HandleListJobs(c *fiber.Ctx) error {
	var filter models.JobFilter
	if err := c.QueryParser(&filter); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid filter",
		})
	}

	jobs := services.FilterJobs(catalog.Jobs(), filter)
	return c.JSON(fiber.Map{
		"jobs":  jobs,
		"count": len(jobs),
		"types": catalog.JobTypes,
	})
}

// HandleSelectJob handles POST /api/v1/student/jobs/:id/match
func (h *JobHandler) HandleSelectJob(c *fiber.Ctx) error {
	ws := workspaceFrom(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job id",
		})
	}

	if err := ws.Match.Select(id); err != nil {
		return workflowError(c, err, ws.Match.Snapshot())
	}
	return c.Status(fiber.StatusAccepted).JSON(ws.Match.Snapshot())
}

// HandleGetMatch handles GET /api/v1/student/match
func (h *JobHandler) HandleGetMatch(c *fiber.Ctx) error {
	return c.JSON(workspaceFrom(c).Match.Snapshot())
}

// HandleDismissMatchError handles DELETE /api/v1/student/match/error
func (h *JobHandler) HandleDismissMatchError(c *fiber.Ctx) error {
	ws := workspaceFrom(c)
	ws.Match.DismissError()
	return c.JSON(ws.Match.Snapshot())
}
