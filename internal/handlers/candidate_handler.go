package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/placement-copilot/internal/catalog"
	"alfredoptarigan/placement-copilot/internal/services"
)

type CandidateHandler struct{}

func NewCandidateHandler() *CandidateHandler {
	return &CandidateHandler{}
}

// HandleListCandidates handles GET /api/v1/hr/candidates
func (h *CandidateHandler) HandleListCandidates(c *fiber.Ctx) error {
	candidates := services.FilterCandidates(catalog.Candidates(), c.Query("q"), c.Query("branch"))
	return c.JSON(fiber.Map{
		"candidates": candidates,
		"count":      len(candidates),
		"branches":   catalog.Branches,
	})
}

// HandleGetCandidate handles GET /api/v1/hr/candidates/:id
func (h *CandidateHandler) HandleGetCandidate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate id",
		})
	}

	detail, err := services.CandidateDetail(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate not found",
		})
	}
	return c.JSON(detail)
}
