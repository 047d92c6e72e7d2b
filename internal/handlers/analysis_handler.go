package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/placement-copilot/internal/models"
	"alfredoptarigan/placement-copilot/internal/services"
)

type AnalysisHandler struct {
	intake services.FileIntake
}

func NewAnalysisHandler(intake services.FileIntake) *AnalysisHandler {
	return &AnalysisHandler{intake: intake}
}

// HandleGetAnalysis handles GET /api/v1/student/analysis
func (h *AnalysisHandler) HandleGetAnalysis(c *fiber.Ctx) error {
	return c.JSON(workspaceFrom(c).Analysis.Snapshot())
}

// HandleSelectFile handles POST /api/v1/student/analysis/file
func (h *AnalysisHandler) HandleSelectFile(c *fiber.Ctx) error {
	ws := workspaceFrom(c)

	header, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume file is required",
		})
	}

	file, err := h.intake.Read(header)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedFile) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unsupported file type. Please upload a PDF, DOCX or TXT file.",
			})
		}
		log.Printf("❌ Failed to read upload %s: %v\n", header.Filename, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read the uploaded file",
		})
	}

	if err := ws.Analysis.SelectFile(file); err != nil {
		return workflowError(c, err, ws.Analysis.Snapshot())
	}
	return c.JSON(ws.Analysis.Snapshot())
}

// HandleSetText handles POST /api/v1/student/analysis/text
func (h *AnalysisHandler) HandleSetText(c *fiber.Ctx) error {
	ws := workspaceFrom(c)

	var req models.PasteTextRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := ws.Analysis.SetText(req.Text); err != nil {
		return workflowError(c, err, ws.Analysis.Snapshot())
	}
	return c.JSON(ws.Analysis.Snapshot())
}

// HandleSubmit handles POST /api/v1/student/analysis/submit. It returns as
// soon as the analysis is queued; clients poll the snapshot.
func (h *AnalysisHandler) HandleSubmit(c *fiber.Ctx) error {
	ws := workspaceFrom(c)

	if err := ws.Analysis.Submit(); err != nil {
		return workflowError(c, err, ws.Analysis.Snapshot())
	}
	return c.Status(fiber.StatusAccepted).JSON(ws.Analysis.Snapshot())
}

// HandleResetAnalysis handles DELETE /api/v1/student/analysis
func (h *AnalysisHandler) HandleResetAnalysis(c *fiber.Ctx) error {
	ws := workspaceFrom(c)

	if err := ws.Analysis.Reset(); err != nil {
		return workflowError(c, err, ws.Analysis.Snapshot())
	}
	return c.JSON(ws.Analysis.Snapshot())
}

// HandleDismissError handles DELETE /api/v1/student/analysis/error
func (h *AnalysisHandler) HandleDismissError(c *fiber.Ctx) error {
	ws := workspaceFrom(c)
	ws.Analysis.DismissError()
	return c.JSON(ws.Analysis.Snapshot())
}

// workflowError maps a refused workflow operation to a status and returns
// the current state next to the message.
func workflowError(c *fiber.Ctx, err error, state interface{}) error {
	status := fiber.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.Is(err, services.ErrFileTooLarge):
		status = fiber.StatusRequestEntityTooLarge
		if view, ok := state.(services.AnalysisView); ok && view.Error != "" {
			message = view.Error
		}
	case errors.Is(err, services.ErrEmptyFile), errors.Is(err, services.ErrNoInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrAnalysisInFlight), errors.Is(err, services.ErrAnalysisComplete):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrMatchUnavailable):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrJobNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrQueueFull), errors.Is(err, services.ErrWorkerStopped):
		status = fiber.StatusServiceUnavailable
		message = "The service is busy. Please try again."
	default:
		log.Printf("❌ Workflow operation failed: %v\n", err)
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"state": state,
	})
}
