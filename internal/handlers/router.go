package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/placement-copilot/internal/config"
	"alfredoptarigan/placement-copilot/internal/models"
	"alfredoptarigan/placement-copilot/internal/services"
)

type Dependencies struct {
	Config   *config.Config
	Registry *services.WorkspaceRegistry
	Auth     services.AuthService
	Intake   services.FileIntake
}

// NewApp builds the Fiber application with every route installed.
func NewApp(deps Dependencies) *fiber.App {
	cfg := deps.Config

	app := fiber.New(fiber.Config{
		AppName:      "AI Placement Copilot",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		// Leave room above the file ceiling so an oversized upload reaches
		// the workflow and gets its own message.
		BodyLimit:    int(2*cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: newErrorHandler(cfg.Storage.MaxFileSize),
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Auth.PublicURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Health check stays ahead of the workspace middleware.
	app.Get("/api/v1/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	secure := cfg.Server.Env == "production"
	app.Use(WorkspaceMiddleware(deps.Registry, secure))

	pages := NewPageHandler()
	authHandler := NewAuthHandler(deps.Auth, cfg.Auth.TokenTTL, secure)
	analysisHandler := NewAnalysisHandler(deps.Intake)
	jobHandler := NewJobHandler()
	candidateHandler := NewCandidateHandler()

	// Public views
	app.Get("/", pages.HandleLanding)
	app.Get("/about", pages.HandleAbout)
	app.Get("/contact", pages.HandleContact)
	app.Get("/signin", pages.HandleAuthView)
	app.Get("/signup", pages.HandleAuthView)
	app.Get("/verify", pages.HandleVerifyView)
	app.Get("/auth/verify", authHandler.HandleVerifyEmail)

	// Gated views
	student := app.Group("/student", RequireRole(models.RoleStudent, true))
	student.Get("/", pages.HandleStudentView)
	student.Get("/*", pages.HandleStudentView)

	hr := app.Group("/hr", RequireRole(models.RoleHR, true))
	hr.Get("/", pages.HandleHRView)
	hr.Get("/*", pages.HandleHRView)

	api := app.Group("/api/v1")
	api.Get("/session", pages.HandleSession)

	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.HandleSignUp)
	auth.Post("/signin", authHandler.HandleSignIn)
	auth.Post("/signout", authHandler.HandleSignOut)
	auth.Post("/verification", authHandler.HandleResendVerification)

	studentAPI := api.Group("/student", RequireRole(models.RoleStudent, false))
	studentAPI.Get("/analysis", analysisHandler.HandleGetAnalysis)
	studentAPI.Delete("/analysis", analysisHandler.HandleResetAnalysis)
	studentAPI.Delete("/analysis/error", analysisHandler.HandleDismissError)
	studentAPI.Post("/analysis/file", analysisHandler.HandleSelectFile)
	studentAPI.Post("/analysis/text", analysisHandler.HandleSetText)
	studentAPI.Post("/analysis/submit", analysisHandler.HandleSubmit)
	studentAPI.Get("/jobs", jobHandler.HandleListJobs)
	studentAPI.Post("/jobs/:id/match", jobHandler.HandleSelectJob)
	studentAPI.Get("/match", jobHandler.HandleGetMatch)
	studentAPI.Delete("/match/error", jobHandler.HandleDismissMatchError)

	hrAPI := api.Group("/hr", RequireRole(models.RoleHR, false))
	hrAPI.Get("/candidates", candidateHandler.HandleListCandidates)
	hrAPI.Get("/candidates/:id", candidateHandler.HandleGetCandidate)

	app.Use(redirectUnknown)

	return app
}

// newErrorHandler renders errors as JSON. A body over BodyLimit never reaches
// the upload handler, so it gets the same message as an oversized file.
func newErrorHandler(maxFileSize int64) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}

		message := err.Error()
		if code == fiber.StatusRequestEntityTooLarge {
			message = services.FileTooLargeMessage(maxFileSize)
		}

		return c.Status(code).JSON(fiber.Map{
			"error": message,
			"code":  code,
		})
	}
}
