package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/placement-copilot/internal/models"
	"alfredoptarigan/placement-copilot/internal/services"
)

const (
	clientCookie  = "client_id"
	sessionCookie = "session"
	workspaceKey  = "workspace"
)

// WorkspaceMiddleware attaches the caller's workspace, handing out a new
// client id to browsers that have none.
func WorkspaceMiddleware(registry *services.WorkspaceRegistry, secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientID := c.Cookies(clientCookie)
		if _, err := uuid.Parse(clientID); err != nil {
			clientID = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     clientCookie,
				Value:    clientID,
				Path:     "/",
				Expires:  time.Now().Add(365 * 24 * time.Hour),
				HTTPOnly: true,
				Secure:   secure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		ws, err := registry.Get(c.UserContext(), clientID, c.Cookies(sessionCookie))
		if err != nil {
			log.Printf("❌ Failed to load workspace for client %s: %v\n", clientID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load session")
		}

		c.Locals(workspaceKey, ws)
		return c.Next()
	}
}

// workspaceFrom returns the workspace WorkspaceMiddleware attached. Every
// route group is built behind that middleware, so a miss is a wiring bug.
func workspaceFrom(c *fiber.Ctx) *services.Workspace {
	ws, ok := c.Locals(workspaceKey).(*services.Workspace)
	if !ok || ws == nil {
		panic("handlers: route registered without WorkspaceMiddleware")
	}
	return ws
}

// RequireRole gates a route group on role. Views are redirected; API
// callers get the redirect target in a JSON error.
func RequireRole(role models.Role, view bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws := workspaceFrom(c)
		decision := services.Authorize(ws.Session.Snapshot(), role)

		switch decision.State {
		case services.AccessGranted:
			return c.Next()
		case services.AccessLoading:
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
				"status": "loading",
			})
		}

		if view {
			return c.Redirect(decision.Redirect, fiber.StatusFound)
		}

		status := fiber.StatusUnauthorized
		message := "Please sign in to continue"
		switch decision.State {
		case services.AccessUnverified:
			message = "Please verify your email to continue"
		case services.AccessWrongRole:
			status = fiber.StatusForbidden
			message = "This area is not available for your role"
		}
		return c.Status(status).JSON(fiber.Map{
			"error":    message,
			"state":    decision.State,
			"redirect": decision.Redirect,
		})
	}
}

// redirectUnknown sends every unmatched route to the landing view.
func redirectUnknown(c *fiber.Ctx) error {
	return c.Redirect(services.PathLanding, fiber.StatusFound)
}

func setSessionCookie(c *fiber.Ctx, token string, ttl time.Duration, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearSessionCookie(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
