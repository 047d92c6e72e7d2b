package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/placement-copilot/internal/catalog"
	"alfredoptarigan/placement-copilot/internal/models"
	"alfredoptarigan/placement-copilot/internal/services"
)

type NavLink struct {
	Label  string `json:"label"`
	Path   string `json:"path"`
	Active bool   `json:"active"`
}

// PageHandler renders the views as JSON documents.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) HandleLanding(c *fiber.Ctx) error {
	return h.render(c, "landing", fiber.Map{
		"title":   "AI Placement Copilot",
		"tagline": "AI-Powered Career Intelligence",
		"features": []fiber.Map{
			{"title": "Resume Analysis", "description": "Scores, skills and feedback from a single upload."},
			{"title": "Market Alignment", "description": "See how your profile fits the roles you want."},
			{"title": "Smart Matching", "description": "HR tools that surface the right talent through multi-faceted filtering."},
		},
		"entry_points": []fiber.Map{
			{"label": "I'm a Candidate", "path": services.PathSignIn + "?role=student", "role": models.RoleStudent},
			{"label": "I'm an HR Professional", "path": services.PathSignIn + "?role=hr", "role": models.RoleHR},
		},
	})
}

func (h *PageHandler) HandleAbout(c *fiber.Ctx) error {
	return h.render(c, "about", fiber.Map{
		"title": "About AI Placement Copilot",
	})
}

func (h *PageHandler) HandleContact(c *fiber.Ctx) error {
	return h.render(c, "contact", fiber.Map{
		"title":        "Get in Touch",
		"email":        "support@aiplacement.com",
		"phone":        "+1 (555) 123-4567",
		"availability": "Available 24/7",
	})
}

// HandleAuthView serves /signin and /signup. A verified session with a role
// goes straight to its home; an unverified one sees the pending screen.
func (h *PageHandler) HandleAuthView(c *fiber.Ctx) error {
	ws := workspaceFrom(c)
	session := ws.Session.Snapshot()

	if session.Loading {
		return loadingView(c)
	}
	if id := session.Identity; id != nil {
		if !id.EmailVerified {
			return h.render(c, "verify-email", fiber.Map{"email": id.Email})
		}
		if role := ws.Session.TrustedRole(); role != models.RoleNone {
			return c.Redirect(services.HomeFor(role), fiber.StatusFound)
		}
	}

	role := models.Role(c.Query("role"))
	if !role.Valid() {
		role = models.RoleStudent
	}
	view := strings.TrimPrefix(c.Path(), "/")
	return h.render(c, view, fiber.Map{"role": role})
}

// HandleVerifyView serves the verification pending screen.
func (h *PageHandler) HandleVerifyView(c *fiber.Ctx) error {
	ws := workspaceFrom(c)
	session := ws.Session.Snapshot()

	switch {
	case session.Loading:
		return loadingView(c)
	case session.Identity == nil:
		return c.Redirect(services.PathSignIn, fiber.StatusFound)
	case session.Identity.EmailVerified:
		role := ws.Session.TrustedRole()
		if role == models.RoleNone {
			return c.Redirect(services.PathSignIn, fiber.StatusFound)
		}
		return c.Redirect(services.HomeFor(role), fiber.StatusFound)
	}

	return h.render(c, "verify-email", fiber.Map{
		"email":   session.Identity.Email,
		"message": "We have sent you a verification email. Please verify it and log in.",
	})
}

func (h *PageHandler) HandleStudentView(c *fiber.Ctx) error {
	ws := workspaceFrom(c)

	view := "student-dashboard"
	if strings.HasPrefix(c.Path(), services.PathStudentHome+"/resume") {
		view = "student-resume"
	}
	return h.render(c, view, fiber.Map{
		"analysis": ws.Analysis.Snapshot(),
		"match":    ws.Match.Snapshot(),
	})
}

func (h *PageHandler) HandleHRView(c *fiber.Ctx) error {
	view := "hr-dashboard"
	if strings.HasPrefix(c.Path(), services.PathHRHome+"/analytics") {
		view = "hr-analytics"
	}

	candidates := catalog.Candidates()
	return h.render(c, view, fiber.Map{
		"title":      "Candidate Pipeline",
		"candidates": candidates,
		"branches":   catalog.Branches,
		"stats":      pipelineStats(candidates),
	})
}

// HandleSession handles GET /api/v1/session
func (h *PageHandler) HandleSession(c *fiber.Ctx) error {
	ws := workspaceFrom(c)
	session := ws.Session.Snapshot()

	return c.JSON(fiber.Map{
		"session": session,
		"home":    services.HomeFor(ws.Session.TrustedRole()),
		"access": fiber.Map{
			string(models.RoleStudent): services.Authorize(session, models.RoleStudent),
			string(models.RoleHR):      services.Authorize(session, models.RoleHR),
		},
	})
}

func (h *PageHandler) render(c *fiber.Ctx, view string, data fiber.Map) error {
	ws := workspaceFrom(c)
	return c.JSON(fiber.Map{
		"view":    view,
		"path":    c.Path(),
		"session": ws.Session.Snapshot(),
		"nav":     navLinks(c.Path(), ws.Session.TrustedRole()),
		"data":    data,
	})
}

func loadingView(c *fiber.Ctx) error {
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "loading",
	})
}

// navLinks mirrors the header: public links always, role links only off the
// landing page.
func navLinks(path string, role models.Role) []NavLink {
	links := []NavLink{
		{Label: "Home", Path: services.PathLanding},
		{Label: "About", Path: "/about"},
		{Label: "Contact", Path: "/contact"},
	}

	if path != services.PathLanding {
		switch role {
		case models.RoleStudent:
			links = append(links,
				NavLink{Label: "Dashboard", Path: services.PathStudentHome},
				NavLink{Label: "Resume", Path: services.PathStudentHome + "/resume"},
			)
		case models.RoleHR:
			links = append(links,
				NavLink{Label: "Candidates", Path: services.PathHRHome},
				NavLink{Label: "Analytics", Path: services.PathHRHome + "/analytics"},
			)
		}
	}

	for i := range links {
		links[i].Active = links[i].Path == path
	}
	return links
}

func pipelineStats(candidates []models.CandidateRecord) fiber.Map {
	byStatus := make(map[models.CandidateStatus]int)
	total := 0
	for _, c := range candidates {
		byStatus[c.Status]++
		total += c.Score
	}

	average := 0
	if len(candidates) > 0 {
		average = total / len(candidates)
	}
	return fiber.Map{
		"total":         len(candidates),
		"average_score": average,
		"by_status":     byStatus,
	}
}
