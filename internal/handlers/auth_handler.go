package handlers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/placement-copilot/internal/models"
	"alfredoptarigan/placement-copilot/internal/services"
)

type AuthHandler struct {
	auth     services.AuthService
	tokenTTL time.Duration
	secure   bool
}

func NewAuthHandler(auth services.AuthService, tokenTTL time.Duration, secure bool) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		tokenTTL: tokenTTL,
		secure:   secure,
	}
}

// HandleSignUp handles POST /api/v1/auth/signup
func (h *AuthHandler) HandleSignUp(c *fiber.Ctx) error {
	var req models.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.Password != req.ConfirmPassword {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": services.SignUpMessage(services.ErrPasswordMismatch),
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err),
		})
	}

	ws := workspaceFrom(c)
	origin := c.BaseURL()
	result, err := h.auth.SignUp(c.UserContext(), ws.ClientID, req.Email, req.Password, continueURL(c))
	if err != nil {
		log.Printf("❌ Sign up failed: %v\n", err)
		status := fiber.StatusInternalServerError
		if services.AuthErrorCode(err) == services.CodeEmailInUse {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{
			"error": services.SignUpMessage(err),
		})
	}

	setSessionCookie(c, result.SessionToken, h.tokenTTL, h.secure)
	return c.Status(fiber.StatusCreated).JSON(models.AuthResponse{
		Identity:            result.Identity,
		Redirect:            services.PathVerify,
		VerificationPending: true,
		Message:             services.SignUpVerificationMessage(result.VerificationErr, origin),
	})
}

// HandleSignIn handles POST /api/v1/auth/signin. The chosen role is only
// stored once the identity's email is verified.
func (h *AuthHandler) HandleSignIn(c *fiber.Ctx) error {
	var req models.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err),
		})
	}

	ws := workspaceFrom(c)
	identity, token, err := h.auth.SignIn(c.UserContext(), ws.ClientID, req.Email, req.Password)
	if err != nil {
		status := fiber.StatusInternalServerError
		switch services.AuthErrorCode(err) {
		case services.CodeWrongPassword, services.CodeUserNotFound, services.CodeInvalidCredential:
			status = fiber.StatusUnauthorized
		}
		return c.Status(status).JSON(fiber.Map{
			"error": services.SignInMessage(err),
		})
	}

	setSessionCookie(c, token, h.tokenTTL, h.secure)

	if !identity.EmailVerified {
		return c.JSON(models.AuthResponse{
			Identity:            identity,
			Redirect:            services.PathVerify,
			VerificationPending: true,
		})
	}

	if err := ws.Session.SetRole(req.Role); err != nil {
		log.Printf("❌ Failed to store role for client %s: %v\n", ws.ClientID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": services.SignInMessage(err),
		})
	}

	return c.JSON(models.AuthResponse{
		Identity: identity,
		Role:     req.Role,
		Redirect: services.HomeFor(req.Role),
	})
}

// HandleSignOut handles POST /api/v1/auth/signout
func (h *AuthHandler) HandleSignOut(c *fiber.Ctx) error {
	ws := workspaceFrom(c)

	h.auth.SignOut(ws.ClientID)
	if err := ws.Session.SetRole(models.RoleNone); err != nil {
		log.Printf("⚠️  Failed to clear role for client %s: %v\n", ws.ClientID, err)
	}
	ws.Analysis.Discard()
	clearSessionCookie(c, h.secure)

	return c.JSON(models.AuthResponse{
		Redirect: services.PathSignIn,
	})
}

// HandleResendVerification handles POST /api/v1/auth/verification
func (h *AuthHandler) HandleResendVerification(c *fiber.Ctx) error {
	ws := workspaceFrom(c)

	err := h.auth.SendVerification(c.UserContext(), ws.ClientID, continueURL(c))
	if err != nil {
		log.Printf("❌ Resending verification failed: %v\n", err)
		status := fiber.StatusInternalServerError
		switch services.AuthErrorCode(err) {
		case services.CodeNoCurrentUser:
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":    "Please sign in to continue",
				"redirect": services.PathSignIn,
			})
		case services.CodeUnauthorizedContinueURI:
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{
			"error": services.VerificationMessage(err, c.BaseURL()),
		})
	}

	return c.JSON(models.AuthResponse{
		VerificationPending: true,
		Message:             "Verification email sent",
	})
}

// HandleVerifyEmail handles GET /auth/verify, the link in the verification
// email.
func (h *AuthHandler) HandleVerifyEmail(c *fiber.Ctx) error {
	if _, err := h.auth.VerifyEmail(c.UserContext(), c.Query("token")); err != nil {
		log.Printf("⚠️  Email verification failed: %v\n", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "The verification link is invalid or has expired.",
		})
	}
	return c.Redirect(services.PathSignIn, fiber.StatusFound)
}

// continueURL is where the verification link sends the user back to.
func continueURL(c *fiber.Ctx) string {
	return strings.TrimRight(c.BaseURL(), "/") + services.PathSignIn
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request payload"
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Please enter a valid email address"
	case "min":
		return field + " must be at least " + fe.Param() + " characters"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	default:
		return field + " is invalid"
	}
}
