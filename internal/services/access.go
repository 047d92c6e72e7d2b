package services

import "alfredoptarigan/placement-copilot/internal/models"

type AccessState string

const (
	AccessLoading         AccessState = "loading"
	AccessUnauthenticated AccessState = "unauthenticated"
	AccessUnverified      AccessState = "verification-pending"
	AccessWrongRole       AccessState = "authenticated-wrong-role"
	AccessGranted         AccessState = "authenticated-correct-role"
)

const (
	PathLanding     = "/"
	PathSignIn      = "/signin"
	PathVerify      = "/verify"
	PathStudentHome = "/student"
	PathHRHome      = "/hr"
)

type AccessDecision struct {
	State    AccessState `json:"state"`
	Redirect string      `json:"redirect,omitempty"`
}

// Authorize decides what a request for a view gated on required sees. The
// stored role only counts once loading is over and an identity exists.
func Authorize(session models.Session, required models.Role) AccessDecision {
	if session.Loading {
		return AccessDecision{State: AccessLoading}
	}
	if session.Identity == nil || session.Role == models.RoleNone {
		return AccessDecision{State: AccessUnauthenticated, Redirect: PathSignIn}
	}
	if !session.Identity.EmailVerified {
		return AccessDecision{State: AccessUnverified, Redirect: PathVerify}
	}
	if session.Role != required {
		return AccessDecision{State: AccessWrongRole, Redirect: HomeFor(session.Role)}
	}
	return AccessDecision{State: AccessGranted}
}

func HomeFor(role models.Role) string {
	switch role {
	case models.RoleStudent:
		return PathStudentHome
	case models.RoleHR:
		return PathHRHome
	default:
		return PathLanding
	}
}
