package services

import "errors"

// Provider error codes. They never reach the user verbatim except through
// the unauthorized-domain message, which names the offending origin so an
// operator can fix the configuration.
const (
	CodeEmailInUse              = "auth/email-already-in-use"
	CodeWrongPassword           = "auth/wrong-password"
	CodeUserNotFound            = "auth/user-not-found"
	CodeInvalidCredential       = "auth/invalid-credential"
	CodeUnauthorizedContinueURI = "auth/unauthorized-continue-uri"
	CodeInvalidActionCode       = "auth/invalid-action-code"
	CodeNoCurrentUser           = "auth/no-current-user"
	CodeInternal                = "auth/internal-error"
)

var ErrPasswordMismatch = errors.New("passwords do not match")

type AuthError struct {
	Code string
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func newAuthError(code string, err error) *AuthError {
	return &AuthError{Code: code, Err: err}
}

// AuthErrorCode returns the provider code carried by err, or "".
func AuthErrorCode(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Code
	}
	return ""
}

func SignUpMessage(err error) string {
	if errors.Is(err, ErrPasswordMismatch) {
		return "Passwords do not match"
	}
	if AuthErrorCode(err) == CodeEmailInUse {
		return "User already exists. Please sign in"
	}
	return "An error occurred during sign up. Please try again."
}

func SignInMessage(err error) string {
	switch AuthErrorCode(err) {
	case CodeWrongPassword, CodeUserNotFound, CodeInvalidCredential:
		return "Email or password is incorrect"
	default:
		return "An error occurred during sign in. Please try again."
	}
}

// VerificationMessage maps a resend failure for the given origin.
func VerificationMessage(err error, origin string) string {
	if AuthErrorCode(err) == CodeUnauthorizedContinueURI {
		return "This domain is not authorized for verification links. Please add " + origin +
			" to AUTHORIZED_DOMAINS."
	}
	return "Failed to resend verification email. Please try again later."
}

// SignUpVerificationMessage reports a verification email that could not be
// sent right after the account was created. Only a domain problem is worth
// surfacing there.
func SignUpVerificationMessage(err error, origin string) string {
	if AuthErrorCode(err) == CodeUnauthorizedContinueURI {
		return "Account created, but verification email failed: Domain not authorized. Please add " + origin +
			" to AUTHORIZED_DOMAINS."
	}
	return ""
}
