package auth

import (
	"errors"
	"fmt"

	"github.com/samber/oops"
)

var (
	// ErrAuthenticationFailed is the single error kind a login attempt fails with
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrMissingCredentials is returned when email or password is empty
	ErrMissingCredentials = errors.New("email and password are required")
	// ErrInvalidCredentials is returned by a Verifier that rejects the credentials
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned when no account has the given email
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned when email is already registered
	ErrEmailExists = errors.New("email already registered")
	// ErrRegistrationDisabled is returned when accounts are not managed by this service
	ErrRegistrationDisabled = errors.New("registration disabled")
)

// Messages shown to the user above the form
const (
	MessageMissingCredentials = "Please enter your email and password."
	MessageInvalidCredentials = "Invalid email or password."
	MessageUnavailable        = "Unable to sign in right now. Please try again."

	MessageEmailExists          = "An account with this email already exists."
	MessageRegistrationDisabled = "Registration is not available on this server."
	MessageRegistrationFailed   = "Unable to create your account right now. Please try again."
)

// Error codes attached to gate failures
const (
	CodeMissingCredentials   = "AUTH_MISSING_CREDENTIALS"
	CodeInvalidCredentials   = "AUTH_INVALID_CREDENTIALS"
	CodeUnavailable          = "AUTH_UNAVAILABLE"
	CodeEmailExists          = "AUTH_EMAIL_EXISTS"
	CodeRegistrationDisabled = "AUTH_REGISTRATION_DISABLED"
	CodeRegistrationFailed   = "AUTH_REGISTRATION_FAILED"
)

var messages = map[string]string{
	CodeMissingCredentials:   MessageMissingCredentials,
	CodeInvalidCredentials:   MessageInvalidCredentials,
	CodeUnavailable:          MessageUnavailable,
	CodeEmailExists:          MessageEmailExists,
	CodeRegistrationDisabled: MessageRegistrationDisabled,
	CodeRegistrationFailed:   MessageRegistrationFailed,
}

// loginFailure wraps cause so that it matches both ErrAuthenticationFailed
// and cause
func loginFailure(code string, cause error) error {
	return oops.
		Code(code).
		Wrap(fmt.Errorf("%w: %w", ErrAuthenticationFailed, cause))
}

// Message returns the display message for err. Uncoded errors read as
// rejected credentials.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		if code, ok := oopsErr.Code().(string); ok {
			if msg, found := messages[code]; found {
				return msg
			}
		}
	}
	return MessageInvalidCredentials
}
