package services

import "errors"

// AuthError carries a provider-style error code alongside the message so
// the frontend can keep its own copy per screen.
type AuthError struct {
	Code string
}

func (e *AuthError) Error() string {
	return AuthMessage(e.Code, "")
}

// Auth error codes, kept in the provider's auth/* form the frontend
// already matches on.
const (
	CodeInvalidEmail       = "auth/invalid-email"
	CodeUserDisabled       = "auth/user-disabled"
	CodeUserNotFound       = "auth/user-not-found"
	CodeWrongPassword      = "auth/wrong-password"
	CodeTooManyRequests    = "auth/too-many-requests"
	CodeEmailAlreadyInUse  = "auth/email-already-in-use"
	CodeOperationNotAllow  = "auth/operation-not-allowed"
	CodeWeakPassword       = "auth/weak-password"
)

// authMessages maps provider error codes to user-readable text.
var authMessages = map[string]string{
	CodeInvalidEmail:      "Please enter a valid email address.",
	CodeUserDisabled:      "This account has been disabled.",
	CodeUserNotFound:      "No account found with this email.",
	CodeWrongPassword:     "Incorrect password. Please try again.",
	CodeTooManyRequests:   "Too many attempts. Please try again later.",
	CodeEmailAlreadyInUse: "This email is already registered.",
	CodeOperationNotAllow: "Email/password sign up is disabled.",
	CodeWeakPassword:      "Password is too weak. Use at least 6 characters.",
}

// AuthMessage resolves a code to readable text, falling back to the raw
// message for unmapped codes so unknown codes never break the flow.
func AuthMessage(code, raw string) string {
	if msg, ok := authMessages[code]; ok {
		return msg
	}
	if raw != "" {
		return raw
	}
	if code != "" {
		return code
	}
	return "Something went wrong. Please try again."
}

// AuthErrorCode extracts the code from an error returned by the account
// service, or "" for non-auth errors.
func AuthErrorCode(err error) string {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
