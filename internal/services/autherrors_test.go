package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthMessageKnownCodes(t *testing.T) {
	assert.Equal(t, "No account found with this email.", AuthMessage(CodeUserNotFound, ""))
	assert.Equal(t, "Incorrect password. Please try again.", AuthMessage(CodeWrongPassword, "ignored raw"))
	assert.Equal(t, "This email is already registered.", AuthMessage(CodeEmailAlreadyInUse, ""))
}

func TestAuthMessageFallbacks(t *testing.T) {
	assert.Equal(t, "provider said no", AuthMessage("auth/unknown-code", "provider said no"))
	assert.Equal(t, "auth/unknown-code", AuthMessage("auth/unknown-code", ""))
	assert.Equal(t, "Something went wrong. Please try again.", AuthMessage("", ""))
}

func TestAuthErrorRoundTrip(t *testing.T) {
	err := fmt.Errorf("sign in: %w", &AuthError{Code: CodeUserDisabled})
	assert.Equal(t, CodeUserDisabled, AuthErrorCode(err))
	assert.Equal(t, "", AuthErrorCode(errors.New("database down")))
}
