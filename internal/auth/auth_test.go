package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate_Login(t *testing.T) {
	result, err := Authenticate(ActionLogin, "test@example.com", "hunter2")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "test@example.com", result.User.Email)
	assert.Equal(t, "Test User", result.User.Name)
	assert.Equal(t, "mock-jwt-token", result.Token)
}

func TestAuthenticate_Signup(t *testing.T) {
	result, err := Authenticate(ActionSignup, "new@example.com", "hunter2")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "New User", result.User.Name)
	assert.Equal(t, "mock-jwt-token", result.Token)
}

func TestAuthenticate_MissingCredentials(t *testing.T) {
	_, err := Authenticate(ActionLogin, "", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = Authenticate(ActionSignup, "new@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_UnknownAction(t *testing.T) {
	_, err := Authenticate("refresh", "test@example.com", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
