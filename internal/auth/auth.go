// Package auth is the mock login/signup boundary. Real credential storage,
// password hashing and JWT issuance are not implemented; any non-empty
// email/password pair is accepted.
package auth

import "errors"

const (
	ActionLogin  = "login"
	ActionSignup = "signup"
)

// ErrInvalidCredentials is returned for blank credentials or an unknown
// action.
var ErrInvalidCredentials = errors.New("invalid credentials")

// User identifies the authenticated account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Result is the outcome of a successful login or signup.
type Result struct {
	Success bool   `json:"success"`
	User    User   `json:"user"`
	Token   string `json:"token"`
}

// Authenticate runs the mock login/signup flow.
func Authenticate(action, email, password string) (Result, error) {
	if email == "" || password == "" {
		return Result{}, ErrInvalidCredentials
	}

	switch action {
	case ActionLogin:
		return Result{
			Success: true,
			User:    User{ID: "1", Email: email, Name: "Test User"},
			Token:   "mock-jwt-token",
		}, nil
	case ActionSignup:
		return Result{
			Success: true,
			User:    User{ID: "2", Email: email, Name: "New User"},
			Token:   "mock-jwt-token",
		}, nil
	default:
		return Result{}, ErrInvalidCredentials
	}
}
