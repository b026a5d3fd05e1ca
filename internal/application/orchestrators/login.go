package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"carelink/internal/domain/elder"
)

// GatewayForLogin defines the gateway surface needed by Login.
type GatewayForLogin interface {
	GetElderByUsername(ctx context.Context, username string) (elder.Elder, bool, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	SysID string
	Name  string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Gateway GatewayForLogin
}

var (
	// ErrInvalidCredentials is returned for any credential failure; the
	// client never learns whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ExecuteLogin validates credentials against the remote elder record and
// returns identity info for session creation.
// PRE: Valid username and password provided
// POST: Returns elder identity on success
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Username == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	e, found, err := deps.Gateway.GetElderByUsername(ctx, input.Username)
	if err != nil {
		slog.Error("auth_event", "event", "login_error", "username", input.Username, "error", err.Error())
		return LoginResult{}, err
	}
	if !found {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}
	if e.PasswordHash == "" {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", "missing_hash")
		return LoginResult{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(input.Password)); err != nil {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", "wrong_password")
		return LoginResult{}, ErrInvalidCredentials
	}

	slog.Info("auth_event", "event", "login_success", "sys_id", e.SysID)
	return LoginResult{SysID: e.SysID, Name: e.Name}, nil
}
