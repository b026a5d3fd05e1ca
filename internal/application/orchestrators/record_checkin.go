package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"carelink/internal/adapters/servicenow"
)

// CheckinInput identifies the elder checking in.
type CheckinInput struct {
	SysID string
	Name  string
}

// CheckinDeps holds dependencies for recording a check-in.
type CheckinDeps struct {
	Gateway GatewayForEscalation
}

// ErrMissingIdentity is returned when the session carries no elder identity.
var ErrMissingIdentity = errors.New("check-in requires an elder identity")

// ExecuteCheckin appends a "Checked In" entry to the remote log.
// PRE: input identifies an authenticated elder
// POST: Entry appended, or error returned without side effects
func ExecuteCheckin(ctx context.Context, input CheckinInput, deps CheckinDeps) error {
	if input.SysID == "" || strings.TrimSpace(input.Name) == "" {
		return ErrMissingIdentity
	}

	entry := servicenow.NewEntry{
		ElderRef:  input.SysID,
		ElderName: strings.TrimSpace(input.Name),
		Status:    "Checked In",
	}
	if err := deps.Gateway.AppendCheckin(ctx, entry); err != nil {
		return fmt.Errorf("record checkin: %w", err)
	}

	slog.Info("checkin_recorded", "sys_id", input.SysID, "name", entry.ElderName)
	return nil
}
