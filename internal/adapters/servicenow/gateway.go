package servicenow

import (
	"context"

	"carelink/internal/domain/checkin"
	"carelink/internal/domain/elder"
)

// NewEntry carries the fields written when appending a check-in log entry.
type NewEntry struct {
	ElderRef  string // remote sys id of the elder
	ElderName string
	Status    string
	Timestamp string // "YYYY-MM-DD HH:mm:ss" in civil time
}

// Gateway abstracts the remote record store. Read failures abort the
// caller's current pass; write failures are per-entry and non-fatal.
type Gateway interface {
	// ListElders returns all tracked elder records.
	ListElders(ctx context.Context) ([]elder.Elder, error)
	// ListTodaysCheckins returns the current civil day's log entries,
	// scoped server-side, latest first.
	ListTodaysCheckins(ctx context.Context) ([]checkin.Entry, error)
	// AppendCheckin appends a new log entry.
	AppendCheckin(ctx context.Context, entry NewEntry) error
	// GetElderByUsername looks up a single elder for login.
	GetElderByUsername(ctx context.Context, username string) (elder.Elder, bool, error)
}
