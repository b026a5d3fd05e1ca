package elder

import (
	"errors"
	"strings"
)

// Elder holds state for an elderly person tracked by the app. The record is
// owned by the remote store; SysID is its opaque identifier there.
type Elder struct {
	SysID        string
	SerialNumber string
	Name         string
	Username     string
	PasswordHash string
	Condition    string
	Caregiver    string
	Paused       bool
}

// Validate checks if the Elder has valid data.
// PRE: Elder struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name is the join key against check-in logs and must be set
func (e *Elder) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return errors.New("elder must have a name")
	}
	if e.SysID == "" {
		return errors.New("elder must have a sys id")
	}
	return nil
}

// Trackable reports whether the elder can be matched against check-in logs.
// Records without a name cannot be evaluated and are skipped outright.
func (e *Elder) Trackable() bool {
	return strings.TrimSpace(e.Name) != ""
}

// ParsePaused interprets the remote store's pause flag, which arrives either
// as a boolean or as the string "true"/"false".
func ParsePaused(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}
