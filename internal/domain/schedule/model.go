package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Window is a named time-of-day interval against which check-ins are
// evaluated. Start and End are minutes since midnight; both boundaries are
// inclusive for check-in matching. The grace interval (End, End+GraceMinutes]
// is when missed-check-in evaluation for this window is permitted.
type Window struct {
	Name         string
	Start        int
	End          int
	GraceMinutes int
}

// Validate checks if the Window has valid data.
// PRE: Window struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name must not be empty, Start must not be after End
func (w Window) Validate() error {
	if w.Name == "" {
		return errors.New("window must have a name")
	}
	if w.Start < 0 || w.Start >= 24*60 {
		return fmt.Errorf("window %q start out of range", w.Name)
	}
	if w.End < 0 || w.End >= 24*60 {
		return fmt.Errorf("window %q end out of range", w.Name)
	}
	if w.Start > w.End {
		return fmt.Errorf("window %q starts after it ends", w.Name)
	}
	if w.GraceMinutes <= 0 {
		return fmt.Errorf("window %q grace period must be positive", w.Name)
	}
	return nil
}

// Contains reports whether a time of day (minutes since midnight) falls
// inside the window, inclusive on both ends.
func (w Window) Contains(minutes int) bool {
	return minutes >= w.Start && minutes <= w.End
}

// InGracePeriod reports whether a time of day falls inside the window's
// grace interval (End, End+GraceMinutes].
func (w Window) InGracePeriod(minutes int) bool {
	return minutes > w.End && minutes <= w.End+w.GraceMinutes
}

// Registry is the fixed set of session windows, defined at process start
// and never mutated.
type Registry struct {
	windows []Window
}

// NewRegistry validates the windows and returns an immutable registry.
// PRE: windows is non-empty, each window valid, names unique
// POST: Returns a registry holding a private copy of the windows
func NewRegistry(windows []Window) (*Registry, error) {
	if len(windows) == 0 {
		return nil, errors.New("at least one session window is required")
	}
	seen := make(map[string]bool, len(windows))
	for _, w := range windows {
		if err := w.Validate(); err != nil {
			return nil, err
		}
		key := strings.ToLower(w.Name)
		if seen[key] {
			return nil, fmt.Errorf("duplicate session window %q", w.Name)
		}
		seen[key] = true
	}
	copied := make([]Window, len(windows))
	copy(copied, windows)
	return &Registry{windows: copied}, nil
}

// Windows returns the registered windows in definition order.
func (r *Registry) Windows() []Window {
	out := make([]Window, len(r.windows))
	copy(out, r.windows)
	return out
}

// Names returns the lower-cased window names in definition order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.windows))
	for i, w := range r.windows {
		names[i] = strings.ToLower(w.Name)
	}
	return names
}

// InGrace returns the windows whose grace interval contains the given time
// of day.
func (r *Registry) InGrace(minutes int) []Window {
	var active []Window
	for _, w := range r.windows {
		if w.InGracePeriod(minutes) {
			active = append(active, w)
		}
	}
	return active
}

// ParseClock converts a zero-padded 24-hour "HH:mm" string to minutes since
// midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value %q out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock converts minutes since midnight back to "HH:mm".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
