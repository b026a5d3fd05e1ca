package checkin

import (
	"strings"
)

// StatusKind classifies the free-text status field of a log entry.
type StatusKind int

const (
	// KindOther is any status that is neither a check-in nor an escalation.
	KindOther StatusKind = iota
	// KindCheckedIn marks a valid check-in.
	KindCheckedIn
	// KindMissed marks a prior escalation for a session window.
	KindMissed
)

// Status is the parsed form of a log entry's status field. It is built once
// when logs are fetched so the evaluator works against structured data
// instead of substring search.
type Status struct {
	Kind    StatusKind
	Session string // lower-cased window name, set only for KindMissed
	Raw     string
}

// ParseStatus classifies a raw status string. windowNames are the
// lower-cased session window names a "missed" entry may reference.
func ParseStatus(raw string, windowNames []string) Status {
	lower := strings.ToLower(raw)
	if strings.Contains(lower, "checked in") {
		return Status{Kind: KindCheckedIn, Raw: raw}
	}
	if strings.Contains(lower, "missed") {
		for _, name := range windowNames {
			if name != "" && strings.Contains(lower, name) {
				return Status{Kind: KindMissed, Session: name, Raw: raw}
			}
		}
	}
	return Status{Kind: KindOther, Raw: raw}
}

// Entry is a check-in log entry as returned by the remote store. Entries are
// immutable once created.
type Entry struct {
	ElderName string
	ElderRef  string
	Status    Status
	// Timestamp is the entry's own timestamp field; CreatedAt is the store's
	// creation timestamp. Either may be empty.
	Timestamp string
	CreatedAt string
}

// MissedStatus builds the status string recorded when a session window had
// no qualifying check-in.
func MissedStatus(windowName string) string {
	return "missed (" + windowName + ")"
}

// MinutesOfDay extracts the time of day from the entry as minutes since
// midnight, preferring the entry's own timestamp over the creation
// timestamp. Returns false when neither field carries a usable time, in
// which case the entry never matches a check-in window.
func (e Entry) MinutesOfDay() (int, bool) {
	for _, ts := range []string{e.Timestamp, e.CreatedAt} {
		minutes, ok := minutesFromTimestamp(ts)
		if ok {
			return minutes, true
		}
	}
	return 0, false
}

// minutesFromTimestamp pulls the "HH:mm" out of a "YYYY-MM-DD HH:mm:ss"
// style timestamp. Bare times ("09:15:00") also work.
func minutesFromTimestamp(ts string) (int, bool) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return 0, false
	}
	// Strip a leading date portion if present.
	if i := strings.IndexAny(ts, " T"); i >= 0 {
		ts = ts[i+1:]
	}
	if len(ts) < 5 || ts[2] != ':' {
		return 0, false
	}
	h, m := 0, 0
	for i, c := range ts[:5] {
		if i == 2 {
			continue
		}
		if c < '0' || c > '9' {
			return 0, false
		}
		if i < 2 {
			h = h*10 + int(c-'0')
		} else {
			m = m*10 + int(c-'0')
		}
	}
	if h > 23 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
