package checkin_test

import (
	"testing"

	"carelink/internal/domain/checkin"
)

var windowNames = []string{"morning", "night"}

// TestParseStatus classifies the free-text status field.
func TestParseStatus(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantKind    checkin.StatusKind
		wantSession string
	}{
		{name: "checked in", raw: "Checked In", wantKind: checkin.KindCheckedIn},
		{name: "checked in lower", raw: "checked in", wantKind: checkin.KindCheckedIn},
		{name: "missed morning", raw: "missed (morning)", wantKind: checkin.KindMissed, wantSession: "morning"},
		{name: "missed night mixed case", raw: "Missed (Night)", wantKind: checkin.KindMissed, wantSession: "night"},
		{name: "missed without session", raw: "missed", wantKind: checkin.KindOther},
		{name: "unrelated status", raw: "Fall detected", wantKind: checkin.KindOther},
		{name: "empty status", raw: "", wantKind: checkin.KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkin.ParseStatus(tt.raw, windowNames)
			if got.Kind != tt.wantKind {
				t.Errorf("ParseStatus(%q).Kind = %v, want %v", tt.raw, got.Kind, tt.wantKind)
			}
			if got.Session != tt.wantSession {
				t.Errorf("ParseStatus(%q).Session = %q, want %q", tt.raw, got.Session, tt.wantSession)
			}
			if got.Raw != tt.raw {
				t.Errorf("ParseStatus(%q).Raw = %q", tt.raw, got.Raw)
			}
		})
	}
}

// TestEntry_MinutesOfDay prefers the entry timestamp over the creation
// timestamp, and treats entries with neither as never matching.
func TestEntry_MinutesOfDay(t *testing.T) {
	tests := []struct {
		name   string
		entry  checkin.Entry
		want   int
		wantOK bool
	}{
		{
			name:   "full datetime timestamp",
			entry:  checkin.Entry{Timestamp: "2024-01-01 09:15:00"},
			want:   9*60 + 15,
			wantOK: true,
		},
		{
			name:   "bare time timestamp",
			entry:  checkin.Entry{Timestamp: "09:15:00"},
			want:   9*60 + 15,
			wantOK: true,
		},
		{
			name:   "timestamp preferred over created at",
			entry:  checkin.Entry{Timestamp: "2024-01-01 09:15:00", CreatedAt: "2024-01-01 13:00:00"},
			want:   9*60 + 15,
			wantOK: true,
		},
		{
			name:   "created at fallback",
			entry:  checkin.Entry{CreatedAt: "2024-01-01 13:00:00"},
			want:   13 * 60,
			wantOK: true,
		},
		{
			name:   "malformed timestamp falls back",
			entry:  checkin.Entry{Timestamp: "soon", CreatedAt: "2024-01-01 13:00:00"},
			want:   13 * 60,
			wantOK: true,
		},
		{
			name:   "ISO 8601 separator",
			entry:  checkin.Entry{Timestamp: "2024-01-01T09:15:00"},
			want:   9*60 + 15,
			wantOK: true,
		},
		{
			name:   "missing both fields",
			entry:  checkin.Entry{},
			wantOK: false,
		},
		{
			name:   "out of range time",
			entry:  checkin.Entry{Timestamp: "2024-01-01 25:00:00"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.entry.MinutesOfDay()
			if ok != tt.wantOK {
				t.Fatalf("MinutesOfDay() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("MinutesOfDay() = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestMissedStatus builds the escalation status string.
func TestMissedStatus(t *testing.T) {
	if got := checkin.MissedStatus("morning"); got != "missed (morning)" {
		t.Errorf("MissedStatus(morning) = %q", got)
	}
}

// TestMissedStatusRoundTrip ensures an escalation written by the scheduler
// is recognized as a prior escalation when read back.
func TestMissedStatusRoundTrip(t *testing.T) {
	status := checkin.ParseStatus(checkin.MissedStatus("night"), windowNames)
	if status.Kind != checkin.KindMissed || status.Session != "night" {
		t.Errorf("round-trip status = %+v, want missed/night", status)
	}
}
