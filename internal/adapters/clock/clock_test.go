package clock

import (
	"testing"
	"time"
)

// TestFixed_Now reports civil date and minutes in the fixed zone, not the
// host zone.
func TestFixed_Now(t *testing.T) {
	c := NewFixed(8)
	// 2024-01-01 23:30 UTC is 2024-01-02 07:30 at UTC+8.
	c.now = func() time.Time {
		return time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	}

	date, minutes := c.Now()
	if date != "2024-01-02" {
		t.Errorf("date = %q, want 2024-01-02", date)
	}
	if minutes != 7*60+30 {
		t.Errorf("minutes = %d, want %d", minutes, 7*60+30)
	}
}

// TestFixed_HostZoneIrrelevant gives the same civil time for the same
// instant expressed in different host zones.
func TestFixed_HostZoneIrrelevant(t *testing.T) {
	instant := time.Date(2024, 6, 15, 4, 0, 0, 0, time.UTC)
	host := time.FixedZone("host", -5*3600)

	a := NewFixed(8)
	a.now = func() time.Time { return instant }
	b := NewFixed(8)
	b.now = func() time.Time { return instant.In(host) }

	dateA, minA := a.Now()
	dateB, minB := b.Now()
	if dateA != dateB || minA != minB {
		t.Errorf("host zone leaked: (%s %d) vs (%s %d)", dateA, minA, dateB, minB)
	}
}
