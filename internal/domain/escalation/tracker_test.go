package escalation_test

import (
	"testing"

	"carelink/internal/domain/escalation"
)

// TestTracker_MarkAndCheck covers the at-most-once bookkeeping.
func TestTracker_MarkAndCheck(t *testing.T) {
	tr := escalation.NewTracker("2024-01-01")

	if tr.IsProcessed("morning", "Alice") {
		t.Error("fresh tracker should have no processed pairs")
	}

	tr.MarkProcessed("morning", "Alice")
	if !tr.IsProcessed("morning", "Alice") {
		t.Error("pair should be processed after marking")
	}
	if tr.IsProcessed("night", "Alice") {
		t.Error("other window should be unaffected")
	}
	if tr.IsProcessed("morning", "Bob") {
		t.Error("other elder should be unaffected")
	}
}

// TestTracker_KeyNormalization treats names case-insensitively and trimmed,
// matching how log names are compared.
func TestTracker_KeyNormalization(t *testing.T) {
	tr := escalation.NewTracker("2024-01-01")
	tr.MarkProcessed("Morning", " Alice ")
	if !tr.IsProcessed("morning", "alice") {
		t.Error("keys should be normalized")
	}
}

// TestTracker_ResetIfNewDay clears state on rollover and is idempotent
// within the same day.
func TestTracker_ResetIfNewDay(t *testing.T) {
	tr := escalation.NewTracker("2024-01-01")
	tr.MarkProcessed("morning", "Alice")

	tr.ResetIfNewDay("2024-01-01")
	if !tr.IsProcessed("morning", "Alice") {
		t.Error("same-day reset must not clear state")
	}

	tr.ResetIfNewDay("2024-01-02")
	if tr.Date() != "2024-01-02" {
		t.Errorf("Date() = %q, want 2024-01-02", tr.Date())
	}
	if tr.IsProcessed("morning", "Alice") {
		t.Error("day rollover must clear processed pairs")
	}
}

// TestOutcome_String labels every outcome.
func TestOutcome_String(t *testing.T) {
	outcomes := map[escalation.Outcome]string{
		escalation.OutcomeSkippedProcessed: "skipped_processed",
		escalation.OutcomeSkippedPaused:    "skipped_paused",
		escalation.OutcomeSkippedEscalated: "skipped_already_escalated",
		escalation.OutcomeSafe:             "safe",
		escalation.OutcomeEscalated:        "escalated",
	}
	for o, want := range outcomes {
		if o.String() != want {
			t.Errorf("Outcome(%d).String() = %q, want %q", o, o.String(), want)
		}
	}
}
