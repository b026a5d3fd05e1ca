package escalation

import "strings"

// Outcome is the result of evaluating one (window, elder) pair.
type Outcome int

const (
	// OutcomeSkippedProcessed means the pair was already evaluated today.
	OutcomeSkippedProcessed Outcome = iota
	// OutcomeSkippedPaused means tracking is paused for the elder.
	OutcomeSkippedPaused
	// OutcomeSkippedEscalated means today's logs already hold a missed
	// entry for the pair.
	OutcomeSkippedEscalated
	// OutcomeSafe means a qualifying check-in was found.
	OutcomeSafe
	// OutcomeEscalated means no qualifying check-in was found and a missed
	// entry was recorded.
	OutcomeEscalated
)

// String returns a label for logging.
func (o Outcome) String() string {
	switch o {
	case OutcomeSkippedProcessed:
		return "skipped_processed"
	case OutcomeSkippedPaused:
		return "skipped_paused"
	case OutcomeSkippedEscalated:
		return "skipped_already_escalated"
	case OutcomeSafe:
		return "safe"
	case OutcomeEscalated:
		return "escalated"
	}
	return "unknown"
}

// Tracker records which (window, elder) pairs have been evaluated on the
// current civil day. It is volatile state owned by the scheduler: mutated
// only from the worker goroutine and never persisted across restarts.
type Tracker struct {
	date      string
	processed map[string]map[string]bool
}

// NewTracker creates a tracker for the given civil date.
func NewTracker(date string) *Tracker {
	return &Tracker{
		date:      date,
		processed: make(map[string]map[string]bool),
	}
}

// Date returns the civil date the tracker currently covers.
func (t *Tracker) Date() string {
	return t.date
}

// ResetIfNewDay clears all processed sets when the observed civil date
// differs from the stored one. Idempotent within the same day.
// POST: Tracker covers currentDate with empty sets iff the day rolled over
func (t *Tracker) ResetIfNewDay(currentDate string) {
	if t.date == currentDate {
		return
	}
	t.date = currentDate
	t.processed = make(map[string]map[string]bool)
}

// IsProcessed reports whether the pair was already evaluated today.
func (t *Tracker) IsProcessed(windowName, elderName string) bool {
	return t.processed[key(windowName)][key(elderName)]
}

// MarkProcessed records that the pair was evaluated today, regardless of the
// evaluation outcome.
// INVARIANT: a marked pair is not evaluated again until the day rolls over
func (t *Tracker) MarkProcessed(windowName, elderName string) {
	w := key(windowName)
	if t.processed[w] == nil {
		t.processed[w] = make(map[string]bool)
	}
	t.processed[w][key(elderName)] = true
}

func key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
