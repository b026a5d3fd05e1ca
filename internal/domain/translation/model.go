package translation

import (
	"errors"
	"time"
)

// Translation is one cached UI string for a locale. The cache exists so the
// app does not re-translate static strings on every page load.
type Translation struct {
	ID       string
	Locale   string // BCP 47 tag, e.g. "en", "zh", "ms", "ta"
	Key      string // UI string identifier, e.g. "checkin.button"
	Value    string
	CachedAt time.Time
}

// Validate checks if the Translation has valid data.
// PRE: Translation struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (t *Translation) Validate() error {
	if t.ID == "" {
		return errors.New("translation must have an id")
	}
	if t.Locale == "" {
		return errors.New("translation must have a locale")
	}
	if t.Key == "" {
		return errors.New("translation must have a key")
	}
	return nil
}
