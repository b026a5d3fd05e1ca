package clock

import "time"

// Clock reports the current civil date and time of day in a single fixed
// timezone, isolating the scheduler from the host timezone.
type Clock interface {
	// Now returns the civil date as "YYYY-MM-DD" (usable as a map key and
	// for day-rollover comparison) and the time of day as minutes since
	// midnight. Minute resolution is all the scheduler needs.
	Now() (date string, minutes int)
}

// Fixed is a Clock pinned to a fixed UTC offset.
type Fixed struct {
	loc *time.Location
	now func() time.Time
}

// NewFixed creates a clock for the given UTC offset in hours. The deployment
// runs on UTC+8 civil time regardless of host timezone.
func NewFixed(offsetHours int) *Fixed {
	return &Fixed{
		loc: time.FixedZone("civil", offsetHours*3600),
		now: time.Now,
	}
}

// Now returns the current civil date and minutes since midnight.
func (c *Fixed) Now() (string, int) {
	t := c.now().In(c.loc)
	return t.Format("2006-01-02"), t.Hour()*60 + t.Minute()
}
