package date

import (
	"encoding/json"
	"time"
)

const stampClockFormat = "2006-01-02T15:04:05"

// Stamp is the resolved time of a broker record. Some sources only report the
// trading day, others the execution time as well: a Stamp remembers which.
//
// The zero Stamp means "unknown" and marshals to JSON null.
type Stamp struct {
	t     time.Time
	clock bool
}

// Day returns a Stamp for a day with no clock.
func Day(d Date) Stamp { return Stamp{t: d.time()} }

// At returns a Stamp for t. The clock is kept unless t is exactly midnight.
func At(t time.Time) Stamp {
	t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	return Stamp{t: t, clock: t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0}
}

// IsZero reports whether the stamp is unknown.
func (s Stamp) IsZero() bool { return s.t.IsZero() }

// HasClock reports whether the stamp carries a time of day.
func (s Stamp) HasClock() bool { return s.clock }

// Date returns the calendar day of the stamp.
func (s Stamp) Date() Date { return New(s.t.Date()) }

// Time returns the stamp as a UTC time.Time.
func (s Stamp) Time() time.Time { return s.t }

// Before reports whether s is strictly before x. Unknown stamps sort first.
func (s Stamp) Before(x Stamp) bool { return s.t.Before(x.t) }

// Compare returns -1, 0 or +1 like time.Time.Compare.
func (s Stamp) Compare(x Stamp) int { return s.t.Compare(x.t) }

// String formats the stamp as an ISO date, with the clock when known.
// The unknown stamp is the empty string.
func (s Stamp) String() string {
	switch {
	case s.IsZero():
		return ""
	case s.clock:
		return s.t.Format(stampClockFormat)
	default:
		return s.t.Format(DateFormat)
	}
}

func (s Stamp) MarshalJSON() ([]byte, error) {
	if s.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(s.String())
}

func (s *Stamp) UnmarshalJSON(b []byte) error {
	var str *string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	if str == nil || *str == "" {
		*s = Stamp{}
		return nil
	}
	v, err := ParseStamp(*str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
