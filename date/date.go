// Package date provides the calendar types used by statement parsing: a day
// granularity Date, a Stamp that optionally carries a wall clock, and the
// lenient parsers able to read the date encodings found in broker exports.
package date

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateFormat is the ISO-8601 layout dates are written in.
const DateFormat = "2006-01-02"

// Date is a calendar day. The zero Date is unknown.
type Date struct {
	y int
	m time.Month
	d int
}

// time returns the canonical time of the day: midnight UTC.
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// New returns the Date of year, month and day, normalized like time.Date
// (January 32 is February 1).
func New(year int, month time.Month, day int) Date {
	y, m, dd := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()
	return Date{y, m, dd}
}

func (d Date) IsZero() bool      { return d == Date{} }
func (d Date) Year() int         { return d.y }
func (d Date) Month() time.Month { return d.m }
func (d Date) Day() int          { return d.d }
func (d Date) String() string    { return d.time().Format(DateFormat) }

// Parse reads a day in any layout ParseStamp accepts, ignoring the clock.
func Parse(str string) (Date, error) {
	s, err := ParseStamp(str)
	if err != nil {
		return Date{}, err
	}
	return s.Date(), nil
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// MarshalJSON writes d as an ISO day, or null when unknown.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var str *string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	if str == nil {
		*d = Date{}
		return nil
	}
	v, err := Parse(*str)
	if err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}
	*d = v
	return nil
}

// Range is the period a statement reports on, boundaries included.
type Range struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// String returns the range as "from to".
func (r Range) String() string { return r.From.String() + " to " + r.To.String() }
