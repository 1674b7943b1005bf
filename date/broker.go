package date

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoRe       = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})(?:[T ](\d{2}):(\d{2})(?::(\d{2}))?)?`)
	monthNameRe = regexp.MustCompile(`^(\d{1,2})-([A-Za-z]{3})-(\d{4})(?:\s+(\d{1,2}):(\d{2})(?::(\d{2}))?)?$`)
	slashRe     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})(?:[ T,]+(\d{1,2}):(\d{2})(?::(\d{2}))?)?`)

	// MonthNameRe finds a DD-Mon-YYYY date anywhere in a text.
	MonthNameRe = regexp.MustCompile(`\d{1,2}-[A-Za-z]{3}-\d{4}`)
)

var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseStamp parses the date encodings found in broker exports:
//
//   - ISO-like "2024-01-15", "2024-01-15T14:30" or "2024-01-15 14:30:05" (anything after is ignored)
//   - "15-Jan-2024", optionally followed by a clock
//   - "15/01/2024", always read day first.
//
// Slash dates are ambiguous, day first is assumed because the main source of
// those exports is UK domiciled. A US formatted export is misread.
func ParseStamp(str string) (Stamp, error) {
	str = strings.TrimSpace(str)
	if m := isoRe.FindStringSubmatch(str); m != nil {
		return build(str, m[1], m[2], m[3], m[4], m[5], m[6])
	}
	if m := monthNameRe.FindStringSubmatch(str); m != nil {
		month, ok := monthNames[strings.ToLower(m[2])]
		if !ok {
			return Stamp{}, fmt.Errorf("invalid date %q: unknown month %q", str, m[2])
		}
		return build(str, m[3], strconv.Itoa(int(month)), m[1], m[4], m[5], m[6])
	}
	if m := slashRe.FindStringSubmatch(str); m != nil {
		return build(str, m[3], m[2], m[1], m[4], m[5], m[6])
	}
	return Stamp{}, fmt.Errorf("invalid date %q: unsupported format", str)
}

// ParseDayMonthName parses a "15-Jan-2024" date.
func ParseDayMonthName(str string) (Date, error) {
	m := monthNameRe.FindStringSubmatch(strings.TrimSpace(str))
	if m == nil || m[4] != "" {
		return Date{}, fmt.Errorf("invalid date %q want format DD-Mon-YYYY", str)
	}
	s, err := ParseStamp(str)
	if err != nil {
		return Date{}, err
	}
	return s.Date(), nil
}

// FromValue resolves a spreadsheet or CSV cell into a Stamp. Native time.Time
// values (Excel serial dates decoded by the workbook reader) are used as is,
// strings go through ParseStamp. Anything else, or an unparseable string,
// gives the zero Stamp.
func FromValue(v any) Stamp {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return Stamp{}
		}
		return At(x)
	case Stamp:
		return x
	case Date:
		return Day(x)
	case string:
		s, err := ParseStamp(x)
		if err != nil {
			return Stamp{}
		}
		return s
	default:
		return Stamp{}
	}
}

func build(src, ys, ms, ds, hs, mins, secs string) (Stamp, error) {
	y, _ := strconv.Atoi(ys)
	m, _ := strconv.Atoi(ms)
	d, _ := strconv.Atoi(ds)
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return Stamp{}, fmt.Errorf("invalid date %q: day or month out of range", src)
	}
	day := New(y, time.Month(m), d)
	if day.Day() != d || int(day.Month()) != m {
		return Stamp{}, fmt.Errorf("invalid date %q: no such day", src)
	}
	if hs == "" {
		return Day(day), nil
	}
	h, _ := strconv.Atoi(hs)
	mi, _ := strconv.Atoi(mins)
	se, _ := strconv.Atoi(secs)
	if h > 23 || mi > 59 || se > 59 {
		return Stamp{}, fmt.Errorf("invalid date %q: clock out of range", src)
	}
	t := time.Date(y, time.Month(m), d, h, mi, se, 0, time.UTC)
	return Stamp{t: t, clock: true}, nil
}
