package statement

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// numberNoise lists characters brokers print around numbers that carry no value.
var numberNoise = strings.NewReplacer(
	",", "",
	" ", "",
	"\u00a0", "",
	"\u202f", "",
	"'", "",
	"$", "",
	"£", "",
	"€", "",
	"¥", "",
	"%", "",
	"\u2212", "-",
	"\u2013", "-",
)

// ParseNumber resolves a cell value into a decimal. Thousands separators,
// currency symbols and percent signs are stripped, accounting parentheses
// mean negative. Anything that does not parse is returned as null.
func ParseNumber(v any) decimal.NullDecimal {
	switch x := v.(type) {
	case decimal.Decimal:
		return valid(x)
	case decimal.NullDecimal:
		return x
	case float64:
		if !finite(x) {
			return decimal.NullDecimal{}
		}
		return valid(decimal.NewFromFloat(x))
	case float32:
		if !finite(float64(x)) {
			return decimal.NullDecimal{}
		}
		return valid(decimal.NewFromFloat32(x))
	case int:
		return valid(decimal.NewFromInt(int64(x)))
	case int64:
		return valid(decimal.NewFromInt(x))
	case string:
		return parseNumberString(x)
	default:
		return decimal.NullDecimal{}
	}
}

// finite reports whether f is neither NaN nor infinite.
func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func parseNumberString(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = numberNoise.Replace(s)
	if s == "" || s == "-" || s == "+" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	if neg {
		d = d.Neg()
	}
	return valid(d)
}

// quantityOf returns the absolute value of n. Zero quantities are null.
func quantityOf(n decimal.NullDecimal) decimal.NullDecimal {
	if !n.Valid || n.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	return valid(n.Decimal.Abs())
}

// foldHeader returns the comparable form of a column header: case folded,
// trimmed and with inner whitespace runs collapsed.
func foldHeader(h string) string {
	return cases.Fold().String(strings.Join(strings.Fields(h), " "))
}

// cellString returns the textual content of a cell.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		if !finite(x) {
			return ""
		}
		return decimal.NewFromFloat(x).String()
	case float32:
		if !finite(float64(x)) {
			return ""
		}
		return decimal.NewFromFloat32(x).String()
	default:
		if s, ok := v.(interface{ String() string }); ok {
			return strings.TrimSpace(s.String())
		}
		return ""
	}
}
