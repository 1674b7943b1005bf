package statement

import (
	"testing"

	"github.com/etnz/statement/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// equateDecimals compares decimals by value in cmp.Diff.
var equateDecimals = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

// dec is a helper for test to create a decimal from a const string.
func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// num is a helper for test to create a non null decimal from a const string.
func num(s string) decimal.NullDecimal { return valid(dec(s)) }

// day is a helper for test to create a day stamp from an ISO date.
func day(s string) date.Stamp { return date.Day(date.MustParse(s)) }

// assertNumber fails when got is not the decimal want, or not null when want is "".
func assertNumber(t *testing.T, name string, got decimal.NullDecimal, want string) {
	t.Helper()
	if want == "" {
		if got.Valid {
			t.Errorf("%s = %v, want null", name, got.Decimal)
		}
		return
	}
	if !got.Valid {
		t.Errorf("%s = null, want %s", name, want)
		return
	}
	if !got.Decimal.Equal(dec(want)) {
		t.Errorf("%s = %v, want %s", name, got.Decimal, want)
	}
}

// sumQty adds the known quantities of trades.
func sumQty(trades []Trade) decimal.Decimal {
	total := decimal.Zero
	for _, tr := range trades {
		if tr.Qty.Valid {
			total = total.Add(tr.Qty.Decimal)
		}
	}
	return total
}

// mustParse returns a function failing the test when a parse returns an error.
//
//	r := mustParse(t)(ParseCSV(text))
func mustParse(t *testing.T) func(*Result, error) *Result {
	t.Helper()
	return func(r *Result, err error) *Result {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected parse error: %v", err)
		}
		return r
	}
}
