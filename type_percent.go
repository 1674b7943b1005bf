package statement

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a ratio expressed in percent, as reported in Trade.PnlPercent.
type Percent float64

// PercentOf returns the Percent value of d, and false when d is null.
func PercentOf(d decimal.NullDecimal) (Percent, bool) {
	if !d.Valid {
		return 0, false
	}
	return Percent(d.Decimal.InexactFloat64()), true
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}
