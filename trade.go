package statement

import (
	"github.com/etnz/statement/date"
	"github.com/shopspring/decimal"
)

// Direction is the direction of a reconstructed trade.
type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// directionOf returns the direction of a position opened by side.
func directionOf(opening Side) Direction {
	if opening == Sell {
		return Short
	}
	return Long
}

// Status tells how much of a trade could be reconstructed.
type Status string

const (
	StatusComplete   Status = "complete"
	StatusIncomplete Status = "incomplete"
	StatusOpen       Status = "open"
)

// Names of the fields reported in Trade.Missing and Holding.Missing.
const (
	FieldTicker     = "ticker"
	FieldQuantity   = "quantity"
	FieldEntryPrice = "entryPrice"
	FieldExitPrice  = "exitPrice"
	FieldOpenedAt   = "openedAt"
	FieldClosedAt   = "closedAt"
)

// Trade is a matched entry/exit pair, or a single leg that could not be matched.
type Trade struct {
	Instrument  string              `json:"instrument"`
	Ticker      string              `json:"ticker"`
	ProductType ProductType         `json:"productType"`
	Side        Direction           `json:"side"`
	Qty         decimal.NullDecimal `json:"qty"`
	EntryPrice  decimal.NullDecimal `json:"entryPrice"`
	ExitPrice   decimal.NullDecimal `json:"exitPrice"`
	PnlDollar   decimal.NullDecimal `json:"pnlDollar"`
	PnlPercent  decimal.NullDecimal `json:"pnlPercent"`
	Commission  decimal.Decimal     `json:"commission"`
	OpenedAt    date.Stamp          `json:"openedAt"`
	ClosedAt    date.Stamp          `json:"closedAt"`
	Currency    string              `json:"currency"`
	Missing     []string            `json:"missing"`
	Status      Status              `json:"status"`
}

// IsComplete reports whether the trade is fully reconciled.
func (t Trade) IsComplete() bool { return t.Status == StatusComplete }

// PnL returns the trade profit as Money, zero when unknown.
func (t Trade) PnL() Money { return M(t.PnlDollar.Decimal, t.Currency) }

// Costs returns the trade commission as Money.
func (t Trade) Costs() Money { return M(t.Commission, t.Currency) }

// Holding is a position still open at the end of the statement.
type Holding struct {
	Instrument    string              `json:"instrument"`
	Ticker        string              `json:"ticker"`
	Qty           decimal.NullDecimal `json:"qty"`
	EntryPrice    decimal.NullDecimal `json:"entryPrice"`
	CurrentPrice  decimal.NullDecimal `json:"currentPrice"`
	UnrealizedPnl decimal.NullDecimal `json:"unrealizedPnl"`
	Currency      string              `json:"currency"`
	Missing       []string            `json:"missing"`
	Status        Status              `json:"status"`
}

// UnrealizedPnL returns the holding unrealized profit as Money, zero when unknown.
func (h Holding) UnrealizedPnL() Money { return M(h.UnrealizedPnl.Decimal, h.Currency) }

// statusOf computes the status of t. When timed is true the source reports
// trade dates, and both stamps are required for the trade to be complete.
func statusOf(t Trade, timed bool) Status {
	if !t.Qty.Valid || !t.EntryPrice.Valid || !t.ExitPrice.Valid {
		return StatusIncomplete
	}
	if timed && (t.OpenedAt.IsZero() || t.ClosedAt.IsZero()) {
		return StatusIncomplete
	}
	return StatusComplete
}

// profit returns the side-aware profit of qty units between entry and exit,
// net of commission, rounded to 4 decimals.
func profit(side Direction, entry, exit, qty, commission decimal.Decimal) decimal.Decimal {
	move := exit.Sub(entry)
	if side == Short {
		move = move.Neg()
	}
	return move.Mul(qty).Sub(commission).Round(4)
}

// returnPercent returns the side-aware price move in percent of entry,
// rounded to 2 decimals. It is null when entry is not positive.
func returnPercent(side Direction, entry, exit decimal.Decimal) decimal.NullDecimal {
	if !entry.IsPositive() {
		return decimal.NullDecimal{}
	}
	move := exit.Sub(entry)
	if side == Short {
		move = move.Neg()
	}
	return valid(move.Div(entry).Mul(hundred).Round(2))
}

var hundred = decimal.NewFromInt(100)

// valid wraps d into a non null decimal.
func valid(d decimal.Decimal) decimal.NullDecimal { return decimal.NullDecimal{Decimal: d, Valid: true} }
