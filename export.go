package statement

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/etnz/statement/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ledgerNamespace seeds the identifiers of exported records, so that exporting
// the same trades twice gives the same identifiers.
var ledgerNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/etnz/statement/ledger"))

// Exportable reports whether a trade carries enough to be recorded in a
// ledger: a ticker, a quantity and an entry price.
func Exportable(t Trade) bool {
	return t.Ticker != "" && t.Qty.Valid && t.EntryPrice.Valid
}

// ledgerExecution is one buy or sell line of the ledger.
type ledgerExecution struct {
	ID       uuid.UUID
	Command  Side
	Date     date.Stamp
	Security string
	Quantity decimal.Decimal
	Amount   Money
	Memo     string
}

func (e ledgerExecution) MarshalJSON() ([]byte, error) {
	var o jsonObject
	o.Set("command", e.Command)
	o.Set("id", e.ID)
	o.SetNonZero("date", e.Date)
	o.SetNonZero("memo", e.Memo)
	o.Set("security", e.Security)
	o.Set("quantity", e.Quantity)
	o.Inline(e.Amount)
	return o.MarshalJSON()
}

// ledgerTrade links the executions of a trade with its outcome.
type ledgerTrade struct {
	ID    uuid.UUID
	Trade Trade
	Legs  []uuid.UUID
}

func (r ledgerTrade) MarshalJSON() ([]byte, error) {
	t := r.Trade
	var o jsonObject
	o.Set("command", "trade")
	o.Set("id", r.ID)
	o.Set("security", t.Ticker)
	o.SetNonZero("memo", t.Instrument)
	o.Set("side", t.Side)
	o.Set("productType", t.ProductType)
	o.Set("quantity", t.Qty)
	o.Set("entryPrice", t.EntryPrice)
	o.Set("exitPrice", t.ExitPrice)
	o.Set("pnl", t.PnlDollar)
	o.Set("pnlPercent", t.PnlPercent)
	o.Set("commission", t.Commission)
	o.Set("openedAt", t.OpenedAt)
	o.Set("closedAt", t.ClosedAt)
	o.Set("currency", t.Currency)
	o.Set("status", t.Status)
	o.Set("legs", r.Legs)
	return o.MarshalJSON()
}

// ExportLedger writes trades as a JSONL ledger. Each exportable trade is
// written as its opening execution, its closing execution when the exit is
// known, and a trade record linking them. Trades that are not Exportable are
// skipped and counted.
func ExportLedger(w io.Writer, trades []Trade) (written, skipped int, err error) {
	enc := json.NewEncoder(w)
	for i, t := range trades {
		if !Exportable(t) {
			skipped++
			continue
		}
		key := fmt.Sprintf("%d|%s|%s|%s|%s|%s", i, t.Instrument, t.Side, t.Qty.Decimal, t.OpenedAt, t.ClosedAt)
		record := ledgerTrade{ID: uuid.NewSHA1(ledgerNamespace, []byte("trade|"+key)), Trade: t}

		open := ledgerExecution{
			ID:       uuid.NewSHA1(ledgerNamespace, []byte("open|"+key)),
			Command:  Buy,
			Date:     t.OpenedAt,
			Security: t.Ticker,
			Quantity: t.Qty.Decimal,
			Amount:   M(t.EntryPrice.Decimal.Mul(t.Qty.Decimal), t.Currency),
			Memo:     t.Instrument,
		}
		if t.Side == Short {
			open.Command = Sell
		}
		if err := enc.Encode(open); err != nil {
			return written, skipped, fmt.Errorf("cannot write ledger: %w", err)
		}
		record.Legs = append(record.Legs, open.ID)

		if t.ExitPrice.Valid {
			closing := ledgerExecution{
				ID:       uuid.NewSHA1(ledgerNamespace, []byte("close|"+key)),
				Command:  open.Command.Opposite(),
				Date:     t.ClosedAt,
				Security: t.Ticker,
				Quantity: t.Qty.Decimal,
				Amount:   M(t.ExitPrice.Decimal.Mul(t.Qty.Decimal), t.Currency),
				Memo:     t.Instrument,
			}
			if err := enc.Encode(closing); err != nil {
				return written, skipped, fmt.Errorf("cannot write ledger: %w", err)
			}
			record.Legs = append(record.Legs, closing.ID)
		}

		if err := enc.Encode(record); err != nil {
			return written, skipped, fmt.Errorf("cannot write ledger: %w", err)
		}
		written++
	}
	return written, skipped, nil
}
