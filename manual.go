package statement

import (
	"fmt"
	"strings"
)

// manualAliases are the accepted column names of a hand written trade list.
// Unlike broker exports, columns are matched exactly.
var manualAliases = struct {
	ticker, side, qty, entry, exit, pnl, commission, openedAt, closedAt []string
}{
	ticker:     []string{"ticker", "symbol", "stock", "instrument"},
	side:       []string{"side", "direction", "type", "action"},
	qty:        []string{"qty", "quantity", "shares", "size", "amount"},
	entry:      []string{"entry", "entry_price", "entryprice", "buy_price", "buyprice", "open_price", "openprice", "open price", "price"},
	exit:       []string{"exit", "exit_price", "exitprice", "sell_price", "sellprice", "close_price", "closeprice", "close price"},
	pnl:        []string{"pnl", "pnl_dollar", "profit", "profit_loss", "pl", "p&l", "p/l", "realized p/l", "realized pnl"},
	commission: []string{"commission", "fee", "fees", "cost", "costs"},
	openedAt:   []string{"opened_at", "openedat", "open_date", "opendate", "entry_date", "entrydate", "date", "trade_date", "open date"},
	closedAt:   []string{"closed_at", "closedat", "close_date", "closedate", "exit_date", "exitdate", "close date"},
}

// manualCSV reads a trade list where each row is already a whole trade.
func (p *Parser) manualCSV(t table, currency string) extract {
	var x extract
	c := newColumns(t.headers)
	a := manualAliases
	var (
		ticker     = c.exact(a.ticker...)
		side       = c.exact(a.side...)
		qty        = c.exact(a.qty...)
		entry      = c.exact(a.entry...)
		exit       = c.exact(a.exit...)
		pnl        = c.exact(a.pnl...)
		commission = c.exact(a.commission...)
		openedAt   = c.exact(a.openedAt...)
		closedAt   = c.exact(a.closedAt...)
	)
	p.logger.Debug("manual csv columns", "sheet", t.sheet, "ticker", ticker, "side", side, "qty", qty, "entry", entry,
		"exit", exit, "pnl", pnl, "commission", commission, "openedAt", openedAt, "closedAt", closedAt)

	if ticker == "" && entry == "" {
		x.warn(fmt.Sprintf("Could not map columns. Headers: [%s]", strings.Join(t.headers, ", ")))
		return x
	}
	timed := openedAt != "" || closedAt != ""

	for _, row := range t.rows {
		raw := row.text(ticker)
		if raw == "" || strings.EqualFold(raw, "total") {
			continue
		}
		tr := Trade{
			Instrument:  raw,
			Ticker:      p.tickers.Lookup(raw),
			ProductType: Stock,
			Side:        Long,
			Qty:         quantityOf(row.number(qty)),
			EntryPrice:  row.number(entry),
			ExitPrice:   row.number(exit),
			PnlDollar:   row.number(pnl),
			OpenedAt:    row.stamp(openedAt),
			ClosedAt:    row.stamp(closedAt),
			Currency:    currency,
		}
		if tr.Ticker == "" {
			tr.Ticker = strings.ToUpper(raw)
		}
		if s := strings.ToLower(row.text(side)); strings.Contains(s, "short") || s == "sell" {
			tr.Side = Short
		}
		if fee := row.number(commission); fee.Valid {
			tr.Commission = fee.Decimal.Abs().Round(4)
		}
		if tr.EntryPrice.Valid && tr.ExitPrice.Valid {
			tr.PnlPercent = returnPercent(tr.Side, tr.EntryPrice.Decimal, tr.ExitPrice.Decimal)
			if !tr.PnlDollar.Valid && tr.Qty.Valid {
				tr.PnlDollar = valid(profit(tr.Side, tr.EntryPrice.Decimal, tr.ExitPrice.Decimal, tr.Qty.Decimal, tr.Commission))
			}
		}
		x.addTrade(tr, timed)
	}
	p.logger.Info("manual csv", "sheet", t.sheet, "rows", len(t.rows), "trades", len(x.trades))
	return x
}
