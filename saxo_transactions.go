package statement

import (
	"fmt"
	"strings"
)

// saxoTransactionColumns are the columns of a Saxo "Transactions" export:
//
//	Trade Date | Value Date | Product | Symbol | Instrument | Open/Close | Buy/Sell | Quantity | Price | Booked Amount | Realized P/L | ...
type saxoTransactionColumns struct {
	product     string
	instrument  string
	openClose   string
	buySell     string
	quantity    string
	price       string
	tradeDate   string
	realizedPnl string
	symbol      string
	cost        string
}

func newSaxoTransactionColumns(headers []string) saxoTransactionColumns {
	c := newColumns(headers)
	return saxoTransactionColumns{
		product:     c.find("product"),
		instrument:  c.find("instrument"),
		openClose:   c.find("open/close", "open / close"),
		buySell:     c.find("buy/sell", "buy / sell"),
		quantity:    c.find("quantity"),
		price:       c.find("price"),
		tradeDate:   c.find("trade date"),
		realizedPnl: c.find("realized p/l", "realized p&l", "realized pnl"),
		symbol:      c.find("symbol"),
		cost:        c.find("booked cost", "total cost", "commission"),
	}
}

// execution normalizes one row. ok is false for rows that cannot be traded
// or have no instrument. A row with no usable quantity is returned with a
// zero Qty.
func (c saxoTransactionColumns) execution(row RawRow, tickers *TickerTable) (e Execution, ok bool) {
	product := row.text(c.product)
	if c.product != "" && !tradeable(product) {
		return e, false
	}
	e.Instrument = row.text(c.instrument)
	if e.Instrument == "" {
		return e, false
	}
	e.ProductType = productTypeOf(product)

	switch oc := strings.ToLower(row.text(c.openClose)); {
	case strings.Contains(oc, "open"):
		e.Intent = Open
	case strings.Contains(oc, "close"):
		e.Intent = Close
	}

	qty := row.number(c.quantity)
	switch bs := strings.ToLower(row.text(c.buySell)); {
	case strings.Contains(bs, "sell"):
		e.Side = Sell
	case strings.Contains(bs, "buy"):
		e.Side = Buy
	case qty.Valid && qty.Decimal.IsNegative():
		e.Side = Sell
	default:
		e.Side = Buy
	}
	if q := quantityOf(qty); q.Valid {
		e.Qty = q.Decimal
	}
	e.Price = row.number(c.price)
	e.Time = row.stamp(c.tradeDate)
	e.RealizedPnl = row.number(c.realizedPnl)
	if cost := row.number(c.cost); cost.Valid {
		e.Cost = cost.Decimal.Abs()
	}
	if sym := row.text(c.symbol); sym != "" {
		e.Ticker = symbolTicker(sym)
	} else {
		e.Ticker = tickers.Lookup(e.Instrument)
	}
	return e, true
}

// saxoTransactions reconstructs trades from a Saxo transactions ledger: one
// row per execution, opening and closing legs are matched per instrument.
func (p *Parser) saxoTransactions(t table, currency string) extract {
	var x extract
	c := newSaxoTransactionColumns(t.headers)
	p.logger.Debug("saxo transactions columns", "sheet", t.sheet, "product", c.product, "instrument", c.instrument,
		"openClose", c.openClose, "buySell", c.buySell, "quantity", c.quantity, "price", c.price,
		"tradeDate", c.tradeDate, "realizedPnl", c.realizedPnl, "symbol", c.symbol, "cost", c.cost)

	var (
		legs    []Execution
		unsized []Execution
		kept    int
		unknown int
		intents []string // distinct values of the open/close column
	)
	seen := make(map[string]bool)
	for _, row := range t.rows {
		e, ok := c.execution(row, p.tickers)
		if !ok {
			continue
		}
		kept++
		if v := row.text(c.openClose); !seen[v] {
			seen[v] = true
			intents = append(intents, v)
		}
		switch {
		case e.Intent == UnknownIntent:
			unknown++
		case !e.Qty.IsPositive():
			unsized = append(unsized, e)
		default:
			legs = append(legs, e)
		}
	}
	p.logger.Info("saxo transactions rows", "sheet", t.sheet, "rows", len(t.rows), "kept", kept, "legs", len(legs), "unknown", unknown)

	if len(legs) == 0 && len(unsized) == 0 {
		x.warn(fmt.Sprintf("No OPEN/CLOSE rows found. Open/Close column: %q. Unique values: %s", c.openClose, strings.Join(intents, ", ")))
	}

	for _, g := range groupLegs(legs, func(e Execution) bool { return e.Intent == Open }) {
		for _, tr := range g.match(inferOpen, currency) {
			x.addTrade(tr, true)
		}
	}
	for _, e := range unsized {
		x.addTrade(unsizedTrade(e, currency), true)
	}
	return x
}

// unsizedTrade reports a leg whose quantity could not be read. It cannot be
// matched and is kept so that the row is not lost.
func unsizedTrade(e Execution, currency string) Trade {
	t := Trade{
		Instrument:  e.Instrument,
		Ticker:      e.Ticker,
		ProductType: e.ProductType,
		Currency:    currency,
		Commission:  e.Cost.Round(4),
	}
	if e.Intent == Close {
		t.Side = directionOf(e.Side.Opposite())
		t.ExitPrice = e.Price
		t.ClosedAt = e.Time
		t.PnlDollar = e.RealizedPnl
		return t
	}
	t.Side = directionOf(e.Side)
	t.EntryPrice = e.Price
	t.OpenedAt = e.Time
	return t
}
