package statement

import (
	"fmt"
	"strings"

	"github.com/etnz/statement/date"
	"github.com/shopspring/decimal"
)

// closedPosition is a position the broker reports already matched: one row
// per closed position, in the closed positions sheet or PDF section.
type closedPosition struct {
	instrument  string
	positionID  string
	closeType   Side
	productType ProductType
	openedAt    date.Stamp
	closedAt    date.Stamp
	qty         decimal.NullDecimal
	openPrice   decimal.NullDecimal
	closePrice  decimal.NullDecimal
	openCost    decimal.Decimal
	closeCost   decimal.Decimal
	realizedPnl decimal.NullDecimal
}

// trade converts the position. Closing with a buy means the position was short.
func (cp closedPosition) trade(ticker, currency string) Trade {
	t := Trade{
		Instrument:  cp.instrument,
		Ticker:      ticker,
		ProductType: cp.productType,
		Side:        directionOf(cp.closeType.Opposite()),
		Qty:         quantityOf(cp.qty),
		EntryPrice:  cp.openPrice,
		ExitPrice:   cp.closePrice,
		Commission:  cp.openCost.Abs().Add(cp.closeCost.Abs()).Round(4),
		OpenedAt:    cp.openedAt,
		ClosedAt:    cp.closedAt,
		Currency:    currency,
	}
	if t.EntryPrice.Valid && t.ExitPrice.Valid {
		t.PnlPercent = returnPercent(t.Side, t.EntryPrice.Decimal, t.ExitPrice.Decimal)
	}
	switch {
	case cp.realizedPnl.Valid:
		t.PnlDollar = valid(cp.realizedPnl.Decimal.Round(4))
	case t.EntryPrice.Valid && t.ExitPrice.Valid && t.Qty.Valid:
		t.PnlDollar = valid(profit(t.Side, t.EntryPrice.Decimal, t.ExitPrice.Decimal, t.Qty.Decimal, t.Commission))
	}
	return t
}

// closeTypeOf reads a close type cell, "Sell" when absent.
func closeTypeOf(s string) Side {
	if strings.Contains(strings.ToLower(s), "buy") {
		return Buy
	}
	return Sell
}

// saxoClosedPositions reads a Saxo "Closed positions" sheet:
//
//	Instrument | ClosePositionId | Close Type | Open date | Close Date | Quantity | Open price | Close Price | Realized P/L
func (p *Parser) saxoClosedPositions(t table, currency string) extract {
	var x extract
	c := newColumns(t.headers)
	var (
		instrument  = c.find("instrument")
		positionID  = c.find("closepositionid", "position id")
		closeType   = c.find("close type", "closetype")
		openDate    = c.find("open date", "opendate")
		closeDate   = c.find("close date", "closedate")
		quantity    = c.find("quantity")
		openPrice   = c.find("open price", "openprice")
		closePrice  = c.find("close price", "closeprice")
		openCost    = c.find("open cost", "opencost", "open booked cost")
		closeCost   = c.find("close cost", "closecost", "close booked cost")
		realizedPnl = c.find("realized p/l", "realized p&l", "realizedp/l", "realized pnl", "p/l", "pnl")
		product     = c.find("product", "asset type")
	)
	p.logger.Debug("saxo closed positions columns", "sheet", t.sheet, "instrument", instrument, "closeType", closeType,
		"openDate", openDate, "closeDate", closeDate, "quantity", quantity, "openPrice", openPrice, "closePrice", closePrice,
		"openCost", openCost, "closeCost", closeCost, "realizedPnl", realizedPnl)

	for _, row := range t.rows {
		name := row.text(instrument)
		if name == "" || strings.EqualFold(name, "total") {
			continue
		}
		if product != "" && !tradeable(row.text(product)) {
			continue
		}
		cp := closedPosition{
			instrument:  name,
			positionID:  row.text(positionID),
			closeType:   closeTypeOf(row.text(closeType)),
			productType: productTypeOf(row.text(product)),
			openedAt:    row.stamp(openDate),
			closedAt:    row.stamp(closeDate),
			qty:         row.number(quantity),
			openPrice:   row.number(openPrice),
			closePrice:  row.number(closePrice),
			openCost:    row.number(openCost).Decimal,
			closeCost:   row.number(closeCost).Decimal,
			realizedPnl: row.number(realizedPnl),
		}
		if cp.openedAt.IsZero() && cp.closedAt.IsZero() {
			x.warn(fmt.Sprintf("Skipping %q: no dates found", name))
			continue
		}
		x.addTrade(cp.trade(p.tickers.Lookup(name), currency), true)
	}
	p.logger.Info("saxo closed positions", "sheet", t.sheet, "rows", len(t.rows), "trades", len(x.trades))
	return x
}
