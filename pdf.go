package statement

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfWordGap is the horizontal gap, in points, above which two text runs of
// the same row are separate words.
const pdfWordGap = 1.0

// pdfText extracts the text of a PDF document, one line per row of text,
// pages in order.
func pdfText(data []byte) (text string, pages int, err error) {
	// the reader panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cannot read PDF: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("cannot read PDF: %w", err)
	}
	var b strings.Builder
	pages = r.NumPage()
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", pages, fmt.Errorf("cannot read text of page %d: %w", i, err)
		}
		// top of the page first.
		slices.SortStableFunc(rows, func(a, b *pdf.Row) int { return cmp.Compare(b.Position, a.Position) })
		for _, row := range rows {
			if line := rowText(row.Content); line != "" {
				b.WriteString(line)
				b.WriteByte('\n')
			}
		}
	}
	return b.String(), pages, nil
}

// rowText joins the text runs of a row from left to right.
func rowText(texts pdf.TextHorizontal) string {
	runs := slices.Clone(texts)
	slices.SortStableFunc(runs, func(a, b pdf.Text) int { return cmp.Compare(a.X, b.X) })
	var b strings.Builder
	end := 0.0
	for i, t := range runs {
		if i > 0 && t.X-end > pdfWordGap && !strings.HasSuffix(b.String(), " ") {
			b.WriteByte(' ')
		}
		b.WriteString(t.S)
		end = t.X + t.W
	}
	return strings.TrimSpace(b.String())
}

// statement reconstructs trades and holdings from the text of a portfolio statement.
//
// Closed positions are used when the statement has them, the P/L breakdown
// otherwise. Holdings complete the P/L breakdown trades of the same
// instrument, the others are reported as open positions.
func (p *Parser) statement(text string) (extract, statementHeader) {
	var x extract
	h := readStatementHeader(text)
	if !h.saxo {
		x.warn("PDF does not appear to be from Saxo. Parsing may be inaccurate.")
	}
	tables := scanStatement(nonBlankLines(text))
	p.logger.Info("pdf statement", "closedPositions", len(tables.closed), "plBreakdown", len(tables.pl),
		"holdings", len(tables.holdings), "currency", h.currency)

	for _, cp := range tables.closed {
		x.addTrade(cp.trade(p.tickers.Lookup(cp.instrument), h.currency), true)
	}

	var drafts []Trade
	if len(tables.closed) == 0 {
		for _, it := range tables.pl {
			drafts = append(drafts, it.trade(p.tickers.Lookup(it.instrument), h.currency))
		}
	}

	for _, hd := range tables.holdings {
		i := slices.IndexFunc(drafts, func(t Trade) bool { return strings.EqualFold(t.Instrument, hd.instrument) })
		if i >= 0 {
			drafts[i] = hd.backfill(drafts[i])
			continue
		}
		cur := hd.currency
		if cur == "" {
			cur = h.currency
		}
		x.addHolding(Holding{
			Instrument:    hd.instrument,
			Ticker:        p.tickers.Lookup(hd.instrument),
			Qty:           quantityOf(hd.qty),
			EntryPrice:    hd.openPrice,
			CurrentPrice:  hd.currentPrice,
			UnrealizedPnl: hd.unrealizedPnl,
			Currency:      cur,
		})
	}

	// the breakdown has no dates: its trades are judged on quantity and prices.
	for _, t := range drafts {
		x.addTrade(t, false)
	}
	if len(x.trades) == 0 && len(x.holdings) == 0 {
		x.warn("No closed positions, P/L breakdown or holdings found in the statement.")
	}
	return x, h
}

// trade converts a P/L breakdown row. Quantity and prices are unknown.
func (it plItem) trade(ticker, currency string) Trade {
	t := Trade{
		Instrument:  it.instrument,
		Ticker:      ticker,
		ProductType: it.productType,
		Side:        Long,
		PnlDollar:   it.pnl,
		PnlPercent:  it.returnPct,
		Currency:    currency,
	}
	if it.costs.Valid {
		t.Commission = it.costs.Decimal.Abs().Round(4)
	}
	return t
}

// backfill fills the quantity and prices of t that are still unknown.
func (hd stmtHolding) backfill(t Trade) Trade {
	if !t.Qty.Valid {
		t.Qty = quantityOf(hd.qty)
	}
	if !t.EntryPrice.Valid {
		t.EntryPrice = hd.openPrice
	}
	if !t.ExitPrice.Valid {
		t.ExitPrice = hd.currentPrice
	}
	return t
}
