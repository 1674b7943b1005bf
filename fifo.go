package statement

import (
	"slices"

	"github.com/shopspring/decimal"
)

// orphanPolicy tells what a close becomes when no open is left to match it.
type orphanPolicy int

const (
	// inferOpen reports the close alone, with the side it implies and no
	// entry. The statement window started while the position was open.
	inferOpen orphanPolicy = iota
	// openShort is for long-only sources, where every buy opens and every
	// sell closes: a sell with no buy left opens a short position.
	openShort
)

// instrumentLegs are the executions of one instrument split by intent.
type instrumentLegs struct {
	instrument string
	ticker     string
	opens      []Execution
	closes     []Execution
}

// groupLegs groups executions by raw instrument name, in first seen order.
// The ticker of a group is the first one resolved among its executions.
func groupLegs(execs []Execution, isOpen func(Execution) bool) []*instrumentLegs {
	var groups []*instrumentLegs
	index := make(map[string]*instrumentLegs)
	for _, e := range execs {
		g, ok := index[e.Instrument]
		if !ok {
			g = &instrumentLegs{instrument: e.Instrument}
			index[e.Instrument] = g
			groups = append(groups, g)
		}
		if g.ticker == "" {
			g.ticker = e.Ticker
		}
		if isOpen(e) {
			g.opens = append(g.opens, e)
		} else {
			g.closes = append(g.closes, e)
		}
	}
	return groups
}

// sortLegs returns a copy of legs in chronological order. Legs with an
// unknown time come first and source order breaks ties.
func sortLegs(legs []Execution) []Execution {
	s := slices.Clone(legs)
	slices.SortStableFunc(s, func(a, b Execution) int { return a.Time.Compare(b.Time) })
	return s
}

// legCursor walks a list of legs. remaining is what is left to match of the
// current leg, the legs themselves are never modified.
type legCursor struct {
	legs      []Execution
	i         int
	remaining decimal.Decimal
	touched   bool // the current leg took part in a match already
}

func newLegCursor(legs []Execution) legCursor {
	c := legCursor{legs: legs}
	if len(legs) > 0 {
		c.remaining = legs[0].Qty
	}
	return c
}

func (c *legCursor) done() bool     { return c.i >= len(c.legs) }
func (c *legCursor) leg() Execution { return c.legs[c.i] }

// take consumes qty from the current leg, moving to the next one when it is exhausted.
func (c *legCursor) take(qty decimal.Decimal) {
	c.remaining = c.remaining.Sub(qty)
	c.touched = true
	if c.remaining.IsPositive() {
		return
	}
	c.i++
	c.touched = false
	if !c.done() {
		c.remaining = c.legs[c.i].Qty
	}
}

// match pairs the opens and closes of the instrument, first in first out.
//
// Each step matches the smaller of the two current remainders. The trade
// commission is the full cost of both legs, so a leg split across several
// trades is charged on each of them. Legs left over become single sided
// trades. The returned trades have no status yet.
func (g *instrumentLegs) match(policy orphanPolicy, currency string) []Trade {
	opens := newLegCursor(sortLegs(g.opens))
	closes := newLegCursor(sortLegs(g.closes))

	var trades []Trade
	for !opens.done() && !closes.done() {
		o, c := opens.leg(), closes.leg()
		qty := decimal.Min(opens.remaining, closes.remaining)
		t := g.trade(o, currency)
		t.Qty = valid(qty)
		t.ExitPrice = c.Price
		t.ClosedAt = c.Time
		t.Commission = o.Cost.Abs().Add(c.Cost.Abs()).Round(4)
		switch {
		case c.RealizedPnl.Valid:
			t.PnlDollar = valid(c.RealizedPnl.Decimal.Mul(qty).Div(c.Qty).Round(4))
		case o.Price.Valid && c.Price.Valid:
			t.PnlDollar = valid(profit(t.Side, o.Price.Decimal, c.Price.Decimal, qty, t.Commission))
		}
		if o.Price.Valid && c.Price.Valid {
			t.PnlPercent = returnPercent(t.Side, o.Price.Decimal, c.Price.Decimal)
		}
		trades = append(trades, t)

		opens.take(qty)
		closes.take(qty)
	}

	for ; !opens.done(); opens.take(opens.remaining) {
		o := opens.leg()
		t := g.trade(o, currency)
		t.Qty = valid(opens.remaining)
		if !opens.touched {
			t.Commission = o.Cost.Abs().Round(4)
		}
		trades = append(trades, t)
	}

	for ; !closes.done(); closes.take(closes.remaining) {
		trades = append(trades, g.orphan(closes.leg(), valid(closes.remaining), !closes.touched, policy, currency))
	}
	return trades
}

// trade returns a trade opened by the leg o, not closed yet.
func (g *instrumentLegs) trade(o Execution, currency string) Trade {
	return Trade{
		Instrument:  g.instrument,
		Ticker:      g.ticker,
		ProductType: o.ProductType,
		Side:        directionOf(o.Side),
		Qty:         valid(o.Qty),
		EntryPrice:  o.Price,
		OpenedAt:    o.Time,
		Currency:    currency,
	}
}

// orphan returns the trade for a close with no open to match. qty is what is
// left of the leg, whole tells whether no part of it was matched before.
func (g *instrumentLegs) orphan(c Execution, qty decimal.NullDecimal, whole bool, policy orphanPolicy, currency string) Trade {
	if policy == openShort {
		t := g.trade(c, currency)
		t.Side = Short
		t.Qty = qty
		if whole {
			t.Commission = c.Cost.Abs().Round(4)
		}
		return t
	}
	t := Trade{
		Instrument:  g.instrument,
		Ticker:      g.ticker,
		ProductType: c.ProductType,
		// a buy closes a short position.
		Side:      directionOf(c.Side.Opposite()),
		Qty:       qty,
		ExitPrice: c.Price,
		ClosedAt:  c.Time,
		Currency:  currency,
	}
	if whole {
		t.Commission = c.Cost.Abs().Round(4)
	}
	if c.RealizedPnl.Valid && qty.Valid && c.Qty.IsPositive() {
		t.PnlDollar = valid(c.RealizedPnl.Decimal.Mul(qty.Decimal).Div(c.Qty).Round(4))
	}
	return t
}
