package statement

import (
	"slices"

	"github.com/etnz/statement/date"
	"github.com/shopspring/decimal"
)

// Result is the outcome of parsing one broker document.
type Result struct {
	Broker       string      `json:"broker"`
	Currency     string      `json:"currency"`
	ReportPeriod *date.Range `json:"reportPeriod"`
	Trades       []Trade     `json:"trades"`
	Holdings     []Holding   `json:"holdings"`
	Warnings     []string    `json:"warnings"`
	Summary      Summary     `json:"summary"`
	// Executions are the legs read from an execution log, before matching.
	Executions []Execution `json:"executions,omitempty"`
}

// Summary aggregates the trades and holdings of a Result.
type Summary struct {
	TotalPnl        decimal.Decimal `json:"totalPnl"`
	TotalCosts      decimal.Decimal `json:"totalCosts"`
	TradeCount      int             `json:"tradeCount"`
	HoldingsCount   int             `json:"holdingsCount"`
	CompleteCount   int             `json:"completeCount"`
	IncompleteCount int             `json:"incompleteCount"`
}

// Incomplete returns the trades that are not complete.
func (r *Result) Incomplete() []Trade {
	var ts []Trade
	for _, t := range r.Trades {
		if !t.IsComplete() {
			ts = append(ts, t)
		}
	}
	return ts
}

// extract is what one adapter produced from one table or text.
type extract struct {
	trades     []Trade
	holdings   []Holding
	executions []Execution
	warnings   []string
}

// warn records a non fatal diagnostic.
func (x *extract) warn(msg string) { x.warnings = append(x.warnings, msg) }

// addTrade fills in the missing fields and the status of t and records it.
// timed tells whether the source reports trade dates.
func (x *extract) addTrade(t Trade, timed bool) {
	t.Missing = missingOf(t)
	t.Status = statusOf(t, timed)
	x.trades = append(x.trades, t)
}

// addHolding records an open position.
func (x *extract) addHolding(h Holding) {
	var missing []string
	if h.Ticker == "" {
		missing = append(missing, FieldTicker)
	}
	if !h.Qty.Valid {
		missing = append(missing, FieldQuantity)
	}
	if !h.EntryPrice.Valid {
		missing = append(missing, FieldEntryPrice)
	}
	// no source reports when a holding was opened.
	missing = append(missing, FieldOpenedAt)
	h.Missing = missing
	h.Status = StatusOpen
	x.holdings = append(x.holdings, h)
}

func (x *extract) merge(y extract) {
	x.trades = append(x.trades, y.trades...)
	x.holdings = append(x.holdings, y.holdings...)
	x.executions = append(x.executions, y.executions...)
	x.warnings = append(x.warnings, y.warnings...)
}

// missingOf lists the fields of t that could not be populated, in a fixed order.
func missingOf(t Trade) []string {
	missing := []string{}
	if t.Ticker == "" {
		missing = append(missing, FieldTicker)
	}
	if !t.Qty.Valid {
		missing = append(missing, FieldQuantity)
	}
	if !t.EntryPrice.Valid {
		missing = append(missing, FieldEntryPrice)
	}
	if !t.ExitPrice.Valid {
		missing = append(missing, FieldExitPrice)
	}
	if t.OpenedAt.IsZero() {
		missing = append(missing, FieldOpenedAt)
	}
	if t.ClosedAt.IsZero() {
		missing = append(missing, FieldClosedAt)
	}
	return missing
}

// buildResult assembles the final Result: trades are sorted by opening time
// (unknown first, source order otherwise) and the summary is computed.
func buildResult(broker, currency string, x extract) *Result {
	r := &Result{
		Broker:     broker,
		Currency:   currency,
		Trades:     x.trades,
		Holdings:   x.holdings,
		Warnings:   x.warnings,
		Executions: x.executions,
	}
	if r.Trades == nil {
		r.Trades = []Trade{}
	}
	if r.Holdings == nil {
		r.Holdings = []Holding{}
	}
	if r.Warnings == nil {
		r.Warnings = []string{}
	}
	slices.SortStableFunc(r.Trades, func(a, b Trade) int { return a.OpenedAt.Compare(b.OpenedAt) })
	r.Summary = summarize(r.Trades, r.Holdings)
	return r
}

func summarize(trades []Trade, holdings []Holding) Summary {
	s := Summary{TradeCount: len(trades), HoldingsCount: len(holdings)}
	for _, t := range trades {
		if t.PnlDollar.Valid {
			s.TotalPnl = s.TotalPnl.Add(t.PnlDollar.Decimal)
		}
		s.TotalCosts = s.TotalCosts.Add(t.Commission)
		switch t.Status {
		case StatusComplete:
			s.CompleteCount++
		case StatusIncomplete:
			s.IncompleteCount++
		}
	}
	s.TotalPnl = s.TotalPnl.Round(2)
	s.TotalCosts = s.TotalCosts.Round(2)
	return s
}
