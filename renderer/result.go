package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/statement"
)

var pipeEscaper = strings.NewReplacer("|", `\|`)

// ResultMarkdown renders a parsed statement as a markdown report.
func ResultMarkdown(r *statement.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Statement Report: %s\n\n", r.Broker)
	fmt.Fprintf(&b, "Currency: %s\n\n", r.Currency)
	if r.ReportPeriod != nil {
		fmt.Fprintf(&b, "Period: %s\n\n", r.ReportPeriod)
	}

	s := r.Summary
	fmt.Fprint(&b, "## Summary\n\n")
	fmt.Fprintln(&b, "| Trades | Complete | Incomplete | Holdings | Total P&L | Total Costs |")
	fmt.Fprintln(&b, "|---:|---:|---:|---:|---:|---:|")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %s | %s |\n",
		s.TradeCount,
		s.CompleteCount,
		s.IncompleteCount,
		s.HoldingsCount,
		statement.M(s.TotalPnl, r.Currency).SignedString(),
		statement.M(s.TotalCosts, r.Currency).String(),
	)

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "\n## Trades\n\n")
		fmt.Fprintln(w, "| Ticker | Type | Side | Qty | Entry | Exit | P&L | Return | Costs | Opened | Closed | Status |")
		fmt.Fprintln(w, "|:---|:---|:---|---:|---:|---:|---:|---:|---:|:---|:---|:---|")
		for _, t := range r.Trades {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
				cell(label(t.Ticker, t.Instrument)),
				cell(string(t.ProductType)),
				cell(string(t.Side)),
				quantity(t.Qty),
				money(t.EntryPrice, t.Currency),
				money(t.ExitPrice, t.Currency),
				signedMoney(t.PnlDollar, t.Currency),
				percent(t.PnlPercent),
				t.Costs().String(),
				cell(t.OpenedAt.String()),
				cell(t.ClosedAt.String()),
				t.Status,
			)
		}
		return len(r.Trades) > 0
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "\n## Incomplete Trades\n\n")
		incomplete := r.Incomplete()
		for _, t := range incomplete {
			fmt.Fprintf(w, "- %s: missing %s\n", label(t.Ticker, t.Instrument), strings.Join(t.Missing, ", "))
		}
		return len(incomplete) > 0
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "\n## Holdings\n\n")
		fmt.Fprintln(w, "| Ticker | Qty | Entry | Current | Unrealized |")
		fmt.Fprintln(w, "|:---|---:|---:|---:|---:|")
		for _, h := range r.Holdings {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
				cell(label(h.Ticker, h.Instrument)),
				quantity(h.Qty),
				money(h.EntryPrice, h.Currency),
				money(h.CurrentPrice, h.Currency),
				signedMoney(h.UnrealizedPnl, h.Currency),
			)
		}
		return len(r.Holdings) > 0
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "\n## Warnings\n\n")
		for _, msg := range r.Warnings {
			fmt.Fprintf(w, "- %s\n", msg)
		}
		return len(r.Warnings) > 0
	})

	return b.String()
}

// TradesMarkdown renders only the incomplete trades and the fields they miss,
// or a single line when every trade is complete.
func TradesMarkdown(r *statement.Result) string {
	var b strings.Builder
	incomplete := r.Incomplete()
	if len(incomplete) == 0 {
		fmt.Fprintf(&b, "All %d trades are complete.\n", len(r.Trades))
		return b.String()
	}
	fmt.Fprintf(&b, "%d of %d trades are incomplete.\n\n", len(incomplete), len(r.Trades))
	fmt.Fprintln(&b, "| Ticker | Instrument | Missing |")
	fmt.Fprintln(&b, "|:---|:---|:---|")
	for _, t := range incomplete {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", cell(t.Ticker), cell(t.Instrument), strings.Join(t.Missing, ", "))
	}
	return b.String()
}
