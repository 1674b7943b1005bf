package statement

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/statement/date"
	"github.com/google/go-cmp/cmp"
)

const executionLog = `Activity
15-Jan-2024
14:30:05
Position 1001: Share trade executed to Buy 100 TSLA:xnas @ 200.00, cost 1.00
16-Jan-2024
09:15:00
Some unrelated notification
10:00:00
Trade confirmation
Position 1001: Share trade executed to Sell 100 TSLA:xnas @ 210.00, cost 1.00
10:05:00
Position 1002: CFD trade executed to Sell 20 ionq_NEW @ 12.50, cost 0.50
`

func TestParseText_ExecutionLog(t *testing.T) {
	r := mustParse(t)(ParseText(executionLog))

	if r.Broker != "saxo_execution_log" || r.Currency != "USD" {
		t.Errorf("broker, currency = %q, %q, want saxo_execution_log, USD", r.Broker, r.Currency)
	}
	if len(r.Executions) != 3 {
		t.Fatalf("got %d executions, want 3", len(r.Executions))
	}
	first := r.Executions[0]
	wantTime := date.At(time.Date(2024, time.January, 15, 14, 30, 5, 0, time.UTC))
	if first.Time != wantTime || first.Side != Buy || first.PositionID != "1001" {
		t.Errorf("first execution = %+v", first)
	}

	if len(r.Trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(r.Trades))
	}
	tsla, ionq := r.Trades[0], r.Trades[1]
	if tsla.Ticker != "TSLA" || tsla.Side != Long || tsla.Status != StatusComplete {
		t.Errorf("TSLA trade = %q %q %q", tsla.Ticker, tsla.Side, tsla.Status)
	}
	assertNumber(t, "TSLA pnl", tsla.PnlDollar, "998")
	assertNumber(t, "TSLA pnl %", tsla.PnlPercent, "5")
	if !tsla.Commission.Equal(dec("2")) {
		t.Errorf("TSLA commission = %v, want 2", tsla.Commission)
	}

	// a sell with no buy before it opens a short.
	if ionq.Ticker != "IONQ" || ionq.Side != Short || ionq.ProductType != CFD {
		t.Errorf("IONQ trade = %q %q %q", ionq.Ticker, ionq.Side, ionq.ProductType)
	}
	assertNumber(t, "IONQ entry", ionq.EntryPrice, "12.50")
	if diff := cmp.Diff([]string{FieldExitPrice, FieldClosedAt}, ionq.Missing); diff != "" {
		t.Errorf("IONQ missing mismatch (-want +got):\n%s", diff)
	}
}

func TestParseText_DateSignature(t *testing.T) {
	// no "trade executed to" marker: the date alone selects the log reader.
	r := mustParse(t)(ParseText("Statement of 15-Jan-2024\nnothing else\n"))
	if r.Broker != "saxo_execution_log" {
		t.Errorf("broker = %q, want saxo_execution_log", r.Broker)
	}
	if len(r.Trades) != 0 {
		t.Errorf("got %d trades, want none", len(r.Trades))
	}
}

func TestParseText_Delimited(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"comma", "ticker,qty,entry,exit\nAAPL,100,150,155\n"},
		{"tab", "ticker\tqty\tentry\texit\nAAPL\t100\t150\t155\n"},
		{"crlf", "ticker,qty,entry,exit\r\nAAPL,100,150,155\r\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := mustParse(t)(ParseText(test.text))
			if len(r.Trades) != 1 {
				t.Fatalf("got %d trades, want 1", len(r.Trades))
			}
			assertNumber(t, "pnl", r.Trades[0].PnlDollar, "500")
		})
	}
}

func TestReadExecutionLog_Lookahead(t *testing.T) {
	lines := []string{"15-Jan-2024", "14:30:05", "a", "b", "c", "d", "e",
		"Position 1: Share trade executed to Buy 1 TSLA:xnas @ 1.00, cost 0.00"}
	if execs := readExecutionLog(strings.Join(lines, "\n")); len(execs) != 0 {
		t.Errorf("execution beyond the lookahead was read: %+v", execs)
	}
}
