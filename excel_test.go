package statement

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

// workbook is a helper for test that writes sheets, in order, to an xlsx file.
func workbook(t *testing.T, sheets map[string][][]any, order ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, name := range order {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatal(err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatal(err)
		}
		for r, row := range sheets[name] {
			for c, v := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatal(err)
				}
				if err := f.SetCellValue(name, cell, v); err != nil {
					t.Fatal(err)
				}
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func jan(d int) time.Time { return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC) }

func TestParseExcel_Transactions(t *testing.T) {
	data := workbook(t, map[string][][]any{
		"Transactions": {
			{"Trade Date", "Instrument", "Open/Close", "Buy/Sell", "Quantity", "Price"},
			{jan(2), "Tesla Inc", "Open", "Buy", 100, 10.0},
			{jan(5), "Tesla Inc", "Close", "Sell", -60, 12.0},
		},
		// a transactions sheet is complete: later sheets are not read.
		"Manual": {
			{"ticker", "qty", "entry", "exit"},
			{"AAPL", 1, 1, 2},
		},
	}, "Transactions", "Manual")

	if Sniff(data) != KindExcel {
		t.Fatalf("Sniff() = %q, want excel", Sniff(data))
	}
	r := mustParse(t)(ParseExcel(data))

	if r.Broker != "excel" || r.Currency != "GBP" {
		t.Errorf("broker, currency = %q, %q, want excel, GBP", r.Broker, r.Currency)
	}
	if len(r.Trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(r.Trades))
	}
	done := r.Trades[0]
	assertNumber(t, "pnl", done.PnlDollar, "120")
	if done.OpenedAt != day("2024-01-02") || done.ClosedAt != day("2024-01-05") {
		t.Errorf("dates = %v %v, want the excel dates", done.OpenedAt, done.ClosedAt)
	}
	if done.Status != StatusComplete {
		t.Errorf("status = %q, want complete", done.Status)
	}
	assertNumber(t, "left over qty", r.Trades[1].Qty, "40")
}

func TestParseExcel_Accumulates(t *testing.T) {
	data := workbook(t, map[string][][]any{
		"Notes": {
			{"Account", "Comment"},
			{"123", "nothing to see"},
		},
		"Closed": {
			{"Instrument", "Close Type", "Open date", "Close Date", "Quantity", "Open price", "Close Price"},
			{"Lyft Inc", "Sell", jan(2), jan(10), 100, 15.0, 16.5},
		},
		"Empty": {},
		"Manual": {
			{"Ticker", "Qty", "Entry", "Exit"},
			{"AAPL", 10, 150, 155},
		},
	}, "Notes", "Closed", "Empty", "Manual")

	r := mustParse(t)(ParseExcel(data))
	var tickers []string
	for _, tr := range r.Trades {
		tickers = append(tickers, tr.Ticker)
	}
	// the undated manual trade sorts first.
	if diff := cmp.Diff([]string{"AAPL", "LYFT"}, tickers); diff != "" {
		t.Fatalf("trades mismatch (-want +got):\n%s", diff)
	}
	assertNumber(t, "LYFT pnl", r.Trades[1].PnlDollar, "150")
	assertNumber(t, "AAPL pnl", r.Trades[0].PnlDollar, "50")
	for _, tr := range r.Trades {
		if tr.Currency != "GBP" {
			t.Errorf("%s currency = %q, want GBP", tr.Ticker, tr.Currency)
		}
	}
}

func TestParseExcel_NonFiniteCells(t *testing.T) {
	data := workbook(t, map[string][][]any{
		"Manual": {
			{"ticker", "qty", "entry", "exit"},
			{"MSFT", 50, "NaN", 295},
			{"AAPL", 10, 150, "Inf"},
			{"TSLA", "-infinity", 10, 12},
		},
	}, "Manual")

	r := mustParse(t)(ParseExcel(data))
	got := make(map[string][]string)
	for _, tr := range r.Trades {
		got[tr.Ticker] = tr.Missing
	}
	want := map[string][]string{
		"MSFT": {FieldEntryPrice, FieldOpenedAt, FieldClosedAt},
		"AAPL": {FieldExitPrice, FieldOpenedAt, FieldClosedAt},
		"TSLA": {FieldQuantity, FieldOpenedAt, FieldClosedAt},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("missing fields mismatch (-want +got):\n%s", diff)
	}
}

func TestCellString_NonFinite(t *testing.T) {
	for _, v := range []any{math.NaN(), math.Inf(1), float32(math.Inf(-1))} {
		if got := cellString(v); got != "" {
			t.Errorf("cellString(%v) = %q, want empty", v, got)
		}
	}
}

func TestParseExcel_Unrecognized(t *testing.T) {
	data := workbook(t, map[string][][]any{
		"First":  {{"Account", "Balance"}, {"x", 1}},
		"Second": {{"Foo"}, {"bar"}},
	}, "First", "Second")

	_, err := ParseExcel(data)
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("ParseExcel() error = %v, want a *FormatError", err)
	}
	want := []SheetHeaders{
		{Sheet: "First", Headers: []string{"Account", "Balance"}},
		{Sheet: "Second", Headers: []string{"Foo"}},
	}
	if diff := cmp.Diff(want, fe.Sheets); diff != "" {
		t.Errorf("sheets mismatch (-want +got):\n%s", diff)
	}
}

func TestParseExcel_NotAWorkbook(t *testing.T) {
	if _, err := ParseExcel([]byte("PK\x03\x04 broken")); err == nil {
		t.Error("ParseExcel() of a broken archive expected an error")
	}
	if _, err := ParseExcel([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0, 0}); err == nil {
		t.Error("ParseExcel() of a broken xls expected an error")
	}
}

func TestIsDateFormat(t *testing.T) {
	tests := []struct {
		format string
		want   bool
	}{
		{"dd/mm/yyyy", true},
		{"d-mmm-yy hh:mm", true},
		{"YYYY-MM-DD", true},
		{"#,##0.00", false},
		{`0.00" days"`, false},
		{"[Red]0.00", false},
		{"hh:mm:ss", false},
	}
	for _, test := range tests {
		if got := isDateFormat(test.format); got != test.want {
			t.Errorf("isDateFormat(%q) = %v, want %v", test.format, got, test.want)
		}
	}
}
