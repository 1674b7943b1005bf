package statement

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExportLedger(t *testing.T) {
	r := mustParse(t)(ParseCSV(strings.Join([]string{
		"Trade Date,Instrument,Open/Close,Buy/Sell,Quantity,Price",
		"2024-01-02,Tesla Inc,Open,Buy,100,10",
		"2024-01-03,Lyft Inc,Open,Sell,10,20",
		"2024-01-04,Lyft Inc,Close,Buy,10,18",
		"2024-01-05,Tesla Inc,Close,Sell,-60,12",
		"2024-01-06,Widgets Ltd,Open,Buy,1,1",
	}, "\n")))

	var buf bytes.Buffer
	written, skipped, err := ExportLedger(&buf, r.Trades)
	if err != nil {
		t.Fatalf("ExportLedger() error: %v", err)
	}
	// the Widgets trade has no ticker.
	if written != 3 || skipped != 1 {
		t.Errorf("ExportLedger() = %d written, %d skipped, want 3, 1", written, skipped)
	}

	var records []map[string]any
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("line %q is not JSON: %v", scanner.Text(), err)
		}
		records = append(records, rec)
	}

	var commands []string
	for _, rec := range records {
		commands = append(commands, rec["command"].(string)+" "+rec["security"].(string))
	}
	want := []string{
		// 60 closed then 40 still open.
		"buy TSLA", "sell TSLA", "trade TSLA",
		"buy TSLA", "trade TSLA",
		// a short is opened by a sell.
		"sell LYFT", "buy LYFT", "trade LYFT",
	}
	if diff := cmp.Diff(want, commands); diff != "" {
		t.Fatalf("ledger mismatch (-want +got):\n%s", diff)
	}

	open, trade := records[0], records[2]
	if open["amount"] != 600.0 || open["currency"] != "USD" || open["date"] != "2024-01-02" {
		t.Errorf("opening record = %v", open)
	}
	legs, _ := trade["legs"].([]any)
	if len(legs) != 2 || legs[0] != open["id"] || legs[1] != records[1]["id"] {
		t.Errorf("trade legs = %v, want the ids of its executions", trade["legs"])
	}
	if _, ok := records[3]["date"]; !ok {
		t.Errorf("open leg record has no date: %v", records[3])
	}
	if legs, _ := records[4]["legs"].([]any); len(legs) != 1 {
		t.Errorf("open trade legs = %v, want only the opening execution", records[4]["legs"])
	}
}

func TestExportLedger_Deterministic(t *testing.T) {
	r := mustParse(t)(ParseCSV("ticker,qty,entry,exit\nAAPL,100,150,155\nMSFT,50,300,295\n"))
	var a, b bytes.Buffer
	if _, _, err := ExportLedger(&a, r.Trades); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ExportLedger(&b, r.Trades); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Errorf("exporting twice differs:\n%s\n%s", a.String(), b.String())
	}
	// undated trades have no date key at all.
	if strings.Contains(a.String(), `"date"`) {
		t.Errorf("ledger has dates for undated trades:\n%s", a.String())
	}
}

func TestExportable(t *testing.T) {
	tests := []struct {
		trade Trade
		want  bool
	}{
		{Trade{Ticker: "TSLA", Qty: num("1"), EntryPrice: num("1")}, true},
		{Trade{Qty: num("1"), EntryPrice: num("1")}, false},
		{Trade{Ticker: "TSLA", EntryPrice: num("1")}, false},
		{Trade{Ticker: "TSLA", Qty: num("1")}, false},
	}
	for i, test := range tests {
		if got := Exportable(test.trade); got != test.want {
			t.Errorf("#%d Exportable() = %v, want %v", i, got, test.want)
		}
	}
}
