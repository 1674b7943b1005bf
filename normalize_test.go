package statement

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   any
		want string // "" for null
	}{
		{"1,234.56", "1234.56"},
		{"$150.00", "150"},
		{"£ 12", "12"},
		{"(45.10)", "-45.1"},
		{"\u2212 3.5", "-3.5"},
		{"12.5%", "12.5"},
		{"1 000", "1000"},
		{"-", ""},
		{"", ""},
		{"abc", ""},
		{"12abc", ""},
		{42.25, "42.25"},
		{math.NaN(), ""},
		{math.Inf(-1), ""},
		{float32(math.Inf(1)), ""},
		{"NaN", ""},
		{"Inf", ""},
		{7, "7"},
		{int64(-3), "-3"},
		{dec("1.5"), "1.5"},
		{num("2.5"), "2.5"},
		{decimal.NullDecimal{}, ""},
		{nil, ""},
		{true, ""},
	}
	for _, test := range tests {
		assertNumber(t, "ParseNumber("+cellDescription(test.in)+")", ParseNumber(test.in), test.want)
	}
}

func cellDescription(v any) string {
	if s, ok := v.(string); ok {
		return "\"" + s + "\""
	}
	return cellString(v)
}

func TestQuantityOf(t *testing.T) {
	assertNumber(t, "quantityOf(-60)", quantityOf(num("-60")), "60")
	assertNumber(t, "quantityOf(0)", quantityOf(num("0")), "")
	assertNumber(t, "quantityOf(null)", quantityOf(decimal.NullDecimal{}), "")
}

func TestFoldHeader(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Trade Date", "trade date"},
		{"  Open /  Close ", "open / close"},
		{"ENTRY_PRICE", "entry_price"},
		{"Realized P/L", "realized p/l"},
	}
	for _, test := range tests {
		if got := foldHeader(test.in); got != test.want {
			t.Errorf("foldHeader(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	got := normalizeText("\ufeffa,b\r\n1,2\r3,4")
	if want := "a,b\n1,2\n3,4"; got != want {
		t.Errorf("normalizeText() = %q, want %q", got, want)
	}
}

func TestDecodeText(t *testing.T) {
	// "a,b\n" encoded as UTF-16 little endian with its byte order mark.
	utf16 := []byte{0xff, 0xfe, 'a', 0, ',', 0, 'b', 0, '\r', 0, '\n', 0}
	got, err := decodeText(utf16)
	if err != nil {
		t.Fatalf("decodeText() error: %v", err)
	}
	if want := "a,b\n"; got != want {
		t.Errorf("decodeText(utf16) = %q, want %q", got, want)
	}

	got, err = decodeText([]byte("\xef\xbb\xbfticker,qty"))
	if err != nil {
		t.Fatalf("decodeText() error: %v", err)
	}
	if want := "ticker,qty"; got != want {
		t.Errorf("decodeText(utf8 bom) = %q, want %q", got, want)
	}
}
