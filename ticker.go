package statement

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// TickerTable resolves instrument names, as printed by brokers, to ticker symbols.
//
// A name resolves when its normalized form contains one of the table keys.
// Keys are tried longest first so that "super micro computer" wins over a
// hypothetical "micro". A TickerTable is immutable and safe for concurrent use.
type TickerTable struct {
	entries []tickerEntry
}

type tickerEntry struct {
	key    string
	ticker string
}

// NewTickerTable returns a table from a name to ticker mapping.
// Keys are normalized the same way instrument names are.
func NewTickerTable(names map[string]string) *TickerTable {
	t := &TickerTable{entries: make([]tickerEntry, 0, len(names))}
	for name, ticker := range names {
		key := tickerKey(name)
		if key == "" || ticker == "" {
			continue
		}
		t.entries = append(t.entries, tickerEntry{key: key, ticker: strings.ToUpper(strings.TrimSpace(ticker))})
	}
	slices.SortFunc(t.entries, func(a, b tickerEntry) int {
		if c := cmp.Compare(len(b.key), len(a.key)); c != 0 {
			return c
		}
		return cmp.Compare(a.key, b.key)
	})
	return t
}

// Lookup returns the ticker for an instrument name, or "" when the name is unknown.
func (t *TickerTable) Lookup(instrument string) string {
	if t == nil {
		return ""
	}
	name := tickerKey(instrument)
	if name == "" {
		return ""
	}
	for _, e := range t.entries {
		if strings.Contains(name, e.key) {
			return e.ticker
		}
	}
	return ""
}

// Len returns the number of entries in the table.
func (t *TickerTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Names returns a copy of the table as a name to ticker map.
func (t *TickerTable) Names() map[string]string {
	m := make(map[string]string, t.Len())
	if t == nil {
		return m
	}
	for _, e := range t.entries {
		m[e.key] = e.ticker
	}
	return m
}

// tickerKey lowercases a name and removes dots, commas and dashes
// ("Tesla, Inc." and "TESLA INC" are the same key).
func tickerKey(name string) string {
	name = strings.ToLower(name)
	name = keyPunctuation.Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

// DecodeTickerTable reads a YAML mapping of instrument names to tickers.
//
//	tesla inc: TSLA
//	the kraft heinz co: KHC
func DecodeTickerTable(r io.Reader) (*TickerTable, error) {
	var names map[string]string
	if err := yaml.NewDecoder(r).Decode(&names); err != nil {
		if err == io.EOF {
			return NewTickerTable(nil), nil
		}
		return nil, fmt.Errorf("cannot decode ticker table: %w", err)
	}
	return NewTickerTable(names), nil
}

// EncodeTickerTable writes t as YAML, the format read by DecodeTickerTable.
func EncodeTickerTable(w io.Writer, t *TickerTable) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(t.Names()); err != nil {
		return fmt.Errorf("cannot encode ticker table: %w", err)
	}
	return nil
}

var keyPunctuation = strings.NewReplacer(".", "", ",", "", "-", "")

var defaultTickers atomic.Pointer[TickerTable]

func init() {
	defaultTickers.Store(NewTickerTable(builtinTickers))
}

// DefaultTickers returns the table used by parsers created without WithTickers.
func DefaultTickers() *TickerTable { return defaultTickers.Load() }

// SetDefaultTickers replaces the default table. Parses already running keep
// the table they started with.
func SetDefaultTickers(t *TickerTable) {
	if t == nil {
		t = NewTickerTable(builtinTickers)
	}
	defaultTickers.Store(t)
}

// builtinTickers are the instruments seen in Saxo statements so far.
var builtinTickers = map[string]string{
	"tesla inc":                     "TSLA",
	"blackstone mortgage trust":     "BXMT",
	"ondas inc":                     "ONDS",
	"adlai nortye limited":          "ANL",
	"alumis inc":                    "ALMS",
	"axt inc":                       "AXTI",
	"brand engagement network":      "BNAI",
	"datavault ai inc":              "DTVT",
	"digital currency x technology": "DCXC",
	"fastly inc":                    "FSLY",
	"ginkgo bioworks holdings":      "DNA",
	"greenwich lifesciences":        "GLSI",
	"ionq inc":                      "IONQ",
	"lyft inc":                      "LYFT",
	"once upon a farm":              "OUAF",
	"opera ltd":                     "OPRA",
	"palladyne ai corp":             "PDYN",
	"pbf energy inc":                "PBF",
	"redwood trust inc":             "RWT",
	"skywater technology":           "SKYT",
	"super micro computer":          "SMCI",
	"tal education group":           "TAL",
	"tharimmune inc":                "THAR",
	"the kraft heinz co":            "KHC",
	"under armour inc":              "UAA",
}
