package statement

import (
	"regexp"
	"strings"

	"github.com/etnz/statement/date"
	"github.com/shopspring/decimal"
)

// Layout of the text of a Saxo portfolio statement, once extracted from the PDF.
var (
	stmtCurrencyRe = regexp.MustCompile(`Currency:\s*(\w{3})`)
	stmtPeriodRe   = regexp.MustCompile(`Reporting period[:\s]*(\d{1,2}-\w{3}-\d{4})\s*[-\x{2013}]\s*(\d{1,2}-\w{3}-\d{4})`)

	closedHeadingRe   = regexp.MustCompile(`(?i)^Closed positions$`)
	plHeadingRe       = regexp.MustCompile(`(?i)^P/L breakdown`)
	holdingsHeadingRe = regexp.MustCompile(`(?i)^Holdings`)
	stocksHeadingRe   = regexp.MustCompile(`(?i)^Stocks$`)
	cfdsHeadingRe     = regexp.MustCompile(`(?i)^CFDs$`)
	sectionEndRe      = regexp.MustCompile(`(?i)^(Transactions|Cash|Cost summary|Cost explanation|Account Summary|Account value|Non Instrument Related)`)

	// a closed position printed on one line, or its tail once a wrapped
	// instrument name has been removed.
	closedTail     = `(\d{8,12})\s+(Buy|Sell)\s+(\d{1,2}-\w{3}-\d{4})\s+(\d{1,2}-\w{3}-\d{4})\s+([\d,.]+)\s+([\d,.]+)\s+([\d,.]+)\s+([-\d,.]+)\s+([-\d,.]+)\s+([-\d,.]+)`
	closedRowRe    = regexp.MustCompile(`(?i)^(.+?)\s+` + closedTail)
	closedTailRe   = regexp.MustCompile(`(?i)` + closedTail)
	closedHeaderRe = regexp.MustCompile(`(?i)^(Instrument|ClosePositionId|Close Type|Open date|Close Date|Quantity|Open price|Close Price|Total)`)

	// lines that cannot start a wrapped instrument name.
	closedNotNameRe = regexp.MustCompile(`(?i)^(Total|Grand|Instrument|Open|Close|Quantity|Realized)`)

	plRowRe     = regexp.MustCompile(`^(.+?)\s+([\d.,-]+)\s+([\d.,-]+)\s+([\d.,-]+)(?:\s+([\d.,-]+)\s*%)?`)
	plHeaderRe  = regexp.MustCompile(`(?i)^(Instrument|Income|Costs|P/L|% Return|Product type|Total$|Grand Total$)`)
	plSuffixRe  = regexp.MustCompile(`\s*-\s*(ADR|ISIN:.*)$`)
	leadDigitRe = regexp.MustCompile(`^\d`)

	holdingRowRe    = regexp.MustCompile(`^(.+?)\s+(?:\(ISIN:\s*\S+\)\s+)?(\w{3})\s+(\d+)\s+([\d.]+)\s+([\d.]+)\s+([\d.]+)\s+([-\d.]+)%?\s+([-\d.]+)\s+([\d.]+)`)
	holdingHeaderRe = regexp.MustCompile(`(?i)^(Instrument|currency|Total)$`)
	isinRe          = regexp.MustCompile(`\s*\(ISIN:.*?\)`)
)

// maxWrappedLines is how many lines after a wrapped instrument name may hold
// the rest of its closed position row.
const maxWrappedLines = 3

// statementHeader is the metadata printed at the top of a statement.
type statementHeader struct {
	saxo     bool
	currency string
	period   *date.Range
}

func readStatementHeader(text string) statementHeader {
	h := statementHeader{
		saxo:     strings.Contains(text, "Saxo Capital Markets") || strings.Contains(text, "SAXO"),
		currency: "GBP",
	}
	if m := stmtCurrencyRe.FindStringSubmatch(text); m != nil {
		h.currency = strings.ToUpper(m[1])
	}
	if m := stmtPeriodRe.FindStringSubmatch(text); m != nil {
		from, err1 := date.ParseDayMonthName(m[1])
		to, err2 := date.ParseDayMonthName(m[2])
		if err1 == nil && err2 == nil {
			h.period = &date.Range{From: from, To: to}
		}
	}
	return h
}

// plItem is a row of the P/L breakdown: what an instrument earned over the
// period, with no quantity nor price.
type plItem struct {
	instrument  string
	productType ProductType
	income      decimal.NullDecimal
	costs       decimal.NullDecimal
	pnl         decimal.NullDecimal
	returnPct   decimal.NullDecimal
}

// stmtHolding is a row of the holdings section.
type stmtHolding struct {
	instrument    string
	currency      string
	qty           decimal.NullDecimal
	rate          decimal.NullDecimal
	openPrice     decimal.NullDecimal
	currentPrice  decimal.NullDecimal
	changePct     decimal.NullDecimal
	unrealizedPnl decimal.NullDecimal
	marketValue   decimal.NullDecimal
}

// statementTables are the tables recovered from the text of a statement.
type statementTables struct {
	closed   []closedPosition
	pl       []plItem
	holdings []stmtHolding
}

type stmtSection int

const (
	noSection stmtSection = iota
	closedSection
	plSection
	holdingsSection
)

// scanStatement walks the lines of a statement once and extracts its tables.
//
// Sections start on their heading and end on the next one. Inside a section,
// "Stocks" and "CFDs" lines switch the product type. A product heading outside
// of any section starts the P/L breakdown, which is printed without a title
// on some statements.
func scanStatement(lines []string) statementTables {
	var (
		tables  statementTables
		section = noSection
		product = Stock
	)
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		switch {
		case closedHeadingRe.MatchString(line):
			section, product = closedSection, Stock
			continue
		case plHeadingRe.MatchString(line):
			section, product = plSection, Stock
			continue
		case holdingsHeadingRe.MatchString(line):
			section, product = holdingsSection, Stock
			continue
		case sectionEndRe.MatchString(line):
			section = noSection
			continue
		case stocksHeadingRe.MatchString(line), cfdsHeadingRe.MatchString(line):
			product = Stock
			if cfdsHeadingRe.MatchString(line) {
				product = CFD
			}
			if section == noSection {
				section = plSection
			}
			continue
		}

		switch section {
		case closedSection:
			if cp, used, ok := closedRow(lines[i:], product); ok {
				tables.closed = append(tables.closed, cp)
				i += used
			}
		case plSection:
			if it, ok := plRow(line, product); ok {
				tables.pl = append(tables.pl, it)
			}
		case holdingsSection:
			if h, ok := holdingRow(line); ok {
				tables.holdings = append(tables.holdings, h)
			}
		}
	}
	return tables
}

// closedRow reads the closed position starting at lines[0]. The instrument
// name may wrap over several lines before the rest of the row. used is the
// number of extra lines the row spans.
func closedRow(lines []string, product ProductType) (cp closedPosition, used int, ok bool) {
	line := lines[0]
	if closedHeaderRe.MatchString(line) {
		return cp, 0, false
	}
	if m := closedRowRe.FindStringSubmatch(line); m != nil {
		return newClosedPosition(strings.TrimSpace(m[1]), m[2:], product), 0, true
	}
	if !isInstrumentName(line) {
		return cp, 0, false
	}
	n := min(maxWrappedLines, len(lines)-1)
	for k := 1; k <= n; k++ {
		joined := strings.Join(lines[1:k+1], " ")
		if m := closedTailRe.FindStringSubmatch(joined); m != nil {
			// whatever precedes the tail is the end of the name.
			rest := joined[:strings.Index(joined, m[0])]
			name := strings.TrimSpace(line + " " + rest)
			return newClosedPosition(name, m[1:], product), k, true
		}
	}
	return cp, 0, false
}

func isInstrumentName(line string) bool {
	if len(line) <= 3 || closedNotNameRe.MatchString(line) {
		return false
	}
	c := line[0]
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// newClosedPosition builds a position from the ten cells of the row tail:
// position id, close type, open date, close date, quantity, open price,
// close price, open and close booked costs, realized P/L.
func newClosedPosition(instrument string, cells []string, product ProductType) closedPosition {
	open, _ := date.ParseDayMonthName(cells[2])
	closed, _ := date.ParseDayMonthName(cells[3])
	cp := closedPosition{
		instrument:  instrument,
		positionID:  cells[0],
		closeType:   closeTypeOf(cells[1]),
		productType: product,
		qty:         ParseNumber(cells[4]),
		openPrice:   ParseNumber(cells[5]),
		closePrice:  ParseNumber(cells[6]),
		openCost:    ParseNumber(cells[7]).Decimal,
		closeCost:   ParseNumber(cells[8]).Decimal,
		realizedPnl: ParseNumber(cells[9]),
	}
	if !open.IsZero() {
		cp.openedAt = date.Day(open)
	}
	if !closed.IsZero() {
		cp.closedAt = date.Day(closed)
	}
	return cp
}

func plRow(line string, product ProductType) (plItem, bool) {
	if plHeaderRe.MatchString(line) {
		return plItem{}, false
	}
	m := plRowRe.FindStringSubmatch(line)
	if m == nil {
		return plItem{}, false
	}
	name := strings.TrimSpace(plSuffixRe.ReplaceAllString(m[1], ""))
	if leadDigitRe.MatchString(name) || len(name) < 3 || strings.EqualFold(name, "total") {
		return plItem{}, false
	}
	it := plItem{
		instrument:  name,
		productType: product,
		income:      ParseNumber(m[2]),
		costs:       ParseNumber(m[3]),
		pnl:         ParseNumber(m[4]),
	}
	if m[5] != "" {
		it.returnPct = ParseNumber(m[5])
	}
	return it, true
}

func holdingRow(line string) (stmtHolding, bool) {
	if holdingHeaderRe.MatchString(line) {
		return stmtHolding{}, false
	}
	m := holdingRowRe.FindStringSubmatch(line)
	if m == nil {
		return stmtHolding{}, false
	}
	return stmtHolding{
		instrument:    strings.TrimSpace(isinRe.ReplaceAllString(m[1], "")),
		currency:      strings.ToUpper(m[2]),
		qty:           ParseNumber(m[3]),
		rate:          ParseNumber(m[4]),
		openPrice:     ParseNumber(m[5]),
		currentPrice:  ParseNumber(m[6]),
		changePct:     ParseNumber(m[7]),
		unrealizedPnl: ParseNumber(m[8]),
		marketValue:   ParseNumber(m[9]),
	}, true
}
