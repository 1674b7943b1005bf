package statement

import (
	"strings"

	"github.com/etnz/statement/date"
	"github.com/shopspring/decimal"
)

// RawRow is one line of tabular input: source column name to cell value.
// Values are string, float64 or time.Time. Only row normalizers read it.
type RawRow map[string]any

// table is a header row and the rows below it, as read from a CSV file or a worksheet.
type table struct {
	sheet   string
	headers []string
	rows    []RawRow
}

// newTable builds a table from a grid of cells whose first row is the header.
// Blank rows are dropped.
func newTable(sheet string, grid [][]any) table {
	t := table{sheet: sheet}
	if len(grid) == 0 {
		return t
	}
	for _, h := range grid[0] {
		t.headers = append(t.headers, cellString(h))
	}
	for _, cells := range grid[1:] {
		row := make(RawRow, len(t.headers))
		blank := true
		for i, h := range t.headers {
			if h == "" || i >= len(cells) {
				continue
			}
			v := cells[i]
			if s, ok := v.(string); ok {
				v = strings.TrimSpace(s)
				if v == "" {
					continue
				}
			}
			if v == nil {
				continue
			}
			row[h] = v
			blank = false
		}
		if !blank {
			t.rows = append(t.rows, row)
		}
	}
	return t
}

// columns locates source columns by folded header.
type columns struct {
	names  []string
	folded []string
}

func newColumns(headers []string) columns {
	c := columns{names: headers}
	for _, h := range headers {
		c.folded = append(c.folded, foldHeader(h))
	}
	return c
}

// find returns the first header containing a needle. Needles are tried in
// order. It returns "" when nothing matches.
func (c columns) find(needles ...string) string {
	for _, n := range needles {
		for i, f := range c.folded {
			if strings.Contains(f, n) {
				return c.names[i]
			}
		}
	}
	return ""
}

// exact returns the first header equal to one of the names.
func (c columns) exact(names ...string) string {
	for i, f := range c.folded {
		for _, n := range names {
			if f == n {
				return c.names[i]
			}
		}
	}
	return ""
}

func (r RawRow) text(col string) string {
	if col == "" {
		return ""
	}
	return cellString(r[col])
}

func (r RawRow) number(col string) decimal.NullDecimal {
	if col == "" {
		return decimal.NullDecimal{}
	}
	return ParseNumber(r[col])
}

func (r RawRow) stamp(col string) date.Stamp {
	if col == "" {
		return date.Stamp{}
	}
	return date.FromValue(r[col])
}

// tradeable reports whether a product cell names something that can be traded.
// Cash movements and account fees are not.
func tradeable(product string) bool {
	p := strings.ToLower(product)
	for _, k := range []string{"cash", "subscription", "billing", "fee"} {
		if strings.Contains(p, k) {
			return false
		}
	}
	return true
}

// symbolTicker turns a broker symbol like "TSLA:xnas" or "ionq_NEW" into a ticker.
func symbolTicker(symbol string) string {
	symbol = strings.TrimSpace(symbol)
	if i := strings.Index(symbol, ":"); i >= 0 {
		symbol = symbol[:i]
	}
	symbol = strings.TrimSuffix(symbol, "_NEW")
	symbol = strings.TrimSuffix(symbol, "_new")
	return strings.ToUpper(symbol)
}

// productTypeOf maps a product cell onto a ProductType.
func productTypeOf(product string) ProductType {
	if strings.Contains(strings.ToLower(product), "cfd") {
		return CFD
	}
	return Stock
}
