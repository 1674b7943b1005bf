package statement

import (
	"fmt"
	"strings"
)

// Format identifies the layout of a broker export.
// Its value is the broker tag reported in Result.Broker.
type Format string

const (
	SaxoTransactions    Format = "saxo_transactions"
	SaxoClosedPositions Format = "saxo_closed_positions"
	ManualCSV           Format = "csv"
	SaxoExecutionLog    Format = "saxo_execution_log"
	PDFStatement        Format = "saxo"
)

// Description returns a human readable name of the format.
func (f Format) Description() string {
	switch f {
	case SaxoTransactions:
		return "Saxo Transactions"
	case SaxoClosedPositions:
		return "Saxo Closed Positions"
	case ManualCSV:
		return "manual CSV (ticker, qty, entry, exit)"
	case SaxoExecutionLog:
		return "Saxo execution log"
	case PDFStatement:
		return "Saxo PDF portfolio statement"
	}
	return string(f)
}

// headerSet is the folded form of a header row.
type headerSet []string

func newHeaderSet(headers []string) headerSet {
	hs := make(headerSet, 0, len(headers))
	for _, h := range headers {
		hs = append(hs, foldHeader(h))
	}
	return hs
}

// contains reports whether any header contains one of the needles.
func (hs headerSet) contains(needles ...string) bool {
	for _, h := range hs {
		for _, n := range needles {
			if strings.Contains(h, n) {
				return true
			}
		}
	}
	return false
}

// has reports whether a header is exactly one of the names.
func (hs headerSet) has(names ...string) bool {
	for _, h := range hs {
		for _, n := range names {
			if h == n {
				return true
			}
		}
	}
	return false
}

type detector struct {
	format Format
	match  func(headerSet) bool
}

// tabularDetectors is the priority order of tabular formats. The first match
// wins, so stronger signatures come first and the manual CSV, which only
// needs one of its exact columns, comes last.
var tabularDetectors = []detector{
	{SaxoTransactions, func(hs headerSet) bool {
		return hs.contains("trade date") && hs.contains("instrument") && hs.contains("open/close", "open / close")
	}},
	{SaxoClosedPositions, func(hs headerSet) bool {
		return hs.contains("instrument") && hs.contains("close type", "closetype", "closepositionid")
	}},
	{ManualCSV, func(hs headerSet) bool {
		return hs.has("ticker", "symbol", "entry", "entry_price")
	}},
}

// DetectHeaders classifies a header row. It returns false when no tabular
// format matches.
func DetectHeaders(headers []string) (Format, bool) {
	hs := newHeaderSet(headers)
	for _, d := range tabularDetectors {
		if d.match(hs) {
			return d.format, true
		}
	}
	return "", false
}

// supportedFormats lists the formats in error messages.
var supportedFormats = []Format{SaxoTransactions, SaxoClosedPositions, ManualCSV, SaxoExecutionLog, PDFStatement}

// SheetHeaders are the headers read on one worksheet.
type SheetHeaders struct {
	Sheet   string
	Headers []string
}

// FormatError is returned when an input has no recognizable structure.
// It carries what was observed so that the unsupported export can be diagnosed.
type FormatError struct {
	Source    string         // "csv", "excel", "text" or "pdf"
	Headers   []string       // headers of a CSV
	Sheets    []SheetHeaders // headers per worksheet
	FirstLine string         // first line of an unrecognized text
}

func (e *FormatError) Error() string {
	var b strings.Builder
	switch {
	case len(e.Sheets) > 0:
		fmt.Fprintf(&b, "could not detect format in any sheet.")
		for _, s := range e.Sheets {
			fmt.Fprintf(&b, " Sheet %q headers: [%s].", s.Sheet, strings.Join(s.Headers, ", "))
		}
	case e.Source == "text" || e.Source == "pdf":
		fmt.Fprintf(&b, "could not detect %s format. First line: %q.", e.Source, e.FirstLine)
	default:
		fmt.Fprintf(&b, "could not detect %s format. Headers found: [%s].", e.Source, strings.Join(e.Headers, ", "))
	}
	b.WriteString(" Supported formats: ")
	for i, f := range supportedFormats {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Description())
	}
	return b.String()
}

// firstLine returns the first non blank line of text, cut to 100 characters.
func firstLine(text string) string {
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if r := []rune(l); len(r) > 100 {
			return string(r[:100])
		}
		return l
	}
	return ""
}
