package statement

import (
	"encoding/csv"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeText turns raw bytes into text. A UTF-8 or UTF-16 byte order mark
// selects the encoding, UTF-8 is assumed otherwise. Line endings are
// normalized to "\n".
func decodeText(data []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	b, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", fmt.Errorf("cannot decode text: %w", err)
	}
	return normalizeText(string(b)), nil
}

// normalizeText drops a leading byte order mark and normalizes line endings.
func normalizeText(text string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// readDelimited reads delimited text into a table, the first record is the header.
func readDelimited(text string, comma rune) (table, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return table{}, fmt.Errorf("cannot read delimited text: %w", err)
	}
	grid := make([][]any, len(records))
	for i, rec := range records {
		grid[i] = make([]any, len(rec))
		for j, v := range rec {
			grid[i][j] = v
		}
	}
	return newTable("", grid), nil
}

// parseDelimited detects the format of a CSV or TSV text and parses it.
func (p *Parser) parseDelimited(text string, comma rune) (*Result, error) {
	if len(nonBlankLines(text)) < 2 {
		return buildResult(string(ManualCSV), "USD", extract{warnings: []string{"CSV has no data rows"}}), nil
	}
	t, err := readDelimited(text, comma)
	if err != nil {
		return nil, err
	}
	p.logger.Info("csv", "headers", t.headers, "rows", len(t.rows))

	format, ok := DetectHeaders(t.headers)
	if !ok {
		return nil, &FormatError{Source: "csv", Headers: t.headers}
	}
	p.logger.Info("format detected", "source", "csv", "format", format)
	switch format {
	case SaxoTransactions:
		return buildResult(string(format), "USD", p.saxoTransactions(t, "USD")), nil
	case SaxoClosedPositions:
		return buildResult(string(format), "GBP", p.saxoClosedPositions(t, "GBP")), nil
	default:
		return buildResult(string(format), "USD", p.manualCSV(t, "USD")), nil
	}
}
