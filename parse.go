package statement

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/etnz/statement/date"
)

// Parser reconstructs trades from broker documents.
//
// A Parser holds no state between calls and can be used concurrently.
// The zero value uses the default ticker table and logger.
type Parser struct {
	tickers *TickerTable
	logger  *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithTickers sets the table used to resolve instrument names to tickers.
func WithTickers(t *TickerTable) Option { return func(p *Parser) { p.tickers = t } }

// WithLogger sets the logger receiving diagnostics.
func WithLogger(l *slog.Logger) Option { return func(p *Parser) { p.logger = l } }

// NewParser returns a Parser configured with opts.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// session returns the parser to use for one call, with its defaults resolved.
// The default ticker table is read once so that a call sees a single table.
func (p *Parser) session() *Parser {
	s := &Parser{}
	if p != nil {
		*s = *p
	}
	if s.tickers == nil {
		s.tickers = DefaultTickers()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// ParseCSV parses a comma separated export.
func (p *Parser) ParseCSV(text string) (*Result, error) {
	return p.session().parseDelimited(normalizeText(text), ',')
}

// ParseExcel parses every worksheet of an .xlsx or .xls workbook.
//
// A Saxo transactions sheet is a complete dataset: it ends the scan. Closed
// positions and manual sheets accumulate across the workbook.
func (p *Parser) ParseExcel(data []byte) (*Result, error) {
	s := p.session()
	tables, err := readWorkbook(data)
	if err != nil {
		return nil, err
	}
	const currency = "GBP"
	var (
		x        extract
		detected bool
		sheets   []SheetHeaders
	)
	for _, t := range tables {
		sheets = append(sheets, SheetHeaders{Sheet: t.sheet, Headers: t.headers})
		if len(t.rows) == 0 {
			s.logger.Info("excel sheet empty", "sheet", t.sheet)
			continue
		}
		s.logger.Info("excel sheet", "sheet", t.sheet, "rows", len(t.rows), "headers", t.headers)
		format, ok := DetectHeaders(t.headers)
		if !ok {
			continue
		}
		s.logger.Info("format detected", "source", "excel", "sheet", t.sheet, "format", format)
		detected = true
		switch format {
		case SaxoTransactions:
			x.merge(s.saxoTransactions(t, currency))
		case SaxoClosedPositions:
			x.merge(s.saxoClosedPositions(t, currency))
		case ManualCSV:
			x.merge(s.manualCSV(t, currency))
		}
		if format == SaxoTransactions {
			break
		}
	}
	if !detected {
		return nil, &FormatError{Source: "excel", Sheets: sheets}
	}
	return buildResult("excel", currency, x), nil
}

// ParseText parses pasted text. In order, it recognizes an execution log,
// comma then tab separated values, and finally any text holding a
// DD-Mon-YYYY date, read as an execution log.
func (p *Parser) ParseText(text string) (*Result, error) {
	s := p.session()
	text = normalizeText(text)
	if isExecutionLog(text) {
		s.logger.Info("format detected", "source", "text", "format", SaxoExecutionLog)
		return buildResult(string(SaxoExecutionLog), "USD", s.executionLog(text, "USD")), nil
	}
	first := strings.TrimSpace(strings.SplitN(strings.TrimLeft(text, "\n"), "\n", 2)[0])
	switch {
	case strings.Contains(first, ","):
		return s.parseDelimited(text, ',')
	case strings.Contains(first, "\t"):
		return s.parseDelimited(text, '\t')
	case date.MonthNameRe.MatchString(text):
		s.logger.Info("format detected", "source", "text", "format", SaxoExecutionLog, "signature", "date")
		return buildResult(string(SaxoExecutionLog), "USD", s.executionLog(text, "USD")), nil
	}
	return nil, &FormatError{Source: "text", FirstLine: firstLine(text)}
}

// ParsePDF parses a Saxo portfolio statement.
func (p *Parser) ParsePDF(data []byte) (*Result, error) {
	s := p.session()
	text, pages, err := pdfText(data)
	if err != nil {
		return nil, err
	}
	s.logger.Info("pdf", "pages", pages, "chars", len(text))
	if strings.TrimSpace(text) == "" {
		return nil, &FormatError{Source: "pdf"}
	}
	return s.ParseStatementText(text)
}

// ParseStatementText parses the text of a portfolio statement, as extracted
// from its PDF.
func (p *Parser) ParseStatementText(text string) (*Result, error) {
	s := p.session()
	x, h := s.statement(normalizeText(text))
	r := buildResult(string(PDFStatement), h.currency, x)
	r.ReportPeriod = h.period
	return r, nil
}

// Kind is the declared kind of a document.
type Kind string

const (
	KindAuto  Kind = ""
	KindCSV   Kind = "csv"
	KindExcel Kind = "excel"
	KindText  Kind = "text"
	KindPDF   Kind = "pdf"
)

// ParseKind reads a kind name, as given on a command line.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindAuto, KindCSV, KindExcel, KindText, KindPDF:
		return k, nil
	case "auto":
		return KindAuto, nil
	case "xlsx", "xls":
		return KindExcel, nil
	case "txt", "tsv":
		return KindText, nil
	}
	return "", fmt.Errorf("unknown document kind %q, want auto, csv, excel, text or pdf", s)
}

// Sniff guesses the kind of a document from its first bytes.
func Sniff(data []byte) Kind {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF")):
		return KindPDF
	case isXLSX(data), isXLS(data):
		return KindExcel
	}
	return KindText
}

// Parse parses a document of the declared kind, sniffing it when kind is KindAuto.
func (p *Parser) Parse(data []byte, kind Kind) (*Result, error) {
	if kind == KindAuto {
		kind = Sniff(data)
	}
	switch kind {
	case KindPDF:
		return p.ParsePDF(data)
	case KindExcel:
		return p.ParseExcel(data)
	}
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}
	if kind == KindCSV {
		return p.ParseCSV(text)
	}
	return p.ParseText(text)
}

// ParseCSV parses a comma separated export with the default parser.
func ParseCSV(text string) (*Result, error) { return NewParser().ParseCSV(text) }

// ParseExcel parses a workbook with the default parser.
func ParseExcel(data []byte) (*Result, error) { return NewParser().ParseExcel(data) }

// ParseText parses pasted text with the default parser.
func ParseText(text string) (*Result, error) { return NewParser().ParseText(text) }

// ParsePDF parses a portfolio statement with the default parser.
func ParsePDF(data []byte) (*Result, error) { return NewParser().ParsePDF(data) }

// ParseStatementText parses the text of a portfolio statement with the default parser.
func ParseStatementText(text string) (*Result, error) {
	return NewParser().ParseStatementText(text)
}

// Parse parses a document with the default parser.
func Parse(data []byte, kind Kind) (*Result, error) { return NewParser().Parse(data, kind) }
