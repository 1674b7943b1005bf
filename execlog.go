package statement

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/statement/date"
	"github.com/shopspring/decimal"
)

// An execution log is the activity feed pasted from the trading platform:
//
//	15-Jan-2024
//	14:30:05
//	Position 123456: Share trade executed to Buy 100 TSLA:xnas @ 215.50, cost 1.00
var (
	logDateRe      = regexp.MustCompile(`^(\d{1,2}-\w{3}-\d{4})$`)
	logTimeRe      = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})$`)
	logExecutionRe = regexp.MustCompile(`(?i)Position\s+(\d+):\s+(Share|CFD)\s+trade\s+executed\s+to\s+(Buy|Sell)\s+(\d+)\s+(\S+?)(?::x\w+)?\s+@\s+([\d.]+),\s*cost\s+([\d.]+)`)
)

// logLookahead is how many lines after a time line may hold its execution.
const logLookahead = 4

// isExecutionLog reports whether text carries the execution log signature.
func isExecutionLog(text string) bool {
	return strings.Contains(text, "trade executed to") && strings.Contains(text, "Position")
}

// readExecutionLog extracts the executions of a log, in chronological order.
func readExecutionLog(text string) []Execution {
	lines := nonBlankLines(text)
	var (
		execs []Execution
		day   date.Date
		known bool
	)
	for i, line := range lines {
		if m := logDateRe.FindStringSubmatch(line); m != nil {
			d, err := date.ParseDayMonthName(m[1])
			day, known = d, err == nil
			continue
		}
		m := logTimeRe.FindStringSubmatch(line)
		if m == nil || !known {
			continue
		}
		at := clockOn(day, m[1], m[2], m[3])
		for j := i + 1; j < len(lines) && j <= i+logLookahead; j++ {
			if logTimeRe.MatchString(lines[j]) || logDateRe.MatchString(lines[j]) {
				break // the next entry owns what follows
			}
			if e, ok := parseLogExecution(lines[j], at); ok {
				execs = append(execs, e)
				break
			}
		}
	}
	return sortLegs(execs)
}

func parseLogExecution(line string, at date.Stamp) (Execution, bool) {
	m := logExecutionRe.FindStringSubmatch(line)
	if m == nil {
		return Execution{}, false
	}
	qty, err := decimal.NewFromString(m[4])
	if err != nil || !qty.IsPositive() {
		return Execution{}, false
	}
	ticker := strings.ToUpper(strings.TrimSuffix(m[5], "_NEW"))
	e := Execution{
		Instrument:  ticker,
		Ticker:      ticker,
		Side:        Buy,
		Qty:         qty,
		Price:       ParseNumber(m[6]),
		Cost:        ParseNumber(m[7]).Decimal,
		Time:        at,
		ProductType: Stock,
		PositionID:  m[1],
	}
	if strings.EqualFold(m[3], "sell") {
		e.Side = Sell
	}
	if strings.EqualFold(m[2], "cfd") {
		e.ProductType = CFD
	}
	return e, true
}

// executionLog matches a log under a long-only assumption: buys open, sells close.
func (p *Parser) executionLog(text, currency string) extract {
	x := extract{executions: readExecutionLog(text)}
	p.logger.Info("execution log", "executions", len(x.executions))
	for _, g := range groupLegs(x.executions, func(e Execution) bool { return e.Side == Buy }) {
		for _, t := range g.match(openShort, currency) {
			x.addTrade(t, true)
		}
	}
	return x
}

func clockOn(d date.Date, hh, mm, ss string) date.Stamp {
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	s, _ := strconv.Atoi(ss)
	if h > 23 || m > 59 || s > 59 {
		return date.Day(d)
	}
	return date.At(time.Date(d.Year(), d.Month(), d.Day(), h, m, s, 0, time.UTC))
}

// nonBlankLines splits text into trimmed, non blank lines.
func nonBlankLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
