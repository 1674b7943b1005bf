package renderer

import (
	"bytes"
	"io"

	"github.com/etnz/statement"
	"github.com/shopspring/decimal"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// unknown is printed in place of a value the statement did not report.
const unknown = "?"

// money formats a nullable amount, or unknown.
func money(d decimal.NullDecimal, cur string) string {
	if !d.Valid {
		return unknown
	}
	return statement.M(d.Decimal, cur).String()
}

// signedMoney is like money but always shows the sign.
func signedMoney(d decimal.NullDecimal, cur string) string {
	if !d.Valid {
		return unknown
	}
	return statement.M(d.Decimal, cur).SignedString()
}

func quantity(d decimal.NullDecimal) string {
	if !d.Valid {
		return unknown
	}
	return d.Decimal.String()
}

func percent(d decimal.NullDecimal) string {
	p, ok := statement.PercentOf(d)
	if !ok {
		return unknown
	}
	return p.SignedString()
}

// label names a position by its ticker, falling back to the instrument name.
func label(ticker, instrument string) string {
	switch {
	case ticker != "":
		return ticker
	case instrument != "":
		return instrument
	}
	return unknown
}

// cell escapes the pipes that would break a table row.
func cell(s string) string {
	if s == "" {
		return unknown
	}
	return pipeEscaper.Replace(s)
}
