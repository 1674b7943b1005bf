// Package statement reconstructs trades from broker statements. It reads the
// exports brokers hand out, whatever their shape, and returns the matched
// trades, the positions still open and the problems met on the way.
//
// The supported documents are:
//   - Saxo "Transactions" ledgers (CSV or workbook), one row per execution.
//     Opening and closing legs are matched first in first out per instrument.
//   - Saxo "Closed positions" sheets, already matched by the broker.
//   - Hand written trade lists with ticker, qty, entry and exit columns.
//   - Execution logs pasted from the trading platform.
//   - Saxo PDF portfolio statements.
//
// A document is either parsed, possibly with incomplete trades and warnings,
// or rejected with a *FormatError when its structure is not recognized. A bad
// row never aborts a parse: its trade lists the fields that could not be read
// in Trade.Missing.
//
// # Profit and costs
//
// Profit follows the direction of the trade: a short sold at 12 and bought
// back at 10 earns 2 per unit, so PnlDollar and PnlPercent are positive.
// Statements report short profits that way; the raw (exit-entry) formula
// would report them as losses.
//
// Known approximations, to keep in mind when reconciling totals against the
// broker:
//   - Commission is not pro-rated. Each partial match carries the full cost
//     of both legs involved.
//   - A realized P/L reported by the broker on a closing leg is split across
//     the trades it closes in proportion to their quantity, so the trades sum
//     to the reported value instead of repeating it.
//   - Opening legs left unmatched keep their own cost, so Summary.TotalCosts
//     includes the cost of positions still open.
//
// This package serves as the foundational logic for the `stmt` command-line
// tool.
package statement
