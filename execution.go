package statement

import (
	"github.com/etnz/statement/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Side is the direction of an execution as reported by the broker.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Sell {
		return Buy
	}
	return Sell
}

// Intent tells whether an execution opens or closes a position, when the
// source reports it.
type Intent string

const (
	Open          Intent = "open"
	Close         Intent = "close"
	UnknownIntent Intent = ""
)

// ProductType is the kind of instrument traded.
type ProductType string

const (
	Stock ProductType = "stock"
	CFD   ProductType = "cfd"
)

// Execution is one broker-reported leg, normalized from a source row.
//
// Qty is always positive; the direction is in Side. Price is null only for
// rows the source could not price.
type Execution struct {
	Instrument  string              `json:"instrument"`
	Ticker      string              `json:"ticker"`
	Side        Side                `json:"side"`
	Intent      Intent              `json:"openClose,omitempty"`
	Qty         decimal.Decimal     `json:"qty"`
	Price       decimal.NullDecimal `json:"price"`
	Cost        decimal.Decimal     `json:"cost"`
	Time        date.Stamp          `json:"execTime"`
	RealizedPnl decimal.NullDecimal `json:"realizedPnl"`
	ProductType ProductType         `json:"productType"`
	PositionID  string              `json:"positionId,omitempty"`
}
