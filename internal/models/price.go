package models

import "github.com/shopspring/decimal"

// Price is a decimal amount. The inventory API expects prices as JSON
// numbers; both numbers and quoted strings are accepted on decode.
type Price struct {
	decimal.Decimal
}

func NewPrice(d decimal.Decimal) Price {
	return Price{Decimal: d}
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.Decimal.String()), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	return p.Decimal.UnmarshalJSON(data)
}
