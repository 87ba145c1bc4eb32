package domain

import "github.com/shopspring/decimal"

// CurrencyPlaces is the number of fractional digits every stored amount carries.
const CurrencyPlaces = 2

var DefaultCommissionRate = decimal.RequireFromString("0.15")

// Split is the settlement view of one line item.
type Split struct {
	Gross      decimal.Decimal
	Commission decimal.Decimal
	Net        decimal.Decimal
}

// SplitGross rounds the commission to currency precision and derives net from it,
// so Gross == Commission + Net always holds.
func SplitGross(gross, rate decimal.Decimal) Split {
	gross = gross.Round(CurrencyPlaces)
	commission := gross.Mul(rate).Round(CurrencyPlaces)
	return Split{
		Gross:      gross,
		Commission: commission,
		Net:        gross.Sub(commission),
	}
}

// Money renders an amount the way the API and ledger display it.
func Money(d decimal.Decimal) string {
	return d.StringFixed(CurrencyPlaces)
}
