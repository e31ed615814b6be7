package entity

import "github.com/shopspring/decimal"

// CapturedTotal is the amount captured for one merchant and currency.
type CapturedTotal struct {
	MerchantID string          `json:"mid"`
	Currency   string          `json:"currency"`
	Amount     decimal.Decimal `json:"amount"`
}

// SumCaptured adds the amounts of totals in the given currency.
func SumCaptured(totals []CapturedTotal, currency string) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range totals {
		if t.Currency == currency {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}
