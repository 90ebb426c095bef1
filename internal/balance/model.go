package balance

import "github.com/shopspring/decimal"

// Balance tracks the funds an owner holds in a single currency.
type Balance struct {
	OwnerID       string
	Currency      string
	Available     decimal.Decimal
	Locked        decimal.Decimal
	LinkedAddress string
}
