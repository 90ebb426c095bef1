package asset

import "github.com/shopspring/decimal"

const (
	// CryptoScale is the number of decimal places carried for crypto assets.
	CryptoScale int32 = 8
	// StableScale is the number of decimal places carried for stable assets.
	StableScale int32 = 2
)

// stable lists asset codes treated as stable assets for precision purposes.
var stable = map[string]bool{
	"USDT": true,
	"USDC": true,
	"DAI":  true,
}

// networks maps asset codes to the display label of their settlement network.
// The label is informational only and never participates in ledger arithmetic.
var networks = map[string]string{
	"BTC":  "Bitcoin",
	"ETH":  "Ethereum",
	"USDT": "Ethereum",
	"USDC": "Ethereum",
	"DAI":  "Ethereum",
	"SOL":  "Solana",
	"XRP":  "Ripple",
}

// Scale returns the decimal precision for the given asset code: two places
// for stable assets, eight for everything else.
func Scale(code string) int32 {
	if stable[code] {
		return StableScale
	}
	return CryptoScale
}

// Normalize rounds an amount to the precision appropriate for the asset.
func Normalize(code string, amount decimal.Decimal) decimal.Decimal {
	return amount.Round(Scale(code))
}

// Network returns the settlement network label for an asset code, or an
// empty string when the asset is unknown.
func Network(code string) string {
	return networks[code]
}
