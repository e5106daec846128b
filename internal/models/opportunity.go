package models

import "github.com/shopspring/decimal"

// Opportunity is a detected cross-marketplace price discrepancy. It is
// derived from live observations on every detection pass and never persisted.
type Opportunity struct {
	Product ProductIdentity `json:"product"`

	BuyMarketplace string          `json:"buy_from"`
	BuySKU         string          `json:"buy_sku"`
	BuyCost        decimal.Decimal `json:"buy_cost"` // landed cost of the cheapest listing

	SellMarketplace string          `json:"sell_on"`
	SellPrice       decimal.Decimal `json:"sell_price"` // list price; the reseller is not charged shipping

	EstimatedFees decimal.Decimal `json:"estimated_fees"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	MarginPct     decimal.Decimal `json:"margin_pct"`

	Confidence float64 `json:"confidence"`
}
