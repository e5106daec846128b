package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RAMType classifies the memory technology of a module.
type RAMType string

const (
	RAMDDR4   RAMType = "DDR4"
	RAMDDR5   RAMType = "DDR5"
	RAMHBM    RAMType = "HBM"
	RAMECC    RAMType = "ECC"
	RAMLPDDR5 RAMType = "LPDDR5"
)

// StockStatus is a marketplace's availability claim for a listing.
type StockStatus string

const (
	StockInStock  StockStatus = "in-stock"
	StockPreOrder StockStatus = "pre-order"
	StockOut      StockStatus = "out-of-stock"
	StockLimited  StockStatus = "limited-stock"
)

// ProductIdentity names a RAM module independent of marketplace SKU, so the
// same physical product listed on two venues groups together. Two listings
// are the same product iff all three fields match.
type ProductIdentity struct {
	CapacityGB int     `json:"capacity_gb"`
	SpeedMHz   int     `json:"speed_mhz"`
	Type       RAMType `json:"type"`
}

func (p ProductIdentity) String() string {
	return fmt.Sprintf("%dGB %s-%d", p.CapacityGB, p.Type, p.SpeedMHz)
}

// Observation is one price point for one listing at one moment. Prices are
// decimals end to end; float arithmetic never touches money.
type Observation struct {
	SKU          string          `json:"sku"`
	Marketplace  string          `json:"marketplace"`
	Product      ProductIdentity `json:"product"`
	Price        decimal.Decimal `json:"price"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Availability StockStatus     `json:"availability"`
	SellerRating *float64        `json:"seller_rating,omitempty"` // 1.0 to 5.0 when known
	CapturedAt   time.Time       `json:"captured_at"`
	URL          string          `json:"url,omitempty"`
}

// LandedCost is the full cost to acquire the listing: price plus shipping.
func (o Observation) LandedCost() decimal.Decimal {
	return o.Price.Add(o.ShippingCost)
}
