package models

import "github.com/shopspring/decimal"

// OrderStatus tracks a placed purchase order through its lifecycle.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
	OrderFailed    OrderStatus = "failed"
)

type ListingStatus string

const (
	ListingActive   ListingStatus = "active"
	ListingPending  ListingStatus = "pending"
	ListingRejected ListingStatus = "rejected"
)

// ProductDetails is the marketplace-facing view of a listed module.
type ProductDetails struct {
	SKU            string          `json:"sku"`
	Title          string          `json:"title"`
	Brand          string          `json:"brand"`
	Product        ProductIdentity `json:"product"`
	Price          decimal.Decimal `json:"price"`
	ShippingCost   decimal.Decimal `json:"shipping_cost"`
	Availability   StockStatus     `json:"availability"`
	StockQuantity  *int            `json:"stock_quantity,omitempty"`
	SellerName     string          `json:"seller_name"`
	SellerRating   *float64        `json:"seller_rating,omitempty"`
	WarrantyMonths int             `json:"warranty_months"`
	Condition      string          `json:"condition"` // new, refurbished, used
	URL            string          `json:"url"`
}

type OrderConfirmation struct {
	OrderID           string          `json:"order_id"`
	SKU               string          `json:"sku"`
	Quantity          int             `json:"quantity"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	EstimatedDelivery string          `json:"estimated_delivery"`
	TrackingNumber    *string         `json:"tracking_number,omitempty"`
	Status            OrderStatus     `json:"status"`
}

type ListingResponse struct {
	ListingID string          `json:"listing_id"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	URL       string          `json:"url"`
	Status    ListingStatus   `json:"status"`
}
