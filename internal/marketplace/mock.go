package marketplace

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ramarb/internal/models"
)

// MockConnector is an in-memory marketplace with a seeded catalog. Prices
// drift deterministically from a per-venue offset so two mock venues expose
// a spread on the same products. Orders confirm immediately and listings
// activate immediately.
type MockConnector struct {
	name       string
	mu         sync.Mutex
	catalog    []models.ProductDetails
	orders     map[string]models.OrderStatus
	listings   map[string]models.ListingResponse
	priceShift decimal.Decimal
}

func NewMock(name string, priceShiftPct int) *MockConnector {
	m := &MockConnector{
		name:       name,
		orders:     make(map[string]models.OrderStatus),
		listings:   make(map[string]models.ListingResponse),
		priceShift: decimal.NewFromInt(int64(100 + priceShiftPct)).Div(decimal.NewFromInt(100)),
	}
	m.catalog = m.seedCatalog()
	return m
}

func (m *MockConnector) Name() string { return m.name }

func rating(v float64) *float64 { return &v }

func (m *MockConnector) seedCatalog() []models.ProductDetails {
	base := []struct {
		sku      string
		title    string
		brand    string
		product  models.ProductIdentity
		price    int64
		shipping int64
		avail    models.StockStatus
		rating   *float64
	}{
		{"RAM-D4-16-3200", "16GB DDR4-3200 UDIMM", "Kingston", models.ProductIdentity{CapacityGB: 16, SpeedMHz: 3200, Type: models.RAMDDR4}, 45, 5, models.StockInStock, rating(4.7)},
		{"RAM-D4-32-3600", "32GB DDR4-3600 Kit", "Corsair", models.ProductIdentity{CapacityGB: 32, SpeedMHz: 3600, Type: models.RAMDDR4}, 85, 8, models.StockInStock, rating(4.5)},
		{"RAM-D5-32-5600", "32GB DDR5-5600 UDIMM", "Crucial", models.ProductIdentity{CapacityGB: 32, SpeedMHz: 5600, Type: models.RAMDDR5}, 120, 0, models.StockLimited, rating(4.2)},
		{"RAM-D5-64-6000", "64GB DDR5-6000 Kit", "G.Skill", models.ProductIdentity{CapacityGB: 64, SpeedMHz: 6000, Type: models.RAMDDR5}, 245, 12, models.StockInStock, rating(4.8)},
		{"RAM-ECC-32-3200", "32GB ECC DDR4-3200 RDIMM", "Samsung", models.ProductIdentity{CapacityGB: 32, SpeedMHz: 3200, Type: models.RAMECC}, 140, 10, models.StockInStock, rating(4.4)},
	}

	out := make([]models.ProductDetails, 0, len(base))
	for _, b := range base {
		qty := 25
		out = append(out, models.ProductDetails{
			SKU:            b.sku,
			Title:          b.title,
			Brand:          b.brand,
			Product:        b.product,
			Price:          decimal.NewFromInt(b.price).Mul(m.priceShift).Round(2),
			ShippingCost:   decimal.NewFromInt(b.shipping),
			Availability:   b.avail,
			StockQuantity:  &qty,
			SellerName:     m.name + " direct",
			SellerRating:   b.rating,
			WarrantyMonths: 24,
			Condition:      "new",
			URL:            fmt.Sprintf("https://%s.example.com/p/%s", m.name, b.sku),
		})
	}
	return out
}

func (m *MockConnector) FetchObservations(ctx context.Context) ([]models.Observation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	obs := make([]models.Observation, 0, len(m.catalog))
	for _, p := range m.catalog {
		obs = append(obs, models.Observation{
			SKU:          p.SKU,
			Marketplace:  m.name,
			Product:      p.Product,
			Price:        p.Price,
			ShippingCost: p.ShippingCost,
			Availability: p.Availability,
			SellerRating: p.SellerRating,
			CapturedAt:   now,
			URL:          p.URL,
		})
	}
	return obs, nil
}

func (m *MockConnector) Search(ctx context.Context, query string, maxResults int) ([]models.ProductDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := strings.ToLower(query)
	var out []models.ProductDetails
	for _, p := range m.catalog {
		if q == "" || strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.SKU), q) {
			out = append(out, p)
			if maxResults > 0 && len(out) >= maxResults {
				break
			}
		}
	}
	return out, nil
}

func (m *MockConnector) GetDetails(ctx context.Context, sku string) (*models.ProductDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.catalog {
		if p.SKU == sku {
			cp := p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%s: unknown sku %q", m.name, sku)
}

func (m *MockConnector) PlaceOrder(ctx context.Context, sku string, quantity int, maxPrice decimal.Decimal) (*models.OrderConfirmation, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%s: quantity must be positive", m.name)
	}
	p, err := m.GetDetails(ctx, sku)
	if err != nil {
		return nil, err
	}
	unit := p.Price.Add(p.ShippingCost)
	if maxPrice.IsPositive() && unit.GreaterThan(maxPrice) {
		return nil, fmt.Errorf("%s: price %s exceeds limit %s", m.name, unit.StringFixed(2), maxPrice.StringFixed(2))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	id := "ORD-" + uuid.NewString()[:8]
	m.orders[id] = models.OrderConfirmed
	return &models.OrderConfirmation{
		OrderID:           id,
		SKU:               sku,
		Quantity:          quantity,
		TotalCost:         unit.Mul(decimal.NewFromInt(int64(quantity))),
		EstimatedDelivery: time.Now().AddDate(0, 0, 5).Format("2006-01-02"),
		Status:            models.OrderConfirmed,
	}, nil
}

func (m *MockConnector) CheckOrderStatus(ctx context.Context, orderID string) (models.OrderStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status, ok := m.orders[orderID]
	if !ok {
		return "", fmt.Errorf("%s: unknown order %q", m.name, orderID)
	}
	return status, nil
}

func (m *MockConnector) CreateListing(ctx context.Context, sku, title string, price decimal.Decimal, quantity int) (*models.ListingResponse, error) {
	if !price.IsPositive() {
		return nil, fmt.Errorf("%s: listing price must be positive", m.name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := "LIST-" + uuid.NewString()[:8]
	l := models.ListingResponse{
		ListingID: id,
		SKU:       sku,
		Price:     price,
		URL:       fmt.Sprintf("https://%s.example.com/l/%s", m.name, id),
		Status:    models.ListingActive,
	}
	m.listings[id] = l
	return &l, nil
}

func (m *MockConnector) UpdateListingPrice(ctx context.Context, listingID string, price decimal.Decimal) error {
	if !price.IsPositive() {
		return fmt.Errorf("%s: listing price must be positive", m.name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[listingID]
	if !ok {
		return fmt.Errorf("%s: unknown listing %q", m.name, listingID)
	}
	l.Price = price
	m.listings[listingID] = l
	return nil
}

func (m *MockConnector) CancelListing(ctx context.Context, listingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.listings[listingID]; !ok {
		return fmt.Errorf("%s: unknown listing %q", m.name, listingID)
	}
	delete(m.listings, listingID)
	return nil
}
