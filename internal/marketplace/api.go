package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ramarb/internal/models"
)

// APIError wraps a non-2xx marketplace response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.Status, e.Body)
}

// APIConnector talks to a marketplace exposing the common JSON feed shape:
// GET /products for the full feed, GET /products/search and
// GET /products/{sku} for lookups. It is read-only; order and listing
// operations return ErrNotSupported.
type APIConnector struct {
	name       string
	host       string
	apiKey     string
	httpClient *http.Client
}

func NewAPI(name, host, apiKey string, httpClient *http.Client) *APIConnector {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &APIConnector{
		name:       name,
		host:       strings.TrimRight(host, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (c *APIConnector) Name() string { return c.name }

func (c *APIConnector) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := c.host + path
	if len(query) > 0 {
		fullURL = fullURL + "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func (c *APIConnector) FetchObservations(ctx context.Context) ([]models.Observation, error) {
	body, err := c.doRequest(ctx, "/products", nil)
	if err != nil {
		return nil, err
	}
	var products []models.ProductDetails
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("decode products feed: %w", err)
	}
	now := time.Now()
	obs := make([]models.Observation, 0, len(products))
	for _, p := range products {
		obs = append(obs, models.Observation{
			SKU:          p.SKU,
			Marketplace:  c.name,
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

func (c *APIConnector) Search(ctx context.Context, query string, maxResults int) ([]models.ProductDetails, error) {
	q := url.Values{}
	q.Set("q", query)
	if maxResults > 0 {
		q.Set("limit", strconv.Itoa(maxResults))
	}
	body, err := c.doRequest(ctx, "/products/search", q)
	if err != nil {
		return nil, err
	}
	var products []models.ProductDetails
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("decode search results: %w", err)
	}
	return products, nil
}

func (c *APIConnector) GetDetails(ctx context.Context, sku string) (*models.ProductDetails, error) {
	if sku == "" {
		return nil, fmt.Errorf("sku is required")
	}
	body, err := c.doRequest(ctx, "/products/"+url.PathEscape(sku), nil)
	if err != nil {
		return nil, err
	}
	var p models.ProductDetails
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode product details: %w", err)
	}
	return &p, nil
}

func (c *APIConnector) PlaceOrder(ctx context.Context, sku string, quantity int, maxPrice decimal.Decimal) (*models.OrderConfirmation, error) {
	return nil, ErrNotSupported
}

func (c *APIConnector) CheckOrderStatus(ctx context.Context, orderID string) (models.OrderStatus, error) {
	return "", ErrNotSupported
}

func (c *APIConnector) CreateListing(ctx context.Context, sku, title string, price decimal.Decimal, quantity int) (*models.ListingResponse, error) {
	return nil, ErrNotSupported
}

func (c *APIConnector) UpdateListingPrice(ctx context.Context, listingID string, price decimal.Decimal) error {
	return ErrNotSupported
}

func (c *APIConnector) CancelListing(ctx context.Context, listingID string) error {
	return ErrNotSupported
}
