package marketplace

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"ramarb/internal/models"
)

// ErrNotSupported is returned by connectors for operations a marketplace
// does not expose, such as placing orders through a read-only price feed.
var ErrNotSupported = errors.New("marketplace: operation not supported")

// Connector is a single marketplace adapter. Read operations feed the
// scanner; trade operations back the order and listing lifecycle. A
// connector for a venue without trading support returns ErrNotSupported
// from the trade methods rather than pretending to fill.
type Connector interface {
	Name() string

	FetchObservations(ctx context.Context) ([]models.Observation, error)
	Search(ctx context.Context, query string, maxResults int) ([]models.ProductDetails, error)
	GetDetails(ctx context.Context, sku string) (*models.ProductDetails, error)

	PlaceOrder(ctx context.Context, sku string, quantity int, maxPrice decimal.Decimal) (*models.OrderConfirmation, error)
	CheckOrderStatus(ctx context.Context, orderID string) (models.OrderStatus, error)

	CreateListing(ctx context.Context, sku, title string, price decimal.Decimal, quantity int) (*models.ListingResponse, error)
	UpdateListingPrice(ctx context.Context, listingID string, price decimal.Decimal) error
	CancelListing(ctx context.Context, listingID string) error
}
