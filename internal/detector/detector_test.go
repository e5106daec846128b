package detector

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ramarb/internal/models"
)

var ddr4x16 = models.ProductIdentity{CapacityGB: 16, SpeedMHz: 3200, Type: models.RAMDDR4}
var ddr5x32 = models.ProductIdentity{CapacityGB: 32, SpeedMHz: 5600, Type: models.RAMDDR5}

func obs(marketplace, sku string, product models.ProductIdentity, price, shipping float64) models.Observation {
	return models.Observation{
		SKU:          sku,
		Marketplace:  marketplace,
		Product:      product,
		Price:        decimal.NewFromFloat(price),
		ShippingCost: decimal.NewFromFloat(shipping),
		Availability: models.StockInStock,
		CapturedAt:   time.Now(),
	}
}

func TestDetectBasicSpread(t *testing.T) {
	d := &Detector{}
	// Buy at 100 landed, sell listed at 150: fee 15, profit 35, margin 35%.
	opps := d.Detect([]models.Observation{
		obs("alpha", "A-1", ddr4x16, 95, 5),
		obs("beta", "B-1", ddr4x16, 150, 10),
	})
	if len(opps) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(opps))
	}
	got := opps[0]
	if got.BuyMarketplace != "alpha" || got.SellMarketplace != "beta" {
		t.Fatalf("expected buy alpha sell beta, got %s/%s", got.BuyMarketplace, got.SellMarketplace)
	}
	if !got.BuyCost.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected buy cost 100, got %s", got.BuyCost)
	}
	if !got.EstimatedFees.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("expected fees 15, got %s", got.EstimatedFees)
	}
	if !got.NetProfit.Equal(decimal.NewFromInt(35)) {
		t.Fatalf("expected net profit 35, got %s", got.NetProfit)
	}
	if !got.MarginPct.Equal(decimal.NewFromInt(35)) {
		t.Fatalf("expected margin 35, got %s", got.MarginPct)
	}
}

func TestDetectRequiresTwoMarketplaces(t *testing.T) {
	d := &Detector{}
	opps := d.Detect([]models.Observation{
		obs("alpha", "A-1", ddr4x16, 40, 0),
		obs("alpha", "A-2", ddr4x16, 90, 0),
	})
	if len(opps) != 0 {
		t.Fatalf("expected no opportunity within a single marketplace, got %d", len(opps))
	}
}

func TestDetectSellerShippingRaisesBuyCost(t *testing.T) {
	d := &Detector{}
	// Cheapest list price loses to cheapest landed cost.
	opps := d.Detect([]models.Observation{
		obs("alpha", "A-1", ddr4x16, 95, 25), // landed 120
		obs("beta", "B-1", ddr4x16, 100, 0),  // landed 100
		obs("gamma", "C-1", ddr4x16, 180, 5),
	})
	if len(opps) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(opps))
	}
	if opps[0].BuyMarketplace != "beta" {
		t.Fatalf("expected landed-cheapest beta as buy side, got %s", opps[0].BuyMarketplace)
	}
	if opps[0].SellMarketplace != "gamma" {
		t.Fatalf("expected gamma as sell side, got %s", opps[0].SellMarketplace)
	}
	if !opps[0].SellPrice.Equal(decimal.NewFromInt(180)) {
		t.Fatalf("sell price must be the list price, got %s", opps[0].SellPrice)
	}
}

func TestDetectFiltersThinSpreads(t *testing.T) {
	d := &Detector{}
	// Profit 120-100-12=8, below the 20 dollar floor.
	opps := d.Detect([]models.Observation{
		obs("alpha", "A-1", ddr4x16, 100, 0),
		obs("beta", "B-1", ddr4x16, 120, 0),
	})
	if len(opps) != 0 {
		t.Fatalf("expected thin spread to be filtered, got %d", len(opps))
	}
}

func TestDetectMarginFloor(t *testing.T) {
	d := &Detector{}
	// Profit 26 clears the floor, margin 26/500=5.2% does not.
	opps := d.Detect([]models.Observation{
		obs("alpha", "A-1", ddr5x32, 500, 0),
		obs("beta", "B-1", ddr5x32, 584.5, 0),
	})
	if len(opps) != 0 {
		t.Fatalf("expected low-margin spread to be filtered, got %d", len(opps))
	}
}

func TestDetectGroupsByIdentity(t *testing.T) {
	d := &Detector{}
	opps := d.Detect([]models.Observation{
		obs("alpha", "A-1", ddr4x16, 95, 5),
		obs("beta", "B-1", ddr4x16, 150, 0),
		obs("alpha", "A-2", ddr5x32, 100, 0),
		obs("beta", "B-2", ddr5x32, 200, 0),
	})
	if len(opps) != 2 {
		t.Fatalf("expected one opportunity per product group, got %d", len(opps))
	}
	// Sorted by net profit descending: the DDR5 spread (80) leads.
	if opps[0].Product != ddr5x32 {
		t.Fatalf("expected highest-profit group first, got %+v", opps[0].Product)
	}
	if opps[0].NetProfit.LessThan(opps[1].NetProfit) {
		t.Fatalf("expected descending net profit ordering")
	}
}

func TestDetectTiesKeepArrivalOrder(t *testing.T) {
	d := &Detector{}
	// Both groups yield identical spreads (net profit 35), so ordering must
	// fall back to the order the groups first appeared in the input.
	input := []models.Observation{
		obs("alpha", "A-1", ddr4x16, 95, 5),
		obs("beta", "B-1", ddr4x16, 150, 10),
		obs("alpha", "A-2", ddr5x32, 95, 5),
		obs("beta", "B-2", ddr5x32, 150, 10),
	}
	for i := 0; i < 50; i++ {
		opps := d.Detect(input)
		if len(opps) != 2 {
			t.Fatalf("expected 2 opportunities, got %d", len(opps))
		}
		if !opps[0].NetProfit.Equal(opps[1].NetProfit) {
			t.Fatalf("fixture must tie on net profit: %s vs %s", opps[0].NetProfit, opps[1].NetProfit)
		}
		if opps[0].Product != ddr4x16 || opps[1].Product != ddr5x32 {
			t.Fatalf("run %d: tied groups out of arrival order: %v then %v",
				i, opps[0].Product, opps[1].Product)
		}
	}
}

func TestConfidenceComponents(t *testing.T) {
	now := time.Now()
	d := &Detector{Now: func() time.Time { return now }}

	high := 4.9
	low := 3.0
	tests := []struct {
		name string
		buy  models.Observation
		sell models.Observation
		want float64
	}{
		{
			name: "neutral baseline stale out of stock",
			buy: models.Observation{
				Availability: models.StockOut,
				CapturedAt:   now.Add(-2 * time.Hour),
			},
			sell: models.Observation{},
			want: 0.5,
		},
		{
			name: "fresh in stock both rated high",
			buy: models.Observation{
				SellerRating: &high,
				Availability: models.StockInStock,
				CapturedAt:   now.Add(-time.Minute),
			},
			sell: models.Observation{SellerRating: &high},
			want: 0.88,
		},
		{
			name: "limited stock low ratings",
			buy: models.Observation{
				SellerRating: &low,
				Availability: models.StockLimited,
				CapturedAt:   now.Add(-2 * time.Hour),
			},
			sell: models.Observation{SellerRating: &low},
			want: 0.35,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.confidence(tt.buy, tt.sell)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("confidence = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfidenceClampedToZero(t *testing.T) {
	now := time.Now()
	d := &Detector{Now: func() time.Time { return now }}
	bottom := 1.0
	got := d.confidence(models.Observation{
		SellerRating: &bottom,
		Availability: models.StockOut,
		CapturedAt:   now.Add(-2 * time.Hour),
	}, models.Observation{SellerRating: &bottom})
	if got != 0 {
		t.Fatalf("confidence must be clamped to 0, got %v", got)
	}
}
