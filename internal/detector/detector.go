package detector

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ramarb/internal/models"
)

var (
	defaultFeeRate   = decimal.NewFromFloat(0.10)
	defaultMinProfit = decimal.NewFromInt(20)
	defaultMinMargin = decimal.NewFromInt(15)
)

// Detector finds cross-marketplace spreads among live observations.
// Observations are grouped by product identity; within a group the cheapest
// landed cost is the buy side and the highest-priced listing is the sell
// side. Fees are a flat fraction of the sell price.
type Detector struct {
	// FeeRate is the marketplace fee as a fraction of sell price.
	FeeRate decimal.Decimal
	// MinProfit is the net profit floor in dollars.
	MinProfit decimal.Decimal
	// MinMargin is the margin floor in percent of buy cost.
	MinMargin decimal.Decimal

	Logger *zap.Logger
	Now    func() time.Time
}

func (d *Detector) feeRate() decimal.Decimal {
	if d.FeeRate.IsPositive() {
		return d.FeeRate
	}
	return defaultFeeRate
}

func (d *Detector) minProfit() decimal.Decimal {
	if d.MinProfit.IsPositive() {
		return d.MinProfit
	}
	return defaultMinProfit
}

func (d *Detector) minMargin() decimal.Decimal {
	if d.MinMargin.IsPositive() {
		return d.MinMargin
	}
	return defaultMinMargin
}

func (d *Detector) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Detect returns opportunities sorted by net profit descending; ties keep
// the order the product groups first appeared in the input. Groups seen on
// fewer than two distinct marketplaces are skipped, as are candidate pairs
// where buy and sell would hit the same listing.
func (d *Detector) Detect(observations []models.Observation) []models.Opportunity {
	groups := make(map[models.ProductIdentity][]models.Observation)
	var order []models.ProductIdentity
	for _, obs := range observations {
		if _, seen := groups[obs.Product]; !seen {
			order = append(order, obs.Product)
		}
		groups[obs.Product] = append(groups[obs.Product], obs)
	}

	var opps []models.Opportunity
	for _, product := range order {
		group := groups[product]
		marketplaces := make(map[string]struct{}, len(group))
		for _, obs := range group {
			marketplaces[obs.Marketplace] = struct{}{}
		}
		if len(marketplaces) < 2 {
			continue
		}

		sort.SliceStable(group, func(i, j int) bool {
			return group[i].LandedCost().LessThan(group[j].LandedCost())
		})

		buy := group[0]
		sell := group[len(group)-1]
		if buy.Marketplace == sell.Marketplace && buy.SKU == sell.SKU {
			continue
		}

		buyCost := buy.LandedCost()
		sellPrice := sell.Price
		fees := sellPrice.Mul(d.feeRate())
		profit := sellPrice.Sub(buyCost).Sub(fees)
		if buyCost.IsZero() {
			continue
		}
		margin := profit.Div(buyCost).Mul(decimal.NewFromInt(100))

		if profit.LessThan(d.minProfit()) || margin.LessThan(d.minMargin()) {
			continue
		}

		opp := models.Opportunity{
			Product:         product,
			BuyMarketplace:  buy.Marketplace,
			BuySKU:          buy.SKU,
			BuyCost:         buyCost,
			SellMarketplace: sell.Marketplace,
			SellPrice:       sellPrice,
			EstimatedFees:   fees,
			NetProfit:       profit,
			MarginPct:       margin,
			Confidence:      d.confidence(buy, sell),
		}
		opps = append(opps, opp)
		if d.Logger != nil {
			d.Logger.Debug("spread found",
				zap.String("product", product.String()),
				zap.String("buy", buy.Marketplace),
				zap.String("sell", sell.Marketplace),
				zap.String("net_profit", profit.StringFixed(2)))
		}
	}

	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].NetProfit.GreaterThan(opps[j].NetProfit)
	})
	return opps
}

// confidence starts at a neutral 0.5 and nudges up or down per seller
// rating on both legs, buy-side availability, and freshness of the buy-side
// observation. The result is clamped to [0, 1].
func (d *Detector) confidence(buy, sell models.Observation) float64 {
	score := 0.5

	if buy.SellerRating != nil {
		score += (*buy.SellerRating - 4.0) * 0.1
	}
	if sell.SellerRating != nil {
		score += (*sell.SellerRating - 4.0) * 0.1
	}

	switch buy.Availability {
	case models.StockInStock:
		score += 0.1
	case models.StockLimited:
		score += 0.05
	}

	if d.now().Sub(buy.CapturedAt) < time.Hour {
		score += 0.1
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
