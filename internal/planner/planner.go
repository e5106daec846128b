package planner

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ramarb/internal/models"
)

const DefaultCostMultiplier = 4

// Builder allocates capital across BUY recommendations in order. Each entry
// needs an estimated buy cost; absent a real quote the cost is approximated
// as a multiple of expected profit, which a custom CostFn can replace.
type Builder struct {
	// CostMultiplier scales expected profit into an estimated buy cost when
	// no CostFn is set.
	CostMultiplier int
	// CostFn overrides cost estimation per recommendation.
	CostFn func(models.Recommendation) decimal.Decimal

	Logger *zap.Logger
}

func (b *Builder) cost(rec models.Recommendation) decimal.Decimal {
	if b.CostFn != nil {
		return b.CostFn(rec)
	}
	mult := b.CostMultiplier
	if mult <= 0 {
		mult = DefaultCostMultiplier
	}
	return rec.ExpectedProfit.Mul(decimal.NewFromInt(int64(mult)))
}

// Build walks the recommendations in their given order, funding each entry
// whose estimated cost still fits the remaining capital. An entry that does
// not fit is skipped, not a stopping point, so cheaper entries later in the
// list can still be funded.
func (b *Builder) Build(recs []models.Recommendation, capital decimal.Decimal) models.TradePlan {
	plan := models.TradePlan{}
	remaining := capital

	for _, rec := range recs {
		if rec.Action != models.ActionBuy {
			continue
		}
		cost := b.cost(rec)
		if cost.GreaterThan(remaining) {
			if b.Logger != nil {
				b.Logger.Debug("skipping unfundable entry",
					zap.String("sku", rec.SKU),
					zap.String("cost", cost.StringFixed(2)),
					zap.String("remaining", remaining.StringFixed(2)))
			}
			continue
		}
		plan.Entries = append(plan.Entries, models.PlanEntry{
			SKU:            rec.SKU,
			Marketplace:    rec.Marketplace,
			EstimatedCost:  cost,
			ExpectedProfit: rec.ExpectedProfit,
			Confidence:     rec.Confidence,
			Reasoning:      rec.Reasoning,
		})
		plan.CapitalAllocated = plan.CapitalAllocated.Add(cost)
		remaining = remaining.Sub(cost)
	}
	return plan
}
