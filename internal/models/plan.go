package models

import "github.com/shopspring/decimal"

// PlanEntry is one line item of an executable trade plan.
type PlanEntry struct {
	SKU            string          `json:"sku"`
	Marketplace    string          `json:"marketplace"`
	EstimatedCost  decimal.Decimal `json:"estimated_cost"`
	ExpectedProfit decimal.Decimal `json:"expected_profit"`
	Confidence     float64         `json:"confidence"`
	Reasoning      string          `json:"reasoning"`
}

// TradePlan is a capital-constrained, rank-ordered allocation. It is
// recomputed on each invocation, not persisted state.
type TradePlan struct {
	Entries          []PlanEntry     `json:"entries"`
	CapitalAllocated decimal.Decimal `json:"capital_allocated"`
}

func (p TradePlan) Count() int { return len(p.Entries) }

// Holding is a unit count of a RAM type currently held in inventory.
type Holding struct {
	Type  RAMType `json:"type"`
	Units int     `json:"units"`
}
