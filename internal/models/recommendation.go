package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Action is the terminal decision for an evaluated opportunity.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionPass Action = "PASS"
	ActionWait Action = "WAIT"
)

// Priority orders actions for ranking: BUY first, PASS last.
func (a Action) Priority() int {
	switch a {
	case ActionBuy:
		return 0
	case ActionWait:
		return 1
	case ActionPass:
		return 2
	default:
		return 3
	}
}

func (a Action) Valid() bool {
	switch a {
	case ActionBuy, ActionPass, ActionWait:
		return true
	default:
		return false
	}
}

// Recommendation is the decision engine's verdict for one opportunity.
// Immutable once created; the plan builder consumes it and never mutates it.
type Recommendation struct {
	Action         Action          `json:"action"`
	SKU            string          `json:"product_sku"`
	Marketplace    string          `json:"marketplace"`
	Reasoning      string          `json:"reasoning"`
	Confidence     float64         `json:"confidence_score"`
	ExpectedProfit decimal.Decimal `json:"expected_profit"`
	RiskAssessment string          `json:"risk_assessment"`
	CreatedAt      time.Time       `json:"created_at"`
}
