package decision

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ramarb/internal/advisor"
	"ramarb/internal/models"
	"ramarb/internal/risk"
)

var (
	defaultMinProfit = decimal.NewFromInt(20)
	defaultMaxTrade  = decimal.NewFromInt(5000)
)

const DefaultMinConfidence = 0.70

// Engine turns opportunities into recommendations. Hard gates on treasury,
// position limit and profit floor run first and cannot be overridden. Past
// the gates, an optional Advisor is consulted; any advisor failure falls
// back to the built-in rules, so evaluation never errors out of a cycle.
type Engine struct {
	Scorer  *risk.Scorer
	Advisor advisor.Advisor

	// MinProfit is the profit floor in dollars for a trade to be worth
	// considering at all.
	MinProfit decimal.Decimal
	// MinConfidence filters BUY recommendations out of batch results.
	MinConfidence float64
	// MaxTradeAmount caps the buy cost of a single trade.
	MaxTradeAmount decimal.Decimal

	Logger *zap.Logger
	Now    func() time.Time
}

func (e *Engine) minProfit() decimal.Decimal {
	if e.MinProfit.IsPositive() {
		return e.MinProfit
	}
	return defaultMinProfit
}

func (e *Engine) maxTrade() decimal.Decimal {
	if e.MaxTradeAmount.IsPositive() {
		return e.MaxTradeAmount
	}
	return defaultMaxTrade
}

func (e *Engine) minConfidence() float64 {
	if e.MinConfidence > 0 {
		return e.MinConfidence
	}
	return DefaultMinConfidence
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Evaluate produces one recommendation for one opportunity given the
// current treasury balance and holdings. It is deterministic for a fixed
// input unless an advisor is wired in.
func (e *Engine) Evaluate(ctx context.Context, opp models.Opportunity, treasury decimal.Decimal, holdings []models.Holding) models.Recommendation {
	rec := models.Recommendation{
		SKU:            opp.BuySKU,
		Marketplace:    opp.BuyMarketplace,
		ExpectedProfit: opp.NetProfit,
		CreatedAt:      e.now(),
	}

	if opp.BuyCost.GreaterThan(treasury) {
		rec.Action = models.ActionPass
		rec.Confidence = 1.0
		rec.Reasoning = "Insufficient treasury balance"
		rec.RiskAssessment = "N/A - funding constraint"
		return rec
	}
	if opp.BuyCost.GreaterThan(e.maxTrade()) {
		rec.Action = models.ActionPass
		rec.Confidence = 1.0
		rec.Reasoning = "Trade amount exceeds limit"
		rec.RiskAssessment = "N/A - position limit"
		return rec
	}
	if opp.NetProfit.LessThan(e.minProfit()) {
		rec.Action = models.ActionPass
		rec.Confidence = 1.0
		rec.Reasoning = "Profit below threshold"
		rec.RiskAssessment = "Low reward"
		return rec
	}

	score := e.Scorer.Score(opp, holdings)

	if e.Advisor != nil {
		verdict, err := e.Advisor.Evaluate(ctx, advisor.Request{
			Opportunity:        opp,
			TreasuryBalance:    treasury,
			RiskScore:          score,
			MinProfitThreshold: e.minProfit(),
			MaxTradeAmount:     e.maxTrade(),
		})
		if err == nil {
			rec.Action = verdict.Action
			rec.Confidence = verdict.Confidence
			rec.Reasoning = verdict.Reasoning
			rec.RiskAssessment = verdict.RiskAssessment
			return rec
		}
		if e.Logger != nil {
			e.Logger.Warn("advisor unavailable, using rule-based evaluation",
				zap.String("sku", opp.BuySKU), zap.Error(err))
		}
	}

	return e.ruleBased(rec, opp, score)
}

// ruleBased applies the decision matrix. Branches are ordered, first match
// wins. Confidence is the complement of the risk score.
func (e *Engine) ruleBased(rec models.Recommendation, opp models.Opportunity, score float64) models.Recommendation {
	margin20 := decimal.NewFromInt(20)
	margin25 := decimal.NewFromInt(25)

	switch {
	case score < 0.3 && opp.MarginPct.GreaterThan(margin25):
		rec.Action = models.ActionBuy
		rec.Reasoning = "Low risk, high margin opportunity"
	case score < 0.5 && opp.MarginPct.GreaterThan(margin20):
		rec.Action = models.ActionBuy
		rec.Reasoning = "Moderate risk, good margin"
	case score < 0.6:
		rec.Action = models.ActionWait
		rec.Reasoning = "Elevated risk - monitor for better entry"
	default:
		rec.Action = models.ActionPass
		rec.Reasoning = "Risk too high relative to reward"
	}
	rec.Confidence = 1.0 - score
	rec.RiskAssessment = riskLabel(score)
	return rec
}

func riskLabel(score float64) string {
	switch {
	case score < 0.3:
		return "Low risk"
	case score < 0.6:
		return "Moderate risk"
	default:
		return "High risk"
	}
}

// BatchEvaluate evaluates every opportunity against a fixed snapshot of
// treasury and holdings, then returns actionable BUY recommendations first.
// Ordering is BUY, WAIT, PASS, then expected profit descending within each
// action; only BUYs at or above the confidence floor survive the filter.
func (e *Engine) BatchEvaluate(ctx context.Context, opps []models.Opportunity, treasury decimal.Decimal, holdings []models.Holding) ([]models.Recommendation, []models.Recommendation) {
	all := make([]models.Recommendation, 0, len(opps))
	for _, opp := range opps {
		all = append(all, e.Evaluate(ctx, opp, treasury, holdings))
	}

	sort.SliceStable(all, func(i, j int) bool {
		pi, pj := all[i].Action.Priority(), all[j].Action.Priority()
		if pi != pj {
			return pi < pj
		}
		return all[i].ExpectedProfit.GreaterThan(all[j].ExpectedProfit)
	})

	actionable := make([]models.Recommendation, 0, len(all))
	for _, rec := range all {
		if rec.Action == models.ActionBuy && rec.Confidence >= e.minConfidence() {
			actionable = append(actionable, rec)
		}
	}
	return all, actionable
}
