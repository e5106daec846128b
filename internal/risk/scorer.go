package risk

import (
	"strings"

	"github.com/shopspring/decimal"

	"ramarb/internal/models"
)

const DefaultConcentrationLimit = 5

var defaultHighRisk = []string{"aliexpress"}

var (
	margin20 = decimal.NewFromInt(20)
	margin30 = decimal.NewFromInt(30)
)

// Scorer turns an opportunity plus current holdings into a risk score in
// [0, 1]. Higher is riskier. Components are additive and the sum is capped
// at 1.
type Scorer struct {
	// HighRiskMarketplaces are buy-side venues that carry a flat penalty.
	// Matching is case-insensitive.
	HighRiskMarketplaces []string
	// ConcentrationLimit is the held-unit count per module type beyond
	// which further exposure to that type is penalized.
	ConcentrationLimit int
}

func (s *Scorer) limit() int {
	if s != nil && s.ConcentrationLimit > 0 {
		return s.ConcentrationLimit
	}
	return DefaultConcentrationLimit
}

func (s *Scorer) highRisk() []string {
	if s != nil && s.HighRiskMarketplaces != nil {
		return s.HighRiskMarketplaces
	}
	return defaultHighRisk
}

func (s *Scorer) Score(opp models.Opportunity, holdings []models.Holding) float64 {
	score := 0.0

	held := 0
	for _, h := range holdings {
		if h.Type == opp.Product.Type {
			held += h.Units
		}
	}
	if held > s.limit() {
		score += 0.2
	}

	switch {
	case opp.MarginPct.LessThan(margin20):
		score += 0.2
	case opp.MarginPct.LessThan(margin30):
		score += 0.1
	}

	switch {
	case opp.Confidence < 0.7:
		score += 0.3
	case opp.Confidence < 0.8:
		score += 0.2
	}

	for _, m := range s.highRisk() {
		if strings.EqualFold(m, opp.BuyMarketplace) {
			score += 0.2
			break
		}
	}

	if score > 1 {
		return 1
	}
	return score
}
