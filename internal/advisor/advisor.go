package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"ramarb/internal/models"
)

// Advisor renders a second opinion on a single opportunity. Implementations
// may call out to an external model; callers must treat any error as
// non-fatal and fall back to their own judgement.
type Advisor interface {
	Evaluate(ctx context.Context, req Request) (Verdict, error)
}

// Request carries the opportunity plus the treasury and policy context the
// advisor needs to reason about position sizing.
type Request struct {
	Opportunity        models.Opportunity
	TreasuryBalance    decimal.Decimal
	RiskScore          float64
	MinProfitThreshold decimal.Decimal
	MaxTradeAmount     decimal.Decimal
}

// Verdict is the advisor's structured answer.
type Verdict struct {
	Action         models.Action `json:"action"`
	Confidence     float64       `json:"confidence_score"`
	Reasoning      string        `json:"reasoning"`
	RiskAssessment string        `json:"risk_assessment"`
}

// parseVerdict decodes a model reply into a Verdict. Replies wrapped in
// markdown code fences are unwrapped first. The action must be one of
// BUY, PASS, WAIT and the confidence must land in [0, 1].
func parseVerdict(text string) (Verdict, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	var v Verdict
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return Verdict{}, fmt.Errorf("decode advisor reply: %w", err)
	}
	if !v.Action.Valid() {
		return Verdict{}, fmt.Errorf("advisor returned unknown action %q", v.Action)
	}
	if v.Confidence < 0 || v.Confidence > 1 {
		return Verdict{}, fmt.Errorf("advisor confidence %v out of range", v.Confidence)
	}
	if strings.TrimSpace(v.Reasoning) == "" {
		return Verdict{}, fmt.Errorf("advisor reply missing reasoning")
	}
	if strings.TrimSpace(v.RiskAssessment) == "" {
		return Verdict{}, fmt.Errorf("advisor reply missing risk assessment")
	}
	return v, nil
}
