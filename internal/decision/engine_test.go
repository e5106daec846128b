package decision

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"ramarb/internal/advisor"
	"ramarb/internal/models"
	"ramarb/internal/risk"
)

type stubAdvisor struct {
	verdict advisor.Verdict
	err     error
	calls   int
}

func (s *stubAdvisor) Evaluate(ctx context.Context, req advisor.Request) (advisor.Verdict, error) {
	s.calls++
	return s.verdict, s.err
}

func opp(buyCost, profit, marginPct float64, confidence float64) models.Opportunity {
	return models.Opportunity{
		Product:        models.ProductIdentity{CapacityGB: 16, SpeedMHz: 3200, Type: models.RAMDDR4},
		BuyMarketplace: "newegg",
		BuySKU:         "SKU-1",
		BuyCost:        decimal.NewFromFloat(buyCost),
		NetProfit:      decimal.NewFromFloat(profit),
		MarginPct:      decimal.NewFromFloat(marginPct),
		Confidence:     confidence,
	}
}

func newEngine() *Engine {
	return &Engine{Scorer: &risk.Scorer{}}
}

var treasury = decimal.NewFromInt(1000)

func TestEvaluateTreasuryGate(t *testing.T) {
	e := newEngine()
	rec := e.Evaluate(context.Background(), opp(1500, 100, 35, 0.9), treasury, nil)
	if rec.Action != models.ActionPass {
		t.Fatalf("expected PASS, got %s", rec.Action)
	}
	if rec.Reasoning != "Insufficient treasury balance" {
		t.Fatalf("unexpected reasoning %q", rec.Reasoning)
	}
	if rec.Confidence != 1.0 {
		t.Fatalf("gate verdicts carry full confidence, got %v", rec.Confidence)
	}
	if rec.RiskAssessment != "N/A - funding constraint" {
		t.Fatalf("unexpected risk assessment %q", rec.RiskAssessment)
	}
}

func TestEvaluateTradeLimitGate(t *testing.T) {
	e := newEngine()
	e.MaxTradeAmount = decimal.NewFromInt(500)
	rec := e.Evaluate(context.Background(), opp(600, 100, 35, 0.9), treasury, nil)
	if rec.Action != models.ActionPass {
		t.Fatalf("expected PASS, got %s", rec.Action)
	}
	if rec.Reasoning != "Trade amount exceeds limit" {
		t.Fatalf("unexpected reasoning %q", rec.Reasoning)
	}
}

func TestEvaluateProfitGate(t *testing.T) {
	e := newEngine()
	rec := e.Evaluate(context.Background(), opp(100, 12, 35, 0.9), treasury, nil)
	if rec.Action != models.ActionPass {
		t.Fatalf("expected PASS, got %s", rec.Action)
	}
	if rec.Reasoning != "Profit below threshold" {
		t.Fatalf("unexpected reasoning %q", rec.Reasoning)
	}
	if rec.RiskAssessment != "Low reward" {
		t.Fatalf("unexpected risk assessment %q", rec.RiskAssessment)
	}
}

func TestEvaluateDecisionMatrix(t *testing.T) {
	e := newEngine()
	tests := []struct {
		name          string
		opp           models.Opportunity
		holdings      []models.Holding
		wantAction    models.Action
		wantReasoning string
	}{
		{
			// Risk 0: margin 35, confidence 0.9.
			name:          "low risk high margin",
			opp:           opp(100, 35, 35, 0.9),
			wantAction:    models.ActionBuy,
			wantReasoning: "Low risk, high margin opportunity",
		},
		{
			// Risk 0.3 from low confidence, margin above 20.
			name:          "moderate risk good margin",
			opp:           opp(100, 22, 22, 0.65),
			wantAction:    models.ActionBuy,
			wantReasoning: "Moderate risk, good margin",
		},
		{
			// Risk 0.4 (thin margin 0.2 + middling confidence 0.2),
			// margin 16 fails the good-margin branch.
			name:          "elevated risk waits",
			opp:           opp(127.98, 20.48, 16, 0.75),
			wantAction:    models.ActionWait,
			wantReasoning: "Elevated risk - monitor for better entry",
		},
		{
			// Risk 0.7: thin margin, low confidence, risky venue.
			name: "high risk passes",
			opp: models.Opportunity{
				Product:        models.ProductIdentity{CapacityGB: 16, SpeedMHz: 3200, Type: models.RAMDDR4},
				BuyMarketplace: "aliexpress",
				BuySKU:         "SKU-1",
				BuyCost:        decimal.NewFromInt(100),
				NetProfit:      decimal.NewFromInt(21),
				MarginPct:      decimal.NewFromInt(18),
				Confidence:     0.6,
			},
			wantAction:    models.ActionPass,
			wantReasoning: "Risk too high relative to reward",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.Evaluate(context.Background(), tt.opp, treasury, tt.holdings)
			if rec.Action != tt.wantAction {
				t.Fatalf("action = %s, want %s", rec.Action, tt.wantAction)
			}
			if rec.Reasoning != tt.wantReasoning {
				t.Fatalf("reasoning = %q, want %q", rec.Reasoning, tt.wantReasoning)
			}
		})
	}
}

func TestEvaluateConfidenceIsRiskComplement(t *testing.T) {
	e := newEngine()
	// Risk 0.4: thin margin plus middling confidence.
	rec := e.Evaluate(context.Background(), opp(128, 20.5, 16, 0.75), treasury, nil)
	if rec.Action != models.ActionWait {
		t.Fatalf("expected WAIT, got %s", rec.Action)
	}
	if diff := rec.Confidence - 0.6; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("confidence = %v, want 0.6", rec.Confidence)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	e := newEngine()
	o := opp(100, 35, 35, 0.9)
	first := e.Evaluate(context.Background(), o, treasury, nil)
	second := e.Evaluate(context.Background(), o, treasury, nil)
	if first.Action != second.Action || first.Confidence != second.Confidence || first.Reasoning != second.Reasoning {
		t.Fatalf("same input must yield same verdict: %+v vs %+v", first, second)
	}
}

func TestEvaluateAdvisorVerdictUsed(t *testing.T) {
	stub := &stubAdvisor{verdict: advisor.Verdict{
		Action:         models.ActionWait,
		Confidence:     0.55,
		Reasoning:      "spread likely to widen",
		RiskAssessment: "moderate",
	}}
	e := newEngine()
	e.Advisor = stub
	rec := e.Evaluate(context.Background(), opp(100, 35, 35, 0.9), treasury, nil)
	if stub.calls != 1 {
		t.Fatalf("expected one advisor call, got %d", stub.calls)
	}
	if rec.Action != models.ActionWait || rec.Reasoning != "spread likely to widen" {
		t.Fatalf("advisor verdict not applied: %+v", rec)
	}
}

func TestEvaluateAdvisorFailureFallsBack(t *testing.T) {
	stub := &stubAdvisor{err: errors.New("model unavailable")}
	e := newEngine()
	e.Advisor = stub
	rec := e.Evaluate(context.Background(), opp(100, 35, 35, 0.9), treasury, nil)
	if rec.Action != models.ActionBuy {
		t.Fatalf("expected rule-based BUY after advisor failure, got %s", rec.Action)
	}
	if rec.Reasoning != "Low risk, high margin opportunity" {
		t.Fatalf("expected rule-based reasoning, got %q", rec.Reasoning)
	}
}

func TestEvaluateAdvisorNotConsultedPastGates(t *testing.T) {
	stub := &stubAdvisor{verdict: advisor.Verdict{Action: models.ActionBuy, Confidence: 0.9, Reasoning: "x"}}
	e := newEngine()
	e.Advisor = stub
	_ = e.Evaluate(context.Background(), opp(1500, 100, 35, 0.9), treasury, nil)
	if stub.calls != 0 {
		t.Fatalf("gated opportunities must not reach the advisor, got %d calls", stub.calls)
	}
}

func TestBatchEvaluateOrderingAndFilter(t *testing.T) {
	e := newEngine()
	opps := []models.Opportunity{
		opp(100, 12, 35, 0.9),  // PASS, profit gate
		opp(100, 35, 35, 0.9),  // BUY, confidence 1.0
		opp(128, 20.5, 16, 0.75), // WAIT
		opp(100, 60, 40, 0.9),  // BUY, confidence 1.0, higher profit
	}
	all, actionable := e.BatchEvaluate(context.Background(), opps, treasury, nil)

	if len(all) != 4 {
		t.Fatalf("expected 4 recommendations, got %d", len(all))
	}
	wantOrder := []models.Action{models.ActionBuy, models.ActionBuy, models.ActionWait, models.ActionPass}
	for i, want := range wantOrder {
		if all[i].Action != want {
			t.Fatalf("position %d: action = %s, want %s", i, all[i].Action, want)
		}
	}
	if all[0].ExpectedProfit.LessThan(all[1].ExpectedProfit) {
		t.Fatalf("BUYs must be ordered by profit descending")
	}

	if len(actionable) != 2 {
		t.Fatalf("expected 2 actionable BUYs, got %d", len(actionable))
	}
	for _, rec := range actionable {
		if rec.Action != models.ActionBuy {
			t.Fatalf("actionable list must contain only BUYs, got %s", rec.Action)
		}
		if rec.Confidence < 0.70 {
			t.Fatalf("actionable BUY below confidence floor: %v", rec.Confidence)
		}
	}
}

func TestBatchEvaluateConfidenceFloor(t *testing.T) {
	stub := &stubAdvisor{verdict: advisor.Verdict{
		Action:     models.ActionBuy,
		Confidence: 0.5,
		Reasoning:  "weak conviction",
	}}
	e := newEngine()
	e.Advisor = stub
	_, actionable := e.BatchEvaluate(context.Background(),
		[]models.Opportunity{opp(100, 35, 35, 0.9)}, treasury, nil)
	if len(actionable) != 0 {
		t.Fatalf("low-confidence BUY must be filtered, got %d", len(actionable))
	}
}
