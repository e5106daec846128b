package advisor

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

const (
	DefaultModel     = "claude-sonnet-4-20250514"
	DefaultMaxTokens = 1024
	DefaultTimeout   = 30 * time.Second
)

// ClaudeAdvisor asks an Anthropic model for a verdict on an opportunity.
type ClaudeAdvisor struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
	logger    *zap.Logger
}

type ClaudeConfig struct {
	APIKey    string
	Model     string
	MaxTokens int64
	Timeout   time.Duration
	Logger    *zap.Logger
}

func NewClaude(cfg ClaudeConfig) *ClaudeAdvisor {
	a := &ClaudeAdvisor{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		logger:    cfg.Logger,
	}
	if a.model == "" {
		a.model = DefaultModel
	}
	if a.maxTokens <= 0 {
		a.maxTokens = DefaultMaxTokens
	}
	if a.timeout <= 0 {
		a.timeout = DefaultTimeout
	}
	return a
}

func (a *ClaudeAdvisor) Evaluate(ctx context.Context, req Request) (Verdict, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(req))),
		},
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("advisor request: %w", err)
	}
	if len(msg.Content) == 0 {
		return Verdict{}, fmt.Errorf("advisor returned empty reply")
	}

	v, err := parseVerdict(msg.Content[0].Text)
	if err != nil {
		return Verdict{}, err
	}
	if a.logger != nil {
		a.logger.Debug("advisor verdict",
			zap.String("sku", req.Opportunity.BuySKU),
			zap.String("action", string(v.Action)),
			zap.Float64("confidence", v.Confidence))
	}
	return v, nil
}

func buildPrompt(req Request) string {
	opp := req.Opportunity
	return fmt.Sprintf(`You are evaluating a RAM module arbitrage opportunity.

Opportunity:
- Product: %s
- Buy from: %s (SKU %s) at $%s landed
- Sell on: %s at $%s
- Estimated fees: $%s
- Net profit: $%s
- Margin: %s%%
- Detection confidence: %.2f
- Computed risk score: %.2f

Constraints:
- Treasury balance: $%s
- Minimum profit threshold: $%s
- Maximum single trade: $%s

Respond with ONLY a JSON object, no prose, with keys:
  "action": one of "BUY", "PASS", "WAIT"
  "confidence_score": number between 0 and 1
  "reasoning": short explanation
  "risk_assessment": short risk summary`,
		opp.Product.String(),
		opp.BuyMarketplace, opp.BuySKU, opp.BuyCost.StringFixed(2),
		opp.SellMarketplace, opp.SellPrice.StringFixed(2),
		opp.EstimatedFees.StringFixed(2),
		opp.NetProfit.StringFixed(2),
		opp.MarginPct.StringFixed(1),
		opp.Confidence,
		req.RiskScore,
		req.TreasuryBalance.StringFixed(2),
		req.MinProfitThreshold.StringFixed(2),
		req.MaxTradeAmount.StringFixed(2))
}
