package scanner

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"ramarb/internal/decision"
	"ramarb/internal/detector"
	"ramarb/internal/inventory"
	"ramarb/internal/models"
	"ramarb/internal/planner"
)

var ErrAllMarketplacesDown = errors.New("scanner: all marketplace fetches failed")

// Recorder persists cycle output. Persistence is best effort; the monitor
// keeps running when it is absent or failing.
type Recorder interface {
	SaveRecommendations(ctx context.Context, recs []models.Recommendation) error
	SavePlan(ctx context.Context, plan models.TradePlan) error
}

// Monitor drives the full cycle on an interval: refresh prices, detect
// spreads, evaluate, plan. A failed cycle backs off and the loop continues;
// the monitor only stops when its context is cancelled.
type Monitor struct {
	Scanner  *Scanner
	Detector *detector.Detector
	Engine   *decision.Engine
	Planner  *planner.Builder
	Book     *inventory.Book
	Recorder Recorder
	Logger   *zap.Logger

	Interval     time.Duration
	ErrorBackoff time.Duration
}

func (m *Monitor) interval() time.Duration {
	if m.Interval > 0 {
		return m.Interval
	}
	return 5 * time.Minute
}

func (m *Monitor) backoff() time.Duration {
	if m.ErrorBackoff > 0 {
		return m.ErrorBackoff
	}
	return time.Minute
}

func (m *Monitor) Run(ctx context.Context) {
	if m.Logger != nil {
		m.Logger.Info("monitor started",
			zap.Duration("interval", m.interval()),
			zap.Duration("error_backoff", m.backoff()))
	}

	for {
		wait := m.interval()
		if err := m.RunCycle(ctx); err != nil {
			if m.Logger != nil {
				m.Logger.Warn("cycle failed", zap.Error(err))
			}
			wait = m.backoff()
		}

		select {
		case <-ctx.Done():
			if m.Logger != nil {
				m.Logger.Info("monitor stopped")
			}
			return
		case <-time.After(wait):
		}
	}
}

// RunCycle executes one full pass. It is also invoked directly by the HTTP
// layer for an on-demand scan.
func (m *Monitor) RunCycle(ctx context.Context) error {
	start := time.Now()

	stored, err := m.Scanner.Refresh(ctx)
	if err != nil {
		return err
	}

	observations, err := m.Scanner.Store.AllLive(ctx)
	if err != nil {
		return err
	}

	opportunities := m.Detector.Detect(observations)
	treasury, holdings := m.Book.Snapshot()
	all, actionable := m.Engine.BatchEvaluate(ctx, opportunities, treasury, holdings)
	plan := m.Planner.Build(actionable, treasury)

	if m.Logger != nil {
		m.Logger.Info("cycle complete",
			zap.Int("observations_stored", stored),
			zap.Int("observations_live", len(observations)),
			zap.Int("opportunities", len(opportunities)),
			zap.Int("recommendations", len(all)),
			zap.Int("actionable", len(actionable)),
			zap.Int("plan_entries", plan.Count()),
			zap.String("capital_allocated", plan.CapitalAllocated.StringFixed(2)),
			zap.Duration("elapsed", time.Since(start)))
	}

	if m.Recorder != nil {
		if err := m.Recorder.SaveRecommendations(ctx, all); err != nil && m.Logger != nil {
			m.Logger.Warn("failed to persist recommendations", zap.Error(err))
		}
		if err := m.Recorder.SavePlan(ctx, plan); err != nil && m.Logger != nil {
			m.Logger.Warn("failed to persist plan", zap.Error(err))
		}
	}
	return nil
}
