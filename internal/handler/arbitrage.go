package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"ramarb/internal/decision"
	"ramarb/internal/detector"
	"ramarb/internal/inventory"
	"ramarb/internal/planner"
	"ramarb/internal/pricestore"
	"ramarb/internal/scanner"
)

// ArbitrageHandler serves the monitoring pipeline over HTTP. Every
// endpoint recomputes from live observations rather than serving the last
// cycle's output, so query overrides work without touching monitor state.
type ArbitrageHandler struct {
	Store    *pricestore.Store
	Detector *detector.Detector
	Engine   *decision.Engine
	Planner  *planner.Builder
	Book     *inventory.Book
	Monitor  *scanner.Monitor
}

func (h *ArbitrageHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1")
	group.GET("/observations", h.listObservations)
	group.GET("/opportunities", h.listOpportunities)
	group.GET("/recommendations", h.listRecommendations)
	group.GET("/plan", h.getPlan)
	group.POST("/scan", h.triggerScan)
}

func (h *ArbitrageHandler) listObservations(c *gin.Context) {
	observations, err := h.Store.AllLive(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	marketplace := strings.TrimSpace(c.Query("marketplace"))
	if marketplace != "" {
		filtered := observations[:0]
		for _, obs := range observations {
			if obs.Marketplace == marketplace {
				filtered = append(filtered, obs)
			}
		}
		observations = filtered
	}
	Ok(c, observations, map[string]any{"count": len(observations)})
}

func (h *ArbitrageHandler) listOpportunities(c *gin.Context) {
	observations, err := h.Store.AllLive(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	opportunities := h.Detector.Detect(observations)

	if minProfit := floatQueryPtr(c, "min_profit"); minProfit != nil {
		floor := decimal.NewFromFloat(*minProfit)
		filtered := opportunities[:0]
		for _, opp := range opportunities {
			if opp.NetProfit.GreaterThanOrEqual(floor) {
				filtered = append(filtered, opp)
			}
		}
		opportunities = filtered
	}
	if minMargin := floatQueryPtr(c, "min_margin"); minMargin != nil {
		floor := decimal.NewFromFloat(*minMargin)
		filtered := opportunities[:0]
		for _, opp := range opportunities {
			if opp.MarginPct.GreaterThanOrEqual(floor) {
				filtered = append(filtered, opp)
			}
		}
		opportunities = filtered
	}
	limit := intQuery(c, "limit", 50)
	if len(opportunities) > limit {
		opportunities = opportunities[:limit]
	}
	Ok(c, opportunities, map[string]any{"count": len(opportunities)})
}

func (h *ArbitrageHandler) listRecommendations(c *gin.Context) {
	observations, err := h.Store.AllLive(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	opportunities := h.Detector.Detect(observations)
	treasury, holdings := h.Book.Snapshot()
	all, actionable := h.Engine.BatchEvaluate(c.Request.Context(), opportunities, treasury, holdings)

	if c.Query("actionable") == "true" {
		Ok(c, actionable, map[string]any{"count": len(actionable)})
		return
	}
	Ok(c, all, map[string]any{
		"count":      len(all),
		"actionable": len(actionable),
	})
}

func (h *ArbitrageHandler) getPlan(c *gin.Context) {
	observations, err := h.Store.AllLive(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	opportunities := h.Detector.Detect(observations)
	treasury, holdings := h.Book.Snapshot()
	_, actionable := h.Engine.BatchEvaluate(c.Request.Context(), opportunities, treasury, holdings)

	capital := treasury
	if override := floatQueryPtr(c, "capital"); override != nil && *override >= 0 {
		capital = decimal.NewFromFloat(*override)
	}
	plan := h.Planner.Build(actionable, capital)
	Ok(c, plan, map[string]any{
		"capital_available": capital.StringFixed(2),
		"entries":           plan.Count(),
	})
}

func (h *ArbitrageHandler) triggerScan(c *gin.Context) {
	if h.Monitor == nil {
		Error(c, http.StatusServiceUnavailable, "monitor unavailable", nil)
		return
	}
	if err := h.Monitor.RunCycle(c.Request.Context()); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, map[string]any{"status": "scan complete"}, nil)
}
