package handler

import (
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	Env     string
	Version string
}

func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)
}

func (h *HealthHandler) health(c *gin.Context) {
	Ok(c, map[string]any{
		"status":  "ok",
		"env":     h.Env,
		"version": h.Version,
	}, nil)
}
