package controllers

import (
	"context"
	"net/http"
	"time"

	"aruth-api/logger"
	"aruth-api/store"
	"aruth-api/utils"
)

// readyTimeout bounds a readiness check
const readyTimeout = 2 * time.Second

// HealthController reports whether the instance can serve traffic
type HealthController struct {
	Backends store.Pinger
}

// NewHealthController creates a new HealthController
func NewHealthController(backends store.Pinger) *HealthController {
	return &HealthController{Backends: backends}
}

// Ready answers 200 while every backend answers its ping, 503 otherwise
func (hc *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	if hc.Backends != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := hc.Backends.Ping(ctx); err != nil {
			logger.WithCtx(r.Context()).Warn("readiness check failed", "error", err)
			utils.WriteError(w, http.StatusServiceUnavailable, "Store unavailable")
			return
		}
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
