package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"dealerops/internal/engine"
)

type PriorityHandler struct {
	Ranker *engine.Ranker

	DefaultLimit int
	MaxLimit     int
}

func (h *PriorityHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/priorities", h.getPriorities)
}

// @Summary Generate the ranked priority snapshot for the active order book
// @Tags priorities
// @Param salesperson_id query string false "Filter to one salesperson's orders"
// @Param risk_level query string false "LOW, MEDIUM or HIGH; trims items, never ranks"
// @Param limit query int false "Max items returned, default 20, clamped to [1,50]"
// @Success 200 {object} engine.PrioritySnapshot
// @Failure 400 {object} map[string]string
// @Router /api/v1/priorities [get]
func (h *PriorityHandler) getPriorities(c *gin.Context) {
	if h.Ranker == nil {
		Error(c, http.StatusInternalServerError, "ranker unavailable", nil)
		return
	}

	params := engine.SnapshotParams{}

	if sp := strings.TrimSpace(c.Query("salesperson_id")); sp != "" {
		params.SalespersonID = &sp
	}

	// Validation rejects bad input before any computation; values are never
	// silently coerced.
	if raw := strings.TrimSpace(c.Query("risk_level")); raw != "" {
		level := strings.ToUpper(raw)
		switch level {
		case engine.RiskLevelLow, engine.RiskLevelMedium, engine.RiskLevelHigh:
			params.RiskLevel = &level
		default:
			Error(c, http.StatusBadRequest, "risk_level must be one of LOW, MEDIUM, HIGH", nil)
			return
		}
	}

	limit := h.DefaultLimit
	if limit <= 0 {
		limit = 20
	}
	maxLimit := h.MaxLimit
	if maxLimit <= 0 {
		maxLimit = 50
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			Error(c, http.StatusBadRequest, "limit must be an integer", nil)
			return
		}
		limit = parsed
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	params.Limit = limit

	snapshot, err := h.Ranker.Generate(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, snapshot, nil)
}
