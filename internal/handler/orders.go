package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"dealerops/internal/models"
	"dealerops/internal/repository"
)

// OrderHandler is the thin CRUD surface over the order book. No workflow
// logic lives here; risk triage is the priorities endpoint's job.
type OrderHandler struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

func (h *OrderHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/orders")
	group.GET("", h.listOrders)
	group.GET("/:id", h.getOrder)
	group.GET("/:id/activities", h.listActivities)
	group.POST("/:id/activities", h.createActivity)
}

// @Summary List orders
// @Tags orders
// @Param status query string false "Lifecycle status filter"
// @Param salesperson_id query string false "Salesperson filter"
// @Param risk_level query string false "Persisted risk level filter"
// @Success 200 {array} models.Order
// @Router /api/v1/orders [get]
func (h *OrderHandler) listOrders(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	params := repository.ListOrdersParams{
		Limit:         intQuery(c, "limit", 50),
		Offset:        intQuery(c, "offset", 0),
		Status:        strQueryPtr(c, "status"),
		SalespersonID: strQueryPtr(c, "salesperson_id"),
		RiskLevel:     strQueryPtr(c, "risk_level"),
		OrderBy: parseOrder(c.Query("sort_by"), map[string]string{
			"created_at": "created_at",
			"risk_score": "risk_score",
			"total":      "total_amount",
		}),
	}
	if strings.EqualFold(strings.TrimSpace(c.Query("order")), "asc") {
		asc := true
		params.Asc = &asc
	}
	items, err := h.Repo.ListOrders(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountOrders(c.Request.Context(), repository.ListOrdersParams{
		Status:        params.Status,
		SalespersonID: params.SalespersonID,
		RiskLevel:     params.RiskLevel,
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(params.Limit, params.Offset, total))
}

// @Summary Get one order with customer, vehicle and activity history
// @Tags orders
// @Param id path string true "Order ID"
// @Success 200 {object} models.Order
// @Failure 404 {object} map[string]string
// @Router /api/v1/orders/{id} [get]
func (h *OrderHandler) getOrder(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	item, err := h.Repo.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "order not found", nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary List an order's activities, newest first
// @Tags orders
// @Param id path string true "Order ID"
// @Success 200 {array} models.Activity
// @Router /api/v1/orders/{id}/activities [get]
func (h *OrderHandler) listActivities(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	items, err := h.Repo.ListActivities(c.Request.Context(), repository.ListActivitiesParams{
		OrderID: id,
		Limit:   intQuery(c, "limit", 100),
		Offset:  intQuery(c, "offset", 0),
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

type createActivityRequest struct {
	Type        string         `json:"type" binding:"required"`
	Channel     string         `json:"channel"`
	Sentiment   *string        `json:"sentiment"`
	Notes       string         `json:"notes"`
	PerformedBy string         `json:"performed_by"`
	PerformedAt *time.Time     `json:"performed_at"`
	Payload     map[string]any `json:"payload"`
}

// @Summary Log a customer-facing activity on an order
// @Tags orders
// @Param id path string true "Order ID"
// @Param body body createActivityRequest true "Activity"
// @Success 200 {object} models.Activity
// @Router /api/v1/orders/{id}/activities [post]
func (h *OrderHandler) createActivity(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req createActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if req.Sentiment != nil {
		sentiment := strings.ToUpper(strings.TrimSpace(*req.Sentiment))
		switch sentiment {
		case models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative:
			req.Sentiment = &sentiment
		default:
			Error(c, http.StatusBadRequest, "sentiment must be one of POSITIVE, NEUTRAL, NEGATIVE", nil)
			return
		}
	}
	order, err := h.Repo.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if order == nil {
		Error(c, http.StatusNotFound, "order not found", nil)
		return
	}

	performedAt := time.Now().UTC()
	if req.PerformedAt != nil {
		performedAt = req.PerformedAt.UTC()
	}
	item := &models.Activity{
		OrderID:     id,
		Type:        strings.TrimSpace(req.Type),
		Channel:     strings.ToUpper(strings.TrimSpace(req.Channel)),
		Sentiment:   req.Sentiment,
		Notes:       req.Notes,
		PerformedBy: strings.TrimSpace(req.PerformedBy),
		PerformedAt: performedAt,
		Payload:     marshalPayload(req.Payload),
	}
	if err := h.Repo.InsertActivity(c.Request.Context(), item); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	// Logging a touch advances the contact watermark the risk engine reads.
	if err := h.Repo.TouchLastContact(c.Request.Context(), id, performedAt); err != nil && h.Logger != nil {
		h.Logger.Warn("touch last contact failed", zap.String("order_id", id), zap.Error(err))
	}
	Ok(c, item, nil)
}

func marshalPayload(m map[string]any) datatypes.JSON {
	if len(m) == 0 {
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

// --- query helpers ----------------------------------------------------------

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

func strQueryPtr(c *gin.Context, key string) *string {
	if val := strings.TrimSpace(c.Query(key)); val != "" {
		return &val
	}
	return nil
}

func parseOrder(value string, allow map[string]string) string {
	key := strings.TrimSpace(strings.ToLower(value))
	if key == "" {
		return ""
	}
	if mapped, ok := allow[key]; ok {
		return mapped
	}
	return ""
}

func paginationMeta(limit, offset int, total int64) map[string]any {
	if limit <= 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	hasNext := int64(offset+limit) < total
	return map[string]any{
		"limit":    limit,
		"offset":   offset,
		"total":    total,
		"has_next": hasNext,
	}
}
