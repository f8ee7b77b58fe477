package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dealerops/internal/repository"
)

type SalespersonHandler struct {
	Repo repository.Repository
}

func (h *SalespersonHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/salespeople", h.listSalespeople)
}

// @Summary List salespeople
// @Tags salespeople
// @Success 200 {array} models.Salesperson
// @Router /api/v1/salespeople [get]
func (h *SalespersonHandler) listSalespeople(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	items, err := h.Repo.ListSalespeople(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}
