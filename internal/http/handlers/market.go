package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/prizely-backend/internal/http/response"
	"github.com/yungbote/prizely-backend/internal/services"
)

type MarketHandler struct {
	catalog services.CatalogService
}

func NewMarketHandler(catalog services.CatalogService) *MarketHandler {
	return &MarketHandler{catalog: catalog}
}

// GET /api/markets?q=&verified=true
func (h *MarketHandler) List(c *gin.Context) {
	verified, _ := strconv.ParseBool(c.Query("verified"))
	markets, err := h.catalog.ListMarkets(c.Request.Context(), c.Query("q"), verified)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, markets)
}

func (h *MarketHandler) Get(c *gin.Context) {
	m, err := h.catalog.GetMarket(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, m)
}

// POST /api/markets
// body: { "name": "Imtiaz", "rating": 4.6, "verified": true }
func (h *MarketHandler) Create(c *gin.Context) {
	var req services.MarketInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadBody(c, err)
		return
	}
	m, err := h.catalog.CreateMarket(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, m)
}

func (h *MarketHandler) Update(c *gin.Context) {
	var req services.MarketPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadBody(c, err)
		return
	}
	m, err := h.catalog.UpdateMarket(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, m)
}

func (h *MarketHandler) Delete(c *gin.Context) {
	if err := h.catalog.DeleteMarket(c.Request.Context(), c.Param("id")); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondMessage(c, "Market deleted successfully")
}
