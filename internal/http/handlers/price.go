package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/prizely-backend/internal/http/response"
	"github.com/yungbote/prizely-backend/internal/services"
)

type PriceHandler struct {
	catalog services.CatalogService
}

func NewPriceHandler(catalog services.CatalogService) *PriceHandler {
	return &PriceHandler{catalog: catalog}
}

// GET /api/prices?itemId=&marketId=
func (h *PriceHandler) List(c *gin.Context) {
	prices, err := h.catalog.ListPrices(c.Request.Context(), services.PriceQuery{
		ItemID:   c.Query("itemId"),
		MarketID: c.Query("marketId"),
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, prices)
}

func (h *PriceHandler) Get(c *gin.Context) {
	p, err := h.catalog.GetPrice(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, p)
}

// POST /api/prices
// body: { "itemId": "...", "marketId": "...", "price": 150 }
// 201 when the pair had no price yet, 200 when an existing price was replaced.
func (h *PriceHandler) Upsert(c *gin.Context) {
	var req services.PriceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadBody(c, err)
		return
	}
	p, created, err := h.catalog.UpsertPrice(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if created {
		response.RespondCreated(c, p)
		return
	}
	response.RespondOK(c, p)
}

// PUT /api/prices/:id
// body: { "price": 149.5 }
func (h *PriceHandler) Update(c *gin.Context) {
	var req struct {
		Price *float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadBody(c, err)
		return
	}
	p, err := h.catalog.UpdatePrice(c.Request.Context(), c.Param("id"), req.Price)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, p)
}

func (h *PriceHandler) Delete(c *gin.Context) {
	if err := h.catalog.DeletePrice(c.Request.Context(), c.Param("id")); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondMessage(c, "Price deleted successfully")
}
