package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/prizely-backend/internal/http/response"
	"github.com/yungbote/prizely-backend/internal/services"
)

type ItemHandler struct {
	catalog services.CatalogService
}

func NewItemHandler(catalog services.CatalogService) *ItemHandler {
	return &ItemHandler{catalog: catalog}
}

// GET /api/items?q=&include=prices
func (h *ItemHandler) List(c *gin.Context) {
	items, err := h.catalog.ListItems(c.Request.Context(), c.Query("q"), includes(c, "prices"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, items)
}

// GET /api/items/:id
// Prices are always included for a single item.
func (h *ItemHandler) Get(c *gin.Context) {
	item, err := h.catalog.GetItem(c.Request.Context(), c.Param("id"), true)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, item)
}

// POST /api/items
// body: { "name": "Sugar", "unit": "kg", "emoji": "🍚" }
func (h *ItemHandler) Create(c *gin.Context) {
	var req services.ItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadBody(c, err)
		return
	}
	item, err := h.catalog.CreateItem(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, item)
}

// PUT /api/items/:id
func (h *ItemHandler) Update(c *gin.Context) {
	var req services.ItemPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadBody(c, err)
		return
	}
	item, err := h.catalog.UpdateItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, item)
}

// DELETE /api/items/:id
func (h *ItemHandler) Delete(c *gin.Context) {
	if err := h.catalog.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondMessage(c, "Item deleted successfully")
}

// includes reports whether ?include= lists want (comma separated).
func includes(c *gin.Context, want string) bool {
	for _, part := range strings.Split(c.Query("include"), ",") {
		if strings.EqualFold(strings.TrimSpace(part), want) {
			return true
		}
	}
	return false
}
