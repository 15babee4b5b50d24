package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/prizely-backend/internal/http/response"
	"github.com/yungbote/prizely-backend/internal/services"
)

type CompareHandler struct {
	comparisons services.ComparisonService
}

func NewCompareHandler(comparisons services.ComparisonService) *CompareHandler {
	return &CompareHandler{comparisons: comparisons}
}

// POST /api/compare
// body: { "itemIds": [...], "marketIds": [...] }
func (h *CompareHandler) Compare(c *gin.Context) {
	var req services.Selection
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadBody(c, err)
		return
	}
	out, err := h.comparisons.Compare(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/compare/report
func (h *CompareHandler) Report(c *gin.Context) {
	var req services.Selection
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadBody(c, err)
		return
	}
	text, err := h.comparisons.Report(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondText(c, text)
}

// GET /api/compare/defaults
func (h *CompareHandler) Defaults(c *gin.Context) {
	sel, err := h.comparisons.Defaults(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, sel)
}
