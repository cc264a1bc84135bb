package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type recentResultsQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.dashboards.Load(c.Request.Context(), identity(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) RefreshDashboard(c *gin.Context) {
	d, err := h.dashboards.Refresh(c.Request.Context(), identity(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) RecentResults(c *gin.Context) {
	var q recentResultsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, err)
		return
	}

	results, total, err := h.dashboards.RecentResults(c.Request.Context(), identity(c), q.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   total,
	})
}

func (h *Handler) ResetHistory(c *gin.Context) {
	if err := h.reset.ResetHistory(c.Request.Context(), identity(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
