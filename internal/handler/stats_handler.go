package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/campus-admin-api/internal/service"
	"github.com/campuskit/campus-admin-api/pkg/response"
)

// StatsHandler exposes dashboard aggregation endpoints.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs StatsHandler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Overview godoc
// @Summary Get entity counters
// @Tags Stats
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stats/overview [get]
func (h *StatsHandler) Overview(c *gin.Context) {
	stats, err := h.stats.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Latest godoc
// @Summary Get most recently created classes and teachers
// @Tags Stats
// @Produce json
// @Param limit query int false "Number of items (default 5, max 50)"
// @Success 200 {object} response.Envelope
// @Router /stats/latest [get]
func (h *StatsHandler) Latest(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	latest, err := h.stats.Latest(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, latest, nil)
}

// Charts godoc
// @Summary Get grouped counts for dashboard charts
// @Tags Stats
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stats/charts [get]
func (h *StatsHandler) Charts(c *gin.Context) {
	charts, err := h.stats.Charts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, charts, nil)
}
