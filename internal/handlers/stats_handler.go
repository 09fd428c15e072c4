package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"ticket-sales/internal/services"
	"ticket-sales/monitoring"
)

type StatsHandler struct {
	stats *services.StatsService
}

func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{stats: statsService}
}

// Get - sales statistics per tier plus total revenue. First call
// lazily creates the event config singleton.
func (h *StatsHandler) Get(e *core.RequestEvent) error {
	stats, err := h.stats.GetStats(e.Request.Context())
	if err != nil {
		monitoring.TrackTicketOperation("stats", "error")
		return toAPIError(err)
	}

	monitoring.TrackTicketOperation("stats", "success")
	return e.JSON(http.StatusOK, stats)
}
