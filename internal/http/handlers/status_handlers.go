package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

// StatusHandler godoc
// @Summary Agent status
// @Description Connectivity, local catalog counters and the current search query.
// @Tags status
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 500 {string} string "Internal error"
// @Router /status [get]
func StatusHandler(w http.ResponseWriter, r *http.Request) {
	m, err := metrics.GetDashboardMetrics(r.Context())
	if err != nil {
		zap.L().Error("reading catalog metrics failed", zap.Error(err))
		http.Error(w, "could not read status", http.StatusInternalServerError)
		return
	}

	respond(w, http.StatusOK, StatusResponse{
		Connected:      controller.IsConnected.Value(),
		Unsynced:       m.UnsyncedProducts,
		Products:       m.TotalProducts,
		MostCommonType: m.MostCommonType,
		SearchQuery:    controller.SearchQuery.Value(),
	})
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}
