package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rogerio-castellano/catalog-sync/internal/resource"
	"go.uber.org/zap"
)

// SyncHandler godoc
// @Summary Sync offline products now
// @Tags sync
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SyncResult
// @Failure 502 {object} SyncResult
// @Router /sync [post]
func SyncHandler(w http.ResponseWriter, r *http.Request) {
	st := controller.SyncNow(context.WithoutCancel(r.Context()))
	if st.Phase != resource.PhaseSuccess {
		respond(w, http.StatusBadGateway, SyncResult{Status: st.Phase.String(), Message: st.Message})
		return
	}
	respond(w, http.StatusOK, SyncResult{Status: st.Phase.String(), Synced: st.Data})
}

// SyncHistoryHandler godoc
// @Summary Recent sync passes
// @Tags sync
// @Produce json
// @Param limit query int false "Maximum number of reports" default(20)
// @Success 200 {array} models.SyncReport
// @Failure 400 {string} string "Invalid limit"
// @Router /sync/history [get]
func SyncHistoryHandler(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	reports, err := service.History(r.Context(), limit)
	if err != nil {
		zap.L().Error("reading sync history failed", zap.Error(err))
		http.Error(w, "could not fetch sync history", http.StatusInternalServerError)
		return
	}
	respond(w, http.StatusOK, reports)
}
