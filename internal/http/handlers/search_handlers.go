package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

// UpdateSearchHandler godoc
// @Summary Set the current search query
// @Description Switches the agent's product list to names containing query (case-sensitive). An empty query shows everything.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param search body SearchRequest true "Search query"
// @Success 200 {object} ProductsSearchResult
// @Failure 400 {string} string "Invalid JSON"
// @Router /search [put]
func UpdateSearchHandler(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	controller.UpdateSearchQuery(req.Query)

	products, err := service.Snapshot(r.Context(), req.Query)
	if err != nil {
		zap.L().Error("reading products failed", zap.Error(err))
		http.Error(w, "could not fetch products", http.StatusInternalServerError)
		return
	}
	respond(w, http.StatusOK, ProductsSearchResult{
		Data: toProductResponses(products),
		Meta: Meta{TotalCount: len(products), Query: req.Query},
	})
}
