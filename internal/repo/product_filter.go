package repo

import (
	"sort"
	"strings"

	"github.com/rogerio-castellano/catalog-sync/internal/models"
)

// MatchesQuery reports whether the product name contains query. Matching is
// case-sensitive and an empty query matches every product.
func MatchesQuery(p models.Product, query string) bool {
	return query == "" || strings.Contains(p.Name, query)
}

// FilterProducts applies the search rules to an in-memory snapshot: the
// empty query returns ps untouched, anything else returns the matches
// ordered by creation time, newest first.
func FilterProducts(ps []models.Product, query string) []models.Product {
	if query == "" {
		return ps
	}

	filtered := []models.Product{}
	for _, p := range ps {
		if MatchesQuery(p, query) {
			filtered = append(filtered, p)
		}
	}
	sortNewestFirst(filtered)
	return filtered
}

func sortNewestFirst(ps []models.Product) {
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].ID > ps[j].ID
		}
		return ps[i].CreatedAt.After(ps[j].CreatedAt)
	})
}
