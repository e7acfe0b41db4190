package repo_test

import (
	"context"
	"testing"

	"github.com/rogerio-castellano/catalog-sync/internal/models"
	repo "github.com/rogerio-castellano/catalog-sync/internal/repo"
)

func TestInMemoryHistoryKeepsNewestFirst(t *testing.T) {
	h := repo.NewInMemoryHistoryRepository(3)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c", "d"} {
		if err := h.Record(ctx, models.SyncReport{ID: id}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	tests := []struct {
		limit int
		want  []string
	}{
		{0, []string{"d", "c", "b"}},
		{2, []string{"d", "c"}},
		{10, []string{"d", "c", "b"}},
	}
	for _, tt := range tests {
		got, err := h.Recent(ctx, tt.limit)
		if err != nil {
			t.Fatalf("recent: %v", err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("limit %d: expected %d reports, got %d", tt.limit, len(tt.want), len(got))
		}
		for i := range got {
			if got[i].ID != tt.want[i] {
				t.Errorf("limit %d: position %d expected %s, got %s", tt.limit, i, tt.want[i], got[i].ID)
			}
		}
	}
}
