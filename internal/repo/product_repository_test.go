package repo_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rogerio-castellano/catalog-sync/internal/config"
	"github.com/rogerio-castellano/catalog-sync/internal/db"
	"github.com/rogerio-castellano/catalog-sync/internal/models"
	repo "github.com/rogerio-castellano/catalog-sync/internal/repo"
	"github.com/shopspring/decimal"
)

// forEachStore runs fn against every backend that needs no external service.
func forEachStore(t *testing.T, fn func(t *testing.T, r repo.ProductRepository)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, repo.NewInMemoryProductRepository())
	})
	t.Run("sqlite", func(t *testing.T) {
		conn, err := db.Open(context.Background(), config.StoreConfig{
			Driver: db.DriverSQLite,
			Path:   filepath.Join(t.TempDir(), "catalog.db"),
		})
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		t.Cleanup(func() { conn.Close() })
		fn(t, repo.NewSQLiteProductRepository(conn))
	})
}

func product(name string, synced bool, created time.Time) models.Product {
	return models.Product{
		Name:      name,
		Type:      "Stationery",
		Price:     decimal.RequireFromString("10.50"),
		Tax:       decimal.RequireFromString("5"),
		Synced:    synced,
		CreatedAt: created,
	}
}

var base = time.UnixMilli(1_700_000_000_000)

func names(ps []models.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func equalNames(got []models.Product, want ...string) bool {
	g := names(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

func TestInsertAssignsIDsAndKeepsFields(t *testing.T) {
	forEachStore(t, func(t *testing.T, r repo.ProductRepository) {
		ctx := context.Background()
		img := "/tmp/pen.png"
		p := product("Pen", false, base)
		p.Image = &img

		first, err := r.Insert(ctx, p)
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		second, err := r.Insert(ctx, product("Ink", true, base))
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		if first.ID == 0 || second.ID <= first.ID {
			t.Fatalf("expected increasing ids, got %d and %d", first.ID, second.ID)
		}

		all, err := r.GetAll(ctx)
		if err != nil {
			t.Fatalf("get all: %v", err)
		}
		if !equalNames(all, "Pen", "Ink") {
			t.Fatalf("unexpected order %v", names(all))
		}
		got := all[0]
		if !got.Price.Equal(decimal.RequireFromString("10.5")) || !got.Tax.Equal(decimal.NewFromInt(5)) {
			t.Errorf("price/tax changed: %s / %s", got.Price, got.Tax)
		}
		if got.Image == nil || *got.Image != img {
			t.Errorf("expected image %q, got %v", img, got.Image)
		}
		if got.Synced {
			t.Error("expected unsynced row")
		}
		if !got.CreatedAt.Equal(base) {
			t.Errorf("expected created_at %v, got %v", base, got.CreatedAt)
		}
		if all[1].Image != nil {
			t.Errorf("expected nil image, got %q", *all[1].Image)
		}
	})
}

func TestInsertReplacesOnConflict(t *testing.T) {
	forEachStore(t, func(t *testing.T, r repo.ProductRepository) {
		ctx := context.Background()
		saved, _ := r.Insert(ctx, product("Pen", false, base))

		replacement := product("Fountain Pen", true, base)
		replacement.ID = saved.ID
		if _, err := r.Insert(ctx, replacement); err != nil {
			t.Fatalf("insert: %v", err)
		}

		all, _ := r.GetAll(ctx)
		if len(all) != 1 || all[0].Name != "Fountain Pen" || !all[0].Synced {
			t.Fatalf("expected replaced row, got %+v", all)
		}
	})
}

func TestGetUnsyncedAndUpdate(t *testing.T) {
	forEachStore(t, func(t *testing.T, r repo.ProductRepository) {
		ctx := context.Background()
		if err := r.InsertMany(ctx, []models.Product{
			product("A", false, base),
			product("B", true, base),
			product("C", false, base),
		}); err != nil {
			t.Fatalf("insert many: %v", err)
		}

		unsynced, err := r.GetUnsynced(ctx)
		if err != nil {
			t.Fatalf("get unsynced: %v", err)
		}
		if !equalNames(unsynced, "A", "C") {
			t.Fatalf("unexpected unsynced rows %v", names(unsynced))
		}

		a := unsynced[0]
		a.Synced = true
		if _, err := r.Update(ctx, a); err != nil {
			t.Fatalf("update: %v", err)
		}
		unsynced, _ = r.GetUnsynced(ctx)
		if !equalNames(unsynced, "C") {
			t.Errorf("expected only C unsynced, got %v", names(unsynced))
		}

		missing := product("ghost", true, base)
		missing.ID = 9999
		if _, err := r.Update(ctx, missing); !errors.Is(err, repo.ErrProductNotFound) {
			t.Errorf("expected ErrProductNotFound, got %v", err)
		}
	})
}

func TestReplaceAll(t *testing.T) {
	tests := []struct {
		name         string
		keepUnsynced bool
		want         []string
	}{
		{"keeps offline rows", true, []string{"offline", "X", "Y"}},
		{"drops everything", false, []string{"X", "Y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forEachStore(t, func(t *testing.T, r repo.ProductRepository) {
				ctx := context.Background()
				r.Insert(ctx, product("offline", false, base))
				r.Insert(ctx, product("stale", true, base))

				fresh := []models.Product{product("X", true, base), product("Y", true, base)}
				if err := r.ReplaceAll(ctx, fresh, tt.keepUnsynced); err != nil {
					t.Fatalf("replace all: %v", err)
				}
				all, _ := r.GetAll(ctx)
				if !equalNames(all, tt.want...) {
					t.Errorf("expected %v, got %v", tt.want, names(all))
				}
			})
		})
	}
}

func TestDeleteAll(t *testing.T) {
	forEachStore(t, func(t *testing.T, r repo.ProductRepository) {
		ctx := context.Background()
		r.Insert(ctx, product("A", true, base))
		if err := r.DeleteAll(ctx); err != nil {
			t.Fatalf("delete all: %v", err)
		}
		all, _ := r.GetAll(ctx)
		if len(all) != 0 {
			t.Errorf("expected empty store, got %v", names(all))
		}
	})
}

func TestSearch(t *testing.T) {
	forEachStore(t, func(t *testing.T, r repo.ProductRepository) {
		ctx := context.Background()
		r.Insert(ctx, product("Blue Pen", true, base))
		r.Insert(ctx, product("pencil", true, base.Add(time.Minute)))
		r.Insert(ctx, product("Red Pen", true, base.Add(2*time.Minute)))
		r.Insert(ctx, product("Notebook", true, base.Add(3*time.Minute)))

		tests := []struct {
			query string
			want  []string
		}{
			{"", []string{"Blue Pen", "pencil", "Red Pen", "Notebook"}},
			{"Pen", []string{"Red Pen", "Blue Pen"}},
			{"pen", []string{"pencil"}},
			{"Laptop", nil},
		}
		for _, tt := range tests {
			got, err := r.Search(ctx, tt.query)
			if err != nil {
				t.Fatalf("search %q: %v", tt.query, err)
			}
			if !equalNames(got, tt.want...) {
				t.Errorf("search %q: expected %v, got %v", tt.query, tt.want, names(got))
			}
		}
	})
}
