package remote_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rogerio-castellano/catalog-sync/internal/config"
	"github.com/rogerio-castellano/catalog-sync/internal/models"
	"github.com/rogerio-castellano/catalog-sync/internal/remote"
	"github.com/shopspring/decimal"
)

func newClient(t *testing.T, h http.HandlerFunc) *remote.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return remote.NewClient(config.RemoteConfig{
		BaseURL:        srv.URL + "/api/",
		ConnectTimeout: time.Second,
		ReadTimeout:    time.Second,
		WriteTimeout:   time.Second,
	})
}

func TestListProducts(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/public/get" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"product_name":"Pen","product_type":"Stationery","price":10.5,"tax":5,"image":"https://cdn/pen.png"},
			{"product_name":"Cup","product_type":"Kitchen","price":3,"tax":0,"image":""}
		]`)
	})

	ps, err := c.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ps) != 2 {
		t.Fatalf("expected 2 products, got %d", len(ps))
	}
	if ps[0].Name != "Pen" || !ps[0].Price.Equal(decimal.RequireFromString("10.5")) {
		t.Errorf("unexpected first product %+v", ps[0])
	}
	if ps[0].Image == nil || *ps[0].Image != "https://cdn/pen.png" {
		t.Errorf("expected image url, got %v", ps[0].Image)
	}
	if ps[1].Image != nil {
		t.Errorf("empty image must decode as nil, got %q", *ps[1].Image)
	}
}

func TestListProductsHTTPError(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.ListProducts(context.Background())
	var apiErr *remote.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", apiErr.StatusCode)
	}
	if err.Error() != "HTTP 500 Internal Server Error" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestListProductsBadBody(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"not":"a list"}`)
	})
	if _, err := c.ListProducts(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestAddProductMultipart(t *testing.T) {
	img := filepath.Join(t.TempDir(), "pen.png")
	if err := os.WriteFile(img, []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/public/add" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		want := map[string]string{"product_name": "Pen", "product_type": "Stationery", "price": "10.5", "tax": "5"}
		for k, v := range want {
			if got := r.FormValue(k); got != v {
				t.Errorf("field %s: expected %q, got %q", k, v, got)
			}
		}
		files := r.MultipartForm.File["files[]"]
		if len(files) != 1 || files[0].Filename != "pen.png" {
			t.Errorf("expected one files[] part named pen.png, got %+v", files)
		}
		io.WriteString(w, `{"success":true,"message":"Product added","product_id":42,
			"product_details":{"product_name":"Pen","product_type":"Stationery","price":10.5,"tax":5,"image":"https://cdn/pen.png"}}`)
	})

	resp, err := c.AddProduct(context.Background(), models.NewProduct{
		Name: "Pen", Type: "Stationery", Price: "10.5", Tax: "5", ImagePath: img,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !resp.Success || resp.ProductID == nil || *resp.ProductID != 42 {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.ProductDetails == nil || resp.ProductDetails.Image == nil || *resp.ProductDetails.Image != "https://cdn/pen.png" {
		t.Errorf("expected product details with image, got %+v", resp.ProductDetails)
	}
}

func TestAddProductWithoutImageSendsNoFilePart(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if len(r.MultipartForm.File) != 0 {
			t.Errorf("expected no file parts, got %v", r.MultipartForm.File)
		}
		io.WriteString(w, `{"success":false,"message":"duplicate"}`)
	})

	resp, err := c.AddProduct(context.Background(), models.NewProduct{Name: "Pen", Type: "Stationery", Price: "1", Tax: "0"})
	if err != nil {
		t.Fatalf("a success:false body is not a transport error: %v", err)
	}
	if resp.Success || resp.Message != "duplicate" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestListProductsStalledBodyHitsReadTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"product_name":"Pen",`)
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c := remote.NewClient(config.RemoteConfig{
		BaseURL:        srv.URL + "/api/",
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    100 * time.Millisecond,
		WriteTimeout:   100 * time.Millisecond,
	})

	start := time.Now()
	if _, err := c.ListProducts(context.Background()); err == nil {
		t.Fatal("expected an error for a stalled body")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("stalled body took %v to fail, want about the read timeout", elapsed)
	}
}
