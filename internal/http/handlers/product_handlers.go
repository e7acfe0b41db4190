package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/catalog-sync/internal/models"
	"github.com/rogerio-castellano/catalog-sync/internal/resource"
	"go.uber.org/zap"
)

const maxUploadBytes = 10 << 20

// GetProductsHandler godoc
// @Summary List local products
// @Description Returns the local catalog. With q, only products whose name contains q (case-sensitive), newest first.
// @Tags products
// @Produce json
// @Param q query string false "Name substring"
// @Success 200 {object} ProductsSearchResult
// @Failure 500 {string} string "Internal error"
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	products, err := service.Snapshot(r.Context(), q)
	if err != nil {
		zap.L().Error("reading products failed", zap.Error(err))
		http.Error(w, "could not fetch products", http.StatusInternalServerError)
		return
	}

	respond(w, http.StatusOK, ProductsSearchResult{
		Data: toProductResponses(products),
		Meta: Meta{TotalCount: len(products), Query: q},
	})
}

// StreamProductsHandler godoc
// @Summary Stream local products
// @Description Server-sent events; one data line with the product list per change of the local catalog.
// @Tags products
// @Produce text/event-stream
// @Param q query string false "Name substring"
// @Success 200 {array} ProductResponse
// @Router /products/stream [get]
func StreamProductsHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	updates := service.Search(ctx, r.URL.Query().Get("q"))
	for {
		select {
		case <-ctx.Done():
			return
		case ps, ok := <-updates:
			if !ok {
				return
			}
			data, err := json.Marshal(toProductResponses(ps))
			if err != nil {
				zap.L().Warn("encoding snapshot failed", zap.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// CreateProductHandler godoc
// @Summary Add a product
// @Description Submits the product to the remote catalog, or saves it locally for a later sync when offline.
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param product_type formData string true "Product type"
// @Param product_name formData string true "Product name"
// @Param price formData string true "Selling price"
// @Param tax formData string true "Tax rate"
// @Param image formData file false "Product image"
// @Success 201 {object} AddProductResult
// @Failure 400 {array} ProductValidationError
// @Failure 502 {object} AddProductResult
// @Router /products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	form := ProductForm{
		Type:  r.FormValue("product_type"),
		Name:  r.FormValue("product_name"),
		Price: r.FormValue("price"),
		Tax:   r.FormValue("tax"),
	}
	if validationErrors := validateProduct(form); len(validationErrors) > 0 {
		respond(w, http.StatusBadRequest, validationErrors)
		return
	}

	imagePath, err := saveUpload(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st := controller.SubmitProduct(context.WithoutCancel(r.Context()), models.NewProduct{
		Name:      strings.TrimSpace(form.Name),
		Type:      strings.TrimSpace(form.Type),
		Price:     strings.TrimSpace(form.Price),
		Tax:       strings.TrimSpace(form.Tax),
		ImagePath: imagePath,
	})

	if st.Phase != resource.PhaseSuccess {
		respond(w, http.StatusBadGateway, AddProductResult{Status: st.Phase.String(), Message: st.Message})
		return
	}

	resp := st.Data
	result := AddProductResult{
		Status:    st.Phase.String(),
		Success:   resp.Success,
		Message:   resp.Message,
		ProductID: resp.ProductID,
	}
	if resp.ProductDetails != nil {
		p := toProductResponse(*resp.ProductDetails)
		result.Product = &p
	}
	respond(w, http.StatusCreated, result)
}

var errNotAnImage = errors.New("image must be an image file")

// saveUpload stores the optional image part under uploadDir and returns
// its path, or "" when no image was sent.
func saveUpload(r *http.Request) (string, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("invalid image: %w", err)
	}
	defer file.Close()

	if ct := header.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return "", errNotAnImage
	}
	return storeFile(file, header)
}

func storeFile(file multipart.File, header *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("could not store image: %w", err)
	}

	path := filepath.Join(uploadDir, uuid.NewString()+strings.ToLower(filepath.Ext(header.Filename)))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("could not store image: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("could not store image: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

// RefreshProductsHandler godoc
// @Summary Refresh from the remote catalog
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {object} RefreshResult
// @Failure 502 {object} RefreshResult
// @Router /products/refresh [post]
func RefreshProductsHandler(w http.ResponseWriter, r *http.Request) {
	st := controller.Refresh(context.WithoutCancel(r.Context()))
	if st.Phase != resource.PhaseSuccess {
		respond(w, http.StatusBadGateway, RefreshResult{Status: st.Phase.String(), Message: st.Message})
		return
	}
	respond(w, http.StatusOK, RefreshResult{Status: st.Phase.String(), Count: len(st.Data)})
}
