package handlers

import (
	"github.com/rogerio-castellano/catalog-sync/internal/repo"
	"github.com/shopspring/decimal"
)

type ProductResponse struct {
	Id        int             `json:"id"`
	Name      string          `json:"product_name"`
	Type      string          `json:"product_type"`
	Price     decimal.Decimal `json:"price"`
	Tax       decimal.Decimal `json:"tax"`
	Image     *string         `json:"image"`
	Synced    bool            `json:"synced"`
	CreatedAt string          `json:"created_at"`
}

type Meta struct {
	TotalCount int    `json:"total_count"`
	Query      string `json:"query,omitempty"`
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

// ProductForm is the multipart body of POST /products, minus the image.
type ProductForm struct {
	Type  string
	Name  string
	Price string
	Tax   string
}

// SearchRequest is the body of PUT /search.
type SearchRequest struct {
	Query string `json:"query"`
}

type RefreshResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Count   int    `json:"count"`
}

type AddProductResult struct {
	Status    string           `json:"status"`
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	ProductID *int             `json:"product_id"`
	Product   *ProductResponse `json:"product,omitempty"`
}

type SyncResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Synced  int    `json:"synced"`
}

type StatusResponse struct {
	Connected      bool           `json:"connected"`
	Unsynced       int            `json:"unsynced"`
	Products       int            `json:"products"`
	MostCommonType repo.TypeCount `json:"most_common_type"`
	SearchQuery    string         `json:"search_query"`
}
