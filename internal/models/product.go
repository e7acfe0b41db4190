package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// prices travel as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a catalog row. Synced and CreatedAt are local
// bookkeeping and never travel over the wire.
type Product struct {
	ID        int             `json:"id,omitempty"`
	Name      string          `json:"product_name"`
	Type      string          `json:"product_type"`
	Price     decimal.Decimal `json:"price"`
	Tax       decimal.Decimal `json:"tax"`
	Image     *string         `json:"image"`
	Synced    bool            `json:"-"`
	CreatedAt time.Time       `json:"-"`
}

// NewProduct is the input of an add-product action. Price and Tax are kept
// as the user typed them; ImagePath is empty when no image was chosen.
type NewProduct struct {
	Name      string
	Type      string
	Price     string
	Tax       string
	ImagePath string
}
