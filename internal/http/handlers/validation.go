package handlers

import (
	"strings"

	"github.com/shopspring/decimal"
)

type ProductValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func validateProduct(f ProductForm) []ProductValidationError {
	errs := []ProductValidationError{}
	if strings.TrimSpace(f.Type) == "" {
		errs = append(errs, ProductValidationError{Field: "product_type", Description: "Product type is required"})
	}
	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, ProductValidationError{Field: "product_name", Description: "Product name is required"})
	}
	if msg := checkAmount(f.Price, "Price"); msg != "" {
		errs = append(errs, ProductValidationError{Field: "price", Description: msg})
	}
	if msg := checkAmount(f.Tax, "Tax"); msg != "" {
		errs = append(errs, ProductValidationError{Field: "tax", Description: msg})
	}
	return errs
}

func checkAmount(v, label string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return label + " is required"
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return label + " must be a number"
	}
	if d.IsNegative() {
		return label + " cannot be negative"
	}
	return ""
}
