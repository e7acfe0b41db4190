package models

// AddProductResponse is the body returned by the remote add endpoint.
// ProductDetails echoes the stored product and carries its final image URL.
type AddProductResponse struct {
	Success        bool     `json:"success"`
	Message        string   `json:"message"`
	ProductID      *int     `json:"product_id"`
	ProductDetails *Product `json:"product_details"`
}
