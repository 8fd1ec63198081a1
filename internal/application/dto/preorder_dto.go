package dto

import "time"

// CreatePreorderRequest entrada para registrar una preorden.
type CreatePreorderRequest struct {
	ProductID    string     `json:"product_id"`
	CustomerName string     `json:"customer_name"`
	Phone        string     `json:"phone"`
	Quantity     int        `json:"quantity"`
	PickupPoint  string     `json:"pickup_point"`
	ExpectedAt   *time.Time `json:"expected_at"`
	Comment      string     `json:"comment"`
}

// UpdatePreorderStatusRequest nuevo estado.
type UpdatePreorderStatusRequest struct {
	Status string `json:"status"`
}

// PreorderResponse salida de una preorden.
type PreorderResponse struct {
	ID           string     `json:"id"`
	StoreID      string     `json:"store_id"`
	ProductID    string     `json:"product_id"`
	ProductName  string     `json:"product_name"`
	CustomerName string     `json:"customer_name"`
	Phone        string     `json:"phone"`
	Quantity     int        `json:"quantity"`
	PickupPoint  string     `json:"pickup_point,omitempty"`
	ExpectedAt   *time.Time `json:"expected_at,omitempty"`
	Status       string     `json:"status"`
	Comment      string     `json:"comment,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// PreorderListResponse lista de preórdenes.
type PreorderListResponse struct {
	Items []PreorderResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
