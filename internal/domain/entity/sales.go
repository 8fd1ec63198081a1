package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order pedido de Kaspi devuelto por el backend de ventas.
type Order struct {
	ID       string          `json:"id"`
	Code     string          `json:"code"`
	Date     time.Time       `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Status   string          `json:"status"`
	Products []OrderLine     `json:"products"`
}

// OrderLine línea de producto dentro de un pedido.
type OrderLine struct {
	Name     string          `json:"name"`
	SKU      string          `json:"sku"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// SalesOrder agregado diario de pedidos (fecha YYYY-MM-DD, cantidad, monto).
type SalesOrder struct {
	Date   string          `json:"date"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// SalesPage página de pedidos del endpoint paginado.
type SalesPage struct {
	Orders     []Order `json:"orders"`
	Page       int     `json:"page"`
	TotalPages int     `json:"total_pages"`
	Total      int     `json:"total"`
	HasMore    bool    `json:"has_more"`
}
