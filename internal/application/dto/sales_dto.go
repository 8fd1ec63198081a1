package dto

import (
	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/sales"
)

// Modos de obtención de ventas.
const (
	SalesModePaginated = "paginated"
	SalesModeBulk      = "bulk"
	SalesModeDemo      = "demo"
)

// SalesQuery parámetros de GET /api/stores/:id/sales.
type SalesQuery struct {
	MaxOrders int `query:"max_orders"`
	Days      int `query:"days"`
}

// Normalize aplica valores por defecto.
func (q *SalesQuery) Normalize() {
	if q.MaxOrders <= 0 {
		q.MaxOrders = 500
	}
	if q.Days <= 0 {
		q.Days = 30
	}
	if q.Days > 365 {
		q.Days = 365
	}
}

// SalesReport pedidos + agregados para gráficos.
type SalesReport struct {
	StoreID     string               `json:"store_id"`
	StoreName   string               `json:"store_name"`
	Mode        string               `json:"mode"`
	Days        int                  `json:"days"`
	Orders      []entity.Order       `json:"orders"`
	Daily       []entity.SalesOrder  `json:"daily"`
	Summary     sales.Summary        `json:"summary"`
	TopProducts []sales.ProductSales `json:"top_products"`
	NextPage    int                  `json:"next_page,omitempty"`
	HasMore     bool                 `json:"has_more"`
}

// LoadMoreRequest página siguiente más los pedidos ya cargados por el cliente.
type LoadMoreRequest struct {
	Page   int            `json:"page"`
	Days   int            `json:"days"`
	Orders []entity.Order `json:"orders"`
}
