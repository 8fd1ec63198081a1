package dto

import (
	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/sales"
)

// StoreDashboardDTO respuesta de GET /api/stores/:id/dashboard.
type StoreDashboardDTO struct {
	Store         StoreResponse          `json:"store"`
	ProductsTotal int                    `json:"products_total"`
	BotActive     int                    `json:"bot_active"`
	Today         sales.DayTotal         `json:"today"`
	Last30Days    sales.Summary          `json:"last_30_days"`
	Demper        *entity.DemperSnapshot `json:"demper,omitempty"`
	SalesError    string                 `json:"sales_error,omitempty"`
}
