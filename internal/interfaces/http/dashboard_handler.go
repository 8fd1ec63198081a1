package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/kaspi-panel-api/internal/application/analytics"
)

// DashboardHandler resumen por tienda.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve el resumen de la tienda.
// GET /api/stores/:id/dashboard
//
// Respuesta: StoreDashboardDTO (store, products_total, bot_active, today,
// last_30_days, demper). Si el backend de ventas falla, los totales de ventas
// quedan en cero y sales_error trae el motivo.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	storeID := c.Params("id")
	if storeID == "" {
		return missingParam(c, "id")
	}
	summary, err := h.uc.GetSummary(requestContext(c), GetUserID(c), storeID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
