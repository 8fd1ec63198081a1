package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kaspi-panel-api/internal/application/dto"
	"github.com/jhoicas/kaspi-panel-api/internal/application/usecase"
)

// SalesHandler pedidos y agregados de ventas.
type SalesHandler struct {
	uc *usecase.SalesUseCase
}

// NewSalesHandler construye el handler.
func NewSalesHandler(uc *usecase.SalesUseCase) *SalesHandler {
	return &SalesHandler{uc: uc}
}

// Fetch godoc
// @Summary      Ventas de una tienda
// @Description  max_orders <= 1000 usa el endpoint paginado de Kaspi; por encima, el bulk.
// @Tags         sales
// @Produce      json
// @Param        id          path   string  true   "ID de la tienda"
// @Param        max_orders  query  int     false  "Máximo de pedidos"  default(500)
// @Param        days        query  int     false  "Días hacia atrás"   default(30)
// @Success      200         {object}  dto.SalesReport
// @Failure      502         {object}  dto.ErrorResponse
// @Router       /api/stores/{id}/sales [get]
func (h *SalesHandler) Fetch(c *fiber.Ctx) error {
	storeID := c.Params("id")
	if storeID == "" {
		return missingParam(c, "id")
	}
	var q dto.SalesQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.Fetch(requestContext(c), GetUserID(c), storeID, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LoadMore godoc
// @Summary      Cargar más pedidos
// @Description  Pide la página indicada y la fusiona con los pedidos ya cargados, sin duplicados.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la tienda"
// @Param        body  body  dto.LoadMoreRequest  true  "página y pedidos cargados"
// @Success      200   {object}  dto.SalesReport
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stores/{id}/sales/more [post]
func (h *SalesHandler) LoadMore(c *fiber.Ctx) error {
	storeID := c.Params("id")
	if storeID == "" {
		return missingParam(c, "id")
	}
	var in dto.LoadMoreRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.LoadMore(requestContext(c), GetUserID(c), storeID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReportPDF godoc
// @Summary      Reporte de ventas en PDF
// @Tags         sales
// @Produce      application/pdf
// @Param        id          path   string  true   "ID de la tienda"
// @Param        max_orders  query  int     false  "Máximo de pedidos"
// @Param        days        query  int     false  "Días hacia atrás"
// @Success      200
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/stores/{id}/sales/report.pdf [get]
func (h *SalesHandler) ReportPDF(c *fiber.Ctx) error {
	storeID := c.Params("id")
	if storeID == "" {
		return missingParam(c, "id")
	}
	var q dto.SalesQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	pdf, err := h.uc.ReportPDF(requestContext(c), GetUserID(c), storeID, q)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="ventas-%s.pdf"`, storeID))
	return c.Send(pdf)
}
