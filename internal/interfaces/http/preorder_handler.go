package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kaspi-panel-api/internal/application/dto"
	"github.com/jhoicas/kaspi-panel-api/internal/application/usecase"
)

// PreorderHandler preórdenes de una tienda.
type PreorderHandler struct {
	uc *usecase.PreorderUseCase
}

// NewPreorderHandler construye el handler.
func NewPreorderHandler(uc *usecase.PreorderUseCase) *PreorderHandler {
	return &PreorderHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar preorden
// @Tags         preorders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la tienda"
// @Param        body  body  dto.CreatePreorderRequest  true  "Datos de la preorden"
// @Success      201   {object}  dto.PreorderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stores/{id}/preorders [post]
func (h *PreorderHandler) Create(c *fiber.Ctx) error {
	storeID := c.Params("id")
	if storeID == "" {
		return missingParam(c, "id")
	}
	var in dto.CreatePreorderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(requestContext(c), GetUserID(c), storeID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar preórdenes
// @Tags         preorders
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la tienda"
// @Param        status  query  string  false  "pending, confirmed, fulfilled, cancelled"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.PreorderListResponse
// @Router       /api/stores/{id}/preorders [get]
func (h *PreorderHandler) List(c *fiber.Ctx) error {
	storeID := c.Params("id")
	if storeID == "" {
		return missingParam(c, "id")
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(requestContext(c), GetUserID(c), storeID, c.Query("status"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de una preorden
// @Description  pending → confirmed → fulfilled; pending|confirmed → cancelled.
// @Tags         preorders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true  "ID de la preorden"
// @Param        body  body  dto.UpdatePreorderStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.PreorderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/preorders/{id}/status [patch]
func (h *PreorderHandler) UpdateStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingParam(c, "id")
	}
	var in dto.UpdatePreorderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateStatus(requestContext(c), GetUserID(c), id, in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
