package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kaspi-panel-api/internal/application/dto"
	"github.com/jhoicas/kaspi-panel-api/internal/application/ports"
	"github.com/jhoicas/kaspi-panel-api/internal/application/usecase"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
)

// StoreHandler tiendas conectadas, sesión y estado del price-bot.
type StoreHandler struct {
	uc   *usecase.StoreUseCase
	feed ports.DemperFeed // nil = sin canal realtime
}

// NewStoreHandler construye el handler.
func NewStoreHandler(uc *usecase.StoreUseCase, feed ports.DemperFeed) *StoreHandler {
	return &StoreHandler{uc: uc, feed: feed}
}

// List godoc
// @Summary      Listar tiendas
// @Description  Sin token devuelve las dos tiendas demo.
// @Tags         stores
// @Produce      json
// @Success      200  {object}  dto.StoreListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/stores [get]
func (h *StoreHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(requestContext(c), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener tienda
// @Tags         stores
// @Produce      json
// @Param        id   path  string  true  "ID de la tienda"
// @Success      200  {object}  dto.StoreResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stores/{id} [get]
func (h *StoreHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingParam(c, "id")
	}
	out, err := h.uc.Get(requestContext(c), GetUserID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Connect godoc
// @Summary      Conectar tienda Kaspi
// @Tags         stores
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConnectStoreRequest  true  "credenciales del cabinet Kaspi"
// @Success      201   {object}  dto.StoreResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/stores [post]
func (h *StoreHandler) Connect(c *fiber.Ctx) error {
	var in dto.ConnectStoreRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Connect(requestContext(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Refresh godoc
// @Summary      Actualizar tiendas desde el backend
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StoreListResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/stores/refresh [post]
func (h *StoreHandler) Refresh(c *fiber.Ctx) error {
	out, err := h.uc.Refresh(requestContext(c), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Sync godoc
// @Summary      Sincronizar catálogo de una tienda
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tienda"
// @Success      200  {object}  dto.SyncStoreResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/stores/{id}/sync [post]
func (h *StoreHandler) Sync(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingParam(c, "id")
	}
	out, err := h.uc.Sync(requestContext(c), GetUserID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SyncAll godoc
// @Summary      Sincronizar todas las tiendas
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.SyncStoreResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/stores/sync [post]
func (h *StoreHandler) SyncAll(c *fiber.Ctx) error {
	out, err := h.uc.SyncAll(requestContext(c), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Desconectar tienda
// @Tags         stores
// @Security     Bearer
// @Param        id   path  string  true  "ID de la tienda"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stores/{id} [delete]
func (h *StoreHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingParam(c, "id")
	}
	if err := h.uc.Delete(requestContext(c), GetUserID(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Session godoc
// @Summary      Estado de sesión
// @Description  Modo demo, rol y tienda seleccionada.
// @Tags         session
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/session [get]
func (h *StoreHandler) Session(c *fiber.Ctx) error {
	out, err := h.uc.Session(requestContext(c), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Select godoc
// @Summary      Seleccionar tienda activa
// @Description  Abre el canal realtime del price-bot de la tienda; store_id vacío lo cierra.
// @Tags         session
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SelectStoreRequest  true  "tienda"
// @Success      200   {object}  dto.SessionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/session/store [put]
func (h *StoreHandler) Select(c *fiber.Ctx) error {
	var in dto.SelectStoreRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Select(requestContext(c), GetUserID(c), in.StoreID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Demper godoc
// @Summary      Estado del price-bot
// @Description  Últimas actualizaciones de precio, errores y toasts del canal realtime.
// @Tags         stores
// @Produce      json
// @Param        id   path  string  true  "ID de la tienda"
// @Success      200  {object}  entity.DemperSnapshot
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stores/{id}/demper [get]
func (h *StoreHandler) Demper(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingParam(c, "id")
	}
	if _, err := h.uc.Authorize(requestContext(c), GetUserID(c), id); err != nil {
		return writeError(c, err)
	}
	snap := entity.DemperSnapshot{StoreID: id}
	if h.feed != nil {
		if s, ok := h.feed.Snapshot(id); ok {
			snap = s
		}
	}
	return c.JSON(snap)
}
