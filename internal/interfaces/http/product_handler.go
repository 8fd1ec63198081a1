package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kaspi-panel-api/internal/application/dto"
	"github.com/jhoicas/kaspi-panel-api/internal/application/usecase"
)

// ProductHandler catálogo de la tienda y configuración del price-bot.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// List godoc
// @Summary      Listar productos de una tienda
// @Tags         products
// @Produce      json
// @Param        id          path   string  true   "ID de la tienda"
// @Param        search      query  string  false  "Nombre o SKU"
// @Param        bot_active  query  bool    false  "Filtrar por bot"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200         {object}  dto.ProductListResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/stores/{id}/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	storeID := c.Params("id")
	if storeID == "" {
		return missingParam(c, "id")
	}
	var q dto.ProductListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.List(requestContext(c), GetUserID(c), storeID, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto con competidores
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
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

// UpdateBot godoc
// @Summary      Configurar price-bot de un producto
// @Description  bot_active, min_profit y max_profit opcionales (min >= 0, max >= min).
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del producto"
// @Param        body  body  dto.UpdateProductBotRequest  true  "Cambios"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/bot [patch]
func (h *ProductHandler) UpdateBot(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingParam(c, "id")
	}
	var in dto.UpdateProductBotRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateBot(requestContext(c), GetUserID(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// BulkUpdate godoc
// @Summary      Actualización masiva de productos
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID de la tienda"
// @Param        body  body  dto.BulkUpdateProductsRequest  true  "IDs y cambios"
// @Success      200   {object}  dto.BulkUpdateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/stores/{id}/products/bulk [post]
func (h *ProductHandler) BulkUpdate(c *fiber.Ctx) error {
	storeID := c.Params("id")
	if storeID == "" {
		return missingParam(c, "id")
	}
	var in dto.BulkUpdateProductsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.BulkUpdate(requestContext(c), GetUserID(c), storeID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PriceFeed godoc
// @Summary      Lista de precios XML para Kaspi
// @Description  Formato kaspi_catalog. Responde 304 si If-None-Match coincide con el ETag.
// @Tags         products
// @Produce      xml
// @Param        id             path    string  true   "ID de la tienda"
// @Param        If-None-Match  header  string  false  "ETag previo"
// @Success      200
// @Success      304
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stores/{id}/feed.xml [get]
func (h *ProductHandler) PriceFeed(c *fiber.Ctx) error {
	storeID := c.Params("id")
	if storeID == "" {
		return missingParam(c, "id")
	}
	body, etag, err := h.uc.PriceFeed(requestContext(c), GetUserID(c), storeID)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderETag, etag)
	if match := c.Get(fiber.HeaderIfNoneMatch); match != "" && match == etag {
		return c.SendStatus(fiber.StatusNotModified)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.Send(body)
}
