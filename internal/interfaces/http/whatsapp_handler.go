package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kaspi-panel-api/internal/application/dto"
	"github.com/jhoicas/kaspi-panel-api/internal/application/usecase"
)

// WhatsAppHandler gateway de WhatsApp simulado.
type WhatsAppHandler struct {
	uc *usecase.WhatsAppUseCase
}

// NewWhatsAppHandler construye el handler.
func NewWhatsAppHandler(uc *usecase.WhatsAppUseCase) *WhatsAppHandler {
	return &WhatsAppHandler{uc: uc}
}

// CreateSession godoc
// @Summary      Crear sesión de WhatsApp
// @Description  Devuelve la sesión en qr_pending con el payload del QR; una sesión conectada se reutiliza.
// @Tags         whatsapp
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWhatsAppSessionRequest  true  "store_id"
// @Success      201   {object}  dto.WhatsAppSessionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/whatsapp/sessions [post]
func (h *WhatsAppHandler) CreateSession(c *fiber.Ctx) error {
	var in dto.CreateWhatsAppSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateSession(requestContext(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetSession godoc
// @Summary      Obtener sesión de WhatsApp
// @Tags         whatsapp
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.WhatsAppSessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/whatsapp/sessions/{id} [get]
func (h *WhatsAppHandler) GetSession(c *fiber.Ctx) error {
	out, err := h.uc.GetSession(requestContext(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Connect godoc
// @Summary      Simular escaneo del QR
// @Tags         whatsapp
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la sesión"
// @Param        body  body  dto.ConnectWhatsAppRequest  true  "teléfono del vendedor"
// @Success      200   {object}  dto.WhatsAppSessionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/whatsapp/sessions/{id}/connect [post]
func (h *WhatsAppHandler) Connect(c *fiber.Ctx) error {
	var in dto.ConnectWhatsAppRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Connect(requestContext(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Disconnect godoc
// @Summary      Desconectar sesión
// @Tags         whatsapp
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.WhatsAppSessionResponse
// @Router       /api/whatsapp/sessions/{id}/disconnect [post]
func (h *WhatsAppHandler) Disconnect(c *fiber.Ctx) error {
	out, err := h.uc.Disconnect(requestContext(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpsertContact godoc
// @Summary      Crear o renombrar contacto
// @Tags         whatsapp
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la sesión"
// @Param        body  body  dto.WhatsAppContactRequest  true  "phone y name"
// @Success      200   {object}  dto.WhatsAppContactResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/whatsapp/sessions/{id}/contacts [post]
func (h *WhatsAppHandler) UpsertContact(c *fiber.Ctx) error {
	var in dto.WhatsAppContactRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpsertContact(requestContext(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListContacts godoc
// @Summary      Listar contactos
// @Tags         whatsapp
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {array}  dto.WhatsAppContactResponse
// @Router       /api/whatsapp/sessions/{id}/contacts [get]
func (h *WhatsAppHandler) ListContacts(c *fiber.Ctx) error {
	out, err := h.uc.ListContacts(requestContext(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Send godoc
// @Summary      Enviar mensaje
// @Description  Se guarda como sent y pasa a delivered tras el retardo simulado.
// @Tags         whatsapp
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID de la sesión"
// @Param        body  body  dto.SendWhatsAppMessageRequest  true  "phone y body"
// @Success      201   {object}  dto.WhatsAppMessageResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/whatsapp/sessions/{id}/messages [post]
func (h *WhatsAppHandler) Send(c *fiber.Ctx) error {
	var in dto.SendWhatsAppMessageRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Send(requestContext(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Receive godoc
// @Summary      Simular mensaje entrante
// @Tags         whatsapp
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID de la sesión"
// @Param        body  body  dto.SendWhatsAppMessageRequest  true  "phone y body"
// @Success      201   {object}  dto.WhatsAppMessageResponse
// @Router       /api/whatsapp/sessions/{id}/messages/incoming [post]
func (h *WhatsAppHandler) Receive(c *fiber.Ctx) error {
	var in dto.SendWhatsAppMessageRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Receive(requestContext(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Messages godoc
// @Summary      Historial de mensajes
// @Tags         whatsapp
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID de la sesión"
// @Param        phone  query  string  false  "Filtrar por chat"
// @Param        limit  query  int     false  "Límite"  default(100)
// @Success      200    {array}  dto.WhatsAppMessageResponse
// @Router       /api/whatsapp/sessions/{id}/messages [get]
func (h *WhatsAppHandler) Messages(c *fiber.Ctx) error {
	out, err := h.uc.Messages(requestContext(c), GetUserID(c), c.Params("id"), c.Query("phone"), c.QueryInt("limit", 100))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
