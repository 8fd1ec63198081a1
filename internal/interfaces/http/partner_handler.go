package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kaspi-panel-api/internal/application/dto"
	"github.com/jhoicas/kaspi-panel-api/internal/application/usecase"
)

// PartnerHandler socios, promo codes y tracking de referidos.
type PartnerHandler struct {
	uc *usecase.PartnerUseCase
}

// NewPartnerHandler construye el handler.
func NewPartnerHandler(uc *usecase.PartnerUseCase) *PartnerHandler {
	return &PartnerHandler{uc: uc}
}

// ── Admin ─────────────────────────────────────────────────────────────────────

// CreatePartner godoc
// @Summary      Alta de socio
// @Description  Crea cuenta, rol partner, socio y promo code en una transacción.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartnerRequest  true  "Datos del socio"
// @Success      201   {object}  dto.PartnerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/partners [post]
func (h *PartnerHandler) CreatePartner(c *fiber.Ctx) error {
	var in dto.CreatePartnerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreatePartner(requestContext(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPartners godoc
// @Summary      Listar socios
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.PartnerResponse
// @Router       /api/admin/partners [get]
func (h *PartnerHandler) ListPartners(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.ListPartners(requestContext(c), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PartnerStats godoc
// @Summary      Métricas de un socio (admin)
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "ID del socio"
// @Param        days  query  int     false  "Período en días"  default(30)
// @Success      200   {object}  dto.PartnerStatsResponse
// @Router       /api/admin/partners/{id}/stats [get]
func (h *PartnerHandler) PartnerStats(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingParam(c, "id")
	}
	out, err := h.uc.Stats(requestContext(c), id, c.QueryInt("days", 30))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ── Socio ─────────────────────────────────────────────────────────────────────

// Me godoc
// @Summary      Socio autenticado con sus promo codes
// @Tags         partner
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PartnerResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/partner/me [get]
func (h *PartnerHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(requestContext(c), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// partnerID socio del usuario autenticado.
func (h *PartnerHandler) partnerID(c *fiber.Ctx) (string, error) {
	p, err := h.uc.PartnerOf(requestContext(c), GetUserID(c))
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

// ListPromoCodes godoc
// @Summary      Promo codes del socio
// @Tags         partner
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PromoCodeResponse
// @Router       /api/partner/promo-codes [get]
func (h *PartnerHandler) ListPromoCodes(c *fiber.Ctx) error {
	pid, err := h.partnerID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListPromoCodes(requestContext(c), pid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreatePromoCode godoc
// @Summary      Crear promo code
// @Tags         partner
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePromoCodeRequest  true  "code y discount_percent"
// @Success      201   {object}  dto.PromoCodeResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/partner/promo-codes [post]
func (h *PartnerHandler) CreatePromoCode(c *fiber.Ctx) error {
	pid, err := h.partnerID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.CreatePromoCodeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreatePromoCode(requestContext(c), pid, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DeactivatePromoCode godoc
// @Summary      Desactivar promo code
// @Tags         partner
// @Security     Bearer
// @Param        codeId  path  string  true  "ID del promo code"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/partner/promo-codes/{codeId} [delete]
func (h *PartnerHandler) DeactivatePromoCode(c *fiber.Ctx) error {
	codeID := c.Params("codeId")
	if codeID == "" {
		return missingParam(c, "codeId")
	}
	pid, err := h.partnerID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeactivatePromoCode(requestContext(c), pid, codeID); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stats godoc
// @Summary      Métricas del socio autenticado
// @Tags         partner
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Período en días"  default(30)
// @Success      200   {object}  dto.PartnerStatsResponse
// @Router       /api/partner/stats [get]
func (h *PartnerHandler) Stats(c *fiber.Ctx) error {
	pid, err := h.partnerID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Stats(requestContext(c), pid, c.QueryInt("days", 30))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ── Público ───────────────────────────────────────────────────────────────────

// TrackClick godoc
// @Summary      Registrar clic en enlace de referido
// @Description  La IP se guarda como hash SHA-256. Un código desconocido responde tracked=false.
// @Tags         referrals
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReferralClickRequest  true  "promo_code y landing_page"
// @Success      200   {object}  dto.ReferralClickResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/referrals/click [post]
func (h *PartnerHandler) TrackClick(c *fiber.Ctx) error {
	var in dto.ReferralClickRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.TrackClick(requestContext(c), in, c.Get(fiber.HeaderUserAgent), c.IP())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
