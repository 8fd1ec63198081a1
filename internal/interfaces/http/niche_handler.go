package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kaspi-panel-api/internal/application/usecase"
)

// NicheHandler búsqueda de nichos (datos simulados).
type NicheHandler struct {
	uc *usecase.NicheUseCase
}

// NewNicheHandler construye el handler.
func NewNicheHandler(uc *usecase.NicheUseCase) *NicheHandler {
	return &NicheHandler{uc: uc}
}

// Search godoc
// @Summary      Buscar nichos
// @Description  Métricas deterministas derivadas de la consulta, ordenadas por demanda.
// @Tags         niches
// @Produce      json
// @Param        q      query  string  true   "Consulta (2-100 caracteres)"
// @Param        limit  query  int     false  "Máximo de resultados"  default(8)
// @Success      200    {object}  dto.NicheSearchResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/niches/search [get]
func (h *NicheHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Search(requestContext(c), c.Query("q"), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
