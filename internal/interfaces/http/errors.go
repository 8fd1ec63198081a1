package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/kaspi-panel-api/internal/application/dto"
	"github.com/jhoicas/kaspi-panel-api/internal/domain"
)

// errorMapping código HTTP y código de error por error de dominio.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrEmailNotConfirmed, fiber.StatusForbidden, "EMAIL_NOT_CONFIRMED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrDemoMode, fiber.StatusForbidden, "DEMO_MODE"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrTokenExpired, fiber.StatusGone, "TOKEN_EXPIRED"},
}

// publicMessager errores del backend que exponen solo el mensaje legible de la respuesta.
type publicMessager interface {
	PublicMessage() string
}

// writeError traduce un error de caso de uso a respuesta HTTP.
// Los errores del backend de Kaspi se resuelven antes que la tabla: un 401 del backend
// no invalida la sesión del usuario en el panel.
// Los errores no mapeados se registran y responden 500.
func writeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrUpstream) {
		return writeUpstreamError(c, err)
	}
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func writeUpstreamError(c *fiber.Ctx, err error) error {
	msg := domain.ErrUpstream.Error()
	var pm publicMessager
	if errors.As(err, &pm) {
		msg = pm.PublicMessage()
	}
	status, code := fiber.StatusBadGateway, "UPSTREAM"
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		code = "UPSTREAM_AUTH"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	}
	log.Warn().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("error del backend de Kaspi")
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func missingParam(c *fiber.Ctx, name string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_" + strings.ToUpper(name), Message: name + " es requerido"})
}

