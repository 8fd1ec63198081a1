// Package auth registro, login y confirmación de email de los vendedores.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/kaspi-panel-api/internal/application/dto"
	"github.com/jhoicas/kaspi-panel-api/internal/domain"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/repository"
	"github.com/jhoicas/kaspi-panel-api/pkg/jwt"
)

// confirmationTTL vigencia del token de confirmación de email.
const confirmationTTL = 24 * time.Hour

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// ReferralRecorder atribuye un registro a un socio (promo code o último clic del IP).
type ReferralRecorder interface {
	RecordConversion(ctx context.Context, userID, promoCode, ip string) (bool, error)
}

// AuthUseCase casos de uso de autenticación: registro, login y confirmación de email.
type AuthUseCase struct {
	profiles      repository.ProfileRepository
	confirmations repository.EmailConfirmationRepository
	referrals     ReferralRecorder // nil = sin programa de socios
	jwtCfg        JWTConfig
	exposeToken   bool // devolver el token de confirmación en la respuesta (development)
	log           zerolog.Logger
	now           func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	profiles repository.ProfileRepository,
	confirmations repository.EmailConfirmationRepository,
	referrals ReferralRecorder,
	jwtCfg JWTConfig,
	exposeToken bool,
	log zerolog.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		profiles:      profiles,
		confirmations: confirmations,
		referrals:     referrals,
		jwtCfg:        jwtCfg,
		exposeToken:   exposeToken,
		log:           log,
		now:           time.Now,
	}
}

func newConfirmationToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Register crea el perfil con email sin confirmar, rol user y un token de confirmación.
// Si hay promo code (o un clic de referido previo del mismo IP) registra la conversión;
// un fallo de atribución no impide el registro.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest, ip string) (*dto.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil || len(in.Password) < 8 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.profiles.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		name = email
	}
	p := &entity.Profile{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     name,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         entity.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.profiles.Create(ctx, p); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}

	token, err := newConfirmationToken()
	if err != nil {
		return nil, err
	}
	if err := uc.confirmations.Create(ctx, &entity.EmailConfirmation{
		Token:     token,
		UserID:    p.ID,
		ExpiresAt: now.Add(confirmationTTL),
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	if uc.referrals != nil {
		if ok, err := uc.referrals.RecordConversion(ctx, p.ID, in.PromoCode, ip); err != nil {
			uc.log.Warn().Err(err).Str("user_id", p.ID).Msg("atribución de referido fallida")
		} else if ok {
			uc.log.Debug().Str("user_id", p.ID).Msg("registro atribuido a socio")
		}
	}

	resp := &dto.RegisterResponse{User: ToProfileResponse(p)}
	if uc.exposeToken {
		resp.ConfirmationToken = token
	}
	return resp, nil
}

// Login verifica email/password, exige email confirmado y genera el JWT.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	p, err := uc.profiles.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !p.EmailConfirmed() {
		return nil, domain.ErrEmailNotConfirmed
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, p.ID, p.Email, p.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: ToProfileResponse(p)}, nil
}

// ConfirmEmail consume el token de confirmación.
func (uc *AuthUseCase) ConfirmEmail(ctx context.Context, token string) (*dto.ProfileResponse, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrInvalidInput
	}
	c, err := uc.confirmations.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.UsedAt != nil {
		return nil, domain.ErrConflict
	}
	if uc.now().After(c.ExpiresAt) {
		return nil, domain.ErrTokenExpired
	}
	if err := uc.confirmations.MarkUsed(ctx, token); err != nil {
		return nil, err
	}
	return uc.confirm(ctx, c.UserID)
}

// AdminConfirm confirma el email de un usuario sin token (rol admin).
func (uc *AuthUseCase) AdminConfirm(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	return uc.confirm(ctx, userID)
}

func (uc *AuthUseCase) confirm(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	p, err := uc.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrUserNotFound
	}
	if !p.EmailConfirmed() {
		if err := uc.profiles.ConfirmEmail(ctx, p.ID); err != nil {
			return nil, err
		}
		now := uc.now()
		p.EmailConfirmedAt = &now
		uc.log.Info().Str("user_id", p.ID).Msg("email confirmado")
	}
	resp := ToProfileResponse(p)
	return &resp, nil
}

// Me perfil del usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	p, err := uc.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrUserNotFound
	}
	resp := ToProfileResponse(p)
	return &resp, nil
}

// ToProfileResponse mapea el perfil sin exponer el hash.
func ToProfileResponse(p *entity.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:              p.ID,
		Email:           p.Email,
		FullName:        p.FullName,
		Phone:           p.Phone,
		Role:            p.Role,
		SelectedStoreID: p.SelectedStoreID,
		EmailConfirmed:  p.EmailConfirmed(),
		ConfirmedAt:     p.EmailConfirmedAt,
		CreatedAt:       p.CreatedAt,
	}
}
