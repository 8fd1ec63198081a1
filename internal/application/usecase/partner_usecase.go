package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/kaspi-panel-api/internal/application/dto"
	"github.com/jhoicas/kaspi-panel-api/internal/domain"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/repository"
)

// PartnerUseCase programa de socios: alta, promo codes, clics y conversiones.
type PartnerUseCase struct {
	partners        repository.PartnerRepository
	referrals       repository.ReferralRepository
	tx              PartnerTxRunner
	attributionDays int
	log             zerolog.Logger
	now             func() time.Time
}

// NewPartnerUseCase construye el caso de uso. attributionDays <= 0 usa 30.
func NewPartnerUseCase(partners repository.PartnerRepository, referrals repository.ReferralRepository, tx PartnerTxRunner, attributionDays int, log zerolog.Logger) *PartnerUseCase {
	if attributionDays <= 0 {
		attributionDays = 30
	}
	return &PartnerUseCase{
		partners:        partners,
		referrals:       referrals,
		tx:              tx,
		attributionDays: attributionDays,
		log:             log,
		now:             time.Now,
	}
}

// HashIP sha256 hex del IP; el IP plano no se persiste.
func HashIP(ip string) string {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validPercent(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(100))
}

// CreatePartner crea perfil (rol partner, email confirmado), socio y promo code en una transacción.
func (uc *PartnerUseCase) CreatePartner(ctx context.Context, in dto.CreatePartnerRequest) (*dto.PartnerResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	code := normalizeCode(in.PromoCode)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Password) < 8 || code == "" || !validPercent(in.CommissionRate) || !validPercent(in.DiscountPercent) {
		return nil, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	now := uc.now()
	profile := &entity.Profile{
		ID:               uuid.New().String(),
		Email:            email,
		PasswordHash:     string(hash),
		FullName:         name,
		Role:             entity.RolePartner,
		EmailConfirmedAt: &now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	partner := &entity.Partner{
		ID:             uuid.New().String(),
		UserID:         profile.ID,
		Name:           name,
		Email:          email,
		CommissionRate: in.CommissionRate,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	promo := &entity.PromoCode{
		ID:              uuid.New().String(),
		PartnerID:       partner.ID,
		Code:            code,
		DiscountPercent: in.DiscountPercent,
		IsActive:        true,
		CreatedAt:       now,
	}

	err = uc.tx.RunPartner(ctx, func(profiles repository.ProfileRepository, partners repository.PartnerRepository) error {
		existing, err := profiles.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailAlreadyExists
		}
		if err := profiles.Create(ctx, profile); err != nil {
			return err
		}
		if err := partners.Create(ctx, partner); err != nil {
			return err
		}
		return partners.CreatePromoCode(ctx, promo)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("partner_id", partner.ID).Str("promo_code", code).Msg("socio creado")

	resp := toPartnerResponse(partner)
	resp.PromoCodes = []dto.PromoCodeResponse{toPromoResponse(promo)}
	return &resp, nil
}

// ListPartners socios paginados (admin).
func (uc *PartnerUseCase) ListPartners(ctx context.Context, page dto.PageRequest) ([]dto.PartnerResponse, error) {
	page.DefaultPage()
	list, err := uc.partners.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PartnerResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPartnerResponse(p))
	}
	return out, nil
}

// PartnerOf socio asociado al usuario autenticado.
func (uc *PartnerUseCase) PartnerOf(ctx context.Context, userID string) (*entity.Partner, error) {
	p, err := uc.partners.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

// Me socio del usuario con sus promo codes.
func (uc *PartnerUseCase) Me(ctx context.Context, userID string) (*dto.PartnerResponse, error) {
	p, err := uc.PartnerOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	codes, err := uc.ListPromoCodes(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	resp := toPartnerResponse(p)
	resp.PromoCodes = codes
	return &resp, nil
}

// CreatePromoCode agrega un código al socio. Código repetido = ErrDuplicate.
func (uc *PartnerUseCase) CreatePromoCode(ctx context.Context, partnerID string, in dto.CreatePromoCodeRequest) (*dto.PromoCodeResponse, error) {
	code := normalizeCode(in.Code)
	if code == "" || !validPercent(in.DiscountPercent) {
		return nil, domain.ErrInvalidInput
	}
	c := &entity.PromoCode{
		ID:              uuid.New().String(),
		PartnerID:       partnerID,
		Code:            code,
		DiscountPercent: in.DiscountPercent,
		IsActive:        true,
		CreatedAt:       uc.now(),
	}
	if err := uc.partners.CreatePromoCode(ctx, c); err != nil {
		return nil, err
	}
	resp := toPromoResponse(c)
	return &resp, nil
}

// ListPromoCodes códigos del socio.
func (uc *PartnerUseCase) ListPromoCodes(ctx context.Context, partnerID string) ([]dto.PromoCodeResponse, error) {
	list, err := uc.partners.ListPromoCodes(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PromoCodeResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toPromoResponse(c))
	}
	return out, nil
}

// DeactivatePromoCode desactiva un código propio del socio.
func (uc *PartnerUseCase) DeactivatePromoCode(ctx context.Context, partnerID, codeID string) error {
	list, err := uc.partners.ListPromoCodes(ctx, partnerID)
	if err != nil {
		return err
	}
	for _, c := range list {
		if c.ID == codeID {
			return uc.partners.SetPromoCodeActive(ctx, codeID, false)
		}
	}
	return domain.ErrNotFound
}

// activePromo busca un código activo de un socio activo; nil si no aplica.
func (uc *PartnerUseCase) activePromo(ctx context.Context, code string) (*entity.PromoCode, *entity.Partner, error) {
	promo, err := uc.partners.GetPromoCode(ctx, code)
	if err != nil || promo == nil || !promo.IsActive {
		return nil, nil, err
	}
	partner, err := uc.partners.GetByID(ctx, promo.PartnerID)
	if err != nil || partner == nil || !partner.IsActive {
		return nil, nil, err
	}
	return promo, partner, nil
}

// TrackClick registra la visita de un enlace de referido. Código desconocido o inactivo
// no es error: responde tracked=false.
func (uc *PartnerUseCase) TrackClick(ctx context.Context, in dto.ReferralClickRequest, userAgent, ip string) (*dto.ReferralClickResponse, error) {
	code := normalizeCode(in.PromoCode)
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	promo, partner, err := uc.activePromo(ctx, code)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return &dto.ReferralClickResponse{Tracked: false}, nil
	}
	click := &entity.ReferralClick{
		ID:          uuid.New().String(),
		PartnerID:   partner.ID,
		PromoCode:   promo.Code,
		LandingPage: truncate(in.LandingPage, 500),
		UserAgent:   truncate(userAgent, 500),
		IPHash:      HashIP(ip),
		CreatedAt:   uc.now(),
	}
	if err := uc.referrals.CreateClick(ctx, click); err != nil {
		return nil, err
	}
	return &dto.ReferralClickResponse{Tracked: true, ClickID: click.ID, PartnerID: partner.ID}, nil
}

// RecordConversion atribuye un usuario recién registrado a un socio: por promo code
// explícito o, si no hay, por el último clic del mismo IP dentro de la ventana de atribución.
// Devuelve false si no hubo atribución.
func (uc *PartnerUseCase) RecordConversion(ctx context.Context, userID, promoCode, ip string) (bool, error) {
	now := uc.now()
	conv := &entity.ReferralConversion{ID: uuid.New().String(), UserID: userID, CreatedAt: now}

	if code := normalizeCode(promoCode); code != "" {
		promo, partner, err := uc.activePromo(ctx, code)
		if err != nil {
			return false, err
		}
		if promo == nil {
			return false, nil
		}
		conv.PartnerID = partner.ID
		conv.PromoCode = promo.Code
	} else {
		hash := HashIP(ip)
		if hash == "" {
			return false, nil
		}
		since := now.AddDate(0, 0, -uc.attributionDays)
		click, err := uc.referrals.LatestClickByIPHash(ctx, hash, since)
		if err != nil {
			return false, err
		}
		if click == nil {
			return false, nil
		}
		conv.PartnerID = click.PartnerID
		conv.PromoCode = click.PromoCode
		conv.ClickID = click.ID
	}

	if err := uc.referrals.CreateConversion(ctx, conv); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	if err := uc.partners.IncrementPromoUsage(ctx, conv.PromoCode); err != nil {
		uc.log.Warn().Err(err).Str("promo_code", conv.PromoCode).Msg("no se pudo incrementar uso del promo code")
	}
	uc.log.Info().Str("partner_id", conv.PartnerID).Str("user_id", userID).Msg("conversión de referido registrada")
	return true, nil
}

// Stats clics, conversiones y tasa de conversión de los últimos days días (1..365, por defecto 30).
func (uc *PartnerUseCase) Stats(ctx context.Context, partnerID string, days int) (*dto.PartnerStatsResponse, error) {
	if days <= 0 {
		days = 30
	}
	if days > 365 {
		return nil, domain.ErrInvalidInput
	}
	st, err := uc.referrals.Stats(ctx, partnerID, uc.now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}
	out := &dto.PartnerStatsResponse{PartnerID: partnerID, Days: days, ConversionRate: decimal.Zero}
	if st == nil {
		return out, nil
	}
	out.Clicks = st.Clicks
	out.Conversions = st.Conversions
	if st.Clicks > 0 {
		out.ConversionRate = decimal.NewFromInt(int64(st.Conversions)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(st.Clicks))).
			Round(2)
	}
	return out, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func toPartnerResponse(p *entity.Partner) dto.PartnerResponse {
	return dto.PartnerResponse{
		ID:             p.ID,
		UserID:         p.UserID,
		Name:           p.Name,
		Email:          p.Email,
		CommissionRate: p.CommissionRate,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
	}
}

func toPromoResponse(c *entity.PromoCode) dto.PromoCodeResponse {
	return dto.PromoCodeResponse{
		ID:              c.ID,
		Code:            c.Code,
		DiscountPercent: c.DiscountPercent,
		IsActive:        c.IsActive,
		UsageCount:      c.UsageCount,
		CreatedAt:       c.CreatedAt,
	}
}
