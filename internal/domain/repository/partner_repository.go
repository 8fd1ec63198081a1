package repository

import (
	"context"
	"time"

	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
)

// PartnerRepository define el puerto de persistencia para partners y promo_codes.
type PartnerRepository interface {
	Create(ctx context.Context, p *entity.Partner) error
	GetByID(ctx context.Context, id string) (*entity.Partner, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Partner, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Partner, error)

	CreatePromoCode(ctx context.Context, c *entity.PromoCode) error
	GetPromoCode(ctx context.Context, code string) (*entity.PromoCode, error)
	ListPromoCodes(ctx context.Context, partnerID string) ([]*entity.PromoCode, error)
	SetPromoCodeActive(ctx context.Context, id string, active bool) error
	IncrementPromoUsage(ctx context.Context, code string) error
}

// ReferralRepository clics y conversiones de referidos.
type ReferralRepository interface {
	CreateClick(ctx context.Context, c *entity.ReferralClick) error
	LatestClickByIPHash(ctx context.Context, ipHash string, since time.Time) (*entity.ReferralClick, error)
	CreateConversion(ctx context.Context, c *entity.ReferralConversion) error
	Stats(ctx context.Context, partnerID string, since time.Time) (*entity.PartnerStats, error)
}
