package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kaspi-panel-api/internal/domain"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/repository"
)

var _ repository.ReferralRepository = (*ReferralRepo)(nil)

// ReferralRepo referral_clicks + referral_conversions.
type ReferralRepo struct {
	q Querier
}

// NewReferralRepository construye el adaptador.
func NewReferralRepository(q Querier) *ReferralRepo {
	return &ReferralRepo{q: q}
}

func (r *ReferralRepo) CreateClick(ctx context.Context, c *entity.ReferralClick) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO referral_clicks (id, partner_id, promo_code, landing_page, user_agent, ip_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.PartnerID, c.PromoCode, c.LandingPage, c.UserAgent, c.IPHash, c.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert referral_click: %w", err)
	}
	return nil
}

// LatestClickByIPHash último clic del visitante dentro de la ventana; nil si no hay.
func (r *ReferralRepo) LatestClickByIPHash(ctx context.Context, ipHash string, since time.Time) (*entity.ReferralClick, error) {
	var c entity.ReferralClick
	err := r.q.QueryRow(ctx, `
		SELECT id, partner_id, promo_code, landing_page, user_agent, ip_hash, created_at
		FROM referral_clicks
		WHERE ip_hash = $1 AND created_at >= $2
		ORDER BY created_at DESC LIMIT 1`, ipHash, since,
	).Scan(&c.ID, &c.PartnerID, &c.PromoCode, &c.LandingPage, &c.UserAgent, &c.IPHash, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest referral_click: %w", err)
	}
	return &c, nil
}

// CreateConversion un usuario solo convierte una vez (unique user_id).
func (r *ReferralRepo) CreateConversion(ctx context.Context, c *entity.ReferralConversion) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO referral_conversions (id, partner_id, user_id, promo_code, click_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.PartnerID, c.UserID, c.PromoCode, nullString(c.ClickID), c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert referral_conversion: %w", err)
	}
	return nil
}

// Stats clics y conversiones del socio desde since.
func (r *ReferralRepo) Stats(ctx context.Context, partnerID string, since time.Time) (*entity.PartnerStats, error) {
	st := entity.PartnerStats{PartnerID: partnerID}
	err := r.q.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM referral_clicks WHERE partner_id = $1 AND created_at >= $2),
			(SELECT count(*) FROM referral_conversions WHERE partner_id = $1 AND created_at >= $2)`,
		partnerID, since,
	).Scan(&st.Clicks, &st.Conversions)
	if err != nil {
		return nil, fmt.Errorf("partner stats: %w", err)
	}
	return &st, nil
}
