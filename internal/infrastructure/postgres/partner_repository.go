package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kaspi-panel-api/internal/domain"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/repository"
)

var _ repository.PartnerRepository = (*PartnerRepo)(nil)

// PartnerRepo partners + promo_codes.
type PartnerRepo struct {
	q Querier
}

// NewPartnerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartnerRepository(q Querier) *PartnerRepo {
	return &PartnerRepo{q: q}
}

const partnerColumns = `id, user_id, name, email, commission_rate, is_active, created_at, updated_at`

func scanPartner(row pgx.Row) (*entity.Partner, error) {
	var p entity.Partner
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Email, &p.CommissionRate, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PartnerRepo) Create(ctx context.Context, p *entity.Partner) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO partners (`+partnerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.UserID, p.Name, strings.ToLower(p.Email), p.CommissionRate, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert partner: %w", err)
	}
	return nil
}

func (r *PartnerRepo) GetByID(ctx context.Context, id string) (*entity.Partner, error) {
	p, err := scanPartner(r.q.QueryRow(ctx, `SELECT `+partnerColumns+` FROM partners WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get partner: %w", err)
	}
	return p, nil
}

func (r *PartnerRepo) GetByUserID(ctx context.Context, userID string) (*entity.Partner, error) {
	p, err := scanPartner(r.q.QueryRow(ctx, `SELECT `+partnerColumns+` FROM partners WHERE user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get partner by user: %w", err)
	}
	return p, nil
}

func (r *PartnerRepo) List(ctx context.Context, limit, offset int) ([]*entity.Partner, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+partnerColumns+` FROM partners ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()
	var list []*entity.Partner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ── promo_codes ───────────────────────────────────────────────────────────────

const promoColumns = `id, partner_id, code, discount_percent, is_active, usage_count, created_at`

func scanPromo(row pgx.Row) (*entity.PromoCode, error) {
	var c entity.PromoCode
	if err := row.Scan(&c.ID, &c.PartnerID, &c.Code, &c.DiscountPercent, &c.IsActive, &c.UsageCount, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreatePromoCode los códigos se guardan en mayúsculas.
func (r *PartnerRepo) CreatePromoCode(ctx context.Context, c *entity.PromoCode) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	_, err := r.q.Exec(ctx, `
		INSERT INTO promo_codes (`+promoColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.PartnerID, c.Code, c.DiscountPercent, c.IsActive, c.UsageCount, c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert promo_code: %w", err)
	}
	return nil
}

func (r *PartnerRepo) GetPromoCode(ctx context.Context, code string) (*entity.PromoCode, error) {
	c, err := scanPromo(r.q.QueryRow(ctx,
		`SELECT `+promoColumns+` FROM promo_codes WHERE code = $1`, strings.ToUpper(strings.TrimSpace(code))))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get promo_code: %w", err)
	}
	return c, nil
}

func (r *PartnerRepo) ListPromoCodes(ctx context.Context, partnerID string) ([]*entity.PromoCode, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+promoColumns+` FROM promo_codes WHERE partner_id = $1 ORDER BY created_at DESC`, partnerID)
	if err != nil {
		return nil, fmt.Errorf("list promo_codes: %w", err)
	}
	defer rows.Close()
	var list []*entity.PromoCode
	for rows.Next() {
		c, err := scanPromo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan promo_code: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *PartnerRepo) SetPromoCodeActive(ctx context.Context, id string, active bool) error {
	cmd, err := r.q.Exec(ctx, `UPDATE promo_codes SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("update promo_code: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PartnerRepo) IncrementPromoUsage(ctx context.Context, code string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE promo_codes SET usage_count = usage_count + 1 WHERE code = $1`, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return fmt.Errorf("increment promo usage: %w", err)
	}
	return nil
}
