package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kaspi-panel-api/internal/domain"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/repository"
)

var _ repository.EmailConfirmationRepository = (*EmailConfirmationRepo)(nil)

// EmailConfirmationRepo tabla email_confirmations.
type EmailConfirmationRepo struct {
	q Querier
}

// NewEmailConfirmationRepository construye el adaptador.
func NewEmailConfirmationRepository(q Querier) *EmailConfirmationRepo {
	return &EmailConfirmationRepo{q: q}
}

func (r *EmailConfirmationRepo) Create(ctx context.Context, c *entity.EmailConfirmation) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO email_confirmations (token, user_id, expires_at, used_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		c.Token, c.UserID, c.ExpiresAt, c.UsedAt, c.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert email_confirmation: %w", err)
	}
	return nil
}

func (r *EmailConfirmationRepo) GetByToken(ctx context.Context, token string) (*entity.EmailConfirmation, error) {
	var c entity.EmailConfirmation
	err := r.q.QueryRow(ctx, `
		SELECT token, user_id, expires_at, used_at, created_at
		FROM email_confirmations WHERE token = $1`, token,
	).Scan(&c.Token, &c.UserID, &c.ExpiresAt, &c.UsedAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get email_confirmation: %w", err)
	}
	return &c, nil
}

// MarkUsed consume el token; ErrConflict si ya estaba usado.
func (r *EmailConfirmationRepo) MarkUsed(ctx context.Context, token string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE email_confirmations SET used_at = now() WHERE token = $1 AND used_at IS NULL`, token)
	if err != nil {
		return fmt.Errorf("mark email_confirmation used: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}
