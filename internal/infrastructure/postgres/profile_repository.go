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

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo profiles + user_roles. El rol vive en user_roles (un rol por usuario).
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

const profileSelect = `
	SELECT p.id, p.email, p.password_hash, p.full_name, p.phone, COALESCE(r.role, 'user'),
		p.selected_store_id, p.email_confirmed_at, p.created_at, p.updated_at
	FROM profiles p
	LEFT JOIN user_roles r ON r.user_id = p.id`

func scanProfile(row pgx.Row) (*entity.Profile, error) {
	var p entity.Profile
	var selected *string
	if err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.FullName, &p.Phone, &p.Role,
		&selected, &p.EmailConfirmedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.SelectedStoreID = derefString(selected)
	return &p, nil
}

// Create inserta perfil y rol en una sola sentencia.
func (r *ProfileRepo) Create(ctx context.Context, p *entity.Profile) error {
	role := p.Role
	if role == "" {
		role = entity.RoleUser
	}
	query := `
		WITH ins AS (
			INSERT INTO profiles (id, email, password_hash, full_name, phone, selected_store_id, email_confirmed_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id
		)
		INSERT INTO user_roles (user_id, role) SELECT id, $10 FROM ins`
	_, err := r.q.Exec(ctx, query,
		p.ID, strings.ToLower(p.Email), p.PasswordHash, p.FullName, p.Phone, nullString(p.SelectedStoreID),
		p.EmailConfirmedAt, p.CreatedAt, p.UpdatedAt, role,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	p.Role = role
	return nil
}

// GetByID perfil por id; nil si no existe.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	p, err := scanProfile(r.q.QueryRow(ctx, profileSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// GetByEmail perfil por email (case-insensitive); nil si no existe.
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	p, err := scanProfile(r.q.QueryRow(ctx, profileSelect+` WHERE p.email = $1`, strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile by email: %w", err)
	}
	return p, nil
}

// SetSelectedStore guarda la tienda seleccionada; "" la limpia.
func (r *ProfileRepo) SetSelectedStore(ctx context.Context, userID, storeID string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE profiles SET selected_store_id = $2, updated_at = now() WHERE id = $1`,
		userID, nullString(storeID),
	)
	if err != nil {
		return fmt.Errorf("set selected store: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ListSelectedStores selecciones persistidas para reconstruir los canales al arrancar.
func (r *ProfileRepo) ListSelectedStores(ctx context.Context) (map[string]string, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, selected_store_id FROM profiles WHERE selected_store_id IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("list selected stores: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var userID, storeID string
		if err := rows.Scan(&userID, &storeID); err != nil {
			return nil, fmt.Errorf("scan selected store: %w", err)
		}
		out[userID] = storeID
	}
	return out, rows.Err()
}

// ConfirmEmail marca el email como confirmado (idempotente).
func (r *ProfileRepo) ConfirmEmail(ctx context.Context, userID string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE profiles SET email_confirmed_at = COALESCE(email_confirmed_at, now()), updated_at = now() WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("confirm email: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SetRole reemplaza el rol del usuario.
func (r *ProfileRepo) SetRole(ctx context.Context, userID, role string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role`,
		userID, role,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("set role: %w", err)
	}
	return nil
}
