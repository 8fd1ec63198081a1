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

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo implementación de StoreRepository sobre kaspi_stores.
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

const storeColumns = `id, user_id, name, merchant_id, products_count, is_active, last_sync_at, created_at, updated_at`

func scanStore(row pgx.Row) (*entity.Store, error) {
	var s entity.Store
	if err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.MerchantID, &s.ProductsCount, &s.IsActive,
		&s.LastSyncAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste una tienda conectada.
func (r *StoreRepo) Create(ctx context.Context, s *entity.Store) error {
	query := `
		INSERT INTO kaspi_stores (` + storeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.UserID, s.Name, s.MerchantID, s.ProductsCount, s.IsActive, s.LastSyncAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert kaspi_store: %w", err)
	}
	return nil
}

// GetByID obtiene una tienda; nil si no existe.
func (r *StoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	s, err := scanStore(r.q.QueryRow(ctx, `SELECT `+storeColumns+` FROM kaspi_stores WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get kaspi_store: %w", err)
	}
	return s, nil
}

// GetByMerchantID tienda del usuario con ese merchant_id; nil si no existe.
func (r *StoreRepo) GetByMerchantID(ctx context.Context, userID, merchantID string) (*entity.Store, error) {
	s, err := scanStore(r.q.QueryRow(ctx,
		`SELECT `+storeColumns+` FROM kaspi_stores WHERE user_id = $1 AND merchant_id = $2`, userID, merchantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get kaspi_store by merchant: %w", err)
	}
	return s, nil
}

// ListByUser tiendas del usuario, más recientes primero.
func (r *StoreRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Store, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+storeColumns+` FROM kaspi_stores WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list kaspi_stores: %w", err)
	}
	defer rows.Close()
	var list []*entity.Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan kaspi_store: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Update actualiza nombre, contador y estado.
func (r *StoreRepo) Update(ctx context.Context, s *entity.Store) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE kaspi_stores SET name = $2, products_count = $3, is_active = $4, last_sync_at = $5, updated_at = $6
		WHERE id = $1`,
		s.ID, s.Name, s.ProductsCount, s.IsActive, s.LastSyncAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update kaspi_store: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkSynced registra la última sincronización.
func (r *StoreRepo) MarkSynced(ctx context.Context, id string, productsCount int) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE kaspi_stores SET products_count = $2, last_sync_at = now(), updated_at = now() WHERE id = $1`,
		id, productsCount,
	)
	if err != nil {
		return fmt.Errorf("mark kaspi_store synced: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la tienda (products y competitors caen en cascada).
func (r *StoreRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM kaspi_stores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete kaspi_store: %w", err)
	}
	return nil
}
