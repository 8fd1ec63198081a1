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

var _ repository.PreorderRepository = (*PreorderRepo)(nil)

// PreorderRepo tabla preorders.
type PreorderRepo struct {
	q Querier
}

// NewPreorderRepository construye el adaptador.
func NewPreorderRepository(q Querier) *PreorderRepo {
	return &PreorderRepo{q: q}
}

const preorderColumns = `id, store_id, product_id, product_name, customer_name, phone, quantity, pickup_point,
	expected_at, status, comment, created_at, updated_at`

func scanPreorder(row pgx.Row) (*entity.Preorder, error) {
	var p entity.Preorder
	var productID *string
	if err := row.Scan(&p.ID, &p.StoreID, &productID, &p.ProductName, &p.CustomerName, &p.Phone, &p.Quantity,
		&p.PickupPoint, &p.ExpectedAt, &p.Status, &p.Comment, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ProductID = derefString(productID)
	return &p, nil
}

func (r *PreorderRepo) Create(ctx context.Context, p *entity.Preorder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO preorders (`+preorderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.StoreID, nullString(p.ProductID), p.ProductName, p.CustomerName, p.Phone, p.Quantity, p.PickupPoint,
		p.ExpectedAt, p.Status, p.Comment, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert preorder: %w", err)
	}
	return nil
}

func (r *PreorderRepo) GetByID(ctx context.Context, id string) (*entity.Preorder, error) {
	p, err := scanPreorder(r.q.QueryRow(ctx, `SELECT `+preorderColumns+` FROM preorders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get preorder: %w", err)
	}
	return p, nil
}

// ListByStore status vacío = todos.
func (r *PreorderRepo) ListByStore(ctx context.Context, storeID, status string, limit, offset int) ([]*entity.Preorder, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+preorderColumns+` FROM preorders
		WHERE store_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`, storeID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list preorders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Preorder
	for rows.Next() {
		p, err := scanPreorder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan preorder: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PreorderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE preorders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update preorder status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
