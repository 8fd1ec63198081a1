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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, store_id, kaspi_id, sku, name, brand, category, image_url, price, bot_active,
	min_profit, max_profit, pickup_point, available, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.StoreID, &p.KaspiID, &p.SKU, &p.Name, &p.Brand, &p.Category, &p.ImageURL,
		&p.Price, &p.BotActive, &p.MinProfit, &p.MaxProfit, &p.PickupPoint, &p.Available,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert inserta o actualiza por (store_id, kaspi_id). La configuración del bot local se conserva
// salvo que el backend la traiga explícita en la sincronización.
func (r *ProductRepo) Upsert(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (store_id, kaspi_id) DO UPDATE SET
			sku = EXCLUDED.sku,
			name = EXCLUDED.name,
			brand = EXCLUDED.brand,
			category = EXCLUDED.category,
			image_url = EXCLUDED.image_url,
			price = EXCLUDED.price,
			bot_active = EXCLUDED.bot_active,
			min_profit = EXCLUDED.min_profit,
			max_profit = EXCLUDED.max_profit,
			pickup_point = EXCLUDED.pickup_point,
			available = EXCLUDED.available,
			updated_at = EXCLUDED.updated_at
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		p.ID, p.StoreID, p.KaspiID, p.SKU, p.Name, p.Brand, p.Category, p.ImageURL, p.Price, p.BotActive,
		p.MinProfit, p.MaxProfit, p.PickupPoint, p.Available, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID; nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List busca por nombre/SKU (ILIKE) con filtro de bot y paginación. Devuelve también el total.
func (r *ProductRepo) List(ctx context.Context, f entity.ProductFilter) ([]*entity.Product, int, error) {
	where := []string{"store_id = $1"}
	args := []any{f.StoreID}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR sku ILIKE $%d)", len(args), len(args)))
	}
	if f.BotActive != nil {
		args = append(args, *f.BotActive)
		where = append(where, fmt.Sprintf("bot_active = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY name ASC, id ASC LIMIT $%d OFFSET $%d`,
		productColumns, cond, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// ListAllByStore todo el catálogo de la tienda (feed XML).
func (r *ProductRepo) ListAllByStore(ctx context.Context, storeID string) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products WHERE store_id = $1 ORDER BY sku`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list store products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update guarda precio y configuración del bot.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET price = $2, bot_active = $3, min_profit = $4, max_profit = $5,
			pickup_point = $6, available = $7, updated_at = $8
		WHERE id = $1`,
		p.ID, p.Price, p.BotActive, p.MinProfit, p.MaxProfit, p.PickupPoint, p.Available, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// BulkPatch aplica los campos no nulos del patch a los ids de la tienda. Devuelve filas afectadas.
func (r *ProductRepo) BulkPatch(ctx context.Context, storeID string, patch entity.ProductBulkPatch) (int64, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET
			bot_active = COALESCE($3, bot_active),
			min_profit = COALESCE($4, min_profit),
			max_profit = COALESCE($5, max_profit),
			updated_at = now()
		WHERE store_id = $1 AND id::text = ANY($2::text[])`,
		storeID, patch.IDs, patch.BotActive, patch.MinProfit, patch.MaxProfit,
	)
	if err != nil {
		return 0, fmt.Errorf("bulk patch products: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// CountByStore total de productos y con bot activo.
func (r *ProductRepo) CountByStore(ctx context.Context, storeID string) (total, botActive int, err error) {
	err = r.q.QueryRow(ctx,
		`SELECT count(*), count(*) FILTER (WHERE bot_active) FROM products WHERE store_id = $1`, storeID,
	).Scan(&total, &botActive)
	if err != nil {
		return 0, 0, fmt.Errorf("count store products: %w", err)
	}
	return total, botActive, nil
}

// ListCompetitors competidores del producto, precio ascendente.
func (r *ProductRepo) ListCompetitors(ctx context.Context, productID string) ([]*entity.Competitor, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, seller_name, price, rating, delivery, updated_at
		FROM competitors WHERE product_id = $1 ORDER BY price ASC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list competitors: %w", err)
	}
	defer rows.Close()
	var list []*entity.Competitor
	for rows.Next() {
		var c entity.Competitor
		if err := rows.Scan(&c.ID, &c.ProductID, &c.SellerName, &c.Price, &c.Rating, &c.Delivery, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan competitor: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
