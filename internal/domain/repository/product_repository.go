package repository

import (
	"context"

	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para products y competitors.
type ProductRepository interface {
	Upsert(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, f entity.ProductFilter) ([]*entity.Product, int, error)
	ListAllByStore(ctx context.Context, storeID string) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	BulkPatch(ctx context.Context, storeID string, patch entity.ProductBulkPatch) (int64, error)
	CountByStore(ctx context.Context, storeID string) (total, botActive int, err error)
	ListCompetitors(ctx context.Context, productID string) ([]*entity.Competitor, error)
}
