package repository

import (
	"context"

	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
)

// StoreRepository define el puerto de persistencia para kaspi_stores (DIP).
type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	GetByID(ctx context.Context, id string) (*entity.Store, error)
	GetByMerchantID(ctx context.Context, userID, merchantID string) (*entity.Store, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Store, error)
	Update(ctx context.Context, store *entity.Store) error
	MarkSynced(ctx context.Context, id string, productsCount int) error
	Delete(ctx context.Context, id string) error
}
