package repository

import (
	"context"

	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
)

// PreorderRepository define el puerto de persistencia para preorders.
type PreorderRepository interface {
	Create(ctx context.Context, p *entity.Preorder) error
	GetByID(ctx context.Context, id string) (*entity.Preorder, error)
	ListByStore(ctx context.Context, storeID, status string, limit, offset int) ([]*entity.Preorder, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
