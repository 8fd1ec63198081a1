package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/kaspi-panel-api/internal/application/dto"
	"github.com/jhoicas/kaspi-panel-api/internal/domain"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/repository"
)

// PreorderUseCase preórdenes de productos sin stock.
type PreorderUseCase struct {
	repo     repository.PreorderRepository
	products repository.ProductRepository
	access   StoreAccess
	now      func() time.Time
}

// NewPreorderUseCase construye el caso de uso.
func NewPreorderUseCase(repo repository.PreorderRepository, products repository.ProductRepository, access StoreAccess) *PreorderUseCase {
	return &PreorderUseCase{repo: repo, products: products, access: access, now: time.Now}
}

// Create registra una preorden en estado pending.
func (uc *PreorderUseCase) Create(ctx context.Context, userID, storeID string, in dto.CreatePreorderRequest) (*dto.PreorderResponse, error) {
	if strings.TrimSpace(in.CustomerName) == "" || in.Quantity <= 0 || in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	store, err := uc.access.Authorize(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	if entity.IsDemoStoreID(store.ID) {
		return nil, domain.ErrDemoMode
	}
	product, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.StoreID != store.ID {
		return nil, domain.ErrNotFound
	}
	pickup := in.PickupPoint
	if pickup == "" {
		pickup = product.PickupPoint
	}
	now := uc.now()
	p := &entity.Preorder{
		ID:           uuid.New().String(),
		StoreID:      store.ID,
		ProductID:    product.ID,
		ProductName:  product.Name,
		CustomerName: strings.TrimSpace(in.CustomerName),
		Phone:        strings.TrimSpace(in.Phone),
		Quantity:     in.Quantity,
		PickupPoint:  pickup,
		ExpectedAt:   in.ExpectedAt,
		Status:       entity.PreorderPending,
		Comment:      in.Comment,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := toPreorderResponse(p)
	return &resp, nil
}

// List preórdenes de la tienda; status vacío = todas.
func (uc *PreorderUseCase) List(ctx context.Context, userID, storeID, status string, page dto.PageRequest) (*dto.PreorderListResponse, error) {
	if status != "" && !validPreorderStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	store, err := uc.access.Authorize(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	out := &dto.PreorderListResponse{Items: []dto.PreorderResponse{}, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
	if entity.IsDemoStoreID(store.ID) {
		return out, nil
	}
	list, err := uc.repo.ListByStore(ctx, store.ID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		out.Items = append(out.Items, toPreorderResponse(p))
	}
	return out, nil
}

// UpdateStatus aplica la transición si está permitida.
func (uc *PreorderUseCase) UpdateStatus(ctx context.Context, userID, preorderID, status string) (*dto.PreorderResponse, error) {
	if !validPreorderStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.repo.GetByID(ctx, preorderID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := uc.access.Authorize(ctx, userID, p.StoreID); err != nil {
		return nil, err
	}
	if !p.CanTransition(status) {
		return nil, domain.ErrInvalidTransition
	}
	if err := uc.repo.UpdateStatus(ctx, p.ID, status); err != nil {
		return nil, err
	}
	p.Status = status
	p.UpdatedAt = uc.now()
	resp := toPreorderResponse(p)
	return &resp, nil
}

func validPreorderStatus(s string) bool {
	switch s {
	case entity.PreorderPending, entity.PreorderConfirmed, entity.PreorderFulfilled, entity.PreorderCancelled:
		return true
	}
	return false
}

func toPreorderResponse(p *entity.Preorder) dto.PreorderResponse {
	return dto.PreorderResponse{
		ID:           p.ID,
		StoreID:      p.StoreID,
		ProductID:    p.ProductID,
		ProductName:  p.ProductName,
		CustomerName: p.CustomerName,
		Phone:        p.Phone,
		Quantity:     p.Quantity,
		PickupPoint:  p.PickupPoint,
		ExpectedAt:   p.ExpectedAt,
		Status:       p.Status,
		Comment:      p.Comment,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
