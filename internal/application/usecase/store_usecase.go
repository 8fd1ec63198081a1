package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/kaspi-panel-api/internal/application/dto"
	"github.com/jhoicas/kaspi-panel-api/internal/application/ports"
	"github.com/jhoicas/kaspi-panel-api/internal/domain"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/repository"
)

var _ StoreAccess = (*StoreUseCase)(nil)

// syncPageSize tamaño de página al completar el catálogo con ListProducts.
const syncPageSize = 100

// StoreUseCase tiendas conectadas, modo demo y selección de tienda activa.
type StoreUseCase struct {
	stores      repository.StoreRepository
	products    repository.ProductRepository
	profiles    repository.ProfileRepository
	backend     ports.KaspiBackend // nil = backend simulado
	catalogTx   CatalogTxRunner
	feed        ports.DemperFeed
	demoEnabled bool
	log         zerolog.Logger
	now         func() time.Time
}

// StoreDeps dependencias del caso de uso de tiendas.
type StoreDeps struct {
	Stores      repository.StoreRepository
	Products    repository.ProductRepository
	Profiles    repository.ProfileRepository
	Backend     ports.KaspiBackend
	CatalogTx   CatalogTxRunner
	Feed        ports.DemperFeed
	DemoEnabled bool
	Log         zerolog.Logger
}

// NewStoreUseCase construye el caso de uso.
func NewStoreUseCase(d StoreDeps) *StoreUseCase {
	return &StoreUseCase{
		stores:      d.Stores,
		products:    d.Products,
		profiles:    d.Profiles,
		backend:     d.Backend,
		catalogTx:   d.CatalogTx,
		feed:        d.Feed,
		demoEnabled: d.DemoEnabled,
		log:         d.Log,
		now:         time.Now,
	}
}

// List tiendas del usuario. Sin usuario devuelve las dos tiendas demo sin tocar repositorio ni backend.
func (uc *StoreUseCase) List(ctx context.Context, userID string) (*dto.StoreListResponse, error) {
	if userID == "" {
		if !uc.demoEnabled {
			return nil, domain.ErrUnauthorized
		}
		demo := entity.DemoStores()
		out := &dto.StoreListResponse{Demo: true, Items: make([]dto.StoreResponse, 0, len(demo))}
		for i := range demo {
			out.Items = append(out.Items, toStoreResponse(&demo[i]))
		}
		return out, nil
	}
	list, err := uc.stores.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &dto.StoreListResponse{Items: make([]dto.StoreResponse, 0, len(list))}
	for _, s := range list {
		out.Items = append(out.Items, toStoreResponse(s))
	}
	return out, nil
}

// Authorize implementa StoreAccess.
func (uc *StoreUseCase) Authorize(ctx context.Context, userID, storeID string) (*entity.Store, error) {
	if storeID == "" {
		return nil, domain.ErrInvalidInput
	}
	if entity.IsDemoStoreID(storeID) {
		for _, s := range entity.DemoStores() {
			if s.ID == storeID {
				s := s
				return &s, nil
			}
		}
	}
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	store, err := uc.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	if store.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return store, nil
}

// Get una tienda del usuario (o demo).
func (uc *StoreUseCase) Get(ctx context.Context, userID, storeID string) (*dto.StoreResponse, error) {
	store, err := uc.Authorize(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	resp := toStoreResponse(store)
	return &resp, nil
}

// Connect vincula una cuenta de vendedor Kaspi. Reconectar el mismo merchant actualiza la tienda existente.
func (uc *StoreUseCase) Connect(ctx context.Context, userID string, in dto.ConnectStoreRequest) (*dto.StoreResponse, error) {
	if userID == "" {
		return nil, domain.ErrDemoMode
	}
	email := strings.TrimSpace(in.KaspiEmail)
	if email == "" || in.KaspiPassword == "" {
		return nil, domain.ErrInvalidInput
	}

	var remote *ports.RemoteStore
	if uc.backend != nil {
		r, err := uc.backend.ConnectStore(ctx, email, in.KaspiPassword)
		if err != nil {
			return nil, err
		}
		remote = r
	} else {
		remote = simulatedRemoteStore(email)
	}

	now := uc.now()
	existing, err := uc.stores.GetByMerchantID(ctx, userID, remote.MerchantID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Name = remote.Name
		existing.ProductsCount = remote.ProductsCount
		existing.IsActive = true
		existing.UpdatedAt = now
		if err := uc.stores.Update(ctx, existing); err != nil {
			return nil, err
		}
		resp := toStoreResponse(existing)
		return &resp, nil
	}

	store := &entity.Store{
		ID:            remote.ID,
		UserID:        userID,
		Name:          remote.Name,
		MerchantID:    remote.MerchantID,
		ProductsCount: remote.ProductsCount,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.stores.Create(ctx, store); err != nil {
		return nil, err
	}
	uc.log.Info().Str("store_id", store.ID).Str("merchant_id", store.MerchantID).Msg("tienda conectada")
	resp := toStoreResponse(store)
	return &resp, nil
}

// simulatedRemoteStore tienda derivada del email cuando no hay backend configurado.
func simulatedRemoteStore(email string) *ports.RemoteStore {
	local := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		local = email[:i]
	}
	h := demoHash(strings.ToLower(email))
	return &ports.RemoteStore{
		ID:         uuid.NewString(),
		Name:       "Kaspi " + local,
		MerchantID: fmt.Sprintf("SIM%08d", h%100000000),
	}
}

// Refresh importa las tiendas que el backend conoce y aún no están en kaspi_stores.
func (uc *StoreUseCase) Refresh(ctx context.Context, userID string) (*dto.StoreListResponse, error) {
	if userID == "" {
		return nil, domain.ErrDemoMode
	}
	if uc.backend != nil {
		remote, err := uc.backend.ListStores(ctx)
		if err != nil {
			return nil, err
		}
		now := uc.now()
		for _, r := range remote {
			existing, err := uc.stores.GetByMerchantID(ctx, userID, r.MerchantID)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				continue
			}
			err = uc.stores.Create(ctx, &entity.Store{
				ID: r.ID, UserID: userID, Name: r.Name, MerchantID: r.MerchantID,
				ProductsCount: r.ProductsCount, IsActive: true, CreatedAt: now, UpdatedAt: now,
			})
			if err != nil && !errors.Is(err, domain.ErrDuplicate) {
				return nil, err
			}
		}
	}
	return uc.List(ctx, userID)
}

// Sync sincroniza el catálogo. Sin backend la sincronización es simulada: solo recalcula el contador.
func (uc *StoreUseCase) Sync(ctx context.Context, userID, storeID string) (*dto.SyncStoreResponse, error) {
	if entity.IsDemoStoreID(storeID) {
		return nil, domain.ErrDemoMode
	}
	store, err := uc.Authorize(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}

	if uc.backend == nil {
		total, _, err := uc.products.CountByStore(ctx, store.ID)
		if err != nil {
			return nil, err
		}
		if err := uc.stores.MarkSynced(ctx, store.ID, total); err != nil {
			return nil, err
		}
		return &dto.SyncStoreResponse{StoreID: store.ID, ProductsCount: total, Simulated: true, SyncedAt: uc.now()}, nil
	}

	res, err := uc.backend.SyncStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	products := res.Products
	if len(products) == 0 && res.ProductsCount > 0 {
		products, err = uc.fetchCatalog(ctx, store.ID, res.ProductsCount)
		if err != nil {
			return nil, err
		}
	}

	now := uc.now()
	count := res.ProductsCount
	if count == 0 {
		count = len(products)
	}
	err = uc.catalogTx.RunCatalog(ctx, func(storeRepo repository.StoreRepository, productRepo repository.ProductRepository) error {
		for i := range products {
			p := products[i]
			p.StoreID = store.ID
			if p.KaspiID == "" {
				p.KaspiID = p.ID
			}
			p.ID = uuid.NewString() // el upsert conserva el id existente
			p.CreatedAt, p.UpdatedAt = now, now
			if err := productRepo.Upsert(ctx, &p); err != nil {
				return fmt.Errorf("sync %s: %w", p.KaspiID, err)
			}
		}
		return storeRepo.MarkSynced(ctx, store.ID, count)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("store_id", store.ID).Int("products", count).Msg("catálogo sincronizado")
	return &dto.SyncStoreResponse{StoreID: store.ID, ProductsCount: count, SyncedAt: now}, nil
}

// fetchCatalog recorre ListProducts hasta completar total o agotar páginas.
func (uc *StoreUseCase) fetchCatalog(ctx context.Context, storeID string, total int) ([]entity.Product, error) {
	var out []entity.Product
	for page := 1; len(out) < total; page++ {
		p, err := uc.backend.ListProducts(ctx, storeID, page, syncPageSize, "")
		if err != nil {
			return nil, err
		}
		out = append(out, p.Products...)
		if len(p.Products) == 0 || (p.TotalPages > 0 && page >= p.TotalPages) {
			break
		}
	}
	return out, nil
}

// SyncAll sincroniza todas las tiendas del usuario, hasta 3 en paralelo.
// Devuelve los resultados exitosos y el primer error.
func (uc *StoreUseCase) SyncAll(ctx context.Context, userID string) ([]dto.SyncStoreResponse, error) {
	if userID == "" {
		return nil, domain.ErrDemoMode
	}
	list, err := uc.stores.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	results := make([]*dto.SyncStoreResponse, len(list))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(3)
	for i, s := range list {
		i, s := i, s
		g.Go(func() error {
			r, err := uc.Sync(gctx, userID, s.ID)
			if err != nil {
				return fmt.Errorf("tienda %s: %w", s.ID, err)
			}
			results[i] = r
			return nil
		})
	}
	err = g.Wait()
	out := make([]dto.SyncStoreResponse, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, err
}

// Select fija la tienda activa del usuario y abre (o libera) su canal realtime. "" deselecciona.
func (uc *StoreUseCase) Select(ctx context.Context, userID, storeID string) (*dto.SessionResponse, error) {
	if userID == "" {
		return nil, domain.ErrDemoMode
	}
	if storeID != "" {
		if _, err := uc.Authorize(ctx, userID, storeID); err != nil {
			return nil, err
		}
	}
	if err := uc.profiles.SetSelectedStore(ctx, userID, storeID); err != nil {
		return nil, err
	}
	if uc.feed != nil {
		uc.feed.Select(userID, storeID)
	}
	return uc.Session(ctx, userID)
}

// Session estado de sesión: demo sin usuario; con usuario, rol y tienda seleccionada.
func (uc *StoreUseCase) Session(ctx context.Context, userID string) (*dto.SessionResponse, error) {
	if userID == "" {
		if !uc.demoEnabled {
			return nil, domain.ErrUnauthorized
		}
		return &dto.SessionResponse{Demo: true, SelectedStoreID: entity.DemoStores()[0].ID}, nil
	}
	p, err := uc.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrUserNotFound
	}
	return &dto.SessionResponse{UserID: p.ID, Role: p.Role, SelectedStoreID: p.SelectedStoreID}, nil
}

// Delete desconecta y elimina una tienda.
func (uc *StoreUseCase) Delete(ctx context.Context, userID, storeID string) error {
	if entity.IsDemoStoreID(storeID) {
		return domain.ErrDemoMode
	}
	if _, err := uc.Authorize(ctx, userID, storeID); err != nil {
		return err
	}
	if uc.feed != nil && uc.feed.Selected(userID) == storeID {
		uc.feed.Select(userID, "")
	}
	return uc.stores.Delete(ctx, storeID)
}

func toStoreResponse(s *entity.Store) dto.StoreResponse {
	return dto.StoreResponse{
		ID:            s.ID,
		Name:          s.Name,
		MerchantID:    s.MerchantID,
		ProductsCount: s.ProductsCount,
		IsActive:      s.IsActive,
		LastSyncAt:    s.LastSyncAt,
		CreatedAt:     s.CreatedAt,
	}
}
