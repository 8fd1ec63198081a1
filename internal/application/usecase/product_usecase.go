package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kaspi-panel-api/internal/application/dto"
	"github.com/jhoicas/kaspi-panel-api/internal/application/ports"
	"github.com/jhoicas/kaspi-panel-api/internal/domain"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/repository"
)

// maxBulkIDs límite de productos por actualización masiva.
const maxBulkIDs = 500

// ProductUseCase catálogo, configuración del price-bot y feed XML.
type ProductUseCase struct {
	repo    repository.ProductRepository
	cities  repository.CityRepository
	access  StoreAccess
	backend ports.KaspiBackend // nil = solo base de datos
	feed    ports.PriceFeedBuilder
	now     func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	cities repository.CityRepository,
	access StoreAccess,
	backend ports.KaspiBackend,
	feed ports.PriceFeedBuilder,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, cities: cities, access: access, backend: backend, feed: feed, now: time.Now}
}

// List busca productos de la tienda. Las tiendas demo sirven un catálogo fijo.
func (uc *ProductUseCase) List(ctx context.Context, userID, storeID string, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	store, err := uc.access.Authorize(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	page := dto.PageRequest{Limit: q.Limit, Offset: q.Offset}
	page.DefaultPage()

	filter := entity.ProductFilter{StoreID: store.ID, Search: q.Search, Limit: page.Limit, Offset: page.Offset}
	if q.BotActive != "" {
		b, err := strconv.ParseBool(q.BotActive)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		filter.BotActive = &b
	}

	var list []*entity.Product
	var total int
	if entity.IsDemoStoreID(store.ID) {
		list, total = filterDemo(demoProducts(store.ID, uc.now()), filter)
	} else {
		list, total, err = uc.repo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
	}

	out := &dto.ProductListResponse{
		Items: make([]dto.ProductResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, p := range list {
		out.Items = append(out.Items, toProductResponse(p))
	}
	return out, nil
}

func filterDemo(all []*entity.Product, f entity.ProductFilter) ([]*entity.Product, int) {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var matched []*entity.Product
	for _, p := range all {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.SKU), search) {
			continue
		}
		if f.BotActive != nil && p.BotActive != *f.BotActive {
			continue
		}
		matched = append(matched, p)
	}
	total := len(matched)
	if f.Offset >= total {
		return nil, total
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}
	return matched[f.Offset:end], total
}

// Counts total de productos y con bot activo de la tienda.
func (uc *ProductUseCase) Counts(ctx context.Context, userID, storeID string) (total, botActive int, err error) {
	store, err := uc.access.Authorize(ctx, userID, storeID)
	if err != nil {
		return 0, 0, err
	}
	if entity.IsDemoStoreID(store.ID) {
		for _, p := range demoProducts(store.ID, uc.now()) {
			total++
			if p.BotActive {
				botActive++
			}
		}
		return total, botActive, nil
	}
	return uc.repo.CountByStore(ctx, store.ID)
}

// Get producto con competidores.
func (uc *ProductUseCase) Get(ctx context.Context, userID, productID string) (*dto.ProductDetailResponse, error) {
	p, err := uc.load(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	var comps []*entity.Competitor
	if entity.IsDemoStoreID(p.StoreID) {
		comps = demoCompetitors(p, uc.now())
	} else {
		comps, err = uc.repo.ListCompetitors(ctx, p.ID)
		if err != nil {
			return nil, err
		}
	}
	out := &dto.ProductDetailResponse{ProductResponse: toProductResponse(p), Competitors: make([]dto.CompetitorResponse, 0, len(comps))}
	for _, c := range comps {
		out.Competitors = append(out.Competitors, dto.CompetitorResponse{
			ID: c.ID, SellerName: c.SellerName, Price: c.Price, Rating: c.Rating, Delivery: c.Delivery,
		})
	}
	return out, nil
}

// load producto verificando acceso a su tienda.
func (uc *ProductUseCase) load(ctx context.Context, userID, productID string) (*entity.Product, error) {
	if storeID, ok := demoStoreOfProduct(productID); ok {
		for _, p := range demoProducts(storeID, uc.now()) {
			if p.ID == productID {
				return p, nil
			}
		}
		return nil, domain.ErrNotFound
	}
	p, err := uc.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := uc.access.Authorize(ctx, userID, p.StoreID); err != nil {
		return nil, err
	}
	return p, nil
}

func demoStoreOfProduct(productID string) (string, bool) {
	for _, s := range entity.DemoStores() {
		if strings.HasPrefix(productID, s.ID+"-p") {
			return s.ID, true
		}
	}
	return "", false
}

// UpdateBot cambia bot y/o ganancias de un producto.
func (uc *ProductUseCase) UpdateBot(ctx context.Context, userID, productID string, in dto.UpdateProductBotRequest) (*dto.ProductResponse, error) {
	if in.BotActive == nil && in.MinProfit == nil && in.MaxProfit == nil {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.load(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if entity.IsDemoStoreID(p.StoreID) {
		return nil, domain.ErrDemoMode
	}

	minP, maxP := p.MinProfit, p.MaxProfit
	if in.MinProfit != nil {
		minP = *in.MinProfit
	}
	if in.MaxProfit != nil {
		maxP = *in.MaxProfit
	}
	if err := validateProfits(minP, maxP); err != nil {
		return nil, err
	}

	if uc.backend != nil {
		if in.BotActive != nil && *in.BotActive != p.BotActive {
			if err := uc.backend.ToggleBot(ctx, p.KaspiID, *in.BotActive); err != nil {
				return nil, err
			}
		}
		if in.MinProfit != nil || in.MaxProfit != nil {
			err := uc.backend.BulkUpdateProducts(ctx, ports.ProductBulkUpdate{
				StoreID: p.StoreID,
				Patch:   entity.ProductBulkPatch{IDs: []string{p.KaspiID}, MinProfit: &minP, MaxProfit: &maxP},
			})
			if err != nil {
				return nil, err
			}
		}
	}

	if in.BotActive != nil {
		p.BotActive = *in.BotActive
	}
	p.MinProfit, p.MaxProfit = minP, maxP
	p.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	resp := toProductResponse(p)
	return &resp, nil
}

// validateProfits min >= 0 y max >= min.
func validateProfits(minP, maxP decimal.Decimal) error {
	if minP.IsNegative() || maxP.LessThan(minP) {
		return domain.ErrInvalidInput
	}
	return nil
}

// BulkUpdate aplica bot/ganancias a varios productos: primero el backend, luego la base.
func (uc *ProductUseCase) BulkUpdate(ctx context.Context, userID, storeID string, in dto.BulkUpdateProductsRequest) (*dto.BulkUpdateResponse, error) {
	if len(in.ProductIDs) == 0 || len(in.ProductIDs) > maxBulkIDs {
		return nil, domain.ErrInvalidInput
	}
	if in.BotActive == nil && in.MinProfit == nil && in.MaxProfit == nil {
		return nil, domain.ErrInvalidInput
	}
	if in.MinProfit != nil && in.MinProfit.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.MinProfit != nil && in.MaxProfit != nil && in.MaxProfit.LessThan(*in.MinProfit) {
		return nil, domain.ErrInvalidInput
	}
	store, err := uc.access.Authorize(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	if entity.IsDemoStoreID(store.ID) {
		return nil, domain.ErrDemoMode
	}

	patch := entity.ProductBulkPatch{
		IDs:       dedupeIDs(in.ProductIDs),
		BotActive: in.BotActive,
		MinProfit: in.MinProfit,
		MaxProfit: in.MaxProfit,
	}
	if len(patch.IDs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if uc.backend != nil {
		remote, err := uc.kaspiIDs(ctx, store.ID, patch.IDs)
		if err != nil {
			return nil, err
		}
		remotePatch := patch
		remotePatch.IDs = remote
		if err := uc.backend.BulkUpdateProducts(ctx, ports.ProductBulkUpdate{StoreID: store.ID, Patch: remotePatch}); err != nil {
			return nil, err
		}
	}
	n, err := uc.repo.BulkPatch(ctx, store.ID, patch)
	if err != nil {
		return nil, err
	}
	return &dto.BulkUpdateResponse{Updated: n}, nil
}

// kaspiIDs traduce ids locales a ids del backend; los desconocidos son ErrNotFound.
func (uc *ProductUseCase) kaspiIDs(ctx context.Context, storeID string, ids []string) ([]string, error) {
	all, err := uc.repo.ListAllByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]string, len(all))
	for _, p := range all {
		byID[p.ID] = p.KaspiID
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		k, ok := byID[id]
		if !ok {
			return nil, domain.ErrNotFound
		}
		out = append(out, k)
	}
	return out, nil
}

func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// PriceFeed XML kaspi_catalog de la tienda con su ETag.
func (uc *ProductUseCase) PriceFeed(ctx context.Context, userID, storeID string) ([]byte, string, error) {
	store, err := uc.access.Authorize(ctx, userID, storeID)
	if err != nil {
		return nil, "", err
	}
	var products []*entity.Product
	if entity.IsDemoStoreID(store.ID) {
		products = demoProducts(store.ID, uc.now())
	} else {
		products, err = uc.repo.ListAllByStore(ctx, store.ID)
		if err != nil {
			return nil, "", err
		}
	}

	in := dto.PriceFeedInput{Company: store.Name, MerchantID: store.MerchantID, GeneratedAt: uc.now()}
	if uc.cities != nil {
		cities, err := uc.cities.ListActive(ctx)
		if err != nil {
			return nil, "", err
		}
		for _, c := range cities {
			in.CityIDs = append(in.CityIDs, c.ID)
		}
	}
	for _, p := range products {
		offer := dto.PriceFeedOffer{SKU: p.SKU, Model: p.Name, Brand: p.Brand, Price: p.Price, Available: p.Available}
		if p.PickupPoint != "" {
			offer.PickupPoints = strings.Split(p.PickupPoint, ",")
		}
		in.Offers = append(in.Offers, offer)
	}
	return uc.feed.Build(in)
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		StoreID:     p.StoreID,
		KaspiID:     p.KaspiID,
		SKU:         p.SKU,
		Name:        p.Name,
		Brand:       p.Brand,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		Price:       p.Price,
		BotActive:   p.BotActive,
		MinProfit:   p.MinProfit,
		MaxProfit:   p.MaxProfit,
		PickupPoint: p.PickupPoint,
		Available:   p.Available,
		UpdatedAt:   p.UpdatedAt,
	}
}
