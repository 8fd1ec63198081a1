package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/kaspi-panel-api/internal/application/dto"
	"github.com/jhoicas/kaspi-panel-api/internal/application/ports"
	"github.com/jhoicas/kaspi-panel-api/internal/domain"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/sales"
)

const topProductsLimit = 10

// SalesConfig umbral paginado/bulk y tamaño de página.
type SalesConfig struct {
	BulkThreshold int
	PageSize      int
}

// SalesUseCase obtención de pedidos (paginado o bulk) y agregados para gráficos.
type SalesUseCase struct {
	access  StoreAccess
	backend ports.KaspiBackend
	report  ports.SalesReportGenerator
	cfg     SalesConfig
	loc     *time.Location
	log     zerolog.Logger
	now     func() time.Time
}

// NewSalesUseCase construye el caso de uso. Los días se agrupan en hora de Almaty.
func NewSalesUseCase(access StoreAccess, backend ports.KaspiBackend, report ports.SalesReportGenerator, cfg SalesConfig, log zerolog.Logger) *SalesUseCase {
	if cfg.BulkThreshold <= 0 {
		cfg.BulkThreshold = 1000
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	return &SalesUseCase{
		access:  access,
		backend: backend,
		report:  report,
		cfg:     cfg,
		loc:     almaty(),
		log:     log,
		now:     time.Now,
	}
}

func almaty() *time.Location {
	if loc, err := time.LoadLocation("Asia/Almaty"); err == nil {
		return loc
	}
	return time.FixedZone("ALMT", 5*60*60)
}

// Fetch pedidos de los últimos q.Days días. maxOrders <= umbral recorre el endpoint paginado;
// por encima usa el endpoint bulk en un solo request.
func (uc *SalesUseCase) Fetch(ctx context.Context, userID, storeID string, q dto.SalesQuery) (*dto.SalesReport, error) {
	q.Normalize()
	store, err := uc.access.Authorize(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	if entity.IsDemoStoreID(store.ID) {
		orders := demoOrders(store.ID, q.MaxOrders, q.Days, uc.now().In(uc.loc))
		return uc.build(store, dto.SalesModeDemo, q.Days, orders, 0, false), nil
	}
	if uc.backend == nil {
		return nil, fmt.Errorf("%w: backend de ventas no configurado", domain.ErrUpstream)
	}

	if q.MaxOrders > uc.cfg.BulkThreshold {
		orders, err := uc.backend.SalesBulk(ctx, store.ID, q.MaxOrders, q.Days)
		if err != nil {
			return nil, err
		}
		if len(orders) > q.MaxOrders {
			orders = orders[:q.MaxOrders]
		}
		uc.log.Debug().Str("store_id", store.ID).Int("orders", len(orders)).Msg("ventas bulk")
		return uc.build(store, dto.SalesModeBulk, q.Days, orders, 0, false), nil
	}

	// Siempre páginas completas: el backend calcula el offset como (page-1)*limit.
	var orders []entity.Order
	page, hasMore := 0, true
	for hasMore && len(orders) < q.MaxOrders {
		page++
		p, err := uc.backend.SalesPage(ctx, store.ID, page, uc.cfg.PageSize, q.Days)
		if err != nil {
			return nil, err
		}
		orders = sales.Merge(orders, p.Orders)
		hasMore = p.HasMore && len(p.Orders) > 0
	}
	if len(orders) > q.MaxOrders {
		orders = orders[:q.MaxOrders]
		hasMore = true
	}
	next := 0
	if hasMore {
		next = uc.nextPage(len(orders))
	}
	uc.log.Debug().Str("store_id", store.ID).Int("orders", len(orders)).Int("pages", page).Msg("ventas paginadas")
	return uc.build(store, dto.SalesModePaginated, q.Days, orders, next, hasMore), nil
}

// nextPage página que contiene el pedido siguiente al último cargado.
func (uc *SalesUseCase) nextPage(loaded int) int {
	return loaded/uc.cfg.PageSize + 1
}

// LoadMore trae la página indicada y la fusiona con los pedidos que el cliente ya tiene.
// Si el cliente ya tiene parte de la página (Fetch recortó a maxOrders), esa parte se descarta.
func (uc *SalesUseCase) LoadMore(ctx context.Context, userID, storeID string, in dto.LoadMoreRequest) (*dto.SalesReport, error) {
	if in.Page < 1 {
		return nil, domain.ErrInvalidInput
	}
	q := dto.SalesQuery{Days: in.Days}
	q.Normalize()
	store, err := uc.access.Authorize(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	if entity.IsDemoStoreID(store.ID) {
		return nil, domain.ErrDemoMode
	}
	if uc.backend == nil {
		return nil, fmt.Errorf("%w: backend de ventas no configurado", domain.ErrUpstream)
	}
	p, err := uc.backend.SalesPage(ctx, store.ID, in.Page, uc.cfg.PageSize, q.Days)
	if err != nil {
		return nil, err
	}
	fresh := p.Orders
	if held := len(in.Orders) - (in.Page-1)*uc.cfg.PageSize; held > 0 && held < uc.cfg.PageSize {
		if held > len(fresh) {
			held = len(fresh)
		}
		fresh = fresh[held:]
	}
	merged := sales.Merge(in.Orders, fresh)
	hasMore := p.HasMore && len(p.Orders) > 0
	next := 0
	if hasMore {
		next = uc.nextPage(len(merged))
	}
	return uc.build(store, dto.SalesModePaginated, q.Days, merged, next, hasMore), nil
}

// ReportPDF reporte de ventas en PDF.
func (uc *SalesUseCase) ReportPDF(ctx context.Context, userID, storeID string, q dto.SalesQuery) ([]byte, error) {
	rep, err := uc.Fetch(ctx, userID, storeID, q)
	if err != nil {
		return nil, err
	}
	return uc.report.GenerateSalesReport(ctx, rep.StoreName, rep)
}

// Daily totales por día de los últimos days días (usado por el dashboard).
func (uc *SalesUseCase) Daily(ctx context.Context, userID, storeID string, days int) (map[string]sales.DayTotal, error) {
	rep, err := uc.Fetch(ctx, userID, storeID, dto.SalesQuery{MaxOrders: uc.cfg.BulkThreshold, Days: days})
	if err != nil {
		return nil, err
	}
	return sales.AggregateByDay(rep.Daily), nil
}

// Today clave de fecha de hoy en la zona de agrupación.
func (uc *SalesUseCase) Today() string {
	return uc.now().In(uc.loc).Format("2006-01-02")
}

func (uc *SalesUseCase) build(store *entity.Store, mode string, days int, orders []entity.Order, next int, hasMore bool) *dto.SalesReport {
	totals := sales.AggregateByDay(sales.FromOrders(orders, uc.loc))
	to := uc.now().In(uc.loc)
	from := to.AddDate(0, 0, -(days - 1))
	top := sales.DedupeProductsByName(orders)
	if len(top) > topProductsLimit {
		top = top[:topProductsLimit]
	}
	if orders == nil {
		orders = []entity.Order{}
	}
	return &dto.SalesReport{
		StoreID:     store.ID,
		StoreName:   store.Name,
		Mode:        mode,
		Days:        days,
		Orders:      orders,
		Daily:       sales.Series(totals, from, to),
		Summary:     sales.Summarize(totals),
		TopProducts: top,
		NextPage:    next,
		HasMore:     hasMore,
	}
}
