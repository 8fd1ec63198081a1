// Package analytics arma el resumen por tienda del panel: catálogo, ventas del día
// y de los últimos 30 días, y el estado del price-bot.
package analytics

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/kaspi-panel-api/internal/application/dto"
	"github.com/jhoicas/kaspi-panel-api/internal/application/ports"
	"github.com/jhoicas/kaspi-panel-api/internal/domain"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/sales"
)

const dashboardDays = 30

// StoreReader tienda visible para el usuario (verifica acceso).
type StoreReader interface {
	Get(ctx context.Context, userID, storeID string) (*dto.StoreResponse, error)
}

// ProductCounter conteos del catálogo.
type ProductCounter interface {
	Counts(ctx context.Context, userID, storeID string) (total, botActive int, err error)
}

// SalesSource totales diarios en la zona horaria del vendedor.
type SalesSource interface {
	Daily(ctx context.Context, userID, storeID string, days int) (map[string]sales.DayTotal, error)
	Today() string
}

// DashboardUseCase resumen de una tienda.
//
// Fuentes: StoreReader, ProductCounter, SalesSource y el hub realtime (DemperFeed).
// Las consultas corren en paralelo; un fallo del backend de ventas no invalida
// el resto del resumen y se informa en SalesError.
type DashboardUseCase struct {
	stores   StoreReader
	products ProductCounter
	sales    SalesSource
	feed     ports.DemperFeed
	log      zerolog.Logger
}

// NewDashboardUseCase construye el caso de uso. feed puede ser nil.
func NewDashboardUseCase(stores StoreReader, products ProductCounter, src SalesSource, feed ports.DemperFeed, log zerolog.Logger) *DashboardUseCase {
	return &DashboardUseCase{stores: stores, products: products, sales: src, feed: feed, log: log}
}

// GetSummary construye el StoreDashboardDTO.
//
// Tres tareas en paralelo:
//  1. Get(store)          → Store (y control de acceso)
//  2. Counts(store)       → ProductsTotal + BotActive
//  3. Daily(store, 30)    → Today + Last30Days
func (uc *DashboardUseCase) GetSummary(ctx context.Context, userID, storeID string) (*dto.StoreDashboardDTO, error) {
	out := &dto.StoreDashboardDTO{}
	var daily map[string]sales.DayTotal
	var salesErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := uc.stores.Get(gctx, userID, storeID)
		if err != nil {
			return err
		}
		out.Store = *s
		return nil
	})
	g.Go(func() error {
		total, bot, err := uc.products.Counts(gctx, userID, storeID)
		if err != nil {
			return err
		}
		out.ProductsTotal, out.BotActive = total, bot
		return nil
	})
	g.Go(func() error {
		d, err := uc.sales.Daily(gctx, userID, storeID, dashboardDays)
		switch {
		case err == nil:
			daily = d
		case errors.Is(err, domain.ErrUpstream):
			salesErr = err
		default:
			return err
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if salesErr != nil {
		uc.log.Warn().Err(salesErr).Str("store_id", storeID).Msg("dashboard sin ventas")
		out.SalesError = salesErr.Error()
	}
	out.Today = daily[uc.sales.Today()]
	out.Last30Days = sales.Summarize(daily)

	if uc.feed != nil {
		if snap, ok := uc.feed.Snapshot(storeID); ok {
			out.Demper = &snap
		}
	}
	return out, nil
}
