package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kaspi-panel-api/internal/application/dto"
	"github.com/jhoicas/kaspi-panel-api/internal/application/ports"
	"github.com/jhoicas/kaspi-panel-api/internal/application/usecase"
	"github.com/jhoicas/kaspi-panel-api/internal/domain"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
)

func boolPtr(b bool) *bool { return &b }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

type productFixture struct {
	products *memProducts
	builder  *fakeFeedBuilder
	uc       *usecase.ProductUseCase
}

func newProductFixture(backend ports.KaspiBackend, products ...*entity.Product) *productFixture {
	sf := newStoreFixture(nil, true, ownedStore())
	for _, p := range products {
		sf.products.byID[p.ID] = p
	}
	f := &productFixture{products: sf.products, builder: &fakeFeedBuilder{}}
	cities := memCities{list: []*entity.City{{ID: "750000000", Name: "Алматы", IsActive: true}, {ID: "710000000", Name: "Астана", IsActive: true}}}
	f.uc = usecase.NewProductUseCase(sf.products, cities, sf.uc, backend, f.builder)
	return f
}

func sampleProducts() []*entity.Product {
	return []*entity.Product{
		{ID: "p1", StoreID: "store-1", KaspiID: "K-1", SKU: "SKU-1", Name: "Чайник Bosch", Price: decimal.NewFromInt(15000), BotActive: true, MinProfit: decimal.NewFromInt(500), MaxProfit: decimal.NewFromInt(2000), PickupPoint: "PP1,PP2", Available: true},
		{ID: "p2", StoreID: "store-1", KaspiID: "K-2", SKU: "SKU-2", Name: "Утюг Philips", Price: decimal.NewFromInt(22000), Available: true},
		{ID: "p3", StoreID: "store-1", KaspiID: "K-3", SKU: "SKU-3", Name: "Фен Dyson", Price: decimal.NewFromInt(290000), BotActive: true, Available: false},
	}
}

// ── List / Get ───────────────────────────────────────────────────────────────

func TestProductList_TiendaDemoSinUsuario(t *testing.T) {
	f := newProductFixture(nil)

	out, err := f.uc.List(context.Background(), "", "demo-store-1", dto.ProductListQuery{Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, 12, out.Page.Total)
	assert.Len(t, out.Items, 12)

	out, err = f.uc.List(context.Background(), "", "demo-store-1", dto.ProductListQuery{Search: "tefal"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Page.Total)
}

func TestProductList_FiltroBotActivo(t *testing.T) {
	f := newProductFixture(nil, sampleProducts()...)

	out, err := f.uc.List(context.Background(), "u1", "store-1", dto.ProductListQuery{BotActive: "true"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Page.Total)
	for _, it := range out.Items {
		assert.True(t, it.BotActive)
	}

	_, err = f.uc.List(context.Background(), "u1", "store-1", dto.ProductListQuery{BotActive: "quizas"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductList_TiendaAjena(t *testing.T) {
	f := newProductFixture(nil, sampleProducts()...)

	_, err := f.uc.List(context.Background(), "u2", "store-1", dto.ProductListQuery{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestProductGet_DemoIncluyeCompetidores(t *testing.T) {
	f := newProductFixture(nil)

	out, err := f.uc.Get(context.Background(), "", "demo-store-2-p03")
	require.NoError(t, err)
	assert.Equal(t, "demo-store-2", out.StoreID)
	assert.Len(t, out.Competitors, 3)

	_, err = f.uc.Get(context.Background(), "", "demo-store-2-p99")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductCounts(t *testing.T) {
	f := newProductFixture(nil, sampleProducts()...)

	total, bot, err := f.uc.Counts(context.Background(), "u1", "store-1")
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 2, bot)

	total, _, err = f.uc.Counts(context.Background(), "", "demo-store-1")
	require.NoError(t, err)
	assert.Equal(t, 12, total)
}

// ── UpdateBot ────────────────────────────────────────────────────────────────

func TestProductUpdateBot_EnviaKaspiIDAlBackend(t *testing.T) {
	backend := &fakeBackend{}
	f := newProductFixture(backend, sampleProducts()...)

	out, err := f.uc.UpdateBot(context.Background(), "u1", "p2", dto.UpdateProductBotRequest{
		BotActive: boolPtr(true), MinProfit: decPtr(100), MaxProfit: decPtr(900),
	})
	require.NoError(t, err)
	assert.True(t, out.BotActive)
	assert.True(t, out.MaxProfit.Equal(decimal.NewFromInt(900)))

	assert.Equal(t, map[string]bool{"K-2": true}, backend.toggles)
	require.Len(t, backend.bulkUpdate, 1)
	assert.Equal(t, []string{"K-2"}, backend.bulkUpdate[0].Patch.IDs)

	stored, _ := f.products.GetByID(context.Background(), "p2")
	assert.True(t, stored.BotActive)
}

func TestProductUpdateBot_Validaciones(t *testing.T) {
	f := newProductFixture(nil, sampleProducts()...)
	ctx := context.Background()

	_, err := f.uc.UpdateBot(ctx, "u1", "p1", dto.UpdateProductBotRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin cambios")

	_, err = f.uc.UpdateBot(ctx, "u1", "p1", dto.UpdateProductBotRequest{MaxProfit: decPtr(100)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "max menor que el min actual (500)")

	_, err = f.uc.UpdateBot(ctx, "u1", "p1", dto.UpdateProductBotRequest{MinProfit: decPtr(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.UpdateBot(ctx, "", "demo-store-1-p01", dto.UpdateProductBotRequest{BotActive: boolPtr(false)})
	assert.ErrorIs(t, err, domain.ErrDemoMode)
}

func TestProductUpdateBot_ErrorDelBackendNoPersiste(t *testing.T) {
	backend := &fakeBackend{err: domain.ErrUpstream}
	f := newProductFixture(backend, sampleProducts()...)

	_, err := f.uc.UpdateBot(context.Background(), "u1", "p2", dto.UpdateProductBotRequest{BotActive: boolPtr(true)})
	assert.ErrorIs(t, err, domain.ErrUpstream)

	stored, _ := f.products.GetByID(context.Background(), "p2")
	assert.False(t, stored.BotActive)
}

// ── BulkUpdate ───────────────────────────────────────────────────────────────

func TestProductBulkUpdate_DeduplicaYTraduceIDs(t *testing.T) {
	backend := &fakeBackend{}
	f := newProductFixture(backend, sampleProducts()...)

	out, err := f.uc.BulkUpdate(context.Background(), "u1", "store-1", dto.BulkUpdateProductsRequest{
		ProductIDs: []string{"p1", "p2", "p1", " "},
		BotActive:  boolPtr(false),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, out.Updated)

	require.Len(t, backend.bulkUpdate, 1)
	assert.Equal(t, []string{"K-1", "K-2"}, backend.bulkUpdate[0].Patch.IDs)
	require.Len(t, f.products.patches, 1)
	assert.Equal(t, []string{"p1", "p2"}, f.products.patches[0].IDs)
}

func TestProductBulkUpdate_Validaciones(t *testing.T) {
	f := newProductFixture(&fakeBackend{}, sampleProducts()...)
	ctx := context.Background()

	ids := make([]string, 501)
	for i := range ids {
		ids[i] = fmt.Sprintf("p%d", i)
	}
	_, err := f.uc.BulkUpdate(ctx, "u1", "store-1", dto.BulkUpdateProductsRequest{ProductIDs: ids, BotActive: boolPtr(true)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "más de 500 ids")

	_, err = f.uc.BulkUpdate(ctx, "u1", "store-1", dto.BulkUpdateProductsRequest{ProductIDs: []string{"p1"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin campos a cambiar")

	_, err = f.uc.BulkUpdate(ctx, "u1", "store-1", dto.BulkUpdateProductsRequest{
		ProductIDs: []string{"p1"}, MinProfit: decPtr(1000), MaxProfit: decPtr(10),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.BulkUpdate(ctx, "u1", "store-1", dto.BulkUpdateProductsRequest{ProductIDs: []string{"p1", "otro"}, BotActive: boolPtr(true)})
	assert.ErrorIs(t, err, domain.ErrNotFound, "id desconocido para el backend")

	_, err = f.uc.BulkUpdate(ctx, "", "demo-store-1", dto.BulkUpdateProductsRequest{ProductIDs: []string{"demo-store-1-p01"}, BotActive: boolPtr(true)})
	assert.ErrorIs(t, err, domain.ErrDemoMode)
}

// ── PriceFeed ────────────────────────────────────────────────────────────────

func TestProductPriceFeed_ArmaOfertasYCiudades(t *testing.T) {
	f := newProductFixture(nil, sampleProducts()...)

	body, etag, err := f.uc.PriceFeed(context.Background(), "u1", "store-1")
	require.NoError(t, err)
	assert.NotEmpty(t, body)
	assert.Equal(t, `"etag"`, etag)

	in := f.builder.in
	assert.Equal(t, "Mi Tienda", in.Company)
	assert.Equal(t, "M100", in.MerchantID)
	assert.Equal(t, []string{"750000000", "710000000"}, in.CityIDs)
	require.Len(t, in.Offers, 3)
	assert.Equal(t, []string{"PP1", "PP2"}, in.Offers[0].PickupPoints)
	assert.False(t, in.Offers[2].Available)
}
