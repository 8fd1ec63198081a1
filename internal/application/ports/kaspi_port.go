package ports

import (
	"context"

	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
)

// RemoteStore tienda tal como la devuelve el backend de Kaspi al conectarla.
type RemoteStore struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	MerchantID    string `json:"merchant_id"`
	ProductsCount int    `json:"products_count"`
}

// SyncResult resultado de sincronizar el catálogo de una tienda.
type SyncResult struct {
	ProductsCount int              `json:"products_count"`
	Products      []entity.Product `json:"products"`
}

// RemoteProductPage página del catálogo remoto.
type RemoteProductPage struct {
	Products   []entity.Product
	Page       int
	TotalPages int
	Total      int
}

// ProductBulkUpdate cambios masivos enviados al backend del price-bot.
type ProductBulkUpdate struct {
	StoreID string
	Patch   entity.ProductBulkPatch
}

// KaspiBackend puerto de salida hacia el backend REST del price-bot.
// Cada llamada es un request/response simple: sin reintentos, el error es terminal.
type KaspiBackend interface {
	ConnectStore(ctx context.Context, kaspiEmail, kaspiPassword string) (*RemoteStore, error)
	ListStores(ctx context.Context) ([]RemoteStore, error)
	SyncStore(ctx context.Context, storeID string) (*SyncResult, error)
	ListProducts(ctx context.Context, storeID string, page, limit int, search string) (*RemoteProductPage, error)
	BulkUpdateProducts(ctx context.Context, in ProductBulkUpdate) error
	ToggleBot(ctx context.Context, productID string, active bool) error
	SalesPage(ctx context.Context, storeID string, page, limit, days int) (*entity.SalesPage, error)
	SalesBulk(ctx context.Context, storeID string, maxOrders, days int) ([]entity.Order, error)
}

type backendTokenKey struct{}

// WithBackendToken adjunta al contexto el bearer token del usuario para reenviarlo al backend.
func WithBackendToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, backendTokenKey{}, token)
}

// BackendToken devuelve el token adjuntado con WithBackendToken.
func BackendToken(ctx context.Context) string {
	t, _ := ctx.Value(backendTokenKey{}).(string)
	return t
}
