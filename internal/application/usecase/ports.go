package usecase

import (
	"context"

	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/repository"
)

// PartnerTxRunner alta atómica de cuenta de socio (perfil, rol, socio y promo code).
type PartnerTxRunner interface {
	RunPartner(ctx context.Context, fn func(
		profileRepo repository.ProfileRepository,
		partnerRepo repository.PartnerRepository,
	) error) error
}

// CatalogTxRunner sincronización atómica del catálogo de una tienda.
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		storeRepo repository.StoreRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// StoreAccess resuelve una tienda verificando que pertenezca al usuario.
// Las tiendas demo son accesibles para cualquiera.
type StoreAccess interface {
	Authorize(ctx context.Context, userID, storeID string) (*entity.Store, error)
}
