package entity

import "time"

// Store representa una cuenta de vendedor Kaspi.kz conectada al panel (tabla kaspi_stores).
type Store struct {
	ID            string
	UserID        string
	Name          string
	MerchantID    string // ID de comerciante en Kaspi
	ProductsCount int
	IsActive      bool
	LastSyncAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DemoStores tiendas fijas que se muestran sin usuario autenticado.
func DemoStores() []Store {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []Store{
		{
			ID:            "demo-store-1",
			Name:          "Demo Electronics",
			MerchantID:    "DEMO001",
			ProductsCount: 156,
			IsActive:      true,
			CreatedAt:     created,
			UpdatedAt:     created,
		},
		{
			ID:            "demo-store-2",
			Name:          "Demo Home & Garden",
			MerchantID:    "DEMO002",
			ProductsCount: 89,
			IsActive:      true,
			CreatedAt:     created,
			UpdatedAt:     created,
		},
	}
}

// IsDemoStoreID informa si el id pertenece a una tienda demo.
func IsDemoStoreID(id string) bool {
	for _, s := range DemoStores() {
		if s.ID == id {
			return true
		}
	}
	return false
}
