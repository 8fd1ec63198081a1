package dto

import "time"

// StoreResponse salida de una tienda Kaspi conectada.
type StoreResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	MerchantID    string     `json:"merchant_id"`
	ProductsCount int        `json:"products_count"`
	IsActive      bool       `json:"is_active"`
	LastSyncAt    *time.Time `json:"last_sync_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// StoreListResponse lista de tiendas. Demo=true cuando se sirven las tiendas fijas sin autenticación.
type StoreListResponse struct {
	Items []StoreResponse `json:"items"`
	Demo  bool            `json:"demo"`
}

// ConnectStoreRequest credenciales del cabinet de vendedor Kaspi.
type ConnectStoreRequest struct {
	KaspiEmail    string `json:"kaspi_email" validate:"required,email"`
	KaspiPassword string `json:"kaspi_password" validate:"required"`
}

// SyncStoreResponse resultado de sincronizar el catálogo.
type SyncStoreResponse struct {
	StoreID       string    `json:"store_id"`
	ProductsCount int       `json:"products_count"`
	Simulated     bool      `json:"simulated"`
	SyncedAt      time.Time `json:"synced_at"`
}

// SelectStoreRequest tienda seleccionada; vacío desconecta el canal realtime.
type SelectStoreRequest struct {
	StoreID string `json:"store_id"`
}

// SessionResponse estado de sesión que antes vivía en local storage del navegador.
type SessionResponse struct {
	Demo            bool   `json:"demo"`
	UserID          string `json:"user_id,omitempty"`
	Role            string `json:"role,omitempty"`
	SelectedStoreID string `json:"selected_store_id,omitempty"`
}
