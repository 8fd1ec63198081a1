package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product oferta de una tienda en Kaspi con la configuración del price-bot (demper).
type Product struct {
	ID          string
	StoreID     string
	KaspiID     string // id de la oferta en Kaspi
	SKU         string
	Name        string
	Brand       string
	Category    string
	ImageURL    string
	Price       decimal.Decimal
	BotActive   bool
	MinProfit   decimal.Decimal // ganancia mínima en tenge; el bot no baja de aquí
	MaxProfit   decimal.Decimal
	PickupPoint string
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Competitor vendedor que ofrece el mismo producto en Kaspi (tabla competitors).
type Competitor struct {
	ID         string
	ProductID  string
	SellerName string
	Price      decimal.Decimal
	Rating     decimal.Decimal
	Delivery   string
	UpdatedAt  time.Time
}

// ProductFilter filtros de listado.
type ProductFilter struct {
	StoreID   string
	Search    string
	BotActive *bool
	Limit     int
	Offset    int
}

// ProductBulkPatch cambios masivos sobre un conjunto de productos. Nil = no tocar.
type ProductBulkPatch struct {
	IDs       []string
	BotActive *bool
	MinProfit *decimal.Decimal
	MaxProfit *decimal.Decimal
}
