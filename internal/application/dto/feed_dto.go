package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceFeedInput datos para el XML de lista de precios de Kaspi (kaspi_catalog).
type PriceFeedInput struct {
	Company     string
	MerchantID  string
	GeneratedAt time.Time
	CityIDs     []string // vacío = precio único en <price>
	Offers      []PriceFeedOffer
}

// PriceFeedOffer una oferta del catálogo.
type PriceFeedOffer struct {
	SKU          string
	Model        string
	Brand        string
	Price        decimal.Decimal
	Available    bool
	PickupPoints []string
}
