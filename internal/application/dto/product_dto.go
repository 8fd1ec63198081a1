package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductResponse salida de un producto con su configuración del price-bot.
type ProductResponse struct {
	ID          string          `json:"id"`
	StoreID     string          `json:"store_id"`
	KaspiID     string          `json:"kaspi_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand,omitempty"`
	Category    string          `json:"category,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	Price       decimal.Decimal `json:"price"`
	BotActive   bool            `json:"bot_active"`
	MinProfit   decimal.Decimal `json:"min_profit"`
	MaxProfit   decimal.Decimal `json:"max_profit"`
	PickupPoint string          `json:"pickup_point,omitempty"`
	Available   bool            `json:"available"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CompetitorResponse competidor de un producto.
type CompetitorResponse struct {
	ID         string          `json:"id"`
	SellerName string          `json:"seller_name"`
	Price      decimal.Decimal `json:"price"`
	Rating     decimal.Decimal `json:"rating"`
	Delivery   string          `json:"delivery,omitempty"`
}

// ProductDetailResponse producto con competidores.
type ProductDetailResponse struct {
	ProductResponse
	Competitors []CompetitorResponse `json:"competitors"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductListQuery filtros del listado.
type ProductListQuery struct {
	Search    string `query:"search"`
	BotActive string `query:"bot_active"` // "", "true", "false"
	Limit     int    `query:"limit"`
	Offset    int    `query:"offset"`
}

// UpdateProductBotRequest configuración del bot de un producto. Nil = no tocar.
type UpdateProductBotRequest struct {
	BotActive *bool            `json:"bot_active"`
	MinProfit *decimal.Decimal `json:"min_profit"`
	MaxProfit *decimal.Decimal `json:"max_profit"`
}

// BulkUpdateProductsRequest cambios masivos.
type BulkUpdateProductsRequest struct {
	ProductIDs []string         `json:"product_ids"`
	BotActive  *bool            `json:"bot_active"`
	MinProfit  *decimal.Decimal `json:"min_profit"`
	MaxProfit  *decimal.Decimal `json:"max_profit"`
}

// BulkUpdateResponse filas afectadas.
type BulkUpdateResponse struct {
	Updated int64 `json:"updated"`
}
