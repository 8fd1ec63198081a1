package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePartnerRequest alta de socio por un admin: cuenta + rol + promo code en una transacción.
type CreatePartnerRequest struct {
	Email           string          `json:"email"`
	Password        string          `json:"password"`
	Name            string          `json:"name"`
	CommissionRate  decimal.Decimal `json:"commission_rate"`
	PromoCode       string          `json:"promo_code"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// PartnerResponse salida de un socio.
type PartnerResponse struct {
	ID             string              `json:"id"`
	UserID         string              `json:"user_id"`
	Name           string              `json:"name"`
	Email          string              `json:"email"`
	CommissionRate decimal.Decimal     `json:"commission_rate"`
	IsActive       bool                `json:"is_active"`
	PromoCodes     []PromoCodeResponse `json:"promo_codes,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

// CreatePromoCodeRequest nuevo promo code para un socio.
type CreatePromoCodeRequest struct {
	Code            string          `json:"code"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// PromoCodeResponse salida de un promo code.
type PromoCodeResponse struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	IsActive        bool            `json:"is_active"`
	UsageCount      int             `json:"usage_count"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ReferralClickRequest clic en un enlace de referido.
type ReferralClickRequest struct {
	PromoCode   string `json:"promo_code"`
	LandingPage string `json:"landing_page"`
}

// ReferralClickResponse resultado del tracking.
type ReferralClickResponse struct {
	Tracked   bool   `json:"tracked"`
	ClickID   string `json:"click_id,omitempty"`
	PartnerID string `json:"partner_id,omitempty"`
}

// PartnerStatsResponse métricas del socio en el período.
type PartnerStatsResponse struct {
	PartnerID      string          `json:"partner_id"`
	Days           int             `json:"days"`
	Clicks         int             `json:"clicks"`
	Conversions    int             `json:"conversions"`
	ConversionRate decimal.Decimal `json:"conversion_rate"` // % con 2 decimales
}
