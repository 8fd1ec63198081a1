package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Partner socio del programa de referidos (tabla partners).
type Partner struct {
	ID             string
	UserID         string
	Name           string
	Email          string
	CommissionRate decimal.Decimal // porcentaje sobre el pago del referido
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PromoCode código promocional asignado a un socio (tabla promo_codes).
type PromoCode struct {
	ID              string
	PartnerID       string
	Code            string
	DiscountPercent decimal.Decimal
	IsActive        bool
	UsageCount      int
	CreatedAt       time.Time
}

// ReferralClick visita atribuida a un código promocional.
type ReferralClick struct {
	ID          string
	PartnerID   string
	PromoCode   string
	LandingPage string
	UserAgent   string
	IPHash      string // sha256 del IP; no se guarda el IP plano
	CreatedAt   time.Time
}

// ReferralConversion registro de un usuario atribuido a un socio.
type ReferralConversion struct {
	ID        string
	PartnerID string
	UserID    string
	PromoCode string
	ClickID   string
	CreatedAt time.Time
}

// PartnerStats métricas agregadas del socio.
type PartnerStats struct {
	PartnerID   string
	Clicks      int
	Conversions int
}
