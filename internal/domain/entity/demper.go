package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DemperStatus snapshot del price-bot de una tienda, enviado por el socket.
type DemperStatus struct {
	StoreID        string    `json:"store_id"`
	Status         string    `json:"status"` // running, stopped, paused, error
	ActiveProducts int       `json:"active_products"`
	ProcessedToday int       `json:"processed_today"`
	LastCheck      time.Time `json:"last_check"`
	NextCheck      time.Time `json:"next_check"`
	Message        string    `json:"message,omitempty"`
}

// PriceUpdate cambio de precio aplicado (o intentado) por el bot.
type PriceUpdate struct {
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	OldPrice        decimal.Decimal `json:"old_price"`
	NewPrice        decimal.Decimal `json:"new_price"`
	CompetitorPrice decimal.Decimal `json:"competitor_price"`
	Success         bool            `json:"success"`
	Reason          string          `json:"reason,omitempty"`
	Timestamp       time.Time       `json:"timestamp"`
}

// DemperError error reportado por el bot para un producto.
type DemperError struct {
	ProductID   string    `json:"product_id,omitempty"`
	ProductName string    `json:"product_name,omitempty"`
	Error       string    `json:"error"`
	Timestamp   time.Time `json:"timestamp"`
}

// Toast notificación visible para el usuario.
type Toast struct {
	StoreID string    `json:"store_id"`
	Level   string    `json:"level"` // success, error
	Title   string    `json:"title"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Niveles de toast.
const (
	ToastSuccess = "success"
	ToastError   = "error"
)

// DemperSnapshot estado expuesto del canal realtime de una tienda.
// Updates y Errors van del más reciente al más antiguo.
type DemperSnapshot struct {
	StoreID    string        `json:"store_id"`
	Connected  bool          `json:"connected"`
	Status     *DemperStatus `json:"status"`
	Updates    []PriceUpdate `json:"updates"`
	Errors     []DemperError `json:"errors"`
	Toasts     []Toast       `json:"toasts"`
	Reconnects int           `json:"reconnects"`
}
