package dto

import "time"

// WhatsAppSessionResponse sesión con el gateway.
type WhatsAppSessionResponse struct {
	ID          string     `json:"id"`
	StoreID     string     `json:"store_id"`
	Status      string     `json:"status"`
	QRCode      string     `json:"qr_code,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	ConnectedAt *time.Time `json:"connected_at,omitempty"`
}

// CreateWhatsAppSessionRequest nueva sesión para una tienda.
type CreateWhatsAppSessionRequest struct {
	StoreID string `json:"store_id"`
}

// ConnectWhatsAppRequest simula el escaneo del QR.
type ConnectWhatsAppRequest struct {
	Phone string `json:"phone"`
}

// WhatsAppContactRequest alta/edición de contacto.
type WhatsAppContactRequest struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

// WhatsAppContactResponse salida de contacto.
type WhatsAppContactResponse struct {
	ID    string `json:"id"`
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

// SendWhatsAppMessageRequest mensaje saliente.
type SendWhatsAppMessageRequest struct {
	Phone string `json:"phone"`
	Body  string `json:"body"`
}

// WhatsAppMessageResponse salida de mensaje.
type WhatsAppMessageResponse struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	Direction string    `json:"direction"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
