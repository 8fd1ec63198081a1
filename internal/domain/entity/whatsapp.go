package entity

import "time"

// Estados de sesión WhatsApp (gateway simulado).
const (
	WASessionQRPending    = "qr_pending"
	WASessionConnected    = "connected"
	WASessionDisconnected = "disconnected"
)

// Estados y direcciones de mensaje.
const (
	WAMessageSent      = "sent"
	WAMessageDelivered = "delivered"
	WAMessageReceived  = "received"

	WADirectionOutgoing = "outgoing"
	WADirectionIncoming = "incoming"
)

// WhatsAppSession sesión del vendedor con el gateway (tabla whatsapp_sessions).
type WhatsAppSession struct {
	ID          string
	UserID      string
	StoreID     string
	Status      string
	QRCode      string
	Phone       string
	ConnectedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WhatsAppContact contacto (cliente) del vendedor.
type WhatsAppContact struct {
	ID        string
	SessionID string
	Phone     string
	Name      string
	CreatedAt time.Time
}

// WhatsAppMessage mensaje de un chat (tabla whatsapp_messages).
type WhatsAppMessage struct {
	ID        string
	SessionID string
	Phone     string // chat = teléfono del contacto
	Direction string
	Body      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
