package repository

import (
	"context"

	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
)

// WhatsAppRepository define el puerto de persistencia para whatsapp_sessions/messages/contacts.
type WhatsAppRepository interface {
	CreateSession(ctx context.Context, s *entity.WhatsAppSession) error
	GetSession(ctx context.Context, id string) (*entity.WhatsAppSession, error)
	GetSessionByStore(ctx context.Context, storeID string) (*entity.WhatsAppSession, error)
	UpdateSession(ctx context.Context, s *entity.WhatsAppSession) error

	UpsertContact(ctx context.Context, c *entity.WhatsAppContact) error
	ListContacts(ctx context.Context, sessionID string) ([]*entity.WhatsAppContact, error)

	CreateMessage(ctx context.Context, m *entity.WhatsAppMessage) error
	UpdateMessageStatus(ctx context.Context, id, status string) error
	ListMessages(ctx context.Context, sessionID, phone string, limit int) ([]*entity.WhatsAppMessage, error)
}
