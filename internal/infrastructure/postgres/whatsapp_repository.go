package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kaspi-panel-api/internal/domain"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/repository"
)

var _ repository.WhatsAppRepository = (*WhatsAppRepo)(nil)

// WhatsAppRepo whatsapp_sessions, whatsapp_contacts y whatsapp_messages.
type WhatsAppRepo struct {
	q Querier
}

// NewWhatsAppRepository construye el adaptador.
func NewWhatsAppRepository(q Querier) *WhatsAppRepo {
	return &WhatsAppRepo{q: q}
}

const sessionColumns = `id, user_id, store_id, status, qr_code, phone, connected_at, created_at, updated_at`

func scanSession(row pgx.Row) (*entity.WhatsAppSession, error) {
	var s entity.WhatsAppSession
	if err := row.Scan(&s.ID, &s.UserID, &s.StoreID, &s.Status, &s.QRCode, &s.Phone, &s.ConnectedAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *WhatsAppRepo) CreateSession(ctx context.Context, s *entity.WhatsAppSession) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO whatsapp_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.UserID, s.StoreID, s.Status, s.QRCode, s.Phone, s.ConnectedAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert whatsapp_session: %w", err)
	}
	return nil
}

func (r *WhatsAppRepo) GetSession(ctx context.Context, id string) (*entity.WhatsAppSession, error) {
	s, err := scanSession(r.q.QueryRow(ctx, `SELECT `+sessionColumns+` FROM whatsapp_sessions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get whatsapp_session: %w", err)
	}
	return s, nil
}

// GetSessionByStore sesión vigente de la tienda (una por tienda).
func (r *WhatsAppRepo) GetSessionByStore(ctx context.Context, storeID string) (*entity.WhatsAppSession, error) {
	s, err := scanSession(r.q.QueryRow(ctx, `SELECT `+sessionColumns+` FROM whatsapp_sessions WHERE store_id = $1`, storeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get whatsapp_session by store: %w", err)
	}
	return s, nil
}

func (r *WhatsAppRepo) UpdateSession(ctx context.Context, s *entity.WhatsAppSession) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE whatsapp_sessions SET status = $2, qr_code = $3, phone = $4, connected_at = $5, updated_at = $6
		WHERE id = $1`,
		s.ID, s.Status, s.QRCode, s.Phone, s.ConnectedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update whatsapp_session: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpsertContact por (session_id, phone); un nombre vacío no pisa el existente.
func (r *WhatsAppRepo) UpsertContact(ctx context.Context, c *entity.WhatsAppContact) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO whatsapp_contacts (id, session_id, phone, name, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id, phone) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), whatsapp_contacts.name)
		RETURNING id, name, created_at`,
		c.ID, c.SessionID, c.Phone, c.Name, c.CreatedAt,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("upsert whatsapp_contact: %w", err)
	}
	return nil
}

func (r *WhatsAppRepo) ListContacts(ctx context.Context, sessionID string) ([]*entity.WhatsAppContact, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, session_id, phone, name, created_at
		FROM whatsapp_contacts WHERE session_id = $1 ORDER BY name, phone`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list whatsapp_contacts: %w", err)
	}
	defer rows.Close()
	var list []*entity.WhatsAppContact
	for rows.Next() {
		var c entity.WhatsAppContact
		if err := rows.Scan(&c.ID, &c.SessionID, &c.Phone, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan whatsapp_contact: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func (r *WhatsAppRepo) CreateMessage(ctx context.Context, m *entity.WhatsAppMessage) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO whatsapp_messages (id, session_id, phone, direction, body, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.SessionID, m.Phone, m.Direction, m.Body, m.Status, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert whatsapp_message: %w", err)
	}
	return nil
}

func (r *WhatsAppRepo) UpdateMessageStatus(ctx context.Context, id, status string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE whatsapp_messages SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update whatsapp_message: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListMessages historial del chat en orden cronológico (los últimos limit).
func (r *WhatsAppRepo) ListMessages(ctx context.Context, sessionID, phone string, limit int) ([]*entity.WhatsAppMessage, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, session_id, phone, direction, body, status, created_at, updated_at FROM (
			SELECT * FROM whatsapp_messages
			WHERE session_id = $1 AND phone = $2
			ORDER BY created_at DESC LIMIT $3
		) last ORDER BY created_at ASC`, sessionID, phone, limit)
	if err != nil {
		return nil, fmt.Errorf("list whatsapp_messages: %w", err)
	}
	defer rows.Close()
	var list []*entity.WhatsAppMessage
	for rows.Next() {
		var m entity.WhatsAppMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Phone, &m.Direction, &m.Body, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan whatsapp_message: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
