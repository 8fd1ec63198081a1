package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/kaspi-panel-api/internal/application/dto"
	"github.com/jhoicas/kaspi-panel-api/internal/application/ports"
	"github.com/jhoicas/kaspi-panel-api/internal/domain"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/repository"
)

var _ ports.Notifier = (*WhatsAppUseCase)(nil)

// defaultChatHistory mensajes devueltos por chat.
const defaultChatHistory = 100

// WhatsAppConfig parámetros del gateway simulado.
type WhatsAppConfig struct {
	DeliveryDelay time.Duration
	NotifyDemper  bool
}

// WhatsAppUseCase gateway de WhatsApp simulado: sesión por tienda, contactos y chats.
type WhatsAppUseCase struct {
	repo   repository.WhatsAppRepository
	access StoreAccess
	cfg    WhatsAppConfig
	log    zerolog.Logger
	now    func() time.Time
	after  func(d time.Duration, f func())

	wg sync.WaitGroup
}

// NewWhatsAppUseCase construye el caso de uso.
func NewWhatsAppUseCase(repo repository.WhatsAppRepository, access StoreAccess, cfg WhatsAppConfig, log zerolog.Logger) *WhatsAppUseCase {
	return &WhatsAppUseCase{
		repo:   repo,
		access: access,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
		after:  func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
}

// normalizePhone deja solo dígitos con prefijo +. Menos de 10 dígitos es inválido.
func normalizePhone(s string) (string, error) {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < 10 || len(digits) > 15 {
		return "", domain.ErrInvalidInput
	}
	return "+" + digits, nil
}

// CreateSession abre (o reabre) la sesión de la tienda en estado qr_pending con un QR nuevo.
func (uc *WhatsAppUseCase) CreateSession(ctx context.Context, userID string, in dto.CreateWhatsAppSessionRequest) (*dto.WhatsAppSessionResponse, error) {
	store, err := uc.access.Authorize(ctx, userID, in.StoreID)
	if err != nil {
		return nil, err
	}
	if entity.IsDemoStoreID(store.ID) {
		return nil, domain.ErrDemoMode
	}
	now := uc.now()
	s, err := uc.repo.GetSessionByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	if s != nil {
		if s.Status == entity.WASessionConnected {
			resp := toWASessionResponse(s)
			return &resp, nil
		}
		s.Status = entity.WASessionQRPending
		s.QRCode = qrPayload(s.ID, now)
		s.UpdatedAt = now
		if err := uc.repo.UpdateSession(ctx, s); err != nil {
			return nil, err
		}
		resp := toWASessionResponse(s)
		return &resp, nil
	}
	s = &entity.WhatsAppSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		StoreID:   store.ID,
		Status:    entity.WASessionQRPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.QRCode = qrPayload(s.ID, now)
	if err := uc.repo.CreateSession(ctx, s); err != nil {
		return nil, err
	}
	resp := toWASessionResponse(s)
	return &resp, nil
}

// qrPayload contenido del QR simulado.
func qrPayload(sessionID string, at time.Time) string {
	raw := fmt.Sprintf("kaspi-panel-wa:%s:%d", sessionID, at.Unix())
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// session carga la sesión verificando el dueño.
func (uc *WhatsAppUseCase) session(ctx context.Context, userID, sessionID string) (*entity.WhatsAppSession, error) {
	s, err := uc.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if s.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return s, nil
}

// GetSession estado de la sesión.
func (uc *WhatsAppUseCase) GetSession(ctx context.Context, userID, sessionID string) (*dto.WhatsAppSessionResponse, error) {
	s, err := uc.session(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	resp := toWASessionResponse(s)
	return &resp, nil
}

// Connect simula el escaneo del QR: qr_pending -> connected.
func (uc *WhatsAppUseCase) Connect(ctx context.Context, userID, sessionID string, in dto.ConnectWhatsAppRequest) (*dto.WhatsAppSessionResponse, error) {
	phone, err := normalizePhone(in.Phone)
	if err != nil {
		return nil, err
	}
	s, err := uc.session(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Status != entity.WASessionQRPending {
		return nil, domain.ErrInvalidTransition
	}
	now := uc.now()
	s.Status = entity.WASessionConnected
	s.Phone = phone
	s.QRCode = ""
	s.ConnectedAt = &now
	s.UpdatedAt = now
	if err := uc.repo.UpdateSession(ctx, s); err != nil {
		return nil, err
	}
	uc.log.Info().Str("session_id", s.ID).Str("store_id", s.StoreID).Msg("whatsapp conectado")
	resp := toWASessionResponse(s)
	return &resp, nil
}

// Disconnect cierra la sesión; desconectar una sesión ya desconectada no es error.
func (uc *WhatsAppUseCase) Disconnect(ctx context.Context, userID, sessionID string) (*dto.WhatsAppSessionResponse, error) {
	s, err := uc.session(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Status != entity.WASessionDisconnected {
		s.Status = entity.WASessionDisconnected
		s.QRCode = ""
		s.ConnectedAt = nil
		s.UpdatedAt = uc.now()
		if err := uc.repo.UpdateSession(ctx, s); err != nil {
			return nil, err
		}
	}
	resp := toWASessionResponse(s)
	return &resp, nil
}

// UpsertContact alta o renombre de contacto.
func (uc *WhatsAppUseCase) UpsertContact(ctx context.Context, userID, sessionID string, in dto.WhatsAppContactRequest) (*dto.WhatsAppContactResponse, error) {
	phone, err := normalizePhone(in.Phone)
	if err != nil {
		return nil, err
	}
	s, err := uc.session(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	c := &entity.WhatsAppContact{
		ID:        uuid.New().String(),
		SessionID: s.ID,
		Phone:     phone,
		Name:      strings.TrimSpace(in.Name),
		CreatedAt: uc.now(),
	}
	if err := uc.repo.UpsertContact(ctx, c); err != nil {
		return nil, err
	}
	return &dto.WhatsAppContactResponse{ID: c.ID, Phone: c.Phone, Name: c.Name}, nil
}

// ListContacts contactos de la sesión.
func (uc *WhatsAppUseCase) ListContacts(ctx context.Context, userID, sessionID string) ([]dto.WhatsAppContactResponse, error) {
	s, err := uc.session(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.ListContacts(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WhatsAppContactResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.WhatsAppContactResponse{ID: c.ID, Phone: c.Phone, Name: c.Name})
	}
	return out, nil
}

// Send persiste el mensaje saliente como sent y lo marca delivered tras DeliveryDelay.
// Requiere sesión conectada.
func (uc *WhatsAppUseCase) Send(ctx context.Context, userID, sessionID string, in dto.SendWhatsAppMessageRequest) (*dto.WhatsAppMessageResponse, error) {
	phone, err := normalizePhone(in.Phone)
	if err != nil {
		return nil, err
	}
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, domain.ErrInvalidInput
	}
	s, err := uc.session(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	m, err := uc.send(ctx, s, phone, body)
	if err != nil {
		return nil, err
	}
	resp := toWAMessageResponse(m)
	return &resp, nil
}

func (uc *WhatsAppUseCase) send(ctx context.Context, s *entity.WhatsAppSession, phone, body string) (*entity.WhatsAppMessage, error) {
	if s.Status != entity.WASessionConnected {
		return nil, domain.ErrConflict
	}
	now := uc.now()
	if err := uc.repo.UpsertContact(ctx, &entity.WhatsAppContact{
		ID: uuid.New().String(), SessionID: s.ID, Phone: phone, CreatedAt: now,
	}); err != nil {
		return nil, err
	}
	m := &entity.WhatsAppMessage{
		ID:        uuid.New().String(),
		SessionID: s.ID,
		Phone:     phone,
		Direction: entity.WADirectionOutgoing,
		Body:      body,
		Status:    entity.WAMessageSent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.CreateMessage(ctx, m); err != nil {
		return nil, err
	}
	uc.scheduleDelivery(context.WithoutCancel(ctx), m.ID)
	return m, nil
}

func (uc *WhatsAppUseCase) scheduleDelivery(ctx context.Context, messageID string) {
	uc.wg.Add(1)
	uc.after(uc.cfg.DeliveryDelay, func() {
		defer uc.wg.Done()
		if err := uc.repo.UpdateMessageStatus(ctx, messageID, entity.WAMessageDelivered); err != nil {
			uc.log.Warn().Err(err).Str("message_id", messageID).Msg("no se pudo marcar entregado")
		}
	})
}

// Wait espera las entregas simuladas pendientes (apagado).
func (uc *WhatsAppUseCase) Wait() {
	uc.wg.Wait()
}

// Receive simula un mensaje entrante del cliente.
func (uc *WhatsAppUseCase) Receive(ctx context.Context, userID, sessionID string, in dto.SendWhatsAppMessageRequest) (*dto.WhatsAppMessageResponse, error) {
	phone, err := normalizePhone(in.Phone)
	if err != nil {
		return nil, err
	}
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, domain.ErrInvalidInput
	}
	s, err := uc.session(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Status != entity.WASessionConnected {
		return nil, domain.ErrConflict
	}
	now := uc.now()
	if err := uc.repo.UpsertContact(ctx, &entity.WhatsAppContact{
		ID: uuid.New().String(), SessionID: s.ID, Phone: phone, CreatedAt: now,
	}); err != nil {
		return nil, err
	}
	m := &entity.WhatsAppMessage{
		ID:        uuid.New().String(),
		SessionID: s.ID,
		Phone:     phone,
		Direction: entity.WADirectionIncoming,
		Body:      body,
		Status:    entity.WAMessageReceived,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.CreateMessage(ctx, m); err != nil {
		return nil, err
	}
	resp := toWAMessageResponse(m)
	return &resp, nil
}

// Messages historial de un chat, del más antiguo al más reciente.
func (uc *WhatsAppUseCase) Messages(ctx context.Context, userID, sessionID, phone string, limit int) ([]dto.WhatsAppMessageResponse, error) {
	p, err := normalizePhone(phone)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = defaultChatHistory
	}
	s, err := uc.session(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.ListMessages(ctx, s.ID, p, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WhatsAppMessageResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toWAMessageResponse(m))
	}
	return out, nil
}

// Notify reenvía los toasts del price-bot al propio número del vendedor si su sesión
// está conectada. Desactivado salvo NotifyDemper.
func (uc *WhatsAppUseCase) Notify(ctx context.Context, t entity.Toast) {
	if !uc.cfg.NotifyDemper || t.StoreID == "" {
		return
	}
	s, err := uc.repo.GetSessionByStore(ctx, t.StoreID)
	if err != nil {
		uc.log.Warn().Err(err).Str("store_id", t.StoreID).Msg("notify: sesión whatsapp")
		return
	}
	if s == nil || s.Status != entity.WASessionConnected || s.Phone == "" {
		return
	}
	body := t.Title
	if t.Message != "" {
		body += ": " + t.Message
	}
	if _, err := uc.send(ctx, s, s.Phone, body); err != nil {
		uc.log.Warn().Err(err).Str("store_id", t.StoreID).Msg("notify: envío whatsapp")
	}
}

func toWASessionResponse(s *entity.WhatsAppSession) dto.WhatsAppSessionResponse {
	return dto.WhatsAppSessionResponse{
		ID:          s.ID,
		StoreID:     s.StoreID,
		Status:      s.Status,
		QRCode:      s.QRCode,
		Phone:       s.Phone,
		ConnectedAt: s.ConnectedAt,
	}
}

func toWAMessageResponse(m *entity.WhatsAppMessage) dto.WhatsAppMessageResponse {
	return dto.WhatsAppMessageResponse{
		ID:        m.ID,
		Phone:     m.Phone,
		Direction: m.Direction,
		Body:      m.Body,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
	}
}
