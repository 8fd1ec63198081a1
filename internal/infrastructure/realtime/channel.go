package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/jhoicas/kaspi-panel-api/internal/application/ports"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
)

// Tipos de mensaje emitidos por /ws/demper/{store_id}.
const (
	MsgStatus                = "demper_status"
	MsgPriceUpdate           = "price_update"
	MsgError                 = "demper_error"
	MsgConnectionEstablished = "connection_established"
	MsgPong                  = "pong"
)

var pingFrame = []byte(`{"type":"ping"}`)

// benignErrors errores esperables del bot que no se muestran como toast.
var benignErrors = []string{
	"no competitors",
	"competitors not found",
	"нет конкурентов",
	"sin competidores",
}

// IsBenign informa si el mensaje de error del bot es una condición conocida sin acción del usuario.
func IsBenign(msg string) bool {
	m := strings.ToLower(msg)
	for _, b := range benignErrors {
		if strings.Contains(m, b) {
			return true
		}
	}
	return false
}

// StoreURL construye la URL del socket de una tienda.
func StoreURL(wsBase, storeID string) string {
	return strings.TrimRight(wsBase, "/") + "/ws/demper/" + url.PathEscape(storeID)
}

// Options parámetros del canal. Los ceros toman los valores por defecto de NewChannel.
type Options struct {
	StoreID        string
	URL            string
	Header         http.Header
	PingInterval   time.Duration
	ReconnectDelay time.Duration
	MaxReconnects  int // fallos consecutivos de conexión tolerados; 0 = sin techo
	UpdatesCap     int
	ErrorsCap      int
	ToastsCap      int
	Dialer         Dialer
	Notifier       ports.Notifier
	Logger         zerolog.Logger
	AfterFunc      AfterFunc
	Now            func() time.Time
}

// Channel conexión WebSocket de una tienda con el price-bot.
//
// Un cierre con código 1000 no reconecta. Cualquier otro cierre (o fallo al
// conectar) programa exactamente una reconexión tras ReconnectDelay.
type Channel struct {
	opts   Options
	log    zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	writeMu sync.Mutex // gorilla admite un solo escritor concurrente

	mu         sync.Mutex
	conn       Conn
	closed     bool
	connected  bool
	stopped    bool  // cierre 1000 del servidor o techo de reintentos; solo Revive reconecta
	timer      Timer // reconexión pendiente
	failures   int
	reconnects int
	status     *entity.DemperStatus
	updates    []entity.PriceUpdate
	errs       []entity.DemperError
	toasts     []entity.Toast
}

// NewChannel construye el canal sin conectar; llamar Start.
func NewChannel(opts Options) *Channel {
	if opts.PingInterval <= 0 {
		opts.PingInterval = 30 * time.Second
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = 5 * time.Second
	}
	if opts.UpdatesCap <= 0 {
		opts.UpdatesCap = 50
	}
	if opts.ErrorsCap <= 0 {
		opts.ErrorsCap = 20
	}
	if opts.ToastsCap <= 0 {
		opts.ToastsCap = 20
	}
	if opts.Dialer == nil {
		opts.Dialer = NewGorillaDialer(10 * time.Second)
	}
	if opts.Notifier == nil {
		opts.Notifier = MultiNotifier(nil)
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = defaultAfterFunc
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Channel{
		opts:   opts,
		log:    opts.Logger.With().Str("store_id", opts.StoreID).Logger(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start conecta en segundo plano.
func (c *Channel) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.connect()
	}()
}

func (c *Channel) connect() {
	conn, err := c.opts.Dialer.Dial(c.ctx, c.opts.URL, c.opts.Header)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		c.failures++
		failures := c.failures
		c.mu.Unlock()
		c.log.Warn().Err(err).Int("failures", failures).Msg("no se pudo conectar al canal del demper")
		c.scheduleReconnect(CloseAbnormal)
		return
	}
	c.conn = conn
	c.connected = true
	c.failures = 0
	done := make(chan struct{})
	c.wg.Add(2)
	c.mu.Unlock()

	c.log.Info().Str("url", c.opts.URL).Msg("canal del demper conectado")
	go c.readLoop(conn, done)
	go c.pingLoop(conn, done)
}

// scheduleReconnect programa un único intento de reconexión si el cierre no fue normal.
func (c *Channel) scheduleReconnect(code int) {
	if code == CloseNormal {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.timer != nil {
		return
	}
	if c.opts.MaxReconnects > 0 && c.failures > c.opts.MaxReconnects {
		c.stopped = true
		c.log.Error().Int("failures", c.failures).Msg("máximo de reconexiones alcanzado, canal detenido")
		return
	}
	c.reconnects++
	c.wg.Add(1)
	c.timer = c.opts.AfterFunc(c.opts.ReconnectDelay, func() {
		defer c.wg.Done()
		c.mu.Lock()
		c.timer = nil
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return
		}
		c.connect()
	})
	c.log.Info().Int("code", code).Dur("delay", c.opts.ReconnectDelay).Msg("reconexión programada")
}

func (c *Channel) readLoop(conn Conn, done chan struct{}) {
	defer c.wg.Done()
	defer close(done)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleClose(conn, err)
			return
		}
		c.handleMessage(data)
	}
}

func (c *Channel) handleClose(conn Conn, err error) {
	code := closeCode(err)

	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
		c.connected = false
	}
	if code == CloseNormal {
		c.stopped = true
	}
	closed := c.closed
	c.mu.Unlock()
	_ = conn.Close()

	if closed {
		return
	}
	if code == CloseNormal {
		c.log.Info().Msg("canal del demper cerrado normalmente")
		return
	}
	c.log.Warn().Err(err).Int("code", code).Msg("canal del demper cerrado inesperadamente")
	c.scheduleReconnect(code)
}

func (c *Channel) pingLoop(conn Conn, done <-chan struct{}) {
	defer c.wg.Done()
	t := time.NewTicker(c.opts.PingInterval)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-c.ctx.Done():
			return
		case <-t.C:
			if err := c.write(conn, websocket.TextMessage, pingFrame); err != nil {
				c.log.Debug().Err(err).Msg("ping fallido")
				return
			}
		}
	}
}

func (c *Channel) write(conn Conn, messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteMessage(messageType, data)
}

// Revive reconecta un canal detenido y reinicia el contador de fallos.
// Devuelve false si el canal está vivo, reconectando o cerrado.
func (c *Channel) Revive() bool {
	c.mu.Lock()
	if c.closed || !c.stopped {
		c.mu.Unlock()
		return false
	}
	c.stopped = false
	c.failures = 0
	c.mu.Unlock()

	c.log.Info().Msg("canal del demper reactivado")
	c.Start()
	return true
}

// Close cierra con código 1000, cancela timers y espera a las goroutines.
func (c *Channel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.timer != nil {
		if c.timer.Stop() {
			c.wg.Done()
		}
		c.timer = nil
	}
	conn := c.conn
	c.conn = nil
	c.connected = false
	c.mu.Unlock()

	c.cancel()
	if conn != nil {
		msg := websocket.FormatCloseMessage(CloseNormal, "")
		c.writeMu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.writeMu.Unlock()
		_ = conn.Close()
	}
	c.wg.Wait()
	c.log.Debug().Msg("canal del demper cerrado")
}

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// handleMessage procesa un frame de texto. El payload va en "data" o en el propio objeto.
func (c *Channel) handleMessage(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log.Debug().Err(err).Msg("mensaje del demper no es JSON")
		return
	}
	payload := []byte(env.Data)
	if len(payload) == 0 || string(payload) == "null" {
		payload = raw
	}

	switch env.Type {
	case MsgStatus:
		var st entity.DemperStatus
		if err := json.Unmarshal(payload, &st); err != nil {
			c.log.Debug().Err(err).Msg("demper_status inválido")
			return
		}
		if st.StoreID == "" {
			st.StoreID = c.opts.StoreID
		}
		c.mu.Lock()
		c.status = &st
		c.mu.Unlock()

	case MsgPriceUpdate:
		var u entity.PriceUpdate
		if err := json.Unmarshal(payload, &u); err != nil {
			c.log.Debug().Err(err).Msg("price_update inválido")
			return
		}
		if u.Timestamp.IsZero() {
			u.Timestamp = c.opts.Now()
		}
		t := c.priceUpdateToast(u)
		c.mu.Lock()
		c.updates = prepend(c.updates, u, c.opts.UpdatesCap)
		c.toasts = prepend(c.toasts, t, c.opts.ToastsCap)
		c.mu.Unlock()
		c.opts.Notifier.Notify(c.ctx, t)

	case MsgError:
		var e entity.DemperError
		if err := json.Unmarshal(payload, &e); err != nil {
			c.log.Debug().Err(err).Msg("demper_error inválido")
			return
		}
		if e.Timestamp.IsZero() {
			e.Timestamp = c.opts.Now()
		}
		benign := IsBenign(e.Error)
		var t entity.Toast
		if !benign {
			t = c.errorToast(e)
		}
		c.mu.Lock()
		c.errs = prepend(c.errs, e, c.opts.ErrorsCap)
		if !benign {
			c.toasts = prepend(c.toasts, t, c.opts.ToastsCap)
		}
		c.mu.Unlock()
		if !benign {
			c.opts.Notifier.Notify(c.ctx, t)
		}

	case MsgConnectionEstablished:
		c.log.Debug().Msg("conexión confirmada por el servidor")

	case MsgPong:
		c.log.Trace().Msg("pong")

	default:
		c.log.Debug().Str("type", env.Type).Msg("tipo de mensaje desconocido")
	}
}

func (c *Channel) priceUpdateToast(u entity.PriceUpdate) entity.Toast {
	if u.Success {
		return entity.Toast{
			StoreID: c.opts.StoreID,
			Level:   entity.ToastSuccess,
			Title:   "Precio actualizado",
			Message: fmt.Sprintf("%s: %s → %s ₸", u.ProductName, u.OldPrice.String(), u.NewPrice.String()),
			At:      u.Timestamp,
		}
	}
	msg := u.Reason
	if msg == "" {
		msg = "no se pudo cambiar el precio"
	}
	return entity.Toast{
		StoreID: c.opts.StoreID,
		Level:   entity.ToastError,
		Title:   "Error al actualizar precio",
		Message: fmt.Sprintf("%s: %s", u.ProductName, msg),
		At:      u.Timestamp,
	}
}

func (c *Channel) errorToast(e entity.DemperError) entity.Toast {
	msg := e.Error
	if e.ProductName != "" {
		msg = e.ProductName + ": " + msg
	}
	return entity.Toast{
		StoreID: c.opts.StoreID,
		Level:   entity.ToastError,
		Title:   "Error del demper",
		Message: msg,
		At:      e.Timestamp,
	}
}

// prepend inserta item al inicio y recorta a limit elementos.
func prepend[T any](list []T, item T, limit int) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, item)
	out = append(out, list...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Snapshot copia el estado actual del canal.
func (c *Channel) Snapshot() entity.DemperSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := entity.DemperSnapshot{
		StoreID:    c.opts.StoreID,
		Connected:  c.connected,
		Updates:    append([]entity.PriceUpdate{}, c.updates...),
		Errors:     append([]entity.DemperError{}, c.errs...),
		Toasts:     append([]entity.Toast{}, c.toasts...),
		Reconnects: c.reconnects,
	}
	if c.status != nil {
		st := *c.status
		snap.Status = &st
	}
	return snap
}
