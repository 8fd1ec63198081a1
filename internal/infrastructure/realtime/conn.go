// Package realtime mantiene el canal WebSocket del price-bot (demper) por tienda:
// ping periódico, una reconexión programada por cierre inesperado y un historial
// acotado de actualizaciones de precio y errores.
package realtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Códigos de cierre relevantes (RFC 6455).
const (
	CloseNormal   = websocket.CloseNormalClosure   // 1000: no reconecta
	CloseAbnormal = websocket.CloseAbnormalClosure // 1006: caída de red sin frame de cierre
)

// Conn subconjunto de *websocket.Conn que usa el canal.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// Dialer abre una conexión WebSocket.
type Dialer interface {
	Dial(ctx context.Context, url string, header http.Header) (Conn, error)
}

// GorillaDialer adaptador de websocket.Dialer.
type GorillaDialer struct {
	d *websocket.Dialer
}

// NewGorillaDialer construye el dialer con timeout de handshake.
func NewGorillaDialer(handshakeTimeout time.Duration) *GorillaDialer {
	d := *websocket.DefaultDialer
	d.HandshakeTimeout = handshakeTimeout
	return &GorillaDialer{d: &d}
}

// Dial implementa Dialer.
func (g *GorillaDialer) Dial(ctx context.Context, url string, header http.Header) (Conn, error) {
	conn, resp, err := g.d.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("ws dial %s: HTTP %d: %w", url, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("ws dial %s: %w", url, err)
	}
	return conn, nil
}

// closeCode extrae el código de cierre del error de lectura; 1006 si no hubo frame de cierre.
func closeCode(err error) int {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return CloseAbnormal
}

// Timer temporizador cancelable (time.Timer en producción).
type Timer interface {
	Stop() bool
}

// AfterFunc programa f tras d. Inyectable para tests.
type AfterFunc func(d time.Duration, f func()) Timer

func defaultAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
