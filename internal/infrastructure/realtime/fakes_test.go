package realtime

import (
	"context"
	"encoding/binary"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
)

var errConnClosed = errors.New("use of closed network connection")

type frame struct {
	data []byte
	err  error
}

// fakeConn conexión en memoria: el test empuja frames y lee lo escrito.
type fakeConn struct {
	in        chan frame
	closed    chan struct{}
	closeOnce sync.Once

	mu          sync.Mutex
	writes      [][]byte
	closeFrames [][]byte
}

func newFakeConn() *fakeConn {
	return &fakeConn{in: make(chan frame, 128), closed: make(chan struct{})}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case fr := <-f.in:
		if fr.err != nil {
			return 0, nil, fr.err
		}
		return websocket.TextMessage, fr.data, nil
	case <-f.closed:
		return 0, nil, errConnClosed
	}
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, append([]byte{}, data...))
	return nil
}

func (f *fakeConn) WriteControl(messageType int, data []byte, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if messageType == websocket.CloseMessage {
		f.closeFrames = append(f.closeFrames, append([]byte{}, data...))
	}
	return nil
}

func (f *fakeConn) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) push(msg string) { f.in <- frame{data: []byte(msg)} }

func (f *fakeConn) closeWith(code int) {
	f.in <- frame{err: &websocket.CloseError{Code: code}}
}

// sentCloseCode código del frame de cierre enviado por el cliente; -1 si no hubo.
func (f *fakeConn) sentCloseCode() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.closeFrames) == 0 || len(f.closeFrames[0]) < 2 {
		return -1
	}
	return int(binary.BigEndian.Uint16(f.closeFrames[0][:2]))
}

// fakeDialer entrega una fakeConn nueva por cada Dial (o falla si err != nil).
type fakeDialer struct {
	mu    sync.Mutex
	err   error
	dials int
	conns chan *fakeConn
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{conns: make(chan *fakeConn, 16)}
}

func (d *fakeDialer) Dial(ctx context.Context, _ string, _ http.Header) (Conn, error) {
	d.mu.Lock()
	d.dials++
	err := d.err
	d.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	c := newFakeConn()
	d.conns <- c
	return c, nil
}

func (d *fakeDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

func (d *fakeDialer) setErr(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
}

// fakeTimers registra las reconexiones programadas; el test decide cuándo dispararlas.
type fakeTimers struct {
	mu        sync.Mutex
	scheduled []*fakeTimer
}

type fakeTimer struct {
	owner   *fakeTimers
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (ft *fakeTimers) AfterFunc(d time.Duration, f func()) Timer {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	t := &fakeTimer{owner: ft, d: d, f: f}
	ft.scheduled = append(ft.scheduled, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (ft *fakeTimers) count() int {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return len(ft.scheduled)
}

func (ft *fakeTimers) delay(i int) time.Duration {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return ft.scheduled[i].d
}

// fire ejecuta el timer i de forma síncrona si no fue cancelado.
func (ft *fakeTimers) fire(i int) {
	ft.mu.Lock()
	t := ft.scheduled[i]
	if t.stopped || t.fired {
		ft.mu.Unlock()
		return
	}
	t.fired = true
	ft.mu.Unlock()
	t.f()
}

// recordingNotifier guarda los toasts recibidos.
type recordingNotifier struct {
	mu     sync.Mutex
	toasts []entity.Toast
}

func (n *recordingNotifier) Notify(_ context.Context, t entity.Toast) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, t)
}

func (n *recordingNotifier) all() []entity.Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]entity.Toast{}, n.toasts...)
}
