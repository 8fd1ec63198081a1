package realtime

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
)

const testStoreID = "store-42"

func newTestChannel(d Dialer, timers *fakeTimers, n *recordingNotifier) *Channel {
	return NewChannel(Options{
		StoreID:        testStoreID,
		URL:            StoreURL("ws://demper.test", testStoreID),
		PingInterval:   time.Hour,
		ReconnectDelay: 5 * time.Second,
		Dialer:         d,
		Notifier:       n,
		Logger:         zerolog.Nop(),
		AfterFunc:      timers.AfterFunc,
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial acotado
// ──────────────────────────────────────────────────────────────────────────────

func TestChannel_PriceUpdates_MaximoCincuentaMasRecientePrimero(t *testing.T) {
	n := &recordingNotifier{}
	ch := newTestChannel(newFakeDialer(), &fakeTimers{}, n)

	for i := 0; i < 60; i++ {
		ch.handleMessage([]byte(fmt.Sprintf(
			`{"type":"price_update","data":{"product_id":"p%d","product_name":"P%d","old_price":1000,"new_price":990,"success":true}}`, i, i)))
		snap := ch.Snapshot()
		require.LessOrEqual(t, len(snap.Updates), 50, "la lista nunca supera 50 entradas")
	}

	snap := ch.Snapshot()
	require.Len(t, snap.Updates, 50)
	assert.Equal(t, "p59", snap.Updates[0].ProductID, "el más reciente va primero")
	assert.Equal(t, "p10", snap.Updates[49].ProductID, "se descartan los más antiguos")
	assert.Len(t, n.all(), 60, "cada price_update genera un toast")
	assert.Equal(t, entity.ToastSuccess, n.all()[0].Level)
}

func TestChannel_Errores_MaximoVeinteMasRecientePrimero(t *testing.T) {
	ch := newTestChannel(newFakeDialer(), &fakeTimers{}, &recordingNotifier{})

	for i := 0; i < 25; i++ {
		ch.handleMessage([]byte(fmt.Sprintf(`{"type":"demper_error","data":{"product_id":"p%d","error":"timeout %d"}}`, i, i)))
	}

	snap := ch.Snapshot()
	require.Len(t, snap.Errors, 20)
	assert.Equal(t, "p24", snap.Errors[0].ProductID)
	assert.Equal(t, "p5", snap.Errors[19].ProductID)
	assert.False(t, snap.Errors[0].Timestamp.IsZero(), "sin timestamp se usa la hora local")
}

func TestChannel_ErrorBenignoNoGeneraToast(t *testing.T) {
	n := &recordingNotifier{}
	ch := newTestChannel(newFakeDialer(), &fakeTimers{}, n)

	ch.handleMessage([]byte(`{"type":"demper_error","data":{"product_name":"Чехол","error":"No competitors found for product"}}`))
	ch.handleMessage([]byte(`{"type":"demper_error","data":{"product_name":"Чехол","error":"Kaspi API 502"}}`))

	snap := ch.Snapshot()
	assert.Len(t, snap.Errors, 2, "el error benigno sí queda en el historial")
	toasts := n.all()
	require.Len(t, toasts, 1, "solo el error no benigno llega como toast")
	assert.Equal(t, "Чехол: Kaspi API 502", toasts[0].Message)
}

func TestChannel_PriceUpdateFallidoEsToastDeError(t *testing.T) {
	n := &recordingNotifier{}
	ch := newTestChannel(newFakeDialer(), &fakeTimers{}, n)

	ch.handleMessage([]byte(`{"type":"price_update","product_name":"X","old_price":"100","new_price":"90","success":false,"reason":"min profit"}`))

	toasts := n.all()
	require.Len(t, toasts, 1)
	assert.Equal(t, entity.ToastError, toasts[0].Level)
	assert.Contains(t, toasts[0].Message, "min profit")
}

func TestChannel_StatusReemplazaAlAnterior(t *testing.T) {
	ch := newTestChannel(newFakeDialer(), &fakeTimers{}, &recordingNotifier{})

	ch.handleMessage([]byte(`{"type":"demper_status","data":{"status":"running","active_products":10}}`))
	ch.handleMessage([]byte(`{"type":"demper_status","data":{"status":"stopped","active_products":0}}`))
	ch.handleMessage([]byte(`{"type":"pong"}`))
	ch.handleMessage([]byte(`no-json`))
	ch.handleMessage([]byte(`{"type":"desconocido"}`))

	snap := ch.Snapshot()
	require.NotNil(t, snap.Status)
	assert.Equal(t, "stopped", snap.Status.Status)
	assert.Equal(t, testStoreID, snap.Status.StoreID, "store_id por defecto es el del canal")
}

func TestIsBenign(t *testing.T) {
	assert.True(t, IsBenign("NO COMPETITORS"))
	assert.True(t, IsBenign("Нет конкурентов для товара"))
	assert.False(t, IsBenign("rate limited"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconexión
// ──────────────────────────────────────────────────────────────────────────────

func TestChannel_CierreNormalNoReconecta(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := newFakeDialer()
	timers := &fakeTimers{}
	ch := newTestChannel(d, timers, &recordingNotifier{})
	ch.Start()

	conn := <-d.conns
	require.Eventually(t, func() bool { return ch.Snapshot().Connected }, time.Second, 5*time.Millisecond)

	conn.closeWith(websocket.CloseNormalClosure)

	require.Eventually(t, func() bool { return !ch.Snapshot().Connected }, time.Second, 5*time.Millisecond)
	require.Never(t, func() bool { return timers.count() > 0 }, 100*time.Millisecond, 10*time.Millisecond,
		"un cierre 1000 nunca programa reconexión")
	assert.Equal(t, 1, d.dialCount())

	ch.Close()
}

func TestChannel_CierreAnormalProgramaUnaReconexionA5s(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := newFakeDialer()
	timers := &fakeTimers{}
	ch := newTestChannel(d, timers, &recordingNotifier{})
	ch.Start()

	conn := <-d.conns
	conn.closeWith(websocket.CloseGoingAway)

	require.Eventually(t, func() bool { return timers.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 5*time.Second, timers.delay(0))
	require.Never(t, func() bool { return timers.count() > 1 }, 50*time.Millisecond, 10*time.Millisecond,
		"exactamente un intento por cierre")

	timers.fire(0)
	second := <-d.conns
	require.Eventually(t, func() bool { return ch.Snapshot().Connected }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, d.dialCount())
	assert.Equal(t, 1, ch.Snapshot().Reconnects)

	ch.Close()
	assert.Equal(t, websocket.CloseNormalClosure, second.sentCloseCode(), "el teardown cierra con 1000")
}

func TestChannel_CaidaDeRedSinFrameReconecta(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := newFakeDialer()
	timers := &fakeTimers{}
	ch := newTestChannel(d, timers, &recordingNotifier{})
	ch.Start()

	conn := <-d.conns
	conn.in <- frame{err: errors.New("connection reset by peer")}

	require.Eventually(t, func() bool { return timers.count() == 1 }, time.Second, 5*time.Millisecond)
	ch.Close()
	timers.fire(0) // cancelado por Close: no debe marcar
	assert.Equal(t, 1, d.dialCount())
}

func TestChannel_TechoDeReintentosConsecutivos(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := newFakeDialer()
	d.setErr(errors.New("dial refused"))
	timers := &fakeTimers{}
	ch := NewChannel(Options{
		StoreID:       testStoreID,
		URL:           "ws://demper.test/ws/demper/" + testStoreID,
		MaxReconnects: 2,
		Dialer:        d,
		Logger:        zerolog.Nop(),
		AfterFunc:     timers.AfterFunc,
	})
	ch.Start()

	require.Eventually(t, func() bool { return timers.count() == 1 }, time.Second, 5*time.Millisecond)
	timers.fire(0)
	require.Equal(t, 2, timers.count())
	timers.fire(1)

	assert.Equal(t, 3, d.dialCount())
	assert.Equal(t, 2, timers.count(), "tras superar el techo no se programa otra reconexión")

	ch.Close()
}

func TestChannel_CloseCancelaReconexionPendiente(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := newFakeDialer()
	d.setErr(errors.New("dial refused"))
	timers := &fakeTimers{}
	ch := newTestChannel(d, timers, &recordingNotifier{})
	ch.Start()
	require.Eventually(t, func() bool { return timers.count() == 1 }, time.Second, 5*time.Millisecond)

	ch.Close()
	ch.Close() // idempotente

	timers.fire(0)
	assert.Equal(t, 1, d.dialCount(), "el timer cancelado no vuelve a conectar")
}

func TestChannel_ReviveTrasTecho(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := newFakeDialer()
	d.setErr(errors.New("dial refused"))
	timers := &fakeTimers{}
	ch := NewChannel(Options{
		StoreID:       testStoreID,
		URL:           StoreURL("ws://demper.test", testStoreID),
		PingInterval:  time.Hour,
		MaxReconnects: 1,
		Dialer:        d,
		Logger:        zerolog.Nop(),
		AfterFunc:     timers.AfterFunc,
	})
	ch.Start()
	require.Eventually(t, func() bool { return timers.count() == 1 }, time.Second, 5*time.Millisecond)
	timers.fire(0)
	require.Equal(t, 2, d.dialCount())
	require.Equal(t, 1, timers.count(), "canal detenido en el techo")

	d.setErr(nil)
	assert.True(t, ch.Revive())
	<-d.conns
	require.Eventually(t, func() bool { return ch.Snapshot().Connected }, time.Second, 5*time.Millisecond)
	assert.False(t, ch.Revive(), "un canal conectado no se reactiva")

	ch.Close()
	assert.False(t, ch.Revive(), "un canal cerrado no se reactiva")
}

func TestChannel_ReviveTrasCierreNormal(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := newFakeDialer()
	timers := &fakeTimers{}
	ch := newTestChannel(d, timers, &recordingNotifier{})
	ch.Start()

	conn := <-d.conns
	conn.closeWith(websocket.CloseNormalClosure)
	require.Eventually(t, func() bool { return !ch.Snapshot().Connected }, time.Second, 5*time.Millisecond)

	require.Eventually(t, ch.Revive, time.Second, 5*time.Millisecond)
	<-d.conns
	require.Eventually(t, func() bool { return ch.Snapshot().Connected }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, d.dialCount())
	assert.Zero(t, timers.count())

	ch.Close()
}
