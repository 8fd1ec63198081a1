package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Servidor gorilla real: envía estado y un cambio de precio, responde al ping y
// cierra con 1011 para forzar la reconexión.
func TestChannel_ContraServidorWebSocket(t *testing.T) {
	var pings atomic.Int32
	var path atomic.Value
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"connection_established"}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"demper_status","data":{"status":"running","active_products":3}}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"price_update","data":{"product_id":"p1","product_name":"Наушники","old_price":15000,"new_price":14990,"success":true}}`))

		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err == nil && strings.Contains(string(msg), `"ping"`) {
			pings.Add(1)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"pong"}`))
		}
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "restart"))
	}))
	defer srv.Close()

	timers := &fakeTimers{}
	wsBase := "ws" + strings.TrimPrefix(srv.URL, "http")
	ch := NewChannel(Options{
		StoreID:      "kz-store",
		URL:          StoreURL(wsBase, "kz-store"),
		PingInterval: 20 * time.Millisecond,
		Dialer:       NewGorillaDialer(time.Second),
		Logger:       zerolog.Nop(),
		AfterFunc:    timers.AfterFunc,
	})
	ch.Start()
	defer ch.Close()

	require.Eventually(t, func() bool { return timers.count() == 1 }, 3*time.Second, 10*time.Millisecond,
		"cierre 1011 programa una reconexión")

	snap := ch.Snapshot()
	assert.Equal(t, "/ws/demper/kz-store", path.Load())
	assert.Equal(t, int32(1), pings.Load(), "el cliente envía {\"type\":\"ping\"}")
	require.NotNil(t, snap.Status)
	assert.Equal(t, "running", snap.Status.Status)
	require.Len(t, snap.Updates, 1)
	assert.Equal(t, "14990", snap.Updates[0].NewPrice.String())
	assert.False(t, snap.Connected)
	assert.Equal(t, 5*time.Second, timers.delay(0))
}
