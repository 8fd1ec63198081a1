package realtime

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/kaspi-panel-api/internal/application/ports"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
)

var _ ports.DemperFeed = (*Hub)(nil)

// ChannelFactory crea (sin iniciar) el canal de una tienda.
type ChannelFactory func(storeID string) *Channel

// Hub mantiene una sola conexión por tienda seleccionada, compartida entre los
// usuarios que la tienen seleccionada. Cambiar de tienda libera la anterior y
// la cierra con código 1000 cuando nadie más la usa.
type Hub struct {
	newChannel ChannelFactory
	log        zerolog.Logger

	mu        sync.Mutex
	channels  map[string]*hubEntry
	selection map[string]string // userID -> storeID
}

type hubEntry struct {
	ch   *Channel
	refs int
}

// NewHub construye el hub.
func NewHub(factory ChannelFactory, log zerolog.Logger) *Hub {
	return &Hub{
		newChannel: factory,
		log:        log,
		channels:   make(map[string]*hubEntry),
		selection:  make(map[string]string),
	}
}

// Select cambia la tienda seleccionada del usuario. storeID vacío desconecta.
// Las tiendas demo se registran como seleccionadas pero no abren conexión.
// Repetir la selección reactiva el canal si quedó detenido.
func (h *Hub) Select(userID, storeID string) {
	h.mu.Lock()
	prev, had := h.selection[userID]
	if had && prev == storeID {
		e, ok := h.channels[storeID]
		h.mu.Unlock()
		if ok && e.ch.Revive() {
			h.log.Debug().Str("store_id", storeID).Msg("canal reactivado por nueva selección")
		}
		return
	}

	var toClose *Channel
	if had {
		delete(h.selection, userID)
		toClose = h.releaseLocked(prev)
	}
	if storeID != "" {
		h.selection[userID] = storeID
		if !entity.IsDemoStoreID(storeID) {
			e, ok := h.channels[storeID]
			if !ok {
				e = &hubEntry{ch: h.newChannel(storeID)}
				h.channels[storeID] = e
				e.ch.Start()
			}
			e.refs++
		}
	}
	h.mu.Unlock()

	if toClose != nil {
		toClose.Close()
		h.log.Debug().Str("store_id", prev).Msg("canal liberado")
	}
}

// Restore reconstruye las selecciones persistidas (userID -> storeID) al arrancar.
func (h *Hub) Restore(selections map[string]string) {
	for userID, storeID := range selections {
		if storeID != "" {
			h.Select(userID, storeID)
		}
	}
	h.log.Info().Int("selections", len(selections)).Int("channels", h.Len()).Msg("selecciones restauradas")
}

// releaseLocked decrementa la referencia y devuelve el canal a cerrar si quedó sin uso.
func (h *Hub) releaseLocked(storeID string) *Channel {
	e, ok := h.channels[storeID]
	if !ok {
		return nil
	}
	e.refs--
	if e.refs > 0 {
		return nil
	}
	delete(h.channels, storeID)
	return e.ch
}

// Selected devuelve la tienda seleccionada del usuario.
func (h *Hub) Selected(userID string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.selection[userID]
}

// Snapshot estado del canal de la tienda, si está abierto.
func (h *Hub) Snapshot(storeID string) (entity.DemperSnapshot, bool) {
	h.mu.Lock()
	e, ok := h.channels[storeID]
	h.mu.Unlock()
	if !ok {
		return entity.DemperSnapshot{}, false
	}
	return e.ch.Snapshot(), true
}

// Len número de conexiones abiertas.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.channels)
}

// Close cierra todos los canales (apagado del servidor).
func (h *Hub) Close() {
	h.mu.Lock()
	chans := make([]*Channel, 0, len(h.channels))
	for id, e := range h.channels {
		chans = append(chans, e.ch)
		delete(h.channels, id)
	}
	h.selection = make(map[string]string)
	h.mu.Unlock()

	var wg sync.WaitGroup
	for _, ch := range chans {
		wg.Add(1)
		go func(ch *Channel) {
			defer wg.Done()
			ch.Close()
		}(ch)
	}
	wg.Wait()
}
