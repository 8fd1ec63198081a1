package ports

import (
	"context"

	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
)

// Notifier recibe los toasts generados por el canal realtime del price-bot.
type Notifier interface {
	Notify(ctx context.Context, t entity.Toast)
}

// DemperFeed puerto hacia el hub de canales realtime (uno por tienda seleccionada).
type DemperFeed interface {
	// Select cambia la tienda seleccionada del usuario; storeID vacío desconecta.
	Select(userID, storeID string)
	Selected(userID string) string
	Snapshot(storeID string) (entity.DemperSnapshot, bool)
}
