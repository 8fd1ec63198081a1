package realtime

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/kaspi-panel-api/internal/application/ports"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
)

// LogNotifier registra cada toast en el log estructurado.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier construye el notificador.
func NewLogNotifier(log zerolog.Logger) LogNotifier {
	return LogNotifier{log: log}
}

// Notify implementa ports.Notifier.
func (n LogNotifier) Notify(_ context.Context, t entity.Toast) {
	ev := n.log.Info()
	if t.Level == entity.ToastError {
		ev = n.log.Warn()
	}
	ev.Str("store_id", t.StoreID).Str("title", t.Title).Msg(t.Message)
}

// MultiNotifier reparte el toast a todos los notificadores.
type MultiNotifier []ports.Notifier

// Notify implementa ports.Notifier.
func (m MultiNotifier) Notify(ctx context.Context, t entity.Toast) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, t)
		}
	}
}
