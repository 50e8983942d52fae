package ports

import (
	"context"

	"github.com/alejandrodnm/swapdesk/internal/domain"
)

// ActivityLog persiste la actividad de órdenes y snapshots de stakes.
type ActivityLog interface {
	// RecordOrderEvent registra un evento del ciclo de vida de una orden.
	RecordOrderEvent(ctx context.Context, ev domain.OrderEvent) error

	// RecentOrderEvents devuelve los últimos eventos, más recientes primero.
	RecentOrderEvents(ctx context.Context, limit int) ([]domain.OrderEvent, error)

	// RecordStakeSnapshot registra el estado actual de los stakes de un usuario.
	RecordStakeSnapshot(ctx context.Context, provider string, stakes []domain.ProviderStake) error

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
