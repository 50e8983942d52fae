package ports

import (
	"context"

	"github.com/alejandrodnm/swapdesk/internal/domain"
)

// Notifier presenta programas, stakes y órdenes al usuario.
type Notifier interface {
	// ShowPrograms muestra los reward programs disponibles.
	ShowPrograms(ctx context.Context, programs []domain.RewardProgram) error

	// ShowStakes muestra las posiciones de staking del usuario.
	ShowStakes(ctx context.Context, stakes []domain.ProviderStake) error

	// ShowOrders muestra las órdenes limit del usuario.
	ShowOrders(ctx context.Context, orders []domain.LimitOrder) error

	// Notify muestra el resultado de una operación (toast en la app
	// original, línea formateada en la consola).
	Notify(ctx context.Context, n domain.Notification) error
}
