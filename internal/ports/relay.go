package ports

import (
	"context"

	"github.com/alejandrodnm/swapdesk/internal/domain"
)

// OrderRelay talks to the off-chain limit-order book service.
type OrderRelay interface {
	// TxOrigin returns the transaction-origin address the relay expects
	// inside every order (anti-abuse binding).
	TxOrigin(ctx context.Context) (string, error)

	// OrdersByMaker returns every resting order whose maker matches,
	// joined against the known token list and formatted for display.
	OrdersByMaker(ctx context.Context, maker string) ([]domain.LimitOrder, error)

	// SubmitOrders posts fully signed orders to the relay. Fails unless
	// the relay acknowledges with its exact success message.
	SubmitOrders(ctx context.Context, orders []domain.SignedRFQOrder) (domain.SubmitResult, error)
}
