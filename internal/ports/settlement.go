package ports

import (
	"context"
	"math/big"

	"github.com/alejandrodnm/swapdesk/internal/domain"
)

// OrderSettler submits order-settlement transactions on-chain and waits
// for confirmation. Every method returns the mined transaction hash.
type OrderSettler interface {
	// CancelOrder cancels a single resting order on-chain.
	CancelOrder(ctx context.Context, order domain.RFQOrder) (string, error)

	// BatchCancelOrders cancels several orders in one transaction.
	BatchCancelOrders(ctx context.Context, orders []domain.RFQOrder) (string, error)

	// WrapNative deposits amountWei of the native asset into its wrapped
	// ERC20 representation. The order protocol only understands the
	// wrapped form.
	WrapNative(ctx context.Context, amountWei *big.Int) (string, error)
}
