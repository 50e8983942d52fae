package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/alejandrodnm/swapdesk/internal/domain"
)

// StakingReader exposes the read methods of the standard-rewards contracts.
// Amounts cross this boundary as base-unit integers carried in decimals.
type StakingReader interface {
	// ProgramIDs returns every reward-program id known to the contract.
	ProgramIDs(ctx context.Context) ([]string, error)

	// ProviderProgramIDs returns the program ids the given provider has
	// ever joined.
	ProviderProgramIDs(ctx context.Context, provider string) ([]string, error)

	// Programs reads the full program struct for each id in one
	// aggregated pass, preserving input order.
	Programs(ctx context.Context, ids []string) ([]domain.RewardProgram, error)

	// ProviderStakes reads the staked pool-token amount per program id for
	// the provider in one aggregated pass, preserving input order.
	// Programs with no stake yield zero.
	ProviderStakes(ctx context.Context, provider string, ids []string) ([]decimal.Decimal, error)

	// PendingRewards returns the provider's unclaimed rewards for one program.
	PendingRewards(ctx context.Context, provider, programID string) (decimal.Decimal, error)

	// PoolTokenToUnderlying converts a pool-token amount to underlying-token
	// terms at the current rate.
	PoolTokenToUnderlying(ctx context.Context, pool string, poolTokenAmount decimal.Decimal) (decimal.Decimal, error)
}
