package storage_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/swapdesk/internal/adapters/storage"
	"github.com/alejandrodnm/swapdesk/internal/domain"
)

func makeStake(programID, poolAmount string) domain.ProviderStake {
	return domain.ProviderStake{
		RewardProgram: domain.RewardProgram{
			ID:   programID,
			Pool: "0x1000000000000000000000000000000000000001",
		},
		PoolTokenAmountWei: decimal.RequireFromString(poolAmount),
		TokenAmountWei:     decimal.RequireFromString(poolAmount).Mul(decimal.NewFromInt(2)),
		PendingRewardsWei:  decimal.RequireFromString("12500000000000000"),
	}
}

func TestSQLiteLog_RecordAndListEvents(t *testing.T) {
	db, err := storage.NewSQLiteLog(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	err = db.RecordOrderEvent(ctx, domain.OrderEvent{
		Kind:      domain.EventOrderSubmitted,
		OrderHash: "0xaaa",
		Detail:    "WETH -> DAI",
	})
	require.NoError(t, err)

	err = db.RecordOrderEvent(ctx, domain.OrderEvent{
		Kind:   domain.EventOrderCancelled,
		TxHash: "0xbbb",
		Detail: "2 order(s) cancelled",
	})
	require.NoError(t, err)

	events, err := db.RecentOrderEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Más recientes primero
	assert.Equal(t, domain.EventOrderCancelled, events[0].Kind)
	assert.Equal(t, "0xbbb", events[0].TxHash)
	assert.Equal(t, domain.EventOrderSubmitted, events[1].Kind)
	assert.Equal(t, "0xaaa", events[1].OrderHash)
	assert.False(t, events[0].CreatedAt.IsZero())
}

func TestSQLiteLog_RecentEventsLimit(t *testing.T) {
	db, err := storage.NewSQLiteLog(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		err = db.RecordOrderEvent(ctx, domain.OrderEvent{Kind: domain.EventOrderSubmitted})
		require.NoError(t, err)
	}

	events, err := db.RecentOrderEvents(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestSQLiteLog_EmptyLog(t *testing.T) {
	db, err := storage.NewSQLiteLog(":memory:")
	require.NoError(t, err)
	defer db.Close()

	events, err := db.RecentOrderEvents(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSQLiteLog_StakeSnapshotPrecision(t *testing.T) {
	db, err := storage.NewSQLiteLog(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	// Amounts de 256 bits: deben sobrevivir el round trip sin pasar por float
	big := "90071992547409930000000000000000000001"
	err = db.RecordStakeSnapshot(ctx, "0xprovider", []domain.ProviderStake{
		makeStake("7", big),
		makeStake("3", "1000000000000000000"),
	})
	require.NoError(t, err)

	// Snapshot vacío es un no-op
	err = db.RecordStakeSnapshot(ctx, "0xprovider", nil)
	assert.NoError(t, err)
}
