package orders

import (
	"context"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/swapdesk/internal/domain"
)

type fakeSettler struct {
	singleCalls  int
	batchCalls   int
	wrapCalls    int
	lastBatchLen int
	cancelErr    error
	wrapErr      error
}

func (f *fakeSettler) CancelOrder(context.Context, domain.RFQOrder) (string, error) {
	f.singleCalls++
	if f.cancelErr != nil {
		return "", f.cancelErr
	}
	return "0xtx-single", nil
}

func (f *fakeSettler) BatchCancelOrders(_ context.Context, orders []domain.RFQOrder) (string, error) {
	f.batchCalls++
	f.lastBatchLen = len(orders)
	if f.cancelErr != nil {
		return "", f.cancelErr
	}
	return "0xtx-batch", nil
}

func (f *fakeSettler) WrapNative(context.Context, *big.Int) (string, error) {
	f.wrapCalls++
	if f.wrapErr != nil {
		return "", f.wrapErr
	}
	return "0xtx-wrap", nil
}

type fakeRelay struct {
	txOrigin    string
	txOriginErr error
	submitErr   error
	submitted   []domain.SignedRFQOrder
}

func (f *fakeRelay) TxOrigin(context.Context) (string, error) {
	if f.txOriginErr != nil {
		return "", f.txOriginErr
	}
	return f.txOrigin, nil
}

func (f *fakeRelay) OrdersByMaker(context.Context, string) ([]domain.LimitOrder, error) {
	return nil, nil
}

func (f *fakeRelay) SubmitOrders(_ context.Context, orders []domain.SignedRFQOrder) (domain.SubmitResult, error) {
	if f.submitErr != nil {
		return domain.SubmitResult{}, f.submitErr
	}
	f.submitted = append(f.submitted, orders...)
	return domain.SubmitResult{
		Message:  "Order creation succeeded",
		HashList: []string{"0xorderhash"},
	}, nil
}

type fakeActivity struct {
	events []domain.OrderEvent
}

func (f *fakeActivity) RecordOrderEvent(_ context.Context, ev domain.OrderEvent) error {
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeActivity) RecentOrderEvents(context.Context, int) ([]domain.OrderEvent, error) {
	return f.events, nil
}

func (f *fakeActivity) RecordStakeSnapshot(context.Context, string, []domain.ProviderStake) error {
	return nil
}

func (f *fakeActivity) Close() error { return nil }

func newTestService(t *testing.T, relay *fakeRelay, settler *fakeSettler, activity *fakeActivity) *Service {
	t.Helper()
	signer, err := NewSigner(testKeyHex)
	require.NoError(t, err)
	return NewService(
		relay, settler, signer, activity,
		1,
		common.HexToAddress("0xDef1C0ded9bec7F1a1670819833240f027b25EfF"),
		common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
	)
}

func cancelOrders(n int) []domain.RFQOrder {
	out := make([]domain.RFQOrder, n)
	for i := range out {
		o := testOrder()
		o.Salt = big.NewInt(int64(i + 1))
		out[i] = o
	}
	return out
}

func TestCancelOrders_SingleUsesSingleCancel(t *testing.T) {
	settler := &fakeSettler{}
	svc := newTestService(t, &fakeRelay{}, settler, &fakeActivity{})

	n := svc.CancelOrders(context.Background(), CancelRequest{Orders: cancelOrders(1), User: "0xuser"})

	assert.Equal(t, domain.NotificationSuccess, n.Type)
	assert.Equal(t, "0xtx-single", n.TxHash)
	assert.Equal(t, 1, settler.singleCalls)
	assert.Equal(t, 0, settler.batchCalls)
}

func TestCancelOrders_MultipleUseBatchCancel(t *testing.T) {
	settler := &fakeSettler{}
	svc := newTestService(t, &fakeRelay{}, settler, &fakeActivity{})

	n := svc.CancelOrders(context.Background(), CancelRequest{Orders: cancelOrders(3), User: "0xuser"})

	assert.Equal(t, domain.NotificationSuccess, n.Type)
	assert.Equal(t, "0xtx-batch", n.TxHash)
	assert.Equal(t, 0, settler.singleCalls)
	assert.Equal(t, 1, settler.batchCalls)
	assert.Equal(t, 3, settler.lastBatchLen)
}

func TestCancelOrders_FailureBecomesNotification(t *testing.T) {
	// Un fallo de la transacción nunca se propaga como error: el resultado
	// alimenta un toast y siempre es una notificación estructurada.
	settler := &fakeSettler{cancelErr: fmt.Errorf("tx reverted")}
	svc := newTestService(t, &fakeRelay{}, settler, &fakeActivity{})

	for _, count := range []int{1, 2} {
		n := svc.CancelOrders(context.Background(), CancelRequest{Orders: cancelOrders(count), User: "0xuser"})
		assert.Equal(t, domain.NotificationError, n.Type)
		assert.Contains(t, n.Message, "tx reverted")
		assert.Empty(t, n.TxHash)
	}
}

func TestCancelOrders_Empty(t *testing.T) {
	svc := newTestService(t, &fakeRelay{}, &fakeSettler{}, &fakeActivity{})

	n := svc.CancelOrders(context.Background(), CancelRequest{User: "0xuser"})
	assert.Equal(t, domain.NotificationError, n.Type)
}

func TestCancelOrders_RecordsActivity(t *testing.T) {
	activity := &fakeActivity{}
	svc := newTestService(t, &fakeRelay{}, &fakeSettler{}, activity)

	svc.CancelOrders(context.Background(), CancelRequest{Orders: cancelOrders(2), User: "0xuser"})

	require.Len(t, activity.events, 1)
	assert.Equal(t, domain.EventOrderCancelled, activity.events[0].Kind)
	assert.Equal(t, "0xtx-batch", activity.events[0].TxHash)
}

func TestSwapLimit_ERC20Source(t *testing.T) {
	relay := &fakeRelay{txOrigin: "0x00000000000000000000000000000000000000cc"}
	settler := &fakeSettler{}
	svc := newTestService(t, relay, settler, &fakeActivity{})

	source := common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	svc.SwapLimit(context.Background(), SwapLimitRequest{
		SourceToken:     source,
		TargetToken:     common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
		SourceAmountWei: big.NewInt(1_000_000),
		TargetAmountWei: big.NewInt(2_000_000),
		Duration:        time.Hour,
	})

	assert.Equal(t, 0, settler.wrapCalls, "un ERC20 no se envuelve")
	require.Len(t, relay.submitted, 1)

	o := relay.submitted[0]
	assert.Equal(t, source, o.MakerToken)
	assert.Equal(t, common.HexToAddress("0x00000000000000000000000000000000000000cc"), o.TxOrigin)
	assert.NotEqual(t, common.Hash{}, o.Signature.R)
}

func TestSwapLimit_NativeSourceWrapsFirst(t *testing.T) {
	relay := &fakeRelay{txOrigin: "0xcc"}
	settler := &fakeSettler{}
	activity := &fakeActivity{}
	svc := newTestService(t, relay, settler, activity)

	svc.SwapLimit(context.Background(), SwapLimitRequest{
		SourceToken:     common.HexToAddress(nativeTokenAddress),
		TargetToken:     common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"),
		SourceAmountWei: big.NewInt(1_000_000),
		TargetAmountWei: big.NewInt(2_000_000),
		Duration:        time.Hour,
	})

	assert.Equal(t, 1, settler.wrapCalls)
	require.Len(t, relay.submitted, 1)
	// La orden se arma contra el wrapped token, no el sentinel native
	assert.Equal(t, common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"), relay.submitted[0].MakerToken)

	// Eventos: wrap + submit
	require.Len(t, activity.events, 2)
	assert.Equal(t, domain.EventNativeWrapped, activity.events[0].Kind)
	assert.Equal(t, domain.EventOrderSubmitted, activity.events[1].Kind)
}

func TestSwapLimit_SubmitFailureIsSwallowed(t *testing.T) {
	// Best-effort: un fallo del relay se loguea y se traga, sin panic
	// y sin evento registrado.
	relay := &fakeRelay{txOrigin: "0xcc", submitErr: fmt.Errorf("relay down")}
	activity := &fakeActivity{}
	svc := newTestService(t, relay, &fakeSettler{}, activity)

	svc.SwapLimit(context.Background(), SwapLimitRequest{
		SourceToken:     common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"),
		TargetToken:     common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
		SourceAmountWei: big.NewInt(1),
		TargetAmountWei: big.NewInt(2),
		Duration:        time.Hour,
	})

	assert.Empty(t, activity.events)
}

func TestSwapLimit_WrapFailureStopsEarly(t *testing.T) {
	relay := &fakeRelay{txOrigin: "0xcc"}
	settler := &fakeSettler{wrapErr: fmt.Errorf("insufficient balance")}
	svc := newTestService(t, relay, settler, &fakeActivity{})

	svc.SwapLimit(context.Background(), SwapLimitRequest{
		SourceToken:     common.HexToAddress(nativeTokenAddress),
		TargetToken:     common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"),
		SourceAmountWei: big.NewInt(1),
		TargetAmountWei: big.NewInt(2),
		Duration:        time.Hour,
	})

	// El wrap falló: no se firma ni se envía nada
	assert.Empty(t, relay.submitted)
}
