package orders

// service.go — Limit-order lifecycle service.
//
// Dos contratos de error distintos, a propósito:
//   - CancelOrders alimenta un toast: nunca deja escapar un error, siempre
//     devuelve una notificación estructurada.
//   - SwapLimit es best-effort: los fallos se loguean y se tragan.
// No unificar — sirven a superficies de UI distintas.

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/alejandrodnm/swapdesk/internal/domain"
	"github.com/alejandrodnm/swapdesk/internal/ports"
)

// nativeTokenAddress es el sentinel que representa el native asset de la
// red en las token lists. El protocolo de órdenes solo entiende la forma
// wrapped, así que un swap desde el native asset lo envuelve primero.
const nativeTokenAddress = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"

// NativeToken es el sentinel que representa el native asset de la chain.
// Una orden cuyo source es este address envuelve antes de firmar.
var NativeToken = common.HexToAddress(nativeTokenAddress)

// Service orquesta el ciclo de vida de órdenes limit contra el relay y
// el exchange on-chain.
type Service struct {
	relay    ports.OrderRelay
	settler  ports.OrderSettler
	signer   *Signer
	activity ports.ActivityLog

	chainID           int64
	verifyingContract common.Address
	weth              common.Address
}

// NewService crea el servicio. activity puede ser nil si no se persiste.
func NewService(relay ports.OrderRelay, settler ports.OrderSettler, signer *Signer, activity ports.ActivityLog, chainID int64, verifyingContract, weth common.Address) *Service {
	return &Service{
		relay:             relay,
		settler:           settler,
		signer:            signer,
		activity:          activity,
		chainID:           chainID,
		verifyingContract: verifyingContract,
		weth:              weth,
	}
}

// CancelRequest agrupa las órdenes a cancelar para un usuario.
type CancelRequest struct {
	Orders []domain.RFQOrder
	User   string
}

// CancelOrders cancela las órdenes on-chain y devuelve una notificación.
// Una sola orden usa el cancel individual; más de una, el batch. Esta
// operación nunca devuelve error: un fallo se convierte en notificación
// de error porque el resultado alimenta directamente la UI.
func (s *Service) CancelOrders(ctx context.Context, req CancelRequest) domain.Notification {
	if len(req.Orders) == 0 {
		return domain.NewErrorNotification("Cancel failed", "no orders to cancel")
	}

	var (
		txHash string
		err    error
	)
	if len(req.Orders) == 1 {
		txHash, err = s.settler.CancelOrder(ctx, req.Orders[0])
	} else {
		txHash, err = s.settler.BatchCancelOrders(ctx, req.Orders)
	}
	if err != nil {
		slog.Error("order cancellation failed", "user", req.User, "orders", len(req.Orders), "err", err)
		return domain.NewErrorNotification("Cancel failed", err.Error())
	}

	s.recordEvent(ctx, domain.OrderEvent{
		Kind:   domain.EventOrderCancelled,
		TxHash: txHash,
		Detail: fmt.Sprintf("%d order(s) cancelled", len(req.Orders)),
	})

	msg := "Your limit order was cancelled"
	if len(req.Orders) > 1 {
		msg = fmt.Sprintf("%d limit orders were cancelled", len(req.Orders))
	}
	return domain.NewSuccessNotification("Orders cancelled", msg, txHash)
}

// SwapLimitRequest describe una orden limit a crear.
type SwapLimitRequest struct {
	// SourceToken es lo que paga el maker. Si es el native asset, se
	// envuelve antes de construir la orden.
	SourceToken     common.Address
	TargetToken     common.Address
	SourceAmountWei *big.Int
	TargetAmountWei *big.Int
	// Duration es cuánto vive la orden desde ahora.
	Duration time.Duration
}

// SwapLimit construye, firma y envía una orden limit al relay.
// Best-effort: cualquier fallo se loguea y se traga — el caller no ve
// resultado, igual que en la app original.
func (s *Service) SwapLimit(ctx context.Context, req SwapLimitRequest) {
	makerToken := req.SourceToken
	if makerToken == common.HexToAddress(nativeTokenAddress) {
		txHash, err := s.settler.WrapNative(ctx, req.SourceAmountWei)
		if err != nil {
			slog.Error("swap limit: wrap native failed", "err", err)
			return
		}
		s.recordEvent(ctx, domain.OrderEvent{
			Kind:   domain.EventNativeWrapped,
			TxHash: txHash,
			Detail: req.SourceAmountWei.String(),
		})
		makerToken = s.weth
	}

	txOrigin, err := s.relay.TxOrigin(ctx)
	if err != nil {
		slog.Error("swap limit: fetch tx origin failed", "err", err)
		return
	}

	salt, err := NewSalt()
	if err != nil {
		slog.Error("swap limit: salt failed", "err", err)
		return
	}

	order := domain.RFQOrder{
		MakerToken:  makerToken,
		TakerToken:  req.TargetToken,
		MakerAmount: req.SourceAmountWei,
		TakerAmount: req.TargetAmountWei,
		Maker:       s.signer.Address(),
		TxOrigin:    common.HexToAddress(txOrigin),
		Expiry:      uint64(time.Now().Add(req.Duration).Unix()),
		Salt:        salt,
	}

	signed, err := s.signer.SignOrder(order, s.chainID, s.verifyingContract)
	if err != nil {
		slog.Error("swap limit: sign failed", "err", err)
		return
	}

	res, err := s.relay.SubmitOrders(ctx, []domain.SignedRFQOrder{signed})
	if err != nil {
		slog.Error("swap limit: submit failed", "err", err)
		return
	}

	hash := ""
	if len(res.HashList) > 0 {
		hash = res.HashList[0]
	}
	s.recordEvent(ctx, domain.OrderEvent{
		Kind:      domain.EventOrderSubmitted,
		OrderHash: hash,
		Detail:    fmt.Sprintf("%s -> %s", makerToken.Hex(), req.TargetToken.Hex()),
	})
	slog.Info("limit order submitted", "hash", hash)
}

// recordEvent persiste en el activity log si hay uno configurado.
// Best-effort: un fallo de persistencia no afecta la operación.
func (s *Service) recordEvent(ctx context.Context, ev domain.OrderEvent) {
	if s.activity == nil {
		return
	}
	if err := s.activity.RecordOrderEvent(ctx, ev); err != nil {
		slog.Warn("activity log write failed", "kind", ev.Kind, "err", err)
	}
}
