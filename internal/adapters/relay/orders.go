package relay

// orders.go — operaciones del relay: info, listado y submit de órdenes.

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/alejandrodnm/swapdesk/internal/domain"
)

const (
	infoPath   = "/info"
	ordersPath = "/orders"

	// Literal exacto con el que el relay confirma una creación de orden.
	submitSuccessMessage = "Order creation succeeded"
)

// TxOrigin devuelve la dirección tx-origin que el relay exige dentro de
// cada orden (binding anti-abuso).
func (c *Client) TxOrigin(ctx context.Context) (string, error) {
	var resp infoResponse
	if err := c.get(ctx, c.base+infoPath, &resp); err != nil {
		return "", fmt.Errorf("relay.TxOrigin: %w", err)
	}

	origin := resp.Result.OrderDetails.TxOrigin
	if origin == "" {
		return "", fmt.Errorf("relay.TxOrigin: relay info has no txOrigin")
	}
	return origin, nil
}

// OrdersByMaker devuelve las órdenes resting del maker dado, join-eadas
// contra la token list local y formateadas para mostrar.
func (c *Client) OrdersByMaker(ctx context.Context, maker string) ([]domain.LimitOrder, error) {
	if maker == "" {
		return nil, fmt.Errorf("relay.OrdersByMaker: maker address is required")
	}

	u := fmt.Sprintf("%s%s?maker=%s", c.base, ordersPath, url.QueryEscape(maker))

	var resp ordersResponse
	if err := c.get(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("relay.OrdersByMaker: %w", err)
	}

	orders := make([]domain.LimitOrder, 0, len(resp.Orders))
	for _, raw := range resp.Orders {
		order, err := c.mapOrder(raw)
		if err != nil {
			return nil, fmt.Errorf("relay.OrdersByMaker: order %s: %w", raw.MetaData.OrderHash, err)
		}
		orders = append(orders, order)
	}

	slog.Debug("relay orders fetched", "maker", maker, "count", len(orders))
	return orders, nil
}

// RFQOrdersByMaker devuelve las órdenes del maker en su forma canónica
// RFQ, tal como las necesita el settlement contract para cancelar. Si se
// pasan hashes, filtra a esos (case-insensitive).
func (c *Client) RFQOrdersByMaker(ctx context.Context, maker string, hashes ...string) ([]domain.RFQOrder, error) {
	if maker == "" {
		return nil, fmt.Errorf("relay.RFQOrdersByMaker: maker address is required")
	}

	u := fmt.Sprintf("%s%s?maker=%s", c.base, ordersPath, url.QueryEscape(maker))

	var resp ordersResponse
	if err := c.get(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("relay.RFQOrdersByMaker: %w", err)
	}

	want := make(map[string]bool, len(hashes))
	for _, h := range hashes {
		want[strings.ToLower(h)] = true
	}

	var orders []domain.RFQOrder
	for _, raw := range resp.Orders {
		if len(want) > 0 && !want[strings.ToLower(raw.MetaData.OrderHash)] {
			continue
		}
		order, err := toRFQOrder(raw.Order)
		if err != nil {
			return nil, fmt.Errorf("relay.RFQOrdersByMaker: order %s: %w", raw.MetaData.OrderHash, err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// SubmitOrders postea las órdenes firmadas. Falla si el mensaje del relay
// no es exactamente el literal de éxito, embebiendo el mensaje recibido.
func (c *Client) SubmitOrders(ctx context.Context, orders []domain.SignedRFQOrder) (domain.SubmitResult, error) {
	if len(orders) == 0 {
		return domain.SubmitResult{}, fmt.Errorf("relay.SubmitOrders: no orders to submit")
	}

	payload := make([]wireOrder, len(orders))
	for i, o := range orders {
		payload[i] = toWireOrder(o)
	}

	var resp submitResponse
	if err := c.post(ctx, c.base+ordersPath, payload, &resp); err != nil {
		return domain.SubmitResult{}, fmt.Errorf("relay.SubmitOrders: %w", err)
	}

	if resp.Message != submitSuccessMessage {
		return domain.SubmitResult{}, fmt.Errorf("relay.SubmitOrders: relay rejected orders: %q", resp.Message)
	}

	slog.Info("orders submitted to relay", "count", len(orders), "hashes", len(resp.Result.HashList))
	return domain.SubmitResult{
		Message:  resp.Message,
		HashList: resp.Result.HashList,
	}, nil
}

// toWireOrder stringifica los campos numéricos para el payload wire.
func toWireOrder(o domain.SignedRFQOrder) wireOrder {
	return wireOrder{
		Maker:             o.Maker.Hex(),
		Taker:             o.Taker.Hex(),
		MakerToken:        o.MakerToken.Hex(),
		TakerToken:        o.TakerToken.Hex(),
		MakerAmount:       o.MakerAmount.String(),
		TakerAmount:       o.TakerAmount.String(),
		TxOrigin:          o.TxOrigin.Hex(),
		Pool:              o.Pool.Hex(),
		Expiry:            fmt.Sprintf("%d", o.Expiry),
		Salt:              o.Salt.String(),
		ChainID:           o.ChainID,
		VerifyingContract: o.VerifyingContract.Hex(),
		Signature: wireSignature{
			SignatureType: o.Signature.SignatureType,
			V:             o.Signature.V,
			R:             o.Signature.R.Hex(),
			S:             o.Signature.S.Hex(),
		},
	}
}
