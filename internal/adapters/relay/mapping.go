package relay

// mapping.go — conversión de DTOs raw a domain entities.
//
// Los amounts llegan en base units (uint256) y se convierten a strings
// humanos exactamente una vez, aquí, con los decimals del token conocido.

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/alejandrodnm/swapdesk/internal/domain"
	"github.com/alejandrodnm/swapdesk/internal/numeric"
)

// mapOrder convierte una orden raw del relay en un domain.LimitOrder.
//
// El join contra la token list es case-insensitive; una dirección
// desconocida cae al primer token de la lista (modo degradado, no fatal).
func (c *Client) mapOrder(raw rawOrderEntry) (domain.LimitOrder, error) {
	if c.tokens == nil || c.tokens.Len() == 0 {
		return domain.LimitOrder{}, fmt.Errorf("token list is empty")
	}

	payToken, payKnown := c.tokens.LookupOrFirst(raw.Order.MakerToken)
	if !payKnown {
		slog.Warn("unknown maker token, falling back to first list entry",
			"address", raw.Order.MakerToken, "fallback", payToken.Symbol)
	}
	getToken, getKnown := c.tokens.LookupOrFirst(raw.Order.TakerToken)
	if !getKnown {
		slog.Warn("unknown taker token, falling back to first list entry",
			"address", raw.Order.TakerToken, "fallback", getToken.Symbol)
	}

	payWei, err := decFromNumber(raw.Order.MakerAmount)
	if err != nil {
		return domain.LimitOrder{}, fmt.Errorf("makerAmount: %w", err)
	}
	getWei, err := decFromNumber(raw.Order.TakerAmount)
	if err != nil {
		return domain.LimitOrder{}, fmt.Errorf("takerAmount: %w", err)
	}

	payHuman := numeric.FromBaseUnits(payWei, payToken.Decimals)
	getHuman := numeric.FromBaseUnits(getWei, getToken.Decimals)

	// rate: 1 payToken = (getAmount/payAmount) getToken
	rateStr := "0"
	if payHuman.Sign() > 0 {
		rateStr = numeric.Prettify(getHuman.Div(payHuman), numeric.Options{})
	}

	expiry, err := raw.Order.Expiry.Int64()
	if err != nil {
		return domain.LimitOrder{}, fmt.Errorf("expiry: %w", err)
	}

	filled, err := filledFraction(raw.MetaData)
	if err != nil {
		return domain.LimitOrder{}, err
	}

	return domain.LimitOrder{
		Hash:       raw.MetaData.OrderHash,
		Expiration: expiry,
		PayToken:   payToken,
		GetToken:   getToken,
		PayAmount:  numeric.Prettify(payHuman, numeric.Options{}),
		GetAmount:  numeric.Prettify(getHuman, numeric.Options{}),
		Rate:       rateStr,
		Filled:     filled,
		Status:     mapStatus(raw.MetaData.Status),
	}, nil
}

// filledFraction calcula filledAmount / remainingFillableAmount, formateado.
func filledFraction(meta rawOrderMeta) (string, error) {
	filledWei, err := decFromNumber(meta.FilledAmountTakerToken)
	if err != nil {
		return "", fmt.Errorf("filledAmount: %w", err)
	}
	remainingWei, err := decFromNumber(meta.RemainingFillableAmountTakerToken)
	if err != nil {
		return "", fmt.Errorf("remainingFillableAmount: %w", err)
	}

	if remainingWei.Sign() <= 0 {
		return "0", nil
	}
	return numeric.Prettify(filledWei.Div(remainingWei), numeric.Options{}), nil
}

// mapStatus refleja el estado que reporta el relay, sin validar transiciones.
func mapStatus(s string) domain.LimitOrderStatus {
	switch strings.ToUpper(s) {
	case "FILLED":
		return domain.OrderStatusFilled
	case "CANCELLED":
		return domain.OrderStatusCancelled
	case "EXPIRED":
		return domain.OrderStatusExpired
	case "INVALID":
		return domain.OrderStatusInvalid
	default:
		return domain.OrderStatusFillable
	}
}

// toRFQOrder reconstruye la forma canónica RFQ de una orden raw,
// preservando los uint256 como big.Int.
func toRFQOrder(raw rawOrder) (domain.RFQOrder, error) {
	makerAmount, err := bigFromNumber(raw.MakerAmount)
	if err != nil {
		return domain.RFQOrder{}, fmt.Errorf("makerAmount: %w", err)
	}
	takerAmount, err := bigFromNumber(raw.TakerAmount)
	if err != nil {
		return domain.RFQOrder{}, fmt.Errorf("takerAmount: %w", err)
	}
	salt, err := bigFromNumber(raw.Salt)
	if err != nil {
		return domain.RFQOrder{}, fmt.Errorf("salt: %w", err)
	}
	expiry, err := raw.Expiry.Int64()
	if err != nil {
		return domain.RFQOrder{}, fmt.Errorf("expiry: %w", err)
	}

	return domain.RFQOrder{
		MakerToken:  common.HexToAddress(raw.MakerToken),
		TakerToken:  common.HexToAddress(raw.TakerToken),
		MakerAmount: makerAmount,
		TakerAmount: takerAmount,
		Maker:       common.HexToAddress(raw.Maker),
		Taker:       common.HexToAddress(raw.Taker),
		TxOrigin:    common.HexToAddress(raw.TxOrigin),
		Pool:        common.HexToHash(raw.Pool),
		Expiry:      uint64(expiry),
		Salt:        salt,
	}, nil
}

// bigFromNumber convierte un json.Number a big.Int sin pasar por float64.
func bigFromNumber(n json.Number) (*big.Int, error) {
	if n == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(n.String(), 10)
	if !ok {
		return nil, fmt.Errorf("parse %q as integer", n.String())
	}
	return v, nil
}

// decFromNumber convierte un json.Number a decimal sin pasar por float64.
func decFromNumber(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %q: %w", n.String(), err)
	}
	return d, nil
}
