package relay

import "encoding/json"

// DTOs raw del relay. Solo se usan dentro de este paquete; la conversión
// a domain entities se hace en mapping.go. Los campos de amounts van como
// json.Number: son uint256 y no caben en float64.

// infoResponse es la respuesta de GET /info.
type infoResponse struct {
	Result struct {
		OrderDetails struct {
			TxOrigin string `json:"txOrigin"`
		} `json:"orderDetails"`
	} `json:"result"`
}

// ordersResponse es la respuesta de GET /orders?maker=<address>.
type ordersResponse struct {
	Orders []rawOrderEntry `json:"orders"`
}

// rawOrderEntry es una orden resting con su metadata de fill.
type rawOrderEntry struct {
	Order    rawOrder     `json:"order"`
	MetaData rawOrderMeta `json:"metaData"`
}

// rawOrder es la forma wire de una orden firmada tal como la guarda el relay.
type rawOrder struct {
	Maker             string      `json:"maker"`
	Taker             string      `json:"taker"`
	MakerToken        string      `json:"makerToken"`
	TakerToken        string      `json:"takerToken"`
	MakerAmount       json.Number `json:"makerAmount"`
	TakerAmount       json.Number `json:"takerAmount"`
	TxOrigin          string      `json:"txOrigin"`
	Pool              string      `json:"pool"`
	Expiry            json.Number `json:"expiry"`
	Salt              json.Number `json:"salt"`
	ChainID           json.Number `json:"chainId"`
	VerifyingContract string      `json:"verifyingContract"`
}

type rawOrderMeta struct {
	OrderHash                         string      `json:"orderHash"`
	Status                            string      `json:"status"`
	FilledAmountTakerToken            json.Number `json:"filledAmount_takerToken"`
	RemainingFillableAmountTakerToken json.Number `json:"remainingFillableAmount_takerToken"`
}

// submitResponse es la respuesta de POST /orders.
type submitResponse struct {
	Message string `json:"message"`
	Result  struct {
		HashList []string `json:"hashList"`
	} `json:"result"`
}

// wireSignature es la firma EIP-712 en forma wire.
type wireSignature struct {
	SignatureType int    `json:"signatureType"`
	V             uint8  `json:"v"`
	R             string `json:"r"`
	S             string `json:"s"`
}

// wireOrder es el payload de una orden firmada para POST /orders.
// Se envía verbatim: ningún campo se recalcula en el cliente.
type wireOrder struct {
	Maker             string        `json:"maker"`
	Taker             string        `json:"taker"`
	MakerToken        string        `json:"makerToken"`
	TakerToken        string        `json:"takerToken"`
	MakerAmount       string        `json:"makerAmount"`
	TakerAmount       string        `json:"takerAmount"`
	TxOrigin          string        `json:"txOrigin"`
	Pool              string        `json:"pool"`
	Expiry            string        `json:"expiry"`
	Salt              string        `json:"salt"`
	ChainID           int64         `json:"chainId"`
	VerifyingContract string        `json:"verifyingContract"`
	Signature         wireSignature `json:"signature"`
}
