package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// LimitOrderStatus mirrors the lifecycle the relay reports. The client never
// tracks transitions locally — it only reflects relay state.
type LimitOrderStatus string

const (
	OrderStatusFillable  LimitOrderStatus = "FILLABLE"
	OrderStatusFilled    LimitOrderStatus = "FILLED"
	OrderStatusCancelled LimitOrderStatus = "CANCELLED"
	OrderStatusExpired   LimitOrderStatus = "EXPIRED"
	OrderStatusInvalid   LimitOrderStatus = "INVALID"
)

// LimitOrder is a maker's resting off-chain order, joined against the known
// token list and formatted for display.
type LimitOrder struct {
	Hash       string // unique order identifier assigned by the relay
	Expiration int64  // unix seconds
	PayToken   Token
	GetToken   Token
	PayAmount  string // human decimal string
	GetAmount  string // human decimal string
	Rate       string // "1 <pay> = <rate> <get>"
	Filled     string // fraction filled, formatted
	Status     LimitOrderStatus
}

// RFQOrder is the canonical signed limit-order form understood by the
// settlement contract and the relay. Immutable once signed.
type RFQOrder struct {
	MakerToken  common.Address
	TakerToken  common.Address
	MakerAmount *big.Int
	TakerAmount *big.Int
	Maker       common.Address
	Taker       common.Address
	TxOrigin    common.Address
	Pool        common.Hash
	Expiry      uint64
	Salt        *big.Int
}

// RFQSignature is the EIP-712 signature over an RFQOrder.
type RFQSignature struct {
	SignatureType int
	V             uint8
	R             common.Hash
	S             common.Hash
}

// SignedRFQOrder is an RFQOrder plus the chain binding and signature,
// submitted verbatim to the relay.
type SignedRFQOrder struct {
	RFQOrder
	ChainID           int64
	VerifyingContract common.Address
	Signature         RFQSignature
}

// SubmitResult is the relay's acknowledgement of an order submission.
type SubmitResult struct {
	Message  string
	HashList []string
}
