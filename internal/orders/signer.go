package orders

// signer.go — EIP-712 signing of RFQ orders.
//
// The exchange verifies orders against the ZeroEx EIP-712 domain, so the
// struct hash is computed manually field by field. Amounts are left-padded
// uint values, addresses are left-padded to 32 bytes.

import (
	"crypto/ecdsa"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/alejandrodnm/swapdesk/internal/domain"
)

const (
	exchangeDomainName    = "ZeroEx"
	exchangeDomainVersion = "1.0.0"

	// EIP-712 signature type expected by the exchange for RFQ orders.
	signatureTypeEIP712 = 2
)

// EIP-712 type hashes (computed once).
var (
	eip712DomainTypeHash = crypto.Keccak256Hash([]byte(
		"EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)",
	))
	rfqOrderTypeHash = crypto.Keccak256Hash([]byte(
		"RfqOrder(address makerToken,address takerToken,uint128 makerAmount,uint128 takerAmount,address maker,address taker,address txOrigin,bytes32 pool,uint64 expiry,uint256 salt)",
	))

	// Salt upper bound: 2^128
	maxSalt = new(big.Int).Lsh(big.NewInt(1), 128)
)

// Signer signs RFQ orders with a wallet private key.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewSigner creates a Signer from a hex private key (0x prefix optional).
func NewSigner(privateKeyHex string) (*Signer, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("orders: invalid private key: %w", err)
	}
	return &Signer{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}, nil
}

// Address returns the wallet (maker) address.
func (s *Signer) Address() common.Address {
	return s.address
}

// NewSalt returns a random order salt.
func NewSalt() (*big.Int, error) {
	salt, err := rand.Int(rand.Reader, maxSalt)
	if err != nil {
		return nil, fmt.Errorf("orders: generate salt: %w", err)
	}
	return salt, nil
}

// domainSeparator computes the EIP-712 domain separator for the exchange.
func domainSeparator(chainID int64, verifyingContract common.Address) common.Hash {
	var buf []byte
	buf = append(buf, eip712DomainTypeHash.Bytes()...)
	buf = append(buf, crypto.Keccak256Hash([]byte(exchangeDomainName)).Bytes()...)
	buf = append(buf, crypto.Keccak256Hash([]byte(exchangeDomainVersion)).Bytes()...)
	buf = append(buf, common.LeftPadBytes(big.NewInt(chainID).Bytes(), 32)...)
	buf = append(buf, common.LeftPadBytes(verifyingContract.Bytes(), 32)...)
	return crypto.Keccak256Hash(buf)
}

// structHash computes the RfqOrder struct hash.
func structHash(o domain.RFQOrder) common.Hash {
	var buf []byte
	buf = append(buf, rfqOrderTypeHash.Bytes()...)
	buf = append(buf, common.LeftPadBytes(o.MakerToken.Bytes(), 32)...)
	buf = append(buf, common.LeftPadBytes(o.TakerToken.Bytes(), 32)...)
	buf = append(buf, common.LeftPadBytes(o.MakerAmount.Bytes(), 32)...)
	buf = append(buf, common.LeftPadBytes(o.TakerAmount.Bytes(), 32)...)
	buf = append(buf, common.LeftPadBytes(o.Maker.Bytes(), 32)...)
	buf = append(buf, common.LeftPadBytes(o.Taker.Bytes(), 32)...)
	buf = append(buf, common.LeftPadBytes(o.TxOrigin.Bytes(), 32)...)
	buf = append(buf, o.Pool.Bytes()...)
	buf = append(buf, common.LeftPadBytes(new(big.Int).SetUint64(o.Expiry).Bytes(), 32)...)
	buf = append(buf, common.LeftPadBytes(o.Salt.Bytes(), 32)...)
	return crypto.Keccak256Hash(buf)
}

// SignOrder signs the order for the given chain and verifying contract.
// The returned order is immutable: it is submitted to the relay verbatim.
func (s *Signer) SignOrder(order domain.RFQOrder, chainID int64, verifyingContract common.Address) (domain.SignedRFQOrder, error) {
	if order.MakerAmount == nil || order.TakerAmount == nil || order.Salt == nil {
		return domain.SignedRFQOrder{}, fmt.Errorf("orders: order has nil amount or salt")
	}

	var raw []byte
	raw = append(raw, 0x19, 0x01)
	raw = append(raw, domainSeparator(chainID, verifyingContract).Bytes()...)
	raw = append(raw, structHash(order).Bytes()...)
	digest := crypto.Keccak256Hash(raw)

	sig, err := crypto.Sign(digest.Bytes(), s.key)
	if err != nil {
		return domain.SignedRFQOrder{}, fmt.Errorf("orders: sign: %w", err)
	}

	return domain.SignedRFQOrder{
		RFQOrder:          order,
		ChainID:           chainID,
		VerifyingContract: verifyingContract,
		Signature: domain.RFQSignature{
			SignatureType: signatureTypeEIP712,
			V:             sig[64] + 27,
			R:             common.BytesToHash(sig[:32]),
			S:             common.BytesToHash(sig[32:64]),
		},
	}, nil
}
