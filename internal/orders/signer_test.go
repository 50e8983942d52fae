package orders

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/swapdesk/internal/domain"
)

// Clave de test conocida (hardhat account 0) — nunca usar en producción.
const testKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func testOrder() domain.RFQOrder {
	return domain.RFQOrder{
		MakerToken:  common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
		TakerToken:  common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"),
		MakerAmount: big.NewInt(1_000_000_000_000_000_000),
		TakerAmount: big.NewInt(2_000_000_000),
		Maker:       common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		TxOrigin:    common.HexToAddress("0xbb"),
		Expiry:      1700000000,
		Salt:        big.NewInt(42),
	}
}

func TestSignOrder_Deterministic(t *testing.T) {
	signer, err := NewSigner(testKeyHex)
	require.NoError(t, err)

	verifying := common.HexToAddress("0xDef1C0ded9bec7F1a1670819833240f027b25EfF")

	a, err := signer.SignOrder(testOrder(), 1, verifying)
	require.NoError(t, err)
	b, err := signer.SignOrder(testOrder(), 1, verifying)
	require.NoError(t, err)

	assert.Equal(t, a.Signature, b.Signature)
	assert.Equal(t, signatureTypeEIP712, a.Signature.SignatureType)
	assert.Contains(t, []uint8{27, 28}, a.Signature.V)
	assert.NotEqual(t, common.Hash{}, a.Signature.R)
}

func TestSignOrder_SaltChangesSignature(t *testing.T) {
	signer, err := NewSigner(testKeyHex)
	require.NoError(t, err)

	verifying := common.HexToAddress("0xDef1C0ded9bec7F1a1670819833240f027b25EfF")

	a, err := signer.SignOrder(testOrder(), 1, verifying)
	require.NoError(t, err)

	other := testOrder()
	other.Salt = big.NewInt(43)
	b, err := signer.SignOrder(other, 1, verifying)
	require.NoError(t, err)

	assert.NotEqual(t, a.Signature.R, b.Signature.R)
}

func TestSignOrder_RecoversSignerAddress(t *testing.T) {
	signer, err := NewSigner(testKeyHex)
	require.NoError(t, err)

	verifying := common.HexToAddress("0xDef1C0ded9bec7F1a1670819833240f027b25EfF")
	order := testOrder()

	signed, err := signer.SignOrder(order, 1, verifying)
	require.NoError(t, err)

	// Reconstruir el digest y recuperar la dirección del firmante
	var raw []byte
	raw = append(raw, 0x19, 0x01)
	raw = append(raw, domainSeparator(1, verifying).Bytes()...)
	raw = append(raw, structHash(order).Bytes()...)
	digest := crypto.Keccak256Hash(raw)

	sig := make([]byte, 65)
	copy(sig[:32], signed.Signature.R.Bytes())
	copy(sig[32:64], signed.Signature.S.Bytes())
	sig[64] = signed.Signature.V - 27

	pub, err := crypto.SigToPub(digest.Bytes(), sig)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), crypto.PubkeyToAddress(*pub))
}

func TestSignOrder_NilAmounts(t *testing.T) {
	signer, err := NewSigner(testKeyHex)
	require.NoError(t, err)

	order := testOrder()
	order.Salt = nil
	_, err = signer.SignOrder(order, 1, common.Address{})
	require.Error(t, err)
}

func TestNewSigner_InvalidKey(t *testing.T) {
	_, err := NewSigner("not-hex")
	require.Error(t, err)
}

func TestNewSalt_Distinct(t *testing.T) {
	a, err := NewSalt()
	require.NoError(t, err)
	b, err := NewSalt()
	require.NoError(t, err)
	assert.NotEqual(t, a.String(), b.String())
}
