package onchain

// settlement.go — On-chain RFQ order settlement executor.
//
// Cancelaciones de órdenes limit y wrap del native asset. Cancelar una
// orden resting es una transacción contra el exchange: una sola orden usa
// cancelRfqOrder, varias usan batchCancelRfqOrders. El wrap es un
// deposit() al contrato del wrapped native token con value adjunto.
//
// This file handles:
//   - Dynamic gas estimation with conservative fallbacks
//   - EIP-155 transaction signing and submission
//   - Receipt polling until the tx is mined

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/alejandrodnm/swapdesk/internal/domain"
)

const (
	// Gas limits (conservative upper bounds)
	cancelGasLimit = uint64(120_000)
	wrapGasLimit   = uint64(60_000)

	// Gas price update interval
	gasPriceUpdateInterval = 5 * time.Minute

	receiptPollInterval = 3 * time.Second
	receiptWaitTimeout  = 60 * time.Second
)

var (
	exchangeABI abi.ABI
	wethABI     abi.ABI
)

func init() {
	var err error

	exchangeABI, err = abi.JSON(strings.NewReader(`[
		{
			"name": "cancelRfqOrder",
			"type": "function",
			"inputs": [{
				"name": "order",
				"type": "tuple",
				"components": [
					{"name": "makerToken", "type": "address"},
					{"name": "takerToken", "type": "address"},
					{"name": "makerAmount", "type": "uint128"},
					{"name": "takerAmount", "type": "uint128"},
					{"name": "maker", "type": "address"},
					{"name": "taker", "type": "address"},
					{"name": "txOrigin", "type": "address"},
					{"name": "pool", "type": "bytes32"},
					{"name": "expiry", "type": "uint64"},
					{"name": "salt", "type": "uint256"}
				]
			}],
			"outputs": []
		},
		{
			"name": "batchCancelRfqOrders",
			"type": "function",
			"inputs": [{
				"name": "orders",
				"type": "tuple[]",
				"components": [
					{"name": "makerToken", "type": "address"},
					{"name": "takerToken", "type": "address"},
					{"name": "makerAmount", "type": "uint128"},
					{"name": "takerAmount", "type": "uint128"},
					{"name": "maker", "type": "address"},
					{"name": "taker", "type": "address"},
					{"name": "txOrigin", "type": "address"},
					{"name": "pool", "type": "bytes32"},
					{"name": "expiry", "type": "uint64"},
					{"name": "salt", "type": "uint256"}
				]
			}],
			"outputs": []
		}
	]`))
	if err != nil {
		panic("exchange abi parse: " + err.Error())
	}

	wethABI, err = abi.JSON(strings.NewReader(`[{
		"name": "deposit",
		"type": "function",
		"stateMutability": "payable",
		"inputs": [],
		"outputs": []
	}]`))
	if err != nil {
		panic("weth abi parse: " + err.Error())
	}
}

// rfqOrderTuple es la forma canónica on-chain de una orden: los campos
// numéricos/bigint del domain entity, stringificados ya por el caller.
type rfqOrderTuple struct {
	MakerToken  common.Address
	TakerToken  common.Address
	MakerAmount *big.Int
	TakerAmount *big.Int
	Maker       common.Address
	Taker       common.Address
	TxOrigin    common.Address
	Pool        [32]byte
	Expiry      uint64
	Salt        *big.Int
}

func toRFQTuple(o domain.RFQOrder) rfqOrderTuple {
	return rfqOrderTuple{
		MakerToken:  o.MakerToken,
		TakerToken:  o.TakerToken,
		MakerAmount: o.MakerAmount,
		TakerAmount: o.TakerAmount,
		Maker:       o.Maker,
		Taker:       o.Taker,
		TxOrigin:    o.TxOrigin,
		Pool:        o.Pool,
		Expiry:      o.Expiry,
		Salt:        o.Salt,
	}
}

// SettlementClient implementa ports.OrderSettler.
type SettlementClient struct {
	client     *ethclient.Client
	privateKey []byte
	address    common.Address
	chainID    int64
	exchange   common.Address
	weth       common.Address

	mu           sync.RWMutex
	cachedGasWei *big.Int
	gasUpdatedAt time.Time
}

// NewSettlementClient crea el executor conectado al RPC dado.
// privateKeyHex va sin prefijo 0x.
func NewSettlementClient(rpcURL, privateKeyHex string, chainID int64, exchangeAddr, wethAddr common.Address) (*SettlementClient, error) {
	pkBytes, err := hex.DecodeString(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("settlement: decode private key: %w", err)
	}

	privKey, err := crypto.ToECDSA(pkBytes)
	if err != nil {
		return nil, fmt.Errorf("settlement: invalid private key: %w", err)
	}

	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("settlement: dial rpc %s: %w", rpcURL, err)
	}

	return &SettlementClient{
		client:     client,
		privateKey: pkBytes,
		address:    crypto.PubkeyToAddress(privKey.PublicKey),
		chainID:    chainID,
		exchange:   exchangeAddr,
		weth:       wethAddr,
	}, nil
}

// Address devuelve la dirección de la wallet.
func (sc *SettlementClient) Address() string {
	return sc.address.Hex()
}

// CancelOrder cancela una sola orden resting on-chain.
func (sc *SettlementClient) CancelOrder(ctx context.Context, order domain.RFQOrder) (string, error) {
	callData, err := exchangeABI.Pack("cancelRfqOrder", toRFQTuple(order))
	if err != nil {
		return "", fmt.Errorf("settlement.CancelOrder: pack: %w", err)
	}
	return sc.sendAndConfirm(ctx, sc.exchange, big.NewInt(0), cancelGasLimit, callData)
}

// BatchCancelOrders cancela varias órdenes en una sola transacción.
func (sc *SettlementClient) BatchCancelOrders(ctx context.Context, orders []domain.RFQOrder) (string, error) {
	tuples := make([]rfqOrderTuple, len(orders))
	for i, o := range orders {
		tuples[i] = toRFQTuple(o)
	}

	callData, err := exchangeABI.Pack("batchCancelRfqOrders", tuples)
	if err != nil {
		return "", fmt.Errorf("settlement.BatchCancelOrders: pack: %w", err)
	}

	// El gas crece con el número de órdenes; el estimate lo ajusta después
	limit := cancelGasLimit * uint64(len(orders))
	return sc.sendAndConfirm(ctx, sc.exchange, big.NewInt(0), limit, callData)
}

// WrapNative deposita amountWei del native asset en el wrapped token.
func (sc *SettlementClient) WrapNative(ctx context.Context, amountWei *big.Int) (string, error) {
	callData, err := wethABI.Pack("deposit")
	if err != nil {
		return "", fmt.Errorf("settlement.WrapNative: pack: %w", err)
	}
	return sc.sendAndConfirm(ctx, sc.weth, amountWei, wrapGasLimit, callData)
}

// sendAndConfirm construye, firma y envía la transacción, y espera el receipt.
func (sc *SettlementClient) sendAndConfirm(ctx context.Context, to common.Address, value *big.Int, fallbackGas uint64, callData []byte) (string, error) {
	privKey, err := crypto.ToECDSA(sc.privateKey)
	if err != nil {
		return "", fmt.Errorf("settlement: private key: %w", err)
	}

	nonce, err := sc.client.PendingNonceAt(ctx, sc.address)
	if err != nil {
		return "", fmt.Errorf("settlement: nonce: %w", err)
	}

	gasPrice, err := sc.getGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("settlement: gas price: %w", err)
	}

	gasEstimate, err := sc.client.EstimateGas(ctx, ethereum.CallMsg{
		From:     sc.address,
		To:       &to,
		Value:    value,
		GasPrice: gasPrice,
		Data:     callData,
	})
	if err != nil {
		gasEstimate = fallbackGas
		slog.Warn("settlement: gas estimate failed, using fallback", "err", err, "limit", fallbackGas)
	}
	// Add 20% buffer
	gasEstimate = gasEstimate * 12 / 10

	tx := types.NewTransaction(nonce, to, value, gasEstimate, gasPrice, callData)

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(big.NewInt(sc.chainID)), privKey)
	if err != nil {
		return "", fmt.Errorf("settlement: sign tx: %w", err)
	}

	if err := sc.client.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("settlement: send tx: %w", err)
	}

	txHash := signedTx.Hash().Hex()
	slog.Info("settlement: transaction sent", "to", to.Hex(), "tx", txHash)

	receiptCtx, cancel := context.WithTimeout(ctx, receiptWaitTimeout)
	defer cancel()

	receipt, err := sc.waitForReceipt(receiptCtx, signedTx.Hash())
	if err != nil {
		return "", fmt.Errorf("settlement: wait receipt %s: %w", txHash, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", fmt.Errorf("settlement: tx reverted: %s", txHash)
	}

	slog.Info("settlement: confirmed", "tx", txHash, "gas_used", receipt.GasUsed)
	return txHash, nil
}

// getGasPrice devuelve el gas price actual, con cache para no saturar el RPC.
func (sc *SettlementClient) getGasPrice(ctx context.Context) (*big.Int, error) {
	sc.mu.RLock()
	cached := sc.cachedGasWei
	updatedAt := sc.gasUpdatedAt
	sc.mu.RUnlock()

	if cached != nil && time.Since(updatedAt) < gasPriceUpdateInterval {
		return cached, nil
	}

	price, err := sc.client.SuggestGasPrice(ctx)
	if err != nil {
		if cached != nil {
			return cached, nil
		}
		return nil, fmt.Errorf("suggest gas price: %w", err)
	}

	// Add 10% buffer for faster inclusion
	buffered := new(big.Int).Mul(price, big.NewInt(11))
	buffered.Div(buffered, big.NewInt(10))

	sc.mu.Lock()
	sc.cachedGasWei = buffered
	sc.gasUpdatedAt = time.Now()
	sc.mu.Unlock()

	return buffered, nil
}

// waitForReceipt hace polling del receipt hasta confirmación o timeout.
func (sc *SettlementClient) waitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			receipt, err := sc.client.TransactionReceipt(ctx, txHash)
			if err != nil {
				continue // not yet mined
			}
			return receipt, nil
		}
	}
}
