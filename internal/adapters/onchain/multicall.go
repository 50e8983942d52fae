package onchain

// multicall.go — batched contract reader.
//
// Colapsa N llamadas read-only en un solo eth_call contra el contrato
// agregador (Multicall3). El orden de los resultados es el orden de las
// llamadas de entrada, y la semántica es all-or-nothing: si el aggregate
// falla, no hay resultados parciales.

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/alejandrodnm/swapdesk/internal/ports"
)

var multicallABI abi.ABI

func init() {
	var err error
	multicallABI, err = abi.JSON(strings.NewReader(`[{
		"name": "aggregate",
		"type": "function",
		"stateMutability": "view",
		"inputs": [{
			"name": "calls",
			"type": "tuple[]",
			"components": [
				{"name": "target", "type": "address"},
				{"name": "callData", "type": "bytes"}
			]
		}],
		"outputs": [
			{"name": "blockNumber", "type": "uint256"},
			{"name": "returnData", "type": "bytes[]"}
		]
	}]`))
	if err != nil {
		panic("multicall abi parse: " + err.Error())
	}
}

// aggregateCall es el tuple (target, callData) que espera el agregador.
type aggregateCall struct {
	Target   common.Address
	CallData []byte
}

// Multicall implementa ports.BatchReader sobre un contrato agregador.
type Multicall struct {
	caller  ethereum.ContractCaller
	address common.Address
}

// NewMulticall crea el reader apuntando al contrato agregador dado.
func NewMulticall(caller ethereum.ContractCaller, address common.Address) *Multicall {
	return &Multicall{caller: caller, address: address}
}

// BatchCall empaqueta todas las llamadas, ejecuta un único aggregate y
// devuelve el raw return data de cada llamada en orden.
func (m *Multicall) BatchCall(ctx context.Context, calls []ports.ContractCall) ([][]byte, error) {
	if len(calls) == 0 {
		return nil, nil
	}

	packed := make([]aggregateCall, len(calls))
	for i, c := range calls {
		data, err := c.ABI.Pack(c.Method, c.Args...)
		if err != nil {
			return nil, fmt.Errorf("onchain.BatchCall: pack %s[%d]: %w", c.Method, i, err)
		}
		packed[i] = aggregateCall{Target: c.Target, CallData: data}
	}

	callData, err := multicallABI.Pack("aggregate", packed)
	if err != nil {
		return nil, fmt.Errorf("onchain.BatchCall: pack aggregate: %w", err)
	}

	raw, err := m.caller.CallContract(ctx, ethereum.CallMsg{
		To:   &m.address,
		Data: callData,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("onchain.BatchCall: aggregate call: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("onchain.BatchCall: empty aggregate return")
	}

	vals, err := multicallABI.Unpack("aggregate", raw)
	if err != nil {
		return nil, fmt.Errorf("onchain.BatchCall: unpack aggregate: %w", err)
	}
	if len(vals) != 2 {
		return nil, fmt.Errorf("onchain.BatchCall: unexpected aggregate output arity %d", len(vals))
	}

	if _, ok := vals[0].(*big.Int); !ok {
		return nil, fmt.Errorf("onchain.BatchCall: block number is not an integer")
	}

	returnData, ok := vals[1].([][]byte)
	if !ok {
		return nil, fmt.Errorf("onchain.BatchCall: unexpected return data type %T", vals[1])
	}
	if len(returnData) != len(calls) {
		return nil, fmt.Errorf("onchain.BatchCall: got %d results for %d calls", len(returnData), len(calls))
	}

	return returnData, nil
}
