package ports

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ContractCall describe una llamada read-only a un contrato para el
// batched reader. Los Args deben coincidir con los inputs del método.
type ContractCall struct {
	Target common.Address
	ABI    *abi.ABI
	Method string
	Args   []any
}

// BatchReader colapsa N llamadas read-only en un solo round trip de red.
type BatchReader interface {
	// BatchCall ejecuta las llamadas en un solo request y devuelve el raw
	// return data de cada una, en el mismo orden que la entrada.
	// Semántica all-or-nothing: si la agregación falla, no hay resultados
	// parciales. Un elemento vacío significa que la llamada individual
	// no devolvió datos (p. ej. stake inexistente).
	BatchCall(ctx context.Context, calls []ContractCall) ([][]byte, error)
}
