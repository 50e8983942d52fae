package onchain

// staking.go — lecturas de los contratos de standard rewards.
//
// Implementa ports.StakingReader. Las lecturas por-programa (structs y
// stakes) van por el batched reader; el resto son eth_call individuales.

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/alejandrodnm/swapdesk/internal/domain"
	"github.com/alejandrodnm/swapdesk/internal/ports"
)

var (
	rewardsABI abi.ABI
	infoABI    abi.ABI
)

func init() {
	var err error

	rewardsABI, err = abi.JSON(strings.NewReader(`[
		{
			"name": "programIds", "type": "function", "stateMutability": "view",
			"inputs": [],
			"outputs": [{"name": "", "type": "uint256[]"}]
		},
		{
			"name": "providerProgramIds", "type": "function", "stateMutability": "view",
			"inputs": [{"name": "provider", "type": "address"}],
			"outputs": [{"name": "", "type": "uint256[]"}]
		},
		{
			"name": "program", "type": "function", "stateMutability": "view",
			"inputs": [{"name": "id", "type": "uint256"}],
			"outputs": [
				{"name": "id", "type": "uint256"},
				{"name": "pool", "type": "address"},
				{"name": "poolToken", "type": "address"},
				{"name": "rewardsToken", "type": "address"},
				{"name": "isEnabled", "type": "bool"},
				{"name": "startTime", "type": "uint32"},
				{"name": "endTime", "type": "uint32"},
				{"name": "rewardRate", "type": "uint256"}
			]
		},
		{
			"name": "providerStake", "type": "function", "stateMutability": "view",
			"inputs": [
				{"name": "provider", "type": "address"},
				{"name": "id", "type": "uint256"}
			],
			"outputs": [{"name": "", "type": "uint256"}]
		},
		{
			"name": "pendingRewards", "type": "function", "stateMutability": "view",
			"inputs": [
				{"name": "provider", "type": "address"},
				{"name": "ids", "type": "uint256[]"}
			],
			"outputs": [{"name": "", "type": "uint256"}]
		}
	]`))
	if err != nil {
		panic("rewards abi parse: " + err.Error())
	}

	infoABI, err = abi.JSON(strings.NewReader(`[{
		"name": "poolTokenToUnderlying", "type": "function", "stateMutability": "view",
		"inputs": [
			{"name": "pool", "type": "address"},
			{"name": "poolTokenAmount", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "uint256"}]
	}]`))
	if err != nil {
		panic("network info abi parse: " + err.Error())
	}
}

// StakingClient implementa ports.StakingReader contra los contratos
// de rewards y de network info.
type StakingClient struct {
	caller  ethereum.ContractCaller
	batch   ports.BatchReader
	rewards common.Address
	info    common.Address
}

// NewStakingClient crea el cliente de lecturas de staking.
func NewStakingClient(caller ethereum.ContractCaller, batch ports.BatchReader, rewardsAddr, infoAddr common.Address) *StakingClient {
	return &StakingClient{caller: caller, batch: batch, rewards: rewardsAddr, info: infoAddr}
}

// ProgramIDs devuelve todos los ids de programas del contrato.
func (sc *StakingClient) ProgramIDs(ctx context.Context) ([]string, error) {
	vals, err := sc.call(ctx, sc.rewards, rewardsABI, "programIds")
	if err != nil {
		return nil, fmt.Errorf("onchain.ProgramIDs: %w", err)
	}
	return bigIntsToStrings(vals[0])
}

// ProviderProgramIDs devuelve los ids de programas del provider dado.
func (sc *StakingClient) ProviderProgramIDs(ctx context.Context, provider string) ([]string, error) {
	vals, err := sc.call(ctx, sc.rewards, rewardsABI, "providerProgramIds", common.HexToAddress(provider))
	if err != nil {
		return nil, fmt.Errorf("onchain.ProviderProgramIDs: %w", err)
	}
	return bigIntsToStrings(vals[0])
}

// Programs lee el struct completo de cada programa en un solo batch,
// preservando el orden de los ids.
func (sc *StakingClient) Programs(ctx context.Context, ids []string) ([]domain.RewardProgram, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	calls := make([]ports.ContractCall, len(ids))
	for i, id := range ids {
		pid, err := parseProgramID(id)
		if err != nil {
			return nil, fmt.Errorf("onchain.Programs: %w", err)
		}
		calls[i] = ports.ContractCall{
			Target: sc.rewards,
			ABI:    &rewardsABI,
			Method: "program",
			Args:   []any{pid},
		}
	}

	raw, err := sc.batch.BatchCall(ctx, calls)
	if err != nil {
		return nil, fmt.Errorf("onchain.Programs: %w", err)
	}

	programs := make([]domain.RewardProgram, len(ids))
	for i, data := range raw {
		p, err := unpackProgram(data)
		if err != nil {
			return nil, fmt.Errorf("onchain.Programs: id %s: %w", ids[i], err)
		}
		programs[i] = p
	}
	return programs, nil
}

// ProviderStakes lee el pool-token amount en stake por programa en un solo
// batch. Un return vacío significa que no hay stake: cuenta como cero.
func (sc *StakingClient) ProviderStakes(ctx context.Context, provider string, ids []string) ([]decimal.Decimal, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	addr := common.HexToAddress(provider)
	calls := make([]ports.ContractCall, len(ids))
	for i, id := range ids {
		pid, err := parseProgramID(id)
		if err != nil {
			return nil, fmt.Errorf("onchain.ProviderStakes: %w", err)
		}
		calls[i] = ports.ContractCall{
			Target: sc.rewards,
			ABI:    &rewardsABI,
			Method: "providerStake",
			Args:   []any{addr, pid},
		}
	}

	raw, err := sc.batch.BatchCall(ctx, calls)
	if err != nil {
		return nil, fmt.Errorf("onchain.ProviderStakes: %w", err)
	}

	stakes := make([]decimal.Decimal, len(ids))
	for i, data := range raw {
		if len(data) == 0 {
			stakes[i] = decimal.Zero
			continue
		}
		vals, err := rewardsABI.Unpack("providerStake", data)
		if err != nil || len(vals) == 0 {
			return nil, fmt.Errorf("onchain.ProviderStakes: unpack id %s: %w", ids[i], err)
		}
		stakes[i] = decimal.NewFromBigInt(vals[0].(*big.Int), 0)
	}
	return stakes, nil
}

// PendingRewards devuelve los rewards sin reclamar de un programa.
func (sc *StakingClient) PendingRewards(ctx context.Context, provider, programID string) (decimal.Decimal, error) {
	pid, err := parseProgramID(programID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("onchain.PendingRewards: %w", err)
	}

	vals, err := sc.call(ctx, sc.rewards, rewardsABI, "pendingRewards",
		common.HexToAddress(provider), []*big.Int{pid})
	if err != nil {
		return decimal.Zero, fmt.Errorf("onchain.PendingRewards: %w", err)
	}
	return decimal.NewFromBigInt(vals[0].(*big.Int), 0), nil
}

// PoolTokenToUnderlying convierte pool tokens a underlying al rate actual.
func (sc *StakingClient) PoolTokenToUnderlying(ctx context.Context, pool string, poolTokenAmount decimal.Decimal) (decimal.Decimal, error) {
	vals, err := sc.call(ctx, sc.info, infoABI, "poolTokenToUnderlying",
		common.HexToAddress(pool), poolTokenAmount.BigInt())
	if err != nil {
		return decimal.Zero, fmt.Errorf("onchain.PoolTokenToUnderlying: %w", err)
	}
	return decimal.NewFromBigInt(vals[0].(*big.Int), 0), nil
}

// call hace un eth_call individual y devuelve los outputs desempaquetados.
func (sc *StakingClient) call(ctx context.Context, target common.Address, contractABI abi.ABI, method string, args ...any) ([]any, error) {
	callData, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	raw, err := sc.caller.CallContract(ctx, ethereum.CallMsg{
		To:   &target,
		Data: callData,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("call %s: empty return", method)
	}

	vals, err := contractABI.Unpack(method, raw)
	if err != nil || len(vals) == 0 {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return vals, nil
}

// unpackProgram convierte el raw return de program(id) al domain entity.
// Los amounts e ids se stringifican para transporte sin pérdida de precisión.
func unpackProgram(data []byte) (domain.RewardProgram, error) {
	if len(data) == 0 {
		return domain.RewardProgram{}, fmt.Errorf("empty program return")
	}

	vals, err := rewardsABI.Unpack("program", data)
	if err != nil {
		return domain.RewardProgram{}, fmt.Errorf("unpack program: %w", err)
	}
	if len(vals) != 8 {
		return domain.RewardProgram{}, fmt.Errorf("unexpected program output arity %d", len(vals))
	}

	return domain.RewardProgram{
		ID:           vals[0].(*big.Int).String(),
		Pool:         vals[1].(common.Address).Hex(),
		PoolToken:    vals[2].(common.Address).Hex(),
		RewardsToken: vals[3].(common.Address).Hex(),
		IsEnabled:    vals[4].(bool),
		StartTime:    int64(vals[5].(uint32)),
		EndTime:      int64(vals[6].(uint32)),
		RewardRate:   vals[7].(*big.Int).String(),
	}, nil
}

// parseProgramID valida y convierte un id decimal stringificado.
func parseProgramID(id string) (*big.Int, error) {
	pid, ok := new(big.Int).SetString(id, 10)
	if !ok {
		return nil, fmt.Errorf("invalid program id %q", id)
	}
	return pid, nil
}

// bigIntsToStrings convierte el output uint256[] a ids stringificados.
func bigIntsToStrings(val any) ([]string, error) {
	ints, ok := val.([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected id list type %T", val)
	}
	ids := make([]string, len(ints))
	for i, v := range ints {
		ids[i] = v.String()
	}
	return ids, nil
}
