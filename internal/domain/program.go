package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RewardProgram representa un programa de incentivos de staking on-chain.
// Se lee completo en cada fetch — nunca se parchea en memoria.
type RewardProgram struct {
	ID           string // id opaco del programa (uint256 on-chain, stringificado)
	Pool         string // dirección del pool incentivado
	PoolToken    string // token de liquidez del pool
	RewardsToken string // token en el que se pagan los rewards
	RewardRate   string // tokens por segundo en base units, stringificado
	IsEnabled    bool
	StartTime    int64 // unix seconds
	EndTime      int64 // unix seconds
}

// IsActive devuelve true si el programa está habilitado y dentro de su ventana.
func (p RewardProgram) IsActive(now time.Time) bool {
	ts := now.Unix()
	return p.IsEnabled && ts >= p.StartTime && ts < p.EndTime
}

// Duration devuelve la duración total del programa.
func (p RewardProgram) Duration() time.Duration {
	if p.EndTime <= p.StartTime {
		return 0
	}
	return time.Duration(p.EndTime-p.StartTime) * time.Second
}

// ProviderStake es la posición de un usuario dentro de un RewardProgram.
// Es un registro derivado: se recalcula completo en cada consulta.
type ProviderStake struct {
	RewardProgram

	// PoolTokenAmountWei es el amount de pool tokens en stake, en base units.
	PoolTokenAmountWei decimal.Decimal
	// TokenAmountWei es el equivalente en el token subyacente, en base units.
	// Derivado vía la conversión pool-token → underlying del contrato.
	TokenAmountWei decimal.Decimal
	// PendingRewardsWei son los rewards sin reclamar, en base units.
	PendingRewardsWei decimal.Decimal
}
