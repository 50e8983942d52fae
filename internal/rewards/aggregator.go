package rewards

// aggregator.go — Reward-program aggregation service.
//
// Compone el batched reader (vía ports.StakingReader) y varias lecturas
// individuales en una lista de registros enriquecidos. Fail-fast en todo:
// cualquier error en cualquier paso aborta la operación completa, sin
// resultados parciales y sin retries.

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/alejandrodnm/swapdesk/internal/domain"
	"github.com/alejandrodnm/swapdesk/internal/ports"
)

// Aggregator lee y normaliza reward programs y posiciones de staking.
type Aggregator struct {
	staking ports.StakingReader
}

// NewAggregator crea el servicio sobre el reader dado.
func NewAggregator(staking ports.StakingReader) *Aggregator {
	return &Aggregator{staking: staking}
}

// FetchAllPrograms lee todos los ids y después todos los structs de
// programa en un solo pase agregado.
func (a *Aggregator) FetchAllPrograms(ctx context.Context) ([]domain.RewardProgram, error) {
	ids, err := a.staking.ProgramIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("rewards.FetchAllPrograms: %w", err)
	}
	if len(ids) == 0 {
		return []domain.RewardProgram{}, nil
	}

	programs, err := a.staking.Programs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("rewards.FetchAllPrograms: %w", err)
	}

	slog.Debug("reward programs fetched", "count", len(programs))
	return programs, nil
}

// enrichment es el resultado del paso de enriquecimiento por programa.
type enrichment struct {
	idx        int
	underlying decimal.Decimal
	pending    decimal.Decimal
	err        error
}

// FetchStakesByUser devuelve las posiciones del provider, enriquecidas con
// la conversión a underlying y los rewards pendientes.
//
// El enriquecimiento lanza un goroutine por programa (y las dos sub-llamadas
// de cada programa van en paralelo entre sí); los resultados se reensamblan
// en el orden de entrada y el primer error aborta la operación entera.
func (a *Aggregator) FetchStakesByUser(ctx context.Context, provider string) ([]domain.ProviderStake, error) {
	if provider == "" {
		return nil, fmt.Errorf("rewards.FetchStakesByUser: provider address is required")
	}

	ids, err := a.staking.ProviderProgramIDs(ctx, provider)
	if err != nil {
		return nil, fmt.Errorf("rewards.FetchStakesByUser: %w", err)
	}
	if len(ids) == 0 {
		return []domain.ProviderStake{}, nil
	}

	stakedAmounts, err := a.staking.ProviderStakes(ctx, provider, ids)
	if err != nil {
		return nil, fmt.Errorf("rewards.FetchStakesByUser: %w", err)
	}
	if len(stakedAmounts) != len(ids) {
		return nil, fmt.Errorf("rewards.FetchStakesByUser: got %d stakes for %d programs", len(stakedAmounts), len(ids))
	}

	programs, err := a.staking.Programs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("rewards.FetchStakesByUser: %w", err)
	}
	if len(programs) != len(ids) {
		return nil, fmt.Errorf("rewards.FetchStakesByUser: got %d programs for %d ids", len(programs), len(ids))
	}

	resultCh := make(chan enrichment, len(programs))
	var wg sync.WaitGroup

	for i := range programs {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			resultCh <- a.enrich(ctx, provider, programs[i], stakedAmounts[i], i)
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	underlying := make([]decimal.Decimal, len(programs))
	pending := make([]decimal.Decimal, len(programs))
	var firstErr error

	for r := range resultCh {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		underlying[r.idx] = r.underlying
		pending[r.idx] = r.pending
	}

	if firstErr != nil {
		return nil, fmt.Errorf("rewards.FetchStakesByUser: %w", firstErr)
	}

	stakes := make([]domain.ProviderStake, len(programs))
	for i, p := range programs {
		stakes[i] = domain.ProviderStake{
			RewardProgram:      p,
			PoolTokenAmountWei: stakedAmounts[i],
			TokenAmountWei:     underlying[i],
			PendingRewardsWei:  pending[i],
		}
	}

	slog.Debug("provider stakes fetched", "provider", provider, "count", len(stakes))
	return stakes, nil
}

// enrich resuelve las dos sub-llamadas de un programa en paralelo.
func (a *Aggregator) enrich(ctx context.Context, provider string, p domain.RewardProgram, staked decimal.Decimal, idx int) enrichment {
	type pendingResult struct {
		amount decimal.Decimal
		err    error
	}
	pendingCh := make(chan pendingResult, 1)

	go func() {
		amount, err := a.staking.PendingRewards(ctx, provider, p.ID)
		pendingCh <- pendingResult{amount: amount, err: err}
	}()

	underlying, convErr := a.staking.PoolTokenToUnderlying(ctx, p.Pool, staked)
	pr := <-pendingCh

	switch {
	case convErr != nil:
		return enrichment{idx: idx, err: fmt.Errorf("program %s: convert stake: %w", p.ID, convErr)}
	case pr.err != nil:
		return enrichment{idx: idx, err: fmt.Errorf("program %s: pending rewards: %w", p.ID, pr.err)}
	}

	return enrichment{idx: idx, underlying: underlying, pending: pr.amount}
}
