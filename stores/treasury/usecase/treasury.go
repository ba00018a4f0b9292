package usecase

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	bCtx "github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/domain"
	"github.com/stakevault/goapi/domain/ledgerevent"
	"github.com/stakevault/goapi/domain/treasury"
	"github.com/stakevault/goapi/service/alert"
	"github.com/stakevault/goapi/service/query"
)

var timeNow = time.Now

type TreasuryUseCaseCfg struct {
	TreasuryRepo treasury.Repo
	EventRepo    ledgerevent.Repo
	Q            query.Mongo
	LedgerLock   *sync.RWMutex
	Alert        alert.Notifier
}

type treasuryUseCaseImpl struct {
	treasuryRepo treasury.Repo
	eventRepo    ledgerevent.Repo
	q            query.Mongo
	lock         *sync.RWMutex
	alert        alert.Notifier
}

func NewTreasuryUseCase(cfg *TreasuryUseCaseCfg) treasury.UseCase {
	notifier := cfg.Alert
	if notifier == nil {
		notifier = alert.NewNoopNotifier()
	}
	return &treasuryUseCaseImpl{
		treasuryRepo: cfg.TreasuryRepo,
		eventRepo:    cfg.EventRepo,
		q:            cfg.Q,
		lock:         cfg.LedgerLock,
		alert:        notifier,
	}
}

// Deposit is always permitted, even paused, as it only improves solvency.
func (im *treasuryUseCaseImpl) Deposit(ctx bCtx.Ctx, amount domain.WeiAmount) (*treasury.Stats, error) {
	value, err := amount.BigInt()
	if err != nil || value.Sign() <= 0 {
		return nil, domain.ErrInvalidParameter
	}

	im.lock.Lock()
	defer im.lock.Unlock()

	var stats *treasury.Stats
	err = im.q.RunWithTransaction(ctx, func(ctx bCtx.Ctx) error {
		state, err := im.treasuryRepo.Get(ctx)
		if err != nil {
			return err
		}
		balances, err := state.Balances()
		if err != nil {
			return err
		}
		before := balances.Health()

		now := timeNow().UTC()
		state.ContractBalance = domain.ToWeiAmount(new(big.Int).Add(balances.ContractBalance, value))
		state.UpdatedAt = now
		if err := im.treasuryRepo.Upsert(ctx, state); err != nil {
			return err
		}

		if err := im.eventRepo.Append(ctx, &ledgerevent.Event{
			Type:      ledgerevent.TypeTreasuryDeposited,
			Timestamp: now,
			Payload:   map[string]interface{}{"amount": amount.String()},
		}); err != nil {
			return err
		}

		if stats, err = im.buildStats(state); err != nil {
			return err
		}
		im.notifyTransition(ctx, before, stats.Health)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Withdraw is capped at availableRewards. Principal and already-accrued
// but unclaimed rewards can never be swept by an admin.
func (im *treasuryUseCaseImpl) Withdraw(ctx bCtx.Ctx, amount domain.WeiAmount) (*treasury.Stats, error) {
	value, err := amount.BigInt()
	if err != nil || value.Sign() <= 0 {
		return nil, domain.ErrInvalidParameter
	}

	im.lock.Lock()
	defer im.lock.Unlock()

	var stats *treasury.Stats
	err = im.q.RunWithTransaction(ctx, func(ctx bCtx.Ctx) error {
		state, err := im.treasuryRepo.Get(ctx)
		if err != nil {
			return err
		}
		balances, err := state.Balances()
		if err != nil {
			return err
		}
		before := balances.Health()

		if balances.AvailableRewards().Cmp(value) < 0 {
			return domain.ErrInsufficientSurplus
		}

		now := timeNow().UTC()
		state.ContractBalance = domain.ToWeiAmount(new(big.Int).Sub(balances.ContractBalance, value))
		state.UpdatedAt = now
		if err := im.treasuryRepo.Upsert(ctx, state); err != nil {
			return err
		}

		if err := im.eventRepo.Append(ctx, &ledgerevent.Event{
			Type:      ledgerevent.TypeTreasuryWithdrawn,
			Timestamp: now,
			Payload:   map[string]interface{}{"amount": amount.String()},
		}); err != nil {
			return err
		}

		if stats, err = im.buildStats(state); err != nil {
			return err
		}
		im.notifyTransition(ctx, before, stats.Health)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (im *treasuryUseCaseImpl) Pause(ctx bCtx.Ctx) error {
	return im.setPaused(ctx, true)
}

func (im *treasuryUseCaseImpl) Unpause(ctx bCtx.Ctx) error {
	return im.setPaused(ctx, false)
}

func (im *treasuryUseCaseImpl) setPaused(ctx bCtx.Ctx, paused bool) error {
	im.lock.Lock()
	defer im.lock.Unlock()

	return im.q.RunWithTransaction(ctx, func(ctx bCtx.Ctx) error {
		state, err := im.treasuryRepo.Get(ctx)
		if err != nil {
			return err
		}
		if state.Paused == paused {
			if paused {
				return domain.ErrPaused
			}
			return domain.ErrNotPaused
		}

		now := timeNow().UTC()
		state.Paused = paused
		state.UpdatedAt = now
		if err := im.treasuryRepo.Upsert(ctx, state); err != nil {
			return err
		}

		evtType := ledgerevent.TypePaused
		if !paused {
			evtType = ledgerevent.TypeUnpaused
		}
		return im.eventRepo.Append(ctx, &ledgerevent.Event{
			Type:      evtType,
			Timestamp: now,
			Payload:   map[string]interface{}{},
		})
	})
}

func (im *treasuryUseCaseImpl) GetStats(ctx bCtx.Ctx) (*treasury.Stats, error) {
	im.lock.RLock()
	defer im.lock.RUnlock()

	state, err := im.treasuryRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return im.buildStats(state)
}

func (im *treasuryUseCaseImpl) buildStats(state *treasury.State) (*treasury.Stats, error) {
	balances, err := state.Balances()
	if err != nil {
		return nil, err
	}
	return &treasury.Stats{
		State:            state,
		AvailableRewards: domain.ToWeiAmount(balances.AvailableRewards()),
		CoverageRatio:    balances.CoverageRatio(),
		Health:           balances.Health(),
	}, nil
}

func (im *treasuryUseCaseImpl) notifyTransition(ctx bCtx.Ctx, before, after treasury.HealthStatus) {
	if before == after {
		return
	}
	im.alert.Notify(ctx, "treasury health changed",
		fmt.Sprintf("treasury health went from %s to %s", before, after))
}
