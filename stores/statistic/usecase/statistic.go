package usecase

import (
	"math/big"
	"sync"

	"github.com/viney-shih/goroutines"

	bCtx "github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/base/log"
	"github.com/stakevault/goapi/domain"
	"github.com/stakevault/goapi/domain/stake"
	"github.com/stakevault/goapi/domain/statistic"
	"github.com/stakevault/goapi/domain/treasury"
)

type StatisticUseCaseCfg struct {
	StakeRepo         stake.StakeRepo
	PendingRewardRepo stake.PendingRewardRepo
	TreasuryRepo      treasury.Repo
	LedgerLock        *sync.RWMutex
}

type uc struct {
	stakeRepo    stake.StakeRepo
	rewardRepo   stake.PendingRewardRepo
	treasuryRepo treasury.Repo
	lock         *sync.RWMutex
}

func New(cfg *StatisticUseCaseCfg) statistic.UseCase {
	return &uc{
		stakeRepo:    cfg.StakeRepo,
		rewardRepo:   cfg.PendingRewardRepo,
		treasuryRepo: cfg.TreasuryRepo,
		lock:         cfg.LedgerLock,
	}
}

type kindTotal struct {
	kind  stake.RewardKind
	total domain.WeiAmount
}

func (u *uc) GetPlatformStats(ctx bCtx.Ctx) (*statistic.PlatformStats, error) {
	u.lock.RLock()
	defer u.lock.RUnlock()

	state, err := u.treasuryRepo.Get(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("treasuryRepo.Get failed")
		return nil, err
	}

	openCount, err := u.stakeRepo.Count(ctx, stake.WithUnstaked(false))
	if err != nil {
		ctx.WithField("err", err).Error("stakeRepo.Count failed")
		return nil, err
	}

	kinds := []stake.RewardKind{
		stake.RewardKindInstantCashback,
		stake.RewardKindApy,
		stake.RewardKindReferral,
	}

	b := goroutines.NewBatch(len(kinds), goroutines.WithBatchSize(len(kinds)))
	defer b.Close()
	for _, kind := range kinds {
		k := kind
		b.Queue(func() (interface{}, error) {
			total, err := u.sumRewards(ctx, k)
			if err != nil {
				return nil, err
			}
			return kindTotal{kind: k, total: total}, nil
		})
	}
	b.QueueComplete()

	totals := map[stake.RewardKind]domain.WeiAmount{}
	for ret := range b.Results() {
		if ret.Error() != nil {
			ctx.WithField("err", ret.Error()).Error("sumRewards failed")
			return nil, ret.Error()
		}
		kt := ret.Value().(kindTotal)
		totals[kt.kind] = kt.total
	}

	return &statistic.PlatformStats{
		TotalStaked:          state.TotalStaked,
		TotalPrincipalLocked: state.TotalPrincipalLocked,
		UniqueStakerCount:    state.UniqueStakerCount,
		OpenPositionCount:    openCount,
		RewardTotals:         totals,
	}, nil
}

func (u *uc) sumRewards(ctx bCtx.Ctx, kind stake.RewardKind) (domain.WeiAmount, error) {
	rewards, err := u.rewardRepo.FindAll(ctx, stake.RewardWithKind(kind))
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":  err,
			"kind": kind,
		}).Error("rewardRepo.FindAll failed")
		return domain.ZeroWei, err
	}
	total := new(big.Int)
	for _, r := range rewards {
		v, err := r.Amount.BigInt()
		if err != nil {
			return domain.ZeroWei, err
		}
		total.Add(total, v)
	}
	return domain.ToWeiAmount(total), nil
}
