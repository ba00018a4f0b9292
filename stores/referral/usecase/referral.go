package usecase

import (
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
	bCtx "github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/domain"
	"github.com/stakevault/goapi/domain/ledgerevent"
	"github.com/stakevault/goapi/domain/referral"
	"github.com/stakevault/goapi/domain/stake"
	"github.com/stakevault/goapi/service/query"
)

var timeNow = time.Now

type ReferralUseCaseCfg struct {
	ConfigRepo        referral.ConfigRepo
	LinkRepo          referral.LinkRepo
	StatsRepo         referral.StatsRepo
	PendingRewardRepo stake.PendingRewardRepo
	EventRepo         ledgerevent.Repo
	Q                 query.Mongo
	LedgerLock        *sync.RWMutex
}

type referralUseCaseImpl struct {
	configRepo        referral.ConfigRepo
	linkRepo          referral.LinkRepo
	statsRepo         referral.StatsRepo
	pendingRewardRepo stake.PendingRewardRepo
	eventRepo         ledgerevent.Repo
	q                 query.Mongo
	lock              *sync.RWMutex
}

func NewReferralUseCase(cfg *ReferralUseCaseCfg) referral.UseCase {
	return &referralUseCaseImpl{
		configRepo:        cfg.ConfigRepo,
		linkRepo:          cfg.LinkRepo,
		statsRepo:         cfg.StatsRepo,
		pendingRewardRepo: cfg.PendingRewardRepo,
		eventRepo:         cfg.EventRepo,
		q:                 cfg.Q,
		lock:              cfg.LedgerLock,
	}
}

func (im *referralUseCaseImpl) SetConfig(ctx bCtx.Ctx, referralBps, referrerBonusBps int32, paused bool) (*referral.Config, error) {
	if referralBps < 0 || referralBps > domain.BpsDenominator {
		return nil, domain.ErrInvalidParameter
	}
	if referrerBonusBps < 0 || referrerBonusBps > domain.BpsDenominator {
		return nil, domain.ErrInvalidParameter
	}

	im.lock.Lock()
	defer im.lock.Unlock()

	now := timeNow().UTC()
	cfg := &referral.Config{
		ReferralBps:      referralBps,
		ReferrerBonusBps: referrerBonusBps,
		Paused:           paused,
		UpdatedAt:        now,
	}

	err := im.q.RunWithTransaction(ctx, func(ctx bCtx.Ctx) error {
		if err := im.configRepo.Upsert(ctx, cfg); err != nil {
			return err
		}
		return im.eventRepo.Append(ctx, &ledgerevent.Event{
			Type:      ledgerevent.TypeReferralConfigUpdated,
			Timestamp: now,
			Payload: map[string]interface{}{
				"referralBps":      referralBps,
				"referrerBonusBps": referrerBonusBps,
				"paused":           paused,
			},
		})
	})
	if err != nil {
		ctx.WithField("err", err).Error("SetConfig failed")
		return nil, err
	}
	return cfg, nil
}

func (im *referralUseCaseImpl) GetConfig(ctx bCtx.Ctx) (*referral.Config, error) {
	im.lock.RLock()
	defer im.lock.RUnlock()
	return im.configRepo.Get(ctx)
}

// RegisterReferral runs inside the stake ledger's open-stake transaction;
// the caller holds the ledger write lock, so no locking happens here. A
// paused engine, a self referral, or an already-linked stake registers
// nothing and reports Skipped instead of failing the stake.
func (im *referralUseCaseImpl) RegisterReferral(ctx bCtx.Ctx, referrer, referred domain.Address, stakeId string, principal domain.WeiAmount) (*referral.Registration, error) {
	skipped := &referral.Registration{Reward: domain.ZeroWei, Skipped: true}

	if referrer.Equals(referred) {
		return skipped, nil
	}

	cfg, err := im.configRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.Paused {
		return skipped, nil
	}

	if _, err := im.linkRepo.FindOne(ctx, referred, stakeId); err == nil {
		return skipped, nil
	} else if err != domain.ErrNotFound {
		return nil, err
	}

	p, err := principal.BigInt()
	if err != nil {
		return nil, err
	}

	now := timeNow().UTC()
	link := &referral.Link{
		Referrer:         referrer.ToLower(),
		Referred:         referred.ToLower(),
		StakeId:          stakeId,
		ReferralBps:      cfg.ReferralBps,
		ReferrerBonusBps: cfg.ReferrerBonusBps,
		CreatedAt:        now,
	}
	if err := im.linkRepo.Create(ctx, link); err != nil {
		return nil, err
	}

	// commission plus bonus, both against the new stake's principal
	commission := new(big.Int).Mul(p, big.NewInt(int64(cfg.ReferralBps)+int64(cfg.ReferrerBonusBps)))
	commission.Quo(commission, big.NewInt(domain.BpsDenominator))
	earned := domain.ToWeiAmount(commission)

	if commission.Sign() > 0 {
		if err := im.pendingRewardRepo.Create(ctx, &stake.PendingReward{
			Id:            uuid.NewString(),
			WalletAddress: referrer.ToLower(),
			Kind:          stake.RewardKindReferral,
			Amount:        earned,
			SourceStakeId: &stakeId,
			Status:        stake.RewardStatusPending,
			CreatedAt:     now,
		}); err != nil {
			return nil, err
		}
	}

	if err := im.statsRepo.IncrementEarnings(ctx, referrer, earned); err != nil {
		return nil, err
	}

	return &referral.Registration{Link: link, Reward: earned}, nil
}

func (im *referralUseCaseImpl) GetStats(ctx bCtx.Ctx, wallet domain.Address) (*referral.Stats, error) {
	im.lock.RLock()
	defer im.lock.RUnlock()
	return im.statsRepo.Get(ctx, wallet)
}
