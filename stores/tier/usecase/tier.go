package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"
	bCtx "github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/domain"
	"github.com/stakevault/goapi/domain/ledgerevent"
	"github.com/stakevault/goapi/domain/tier"
	"github.com/stakevault/goapi/service/query"
)

var timeNow = time.Now

type TierUseCaseCfg struct {
	AmountTierRepo tier.AmountTierRepo
	LockTierRepo   tier.LockTierRepo
	EventRepo      ledgerevent.Repo
	Q              query.Mongo
	// LedgerLock serializes config mutation with ledger operations so an
	// open-stake never observes a tier active during validation and
	// inactive during mutation.
	LedgerLock *sync.RWMutex
}

type tierUseCaseImpl struct {
	amountTierRepo tier.AmountTierRepo
	lockTierRepo   tier.LockTierRepo
	eventRepo      ledgerevent.Repo
	q              query.Mongo
	lock           *sync.RWMutex
}

func NewTierUseCase(cfg *TierUseCaseCfg) tier.UseCase {
	return &tierUseCaseImpl{
		amountTierRepo: cfg.AmountTierRepo,
		lockTierRepo:   cfg.LockTierRepo,
		eventRepo:      cfg.EventRepo,
		q:              cfg.Q,
		lock:           cfg.LedgerLock,
	}
}

func (im *tierUseCaseImpl) AddAmountTier(ctx bCtx.Ctx, principal domain.WeiAmount, instantRewardBps int32) (*tier.AmountTier, error) {
	p, err := principal.BigInt()
	if err != nil {
		return nil, domain.ErrInvalidParameter
	}
	if p.Sign() <= 0 {
		return nil, domain.ErrInvalidParameter
	}
	if instantRewardBps < 0 || instantRewardBps > tier.MaxInstantRewardBps {
		return nil, domain.ErrInvalidParameter
	}

	im.lock.Lock()
	defer im.lock.Unlock()

	now := timeNow().UTC()
	t := &tier.AmountTier{
		Id:               uuid.NewString(),
		PrincipalAmount:  principal,
		InstantRewardBps: instantRewardBps,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = im.q.RunWithTransaction(ctx, func(ctx bCtx.Ctx) error {
		if err := im.amountTierRepo.Create(ctx, t); err != nil {
			return err
		}
		return im.eventRepo.Append(ctx, &ledgerevent.Event{
			Type:      ledgerevent.TypeAmountConfigAdded,
			Timestamp: now,
			Payload: map[string]interface{}{
				"tierId":           t.Id,
				"principalAmount":  t.PrincipalAmount.String(),
				"instantRewardBps": t.InstantRewardBps,
			},
		})
	})
	if err != nil {
		ctx.WithField("err", err).Error("AddAmountTier failed")
		return nil, err
	}
	return t, nil
}

func (im *tierUseCaseImpl) AddLockTier(ctx bCtx.Ctx, lockDurationDays int32, aprBps int32) (*tier.LockTier, error) {
	if lockDurationDays <= 0 || lockDurationDays > tier.MaxLockDurationDays {
		return nil, domain.ErrInvalidParameter
	}
	if aprBps < 0 || aprBps > tier.MaxAprBps {
		return nil, domain.ErrInvalidParameter
	}

	im.lock.Lock()
	defer im.lock.Unlock()

	now := timeNow().UTC()
	t := &tier.LockTier{
		Id:               uuid.NewString(),
		LockDurationDays: lockDurationDays,
		AprBps:           aprBps,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := im.q.RunWithTransaction(ctx, func(ctx bCtx.Ctx) error {
		if err := im.lockTierRepo.Create(ctx, t); err != nil {
			return err
		}
		return im.eventRepo.Append(ctx, &ledgerevent.Event{
			Type:      ledgerevent.TypeLockConfigAdded,
			Timestamp: now,
			Payload: map[string]interface{}{
				"tierId":           t.Id,
				"lockDurationDays": t.LockDurationDays,
				"aprBps":           t.AprBps,
			},
		})
	})
	if err != nil {
		ctx.WithField("err", err).Error("AddLockTier failed")
		return nil, err
	}
	return t, nil
}

// UpdateAmountTier mutates the rate or active flag only. The principal is
// immutable so positions referencing the tier by snapshot stay valid.
func (im *tierUseCaseImpl) UpdateAmountTier(ctx bCtx.Ctx, id string, instantRewardBps *int32, active *bool) (*tier.AmountTier, error) {
	if instantRewardBps != nil && (*instantRewardBps < 0 || *instantRewardBps > tier.MaxInstantRewardBps) {
		return nil, domain.ErrInvalidParameter
	}

	im.lock.Lock()
	defer im.lock.Unlock()

	now := timeNow().UTC()
	err := im.q.RunWithTransaction(ctx, func(ctx bCtx.Ctx) error {
		if err := im.amountTierRepo.Patch(ctx, id, tier.AmountTierPatchable{
			InstantRewardBps: instantRewardBps,
			Active:           active,
			UpdatedAt:        &now,
		}); err != nil {
			return err
		}
		return im.eventRepo.Append(ctx, &ledgerevent.Event{
			Type:      ledgerevent.TypeAmountConfigUpdated,
			Timestamp: now,
			Payload:   map[string]interface{}{"tierId": id},
		})
	})
	if err == domain.ErrNotFound {
		return nil, err
	} else if err != nil {
		ctx.WithField("err", err).Error("UpdateAmountTier failed")
		return nil, err
	}
	return im.amountTierRepo.FindOne(ctx, id)
}

func (im *tierUseCaseImpl) UpdateLockTier(ctx bCtx.Ctx, id string, aprBps *int32, active *bool) (*tier.LockTier, error) {
	if aprBps != nil && (*aprBps < 0 || *aprBps > tier.MaxAprBps) {
		return nil, domain.ErrInvalidParameter
	}

	im.lock.Lock()
	defer im.lock.Unlock()

	now := timeNow().UTC()
	err := im.q.RunWithTransaction(ctx, func(ctx bCtx.Ctx) error {
		if err := im.lockTierRepo.Patch(ctx, id, tier.LockTierPatchable{
			AprBps:    aprBps,
			Active:    active,
			UpdatedAt: &now,
		}); err != nil {
			return err
		}
		return im.eventRepo.Append(ctx, &ledgerevent.Event{
			Type:      ledgerevent.TypeLockConfigUpdated,
			Timestamp: now,
			Payload:   map[string]interface{}{"tierId": id},
		})
	})
	if err == domain.ErrNotFound {
		return nil, err
	} else if err != nil {
		ctx.WithField("err", err).Error("UpdateLockTier failed")
		return nil, err
	}
	return im.lockTierRepo.FindOne(ctx, id)
}

func (im *tierUseCaseImpl) GetCatalog(ctx bCtx.Ctx, activeOnly bool) (*tier.Catalog, error) {
	im.lock.RLock()
	defer im.lock.RUnlock()

	opts := []tier.FindAllOptionsFunc{}
	if activeOnly {
		opts = append(opts, tier.WithActiveOnly(true))
	}

	amountTiers, err := im.amountTierRepo.FindAll(ctx, opts...)
	if err != nil {
		ctx.WithField("err", err).Error("amountTierRepo.FindAll failed")
		return nil, err
	}
	lockTiers, err := im.lockTierRepo.FindAll(ctx, opts...)
	if err != nil {
		ctx.WithField("err", err).Error("lockTierRepo.FindAll failed")
		return nil, err
	}

	return &tier.Catalog{AmountTiers: amountTiers, LockTiers: lockTiers}, nil
}
