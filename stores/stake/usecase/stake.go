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
	"github.com/stakevault/goapi/domain/tier"
	"github.com/stakevault/goapi/domain/treasury"
	"github.com/stakevault/goapi/service/query"
)

var timeNow = time.Now

type StakeUseCaseCfg struct {
	StakeRepo         stake.StakeRepo
	PendingRewardRepo stake.PendingRewardRepo
	AmountTierRepo    tier.AmountTierRepo
	LockTierRepo      tier.LockTierRepo
	TreasuryRepo      treasury.Repo
	ReferralUC        referral.UseCase
	EventRepo         ledgerevent.Repo
	Q                 query.Mongo
	// LedgerLock guards the stake ledger, treasury and referral engine as
	// one consistency domain. Every mutation runs as one serialized unit.
	LedgerLock *sync.RWMutex
}

type stakeUseCaseImpl struct {
	stakeRepo         stake.StakeRepo
	pendingRewardRepo stake.PendingRewardRepo
	amountTierRepo    tier.AmountTierRepo
	lockTierRepo      tier.LockTierRepo
	treasuryRepo      treasury.Repo
	referralUC        referral.UseCase
	eventRepo         ledgerevent.Repo
	q                 query.Mongo
	lock              *sync.RWMutex
}

func NewStakeUseCase(cfg *StakeUseCaseCfg) stake.UseCase {
	return &stakeUseCaseImpl{
		stakeRepo:         cfg.StakeRepo,
		pendingRewardRepo: cfg.PendingRewardRepo,
		amountTierRepo:    cfg.AmountTierRepo,
		lockTierRepo:      cfg.LockTierRepo,
		treasuryRepo:      cfg.TreasuryRepo,
		referralUC:        cfg.ReferralUC,
		eventRepo:         cfg.EventRepo,
		q:                 cfg.Q,
		lock:              cfg.LedgerLock,
	}
}

func (im *stakeUseCaseImpl) OpenStake(ctx bCtx.Ctx, owner domain.Address, amountTierId, lockTierId string, referrer *domain.Address) (*stake.StakePosition, error) {
	im.lock.Lock()
	defer im.lock.Unlock()

	var pos *stake.StakePosition
	err := im.q.RunWithTransaction(ctx, func(ctx bCtx.Ctx) error {
		state, err := im.treasuryRepo.Get(ctx)
		if err != nil {
			return err
		}
		if state.Paused {
			return domain.ErrPaused
		}

		amountTier, err := im.amountTierRepo.FindOne(ctx, amountTierId)
		if err != nil {
			return err
		}
		lockTier, err := im.lockTierRepo.FindOne(ctx, lockTierId)
		if err != nil {
			return err
		}
		if !amountTier.Active || !lockTier.Active {
			return domain.ErrInvalidParameter
		}

		principal, err := amountTier.PrincipalAmount.BigInt()
		if err != nil {
			return err
		}

		now := timeNow().UTC()
		pos = &stake.StakePosition{
			StakeId:        uuid.NewString(),
			Owner:          owner.ToLower(),
			AmountTierId:   amountTierId,
			LockTierId:     lockTierId,
			Principal:      amountTier.PrincipalAmount,
			AprBpsSnapshot: lockTier.AprBps,
			StartTime:      now,
			LastClaimTime:  now,
			UnlockTime:     now.Add(time.Duration(lockTier.LockDurationDays) * 24 * time.Hour),
		}

		// first-ever stake of this wallet bumps the unique staker count
		existing, err := im.stakeRepo.Count(ctx, stake.WithOwner(owner))
		if err != nil {
			return err
		}

		instant := stake.InstantReward(principal, amountTier.InstantRewardBps)
		liabilityDelta := new(big.Int).Set(instant)

		events := []*ledgerevent.Event{{
			Type:      ledgerevent.TypeStaked,
			Timestamp: now,
			Payload: map[string]interface{}{
				"stakeId":      pos.StakeId,
				"owner":        pos.Owner.ToLowerStr(),
				"amountTierId": amountTierId,
				"lockTierId":   lockTierId,
				"principal":    pos.Principal.String(),
				"aprBps":       pos.AprBpsSnapshot,
				"unlockTime":   pos.UnlockTime,
			},
		}}

		if referrer != nil && !referrer.IsEmpty() && !referrer.Equals(owner) {
			reg, err := im.referralUC.RegisterReferral(ctx, *referrer, owner, pos.StakeId, pos.Principal)
			if err != nil {
				return err
			}
			if !reg.Skipped {
				pos.Referrer = referrer.ToLowerPtr()
				reward, err := reg.Reward.BigInt()
				if err != nil {
					return err
				}
				liabilityDelta.Add(liabilityDelta, reward)
				events = append(events, &ledgerevent.Event{
					Type:      ledgerevent.TypeReferralRegistered,
					Timestamp: now,
					Payload: map[string]interface{}{
						"referrer": referrer.ToLowerStr(),
						"referred": pos.Owner.ToLowerStr(),
						"stakeId":  pos.StakeId,
						"reward":   reg.Reward.String(),
					},
				})
			}
		}

		balances, err := state.Balances()
		if err != nil {
			return err
		}

		// principal enters the treasury and is locked in the same motion,
		// so the new liability must be covered by the preexisting surplus
		available := balances.AvailableRewards()
		if available.Cmp(liabilityDelta) < 0 {
			return domain.ErrInsufficientTreasury
		}

		if err := im.stakeRepo.Create(ctx, pos); err != nil {
			return err
		}

		if instant.Sign() > 0 {
			if err := im.pendingRewardRepo.Create(ctx, &stake.PendingReward{
				Id:            uuid.NewString(),
				WalletAddress: pos.Owner,
				Kind:          stake.RewardKindInstantCashback,
				Amount:        domain.ToWeiAmount(instant),
				SourceStakeId: &pos.StakeId,
				Status:        stake.RewardStatusPending,
				CreatedAt:     now,
			}); err != nil {
				return err
			}
		}

		totalStaked, err := state.TotalStaked.BigInt()
		if err != nil {
			return err
		}

		state.ContractBalance = domain.ToWeiAmount(new(big.Int).Add(balances.ContractBalance, principal))
		state.TotalPrincipalLocked = domain.ToWeiAmount(new(big.Int).Add(balances.TotalPrincipalLocked, principal))
		state.TotalPendingLiability = domain.ToWeiAmount(new(big.Int).Add(balances.TotalPendingLiability, liabilityDelta))
		state.TotalStaked = domain.ToWeiAmount(totalStaked.Add(totalStaked, principal))
		if existing == 0 {
			state.UniqueStakerCount++
		}
		state.UpdatedAt = now
		if err := im.treasuryRepo.Upsert(ctx, state); err != nil {
			return err
		}

		return im.eventRepo.Append(ctx, events...)
	})
	if err != nil {
		return nil, err
	}
	return pos, nil
}

// Claim settles the apy accrued since the last claim. The reward is
// computed fresh over elapsed time, linear and non-compounding, and pays
// out of available rewards in the same transaction.
func (im *stakeUseCaseImpl) Claim(ctx bCtx.Ctx, caller domain.Address, stakeId string) (*stake.PendingReward, error) {
	im.lock.Lock()
	defer im.lock.Unlock()

	var settled *stake.PendingReward
	err := im.q.RunWithTransaction(ctx, func(ctx bCtx.Ctx) error {
		state, err := im.treasuryRepo.Get(ctx)
		if err != nil {
			return err
		}
		if state.Paused {
			return domain.ErrPaused
		}

		pos, err := im.stakeRepo.FindOne(ctx, stakeId)
		if err != nil {
			return err
		}
		if !pos.Owner.Equals(caller) {
			return domain.ErrUnauthorized
		}
		if pos.Unstaked {
			return domain.ErrAlreadyClosed
		}

		now := timeNow().UTC()
		elapsed := now.Sub(pos.LastClaimTime)
		if elapsed < stake.ClaimInterval {
			return domain.ErrClaimTooEarly
		}

		principal, err := pos.Principal.BigInt()
		if err != nil {
			return err
		}
		reward := stake.AccruedReward(principal, pos.AprBpsSnapshot, elapsed)

		balances, err := state.Balances()
		if err != nil {
			return err
		}
		if balances.AvailableRewards().Cmp(reward) < 0 {
			return domain.ErrInsufficientTreasury
		}

		settled = &stake.PendingReward{
			Id:            uuid.NewString(),
			WalletAddress: pos.Owner,
			Kind:          stake.RewardKindApy,
			Amount:        domain.ToWeiAmount(reward),
			SourceStakeId: &pos.StakeId,
			Status:        stake.RewardStatusClaimed,
			CreatedAt:     now,
			ClaimedAt:     &now,
		}
		if err := im.pendingRewardRepo.Create(ctx, settled); err != nil {
			return err
		}

		if err := im.stakeRepo.Patch(ctx, stakeId, stake.StakePatchable{LastClaimTime: &now}); err != nil {
			return err
		}

		state.ContractBalance = domain.ToWeiAmount(new(big.Int).Sub(balances.ContractBalance, reward))
		state.UpdatedAt = now
		if err := im.treasuryRepo.Upsert(ctx, state); err != nil {
			return err
		}

		return im.eventRepo.Append(ctx, &ledgerevent.Event{
			Type:      ledgerevent.TypeRewardClaimed,
			Timestamp: now,
			Payload: map[string]interface{}{
				"stakeId": stakeId,
				"owner":   pos.Owner.ToLowerStr(),
				"kind":    stake.RewardKindApy,
				"amount":  settled.Amount.String(),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return settled, nil
}

func (im *stakeUseCaseImpl) Unstake(ctx bCtx.Ctx, caller domain.Address, stakeId string) (*stake.StakePosition, error) {
	return im.unstake(ctx, caller, stakeId, false)
}

// EmergencyUnstake bypasses the unlock check. It is only permitted while
// the ledger is paused, the escape hatch for incident response.
func (im *stakeUseCaseImpl) EmergencyUnstake(ctx bCtx.Ctx, caller domain.Address, stakeId string) (*stake.StakePosition, error) {
	return im.unstake(ctx, caller, stakeId, true)
}

func (im *stakeUseCaseImpl) unstake(ctx bCtx.Ctx, caller domain.Address, stakeId string, emergency bool) (*stake.StakePosition, error) {
	im.lock.Lock()
	defer im.lock.Unlock()

	var pos *stake.StakePosition
	err := im.q.RunWithTransaction(ctx, func(ctx bCtx.Ctx) error {
		state, err := im.treasuryRepo.Get(ctx)
		if err != nil {
			return err
		}
		if emergency && !state.Paused {
			return domain.ErrNotPaused
		}
		if !emergency && state.Paused {
			return domain.ErrPaused
		}

		pos, err = im.stakeRepo.FindOne(ctx, stakeId)
		if err != nil {
			return err
		}
		if !pos.Owner.Equals(caller) {
			return domain.ErrUnauthorized
		}
		if pos.Unstaked {
			return domain.ErrAlreadyClosed
		}

		now := timeNow().UTC()
		if !emergency && now.Before(pos.UnlockTime) {
			return domain.ErrLockActive
		}

		principal, err := pos.Principal.BigInt()
		if err != nil {
			return err
		}

		unstaked := true
		if err := im.stakeRepo.Patch(ctx, stakeId, stake.StakePatchable{
			Unstaked:   &unstaked,
			UnstakedAt: &now,
		}); err != nil {
			return err
		}
		pos.Unstaked = true
		pos.UnstakedAt = &now

		balances, err := state.Balances()
		if err != nil {
			return err
		}
		state.ContractBalance = domain.ToWeiAmount(new(big.Int).Sub(balances.ContractBalance, principal))
		state.TotalPrincipalLocked = domain.ToWeiAmount(new(big.Int).Sub(balances.TotalPrincipalLocked, principal))
		state.UpdatedAt = now
		if err := im.treasuryRepo.Upsert(ctx, state); err != nil {
			return err
		}

		evtType := ledgerevent.TypeUnstaked
		if emergency {
			evtType = ledgerevent.TypeEmergencyUnstaked
		}
		return im.eventRepo.Append(ctx, &ledgerevent.Event{
			Type:      evtType,
			Timestamp: now,
			Payload: map[string]interface{}{
				"stakeId":   stakeId,
				"owner":     pos.Owner.ToLowerStr(),
				"principal": pos.Principal.String(),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return pos, nil
}

func (im *stakeUseCaseImpl) ClaimableInstantRewards(ctx bCtx.Ctx, owner domain.Address) (domain.WeiAmount, error) {
	im.lock.RLock()
	defer im.lock.RUnlock()
	return im.sumPending(ctx, owner, stake.RewardKindInstantCashback)
}

// ClaimInstantRewards settles every pending instant cashback of the wallet
// in one call. Nothing pending is a no-op, not an error, so retried client
// calls cannot double-apply.
func (im *stakeUseCaseImpl) ClaimInstantRewards(ctx bCtx.Ctx, owner domain.Address) (domain.WeiAmount, error) {
	return im.settlePending(ctx, owner, stake.RewardKindInstantCashback, ledgerevent.TypeInstantRewardClaimed)
}

// ClaimReferralRewards is the same aggregate settlement for referral
// commissions.
func (im *stakeUseCaseImpl) ClaimReferralRewards(ctx bCtx.Ctx, owner domain.Address) (domain.WeiAmount, error) {
	return im.settlePending(ctx, owner, stake.RewardKindReferral, ledgerevent.TypeRewardClaimed)
}

func (im *stakeUseCaseImpl) sumPending(ctx bCtx.Ctx, owner domain.Address, kind stake.RewardKind) (domain.WeiAmount, error) {
	rewards, err := im.pendingRewardRepo.FindAll(ctx,
		stake.RewardWithWallet(owner),
		stake.RewardWithKind(kind),
		stake.RewardWithStatus(stake.RewardStatusPending),
	)
	if err != nil {
		return domain.ZeroWei, err
	}

	total := new(big.Int)
	for _, r := range rewards {
		amount, err := r.Amount.BigInt()
		if err != nil {
			return domain.ZeroWei, err
		}
		total.Add(total, amount)
	}
	return domain.ToWeiAmount(total), nil
}

func (im *stakeUseCaseImpl) settlePending(ctx bCtx.Ctx, owner domain.Address, kind stake.RewardKind, evtType ledgerevent.EventType) (domain.WeiAmount, error) {
	im.lock.Lock()
	defer im.lock.Unlock()

	settled := domain.ZeroWei
	err := im.q.RunWithTransaction(ctx, func(ctx bCtx.Ctx) error {
		rewards, err := im.pendingRewardRepo.FindAll(ctx,
			stake.RewardWithWallet(owner),
			stake.RewardWithKind(kind),
			stake.RewardWithStatus(stake.RewardStatusPending),
		)
		if err != nil {
			return err
		}
		if len(rewards) == 0 {
			return nil
		}

		now := timeNow().UTC()
		total := new(big.Int)
		for _, r := range rewards {
			amount, err := r.Amount.BigInt()
			if err != nil {
				return err
			}
			if err := im.pendingRewardRepo.MarkClaimed(ctx, r.Id, now); err != nil {
				return err
			}
			total.Add(total, amount)
		}

		state, err := im.treasuryRepo.Get(ctx)
		if err != nil {
			return err
		}
		balances, err := state.Balances()
		if err != nil {
			return err
		}

		// the payout retires liability recorded at creation time, so the
		// available surplus is unchanged and the settlement cannot break
		// solvency on its own
		state.ContractBalance = domain.ToWeiAmount(new(big.Int).Sub(balances.ContractBalance, total))
		state.TotalPendingLiability = domain.ToWeiAmount(new(big.Int).Sub(balances.TotalPendingLiability, total))
		state.UpdatedAt = now
		if err := im.treasuryRepo.Upsert(ctx, state); err != nil {
			return err
		}

		settled = domain.ToWeiAmount(total)
		return im.eventRepo.Append(ctx, &ledgerevent.Event{
			Type:      evtType,
			Timestamp: now,
			Payload: map[string]interface{}{
				"owner":  owner.ToLowerStr(),
				"kind":   kind,
				"amount": settled.String(),
			},
		})
	})
	if err != nil {
		return domain.ZeroWei, err
	}
	return settled, nil
}

func (im *stakeUseCaseImpl) GetUserStakes(ctx bCtx.Ctx, owner domain.Address, opts ...stake.FindAllOptionsFunc) ([]stake.StakePosition, error) {
	im.lock.RLock()
	defer im.lock.RUnlock()

	opts = append(opts, stake.WithOwner(owner))
	return im.stakeRepo.FindAll(ctx, opts...)
}

func (im *stakeUseCaseImpl) GetStakeDetails(ctx bCtx.Ctx, stakeId string) (*stake.StakePosition, error) {
	im.lock.RLock()
	defer im.lock.RUnlock()
	return im.stakeRepo.FindOne(ctx, stakeId)
}

func (im *stakeUseCaseImpl) PendingRewards(ctx bCtx.Ctx, opts ...stake.RewardFindAllOptionsFunc) ([]stake.PendingReward, error) {
	im.lock.RLock()
	defer im.lock.RUnlock()
	return im.pendingRewardRepo.FindAll(ctx, opts...)
}
