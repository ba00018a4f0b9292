package stake

import (
	"math/big"
	"time"

	"github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/domain"
)

const (
	// ClaimInterval is the fixed cadence between apy claims. It is a single
	// global constant, independent of each lock tier's own duration.
	ClaimInterval = 30 * 24 * time.Hour

	// SecondsPerYear is the accrual denominator for the annualized rate
	SecondsPerYear = 31536000
)

// StakePosition is one locked principal. AprBpsSnapshot is copied from the
// lock tier at open time; later rate edits never touch an open position.
type StakePosition struct {
	StakeId        string           `json:"stakeId" bson:"stakeId"`
	Owner          domain.Address   `json:"owner" bson:"owner"`
	AmountTierId   string           `json:"amountTierId" bson:"amountTierId"`
	LockTierId     string           `json:"lockTierId" bson:"lockTierId"`
	Principal      domain.WeiAmount `json:"principal" bson:"principal"`
	AprBpsSnapshot int32            `json:"aprBpsSnapshot" bson:"aprBpsSnapshot"`
	StartTime      time.Time        `json:"startTime" bson:"startTime"`
	LastClaimTime  time.Time        `json:"lastClaimTime" bson:"lastClaimTime"`
	UnlockTime     time.Time        `json:"unlockTime" bson:"unlockTime"`
	Referrer       *domain.Address  `json:"referrer,omitempty" bson:"referrer,omitempty"`
	Unstaked       bool             `json:"unstaked" bson:"unstaked"`
	UnstakedAt     *time.Time       `json:"unstakedAt,omitempty" bson:"unstakedAt,omitempty"`
}

type RewardKind string

const (
	RewardKindInstantCashback RewardKind = "instant_cashback"
	RewardKindApy             RewardKind = "apy_reward"
	RewardKindReferral        RewardKind = "referral_reward"
)

type RewardStatus string

const (
	RewardStatusPending RewardStatus = "pending"
	RewardStatusClaimed RewardStatus = "claimed"
)

// PendingReward records an earned reward at the moment it is earned. The
// amount paid at claim time is the amount recorded here; only apy rewards
// are computed freshly, and those settle within the claim call itself.
type PendingReward struct {
	Id            string           `json:"id" bson:"id"`
	WalletAddress domain.Address   `json:"walletAddress" bson:"walletAddress"`
	Kind          RewardKind       `json:"kind" bson:"kind"`
	Amount        domain.WeiAmount `json:"amount" bson:"amount"`
	SourceStakeId *string          `json:"sourceStakeId,omitempty" bson:"sourceStakeId,omitempty"`
	Status        RewardStatus     `json:"status" bson:"status"`
	CreatedAt     time.Time        `json:"createdAt" bson:"createdAt"`
	ClaimedAt     *time.Time       `json:"claimedAt,omitempty" bson:"claimedAt,omitempty"`
}

// InstantReward computes principal * bps / 10000 with floor rounding.
func InstantReward(principal *big.Int, instantRewardBps int32) *big.Int {
	r := new(big.Int).Mul(principal, big.NewInt(int64(instantRewardBps)))
	return r.Quo(r, big.NewInt(domain.BpsDenominator))
}

// AccruedReward computes the linear, non-compounding yield
// principal * aprBps / 10000 * elapsedSeconds / SecondsPerYear
// as a single integer division so no precision is lost before the floor.
func AccruedReward(principal *big.Int, aprBps int32, elapsed time.Duration) *big.Int {
	seconds := int64(elapsed / time.Second)
	if seconds <= 0 {
		return new(big.Int)
	}
	r := new(big.Int).Mul(principal, big.NewInt(int64(aprBps)))
	r.Mul(r, big.NewInt(seconds))
	return r.Quo(r, big.NewInt(domain.BpsDenominator*SecondsPerYear))
}

type StakePatchable struct {
	LastClaimTime *time.Time `bson:"lastClaimTime,omitempty"`
	Unstaked      *bool      `bson:"unstaked,omitempty"`
	UnstakedAt    *time.Time `bson:"unstakedAt,omitempty"`
}

type FindAllOptions struct {
	Owner    *domain.Address
	Unstaked *bool
	Offset   *int32
	Limit    *int32
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func WithOwner(owner domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Owner = owner.ToLowerPtr()
		return nil
	}
}

func WithUnstaked(unstaked bool) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Unstaked = &unstaked
		return nil
	}
}

func WithPagination(offset, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

type RewardFindAllOptions struct {
	Wallet        *domain.Address
	Kind          *RewardKind
	Status        *RewardStatus
	SourceStakeId *string
}

type RewardFindAllOptionsFunc func(*RewardFindAllOptions) error

func GetRewardFindAllOptions(opts ...RewardFindAllOptionsFunc) (RewardFindAllOptions, error) {
	res := RewardFindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func RewardWithWallet(wallet domain.Address) RewardFindAllOptionsFunc {
	return func(options *RewardFindAllOptions) error {
		options.Wallet = wallet.ToLowerPtr()
		return nil
	}
}

func RewardWithKind(kind RewardKind) RewardFindAllOptionsFunc {
	return func(options *RewardFindAllOptions) error {
		options.Kind = &kind
		return nil
	}
}

func RewardWithStatus(status RewardStatus) RewardFindAllOptionsFunc {
	return func(options *RewardFindAllOptions) error {
		options.Status = &status
		return nil
	}
}

func RewardWithSourceStakeId(stakeId string) RewardFindAllOptionsFunc {
	return func(options *RewardFindAllOptions) error {
		options.SourceStakeId = &stakeId
		return nil
	}
}

type StakeRepo interface {
	FindAll(ctx.Ctx, ...FindAllOptionsFunc) ([]StakePosition, error)
	FindOne(c ctx.Ctx, stakeId string) (*StakePosition, error)
	Count(c ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)
	Create(c ctx.Ctx, p *StakePosition) error
	Patch(c ctx.Ctx, stakeId string, patchable StakePatchable) error
}

type PendingRewardRepo interface {
	FindAll(ctx.Ctx, ...RewardFindAllOptionsFunc) ([]PendingReward, error)
	Create(c ctx.Ctx, r *PendingReward) error
	// MarkClaimed flips a pending entry to claimed. ErrNotFound when the
	// entry is absent or already claimed, so settlement is exactly-once.
	MarkClaimed(c ctx.Ctx, id string, claimedAt time.Time) error
}

type UseCase interface {
	OpenStake(c ctx.Ctx, owner domain.Address, amountTierId, lockTierId string, referrer *domain.Address) (*StakePosition, error)
	Claim(c ctx.Ctx, caller domain.Address, stakeId string) (*PendingReward, error)
	Unstake(c ctx.Ctx, caller domain.Address, stakeId string) (*StakePosition, error)
	EmergencyUnstake(c ctx.Ctx, caller domain.Address, stakeId string) (*StakePosition, error)
	ClaimableInstantRewards(c ctx.Ctx, owner domain.Address) (domain.WeiAmount, error)
	ClaimInstantRewards(c ctx.Ctx, owner domain.Address) (domain.WeiAmount, error)
	ClaimReferralRewards(c ctx.Ctx, owner domain.Address) (domain.WeiAmount, error)
	GetUserStakes(c ctx.Ctx, owner domain.Address, opts ...FindAllOptionsFunc) ([]StakePosition, error)
	GetStakeDetails(c ctx.Ctx, stakeId string) (*StakePosition, error)
	PendingRewards(c ctx.Ctx, opts ...RewardFindAllOptionsFunc) ([]PendingReward, error)
}
