package tier

import (
	"time"

	"github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/domain"
)

const (
	// MaxInstantRewardBps caps the instant cashback rate at 100%
	MaxInstantRewardBps = 10000
	// MaxAprBps caps the annualized yield rate at 500%
	MaxAprBps = 50000
	// MaxLockDurationDays caps locks at 100 years. Beyond roughly 106751
	// days the day count no longer fits a time.Duration, so unlock times
	// would wrap negative.
	MaxLockDurationDays = 36500
)

// AmountTier is an admin-defined stake size with an instant cashback rate.
// PrincipalAmount is immutable after creation; tiers are deactivated, never
// deleted, so already-open positions can still resolve them.
type AmountTier struct {
	Id               string           `json:"id" bson:"id"`
	PrincipalAmount  domain.WeiAmount `json:"principalAmount" bson:"principalAmount"`
	InstantRewardBps int32            `json:"instantRewardBps" bson:"instantRewardBps"`
	Active           bool             `json:"active" bson:"active"`
	CreatedAt        time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt" bson:"updatedAt"`
}

// LockTier is an admin-defined lock duration with an annualized yield rate.
// LockDurationDays is immutable after creation.
type LockTier struct {
	Id               string    `json:"id" bson:"id"`
	LockDurationDays int32     `json:"lockDurationDays" bson:"lockDurationDays"`
	AprBps           int32     `json:"aprBps" bson:"aprBps"`
	Active           bool      `json:"active" bson:"active"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt" bson:"updatedAt"`
}

type AmountTierPatchable struct {
	InstantRewardBps *int32     `bson:"instantRewardBps,omitempty"`
	Active           *bool      `bson:"active,omitempty"`
	UpdatedAt        *time.Time `bson:"updatedAt,omitempty"`
}

type LockTierPatchable struct {
	AprBps    *int32     `bson:"aprBps,omitempty"`
	Active    *bool      `bson:"active,omitempty"`
	UpdatedAt *time.Time `bson:"updatedAt,omitempty"`
}

type FindAllOptions struct {
	ActiveOnly *bool `bson:"-"`
	SortBy     *string
	SortDir    *domain.SortDir
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

func WithActiveOnly(activeOnly bool) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ActiveOnly = &activeOnly
		return nil
	}
}

func WithSort(sortby string, sortdir domain.SortDir) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.SortBy = &sortby
		options.SortDir = &sortdir
		return nil
	}
}

type AmountTierRepo interface {
	FindAll(ctx.Ctx, ...FindAllOptionsFunc) ([]AmountTier, error)
	FindOne(c ctx.Ctx, id string) (*AmountTier, error)
	Create(c ctx.Ctx, t *AmountTier) error
	Patch(c ctx.Ctx, id string, patchable AmountTierPatchable) error
}

type LockTierRepo interface {
	FindAll(ctx.Ctx, ...FindAllOptionsFunc) ([]LockTier, error)
	FindOne(c ctx.Ctx, id string) (*LockTier, error)
	Create(c ctx.Ctx, t *LockTier) error
	Patch(c ctx.Ctx, id string, patchable LockTierPatchable) error
}

// Catalog groups the tier listings offered to stakers.
type Catalog struct {
	AmountTiers []AmountTier `json:"amountTiers"`
	LockTiers   []LockTier   `json:"lockTiers"`
}

type UseCase interface {
	AddAmountTier(c ctx.Ctx, principal domain.WeiAmount, instantRewardBps int32) (*AmountTier, error)
	AddLockTier(c ctx.Ctx, lockDurationDays int32, aprBps int32) (*LockTier, error)
	UpdateAmountTier(c ctx.Ctx, id string, instantRewardBps *int32, active *bool) (*AmountTier, error)
	UpdateLockTier(c ctx.Ctx, id string, aprBps *int32, active *bool) (*LockTier, error)
	GetCatalog(c ctx.Ctx, activeOnly bool) (*Catalog, error)
}
