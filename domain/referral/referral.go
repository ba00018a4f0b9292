package referral

import (
	"time"

	"github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/domain"
)

// Config is the singleton commission configuration. Pausing only stops new
// registrations; recorded links and already-issued rewards are untouched.
type Config struct {
	Id               string    `json:"-" bson:"id"`
	ReferralBps      int32     `json:"referralBps" bson:"referralBps"`
	ReferrerBonusBps int32     `json:"referrerBonusBps" bson:"referrerBonusBps"`
	Paused           bool      `json:"paused" bson:"paused"`
	UpdatedAt        time.Time `json:"updatedAt" bson:"updatedAt"`
}

const ConfigId = "referral"

// Link snapshots the split active when the referral was registered.
// One link per (referred wallet, stake).
type Link struct {
	Referrer         domain.Address `json:"referrer" bson:"referrer"`
	Referred         domain.Address `json:"referred" bson:"referred"`
	StakeId          string         `json:"stakeId" bson:"stakeId"`
	ReferralBps      int32          `json:"referralBps" bson:"referralBps"`
	ReferrerBonusBps int32          `json:"referrerBonusBps" bson:"referrerBonusBps"`
	CreatedAt        time.Time      `json:"createdAt" bson:"createdAt"`
}

type Stats struct {
	Wallet        domain.Address   `json:"wallet" bson:"wallet"`
	ReferralsMade int64            `json:"referralsMade" bson:"referralsMade"`
	TotalEarnings domain.WeiAmount `json:"totalEarnings" bson:"totalEarnings"`
	UpdatedAt     time.Time        `json:"updatedAt" bson:"updatedAt"`
}

type LinkFindAllOptions struct {
	Referrer *domain.Address
	Referred *domain.Address
	StakeId  *string
}

type LinkFindAllOptionsFunc func(*LinkFindAllOptions) error

func GetLinkFindAllOptions(opts ...LinkFindAllOptionsFunc) (LinkFindAllOptions, error) {
	res := LinkFindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func LinkWithReferrer(referrer domain.Address) LinkFindAllOptionsFunc {
	return func(options *LinkFindAllOptions) error {
		options.Referrer = referrer.ToLowerPtr()
		return nil
	}
}

func LinkWithReferred(referred domain.Address) LinkFindAllOptionsFunc {
	return func(options *LinkFindAllOptions) error {
		options.Referred = referred.ToLowerPtr()
		return nil
	}
}

func LinkWithStakeId(stakeId string) LinkFindAllOptionsFunc {
	return func(options *LinkFindAllOptions) error {
		options.StakeId = &stakeId
		return nil
	}
}

type ConfigRepo interface {
	Get(c ctx.Ctx) (*Config, error)
	Upsert(c ctx.Ctx, cfg *Config) error
}

type LinkRepo interface {
	FindAll(ctx.Ctx, ...LinkFindAllOptionsFunc) ([]Link, error)
	FindOne(c ctx.Ctx, referred domain.Address, stakeId string) (*Link, error)
	Create(c ctx.Ctx, l *Link) error
}

type StatsRepo interface {
	Get(c ctx.Ctx, wallet domain.Address) (*Stats, error)
	// IncrementEarnings bumps referralsMade by one and adds earned to
	// totalEarnings, creating the stats row on first use.
	IncrementEarnings(c ctx.Ctx, wallet domain.Address, earned domain.WeiAmount) error
}

// Registration is the outcome of a registration attempt. Skipped is set
// when the engine is paused, which is a silent no-op rather than an error.
type Registration struct {
	Link    *Link            `json:"link,omitempty"`
	Reward  domain.WeiAmount `json:"reward"`
	Skipped bool             `json:"skipped"`
}

type UseCase interface {
	SetConfig(c ctx.Ctx, referralBps, referrerBonusBps int32, paused bool) (*Config, error)
	GetConfig(c ctx.Ctx) (*Config, error)
	// RegisterReferral is invoked by the stake ledger inside the open-stake
	// transaction. principal is the new stake's principal, the commission
	// base.
	RegisterReferral(c ctx.Ctx, referrer, referred domain.Address, stakeId string, principal domain.WeiAmount) (*Registration, error)
	GetStats(c ctx.Ctx, wallet domain.Address) (*Stats, error)
}
