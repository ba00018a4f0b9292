package treasury

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/domain"
)

type HealthStatus string

const (
	HealthStatusHealthy  HealthStatus = "healthy"
	HealthStatusLow      HealthStatus = "low"
	HealthStatusCritical HealthStatus = "critical"
)

// coverage thresholds in bps of liability
const (
	healthyCoverageBps = 12000
	lowCoverageBps     = 10000
)

// State is the singleton treasury document. It also carries the global
// pause flag and the platform counters, so one ledger transaction updates
// one document.
type State struct {
	Id                    string           `json:"-" bson:"id"`
	ContractBalance       domain.WeiAmount `json:"contractBalance" bson:"contractBalance"`
	TotalPrincipalLocked  domain.WeiAmount `json:"totalPrincipalLocked" bson:"totalPrincipalLocked"`
	TotalPendingLiability domain.WeiAmount `json:"totalPendingLiability" bson:"totalPendingLiability"`
	TotalStaked           domain.WeiAmount `json:"totalStaked" bson:"totalStaked"`
	UniqueStakerCount     int64            `json:"uniqueStakerCount" bson:"uniqueStakerCount"`
	Paused                bool             `json:"paused" bson:"paused"`
	UpdatedAt             time.Time        `json:"updatedAt" bson:"updatedAt"`
}

// StateId is the fixed id of the singleton document
const StateId = "treasury"

// Balances is State parsed into big integers for exact arithmetic.
type Balances struct {
	ContractBalance       *big.Int
	TotalPrincipalLocked  *big.Int
	TotalPendingLiability *big.Int
}

func (s *State) Balances() (*Balances, error) {
	balance, err := s.ContractBalance.BigInt()
	if err != nil {
		return nil, err
	}
	locked, err := s.TotalPrincipalLocked.BigInt()
	if err != nil {
		return nil, err
	}
	liability, err := s.TotalPendingLiability.BigInt()
	if err != nil {
		return nil, err
	}
	return &Balances{
		ContractBalance:       balance,
		TotalPrincipalLocked:  locked,
		TotalPendingLiability: liability,
	}, nil
}

// AvailableRewards is contractBalance - totalPrincipalLocked -
// totalPendingLiability, the only funds an admin may sweep and the budget
// every reward settlement is checked against.
func (b *Balances) AvailableRewards() *big.Int {
	avail := new(big.Int).Sub(b.ContractBalance, b.TotalPrincipalLocked)
	return avail.Sub(avail, b.TotalPendingLiability)
}

// CoverageRatio is contractBalance / totalPendingLiability. With zero
// liability the treasury is fully covered by definition.
func (b *Balances) CoverageRatio() decimal.Decimal {
	if b.TotalPendingLiability.Sign() <= 0 {
		return decimal.NewFromInt(1)
	}
	balance := decimal.NewFromBigInt(b.ContractBalance, 0)
	liability := decimal.NewFromBigInt(b.TotalPendingLiability, 0)
	return balance.DivRound(liability, 6)
}

// Health derives the solvency flag. It is a read-side signal only; the
// ledger keeps operating in critical as long as per-operation checks pass.
func (b *Balances) Health() HealthStatus {
	if b.TotalPendingLiability.Sign() <= 0 {
		return HealthStatusHealthy
	}
	scaled := new(big.Int).Mul(b.ContractBalance, big.NewInt(domain.BpsDenominator))
	threshold := new(big.Int).Mul(b.TotalPendingLiability, big.NewInt(healthyCoverageBps))
	if scaled.Cmp(threshold) >= 0 {
		return HealthStatusHealthy
	}
	threshold.Mul(b.TotalPendingLiability, big.NewInt(lowCoverageBps))
	if scaled.Cmp(threshold) >= 0 {
		return HealthStatusLow
	}
	return HealthStatusCritical
}

// Stats is the read model served to collaborators.
type Stats struct {
	State            *State           `json:"state"`
	AvailableRewards domain.WeiAmount `json:"availableRewards"`
	CoverageRatio    decimal.Decimal  `json:"coverageRatio"`
	Health           HealthStatus     `json:"health"`
}

type Repo interface {
	Get(c ctx.Ctx) (*State, error)
	Upsert(c ctx.Ctx, s *State) error
}

type UseCase interface {
	Deposit(c ctx.Ctx, amount domain.WeiAmount) (*Stats, error)
	Withdraw(c ctx.Ctx, amount domain.WeiAmount) (*Stats, error)
	Pause(c ctx.Ctx) error
	Unpause(c ctx.Ctx) error
	GetStats(c ctx.Ctx) (*Stats, error)
}
