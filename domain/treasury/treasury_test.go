package treasury

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stakevault/goapi/domain"
)

func wei(n int64) domain.WeiAmount {
	return domain.ToWeiAmount(new(big.Int).Mul(big.NewInt(n), domain.WeiPerToken))
}

func TestBalances(t *testing.T) {
	cases := []struct {
		name          string
		state         State
		wantAvailable string
		wantCoverage  string
		wantHealth    HealthStatus
	}{
		{
			name: "surplus over principal and liability",
			state: State{
				ContractBalance:       wei(1000),
				TotalPrincipalLocked:  wei(600),
				TotalPendingLiability: wei(100),
			},
			wantAvailable: wei(300).String(),
			wantCoverage:  "10",
			wantHealth:    HealthStatusHealthy,
		},
		{
			name: "zero liability is covered by definition",
			state: State{
				ContractBalance:       wei(50),
				TotalPrincipalLocked:  wei(50),
				TotalPendingLiability: domain.ZeroWei,
			},
			wantAvailable: "0",
			wantCoverage:  "1",
			wantHealth:    HealthStatusHealthy,
		},
		{
			name: "exactly 120% coverage is still healthy",
			state: State{
				ContractBalance:       wei(120),
				TotalPrincipalLocked:  domain.ZeroWei,
				TotalPendingLiability: wei(100),
			},
			wantAvailable: wei(20).String(),
			wantCoverage:  "1.2",
			wantHealth:    HealthStatusHealthy,
		},
		{
			name: "between 100% and 120% coverage is low",
			state: State{
				ContractBalance:       wei(110),
				TotalPrincipalLocked:  domain.ZeroWei,
				TotalPendingLiability: wei(100),
			},
			wantAvailable: wei(10).String(),
			wantCoverage:  "1.1",
			wantHealth:    HealthStatusLow,
		},
		{
			name: "below 100% coverage is critical",
			state: State{
				ContractBalance:       wei(90),
				TotalPrincipalLocked:  domain.ZeroWei,
				TotalPendingLiability: wei(100),
			},
			wantAvailable: "-" + wei(10).String(),
			wantCoverage:  "0.9",
			wantHealth:    HealthStatusCritical,
		},
		{
			name: "locked principal does not count toward coverage",
			state: State{
				ContractBalance:       wei(130),
				TotalPrincipalLocked:  wei(80),
				TotalPendingLiability: wei(100),
			},
			wantAvailable: "-" + wei(50).String(),
			wantCoverage:  "1.3",
			wantHealth:    HealthStatusHealthy,
		},
	}

	for _, c := range cases {
		b, err := c.state.Balances()
		require.Nil(t, err, c.name)

		assert.Equal(t, c.wantAvailable, b.AvailableRewards().String(), c.name+" available")
		wantCoverage, err := decimal.NewFromString(c.wantCoverage)
		require.Nil(t, err, c.name)
		assert.True(t, wantCoverage.Equal(b.CoverageRatio()), c.name+" coverage, got "+b.CoverageRatio().String())
		assert.Equal(t, c.wantHealth, b.Health(), c.name+" health")
	}
}

func TestBalancesBadAmount(t *testing.T) {
	s := State{
		ContractBalance:       domain.WeiAmount("not-a-number"),
		TotalPrincipalLocked:  domain.ZeroWei,
		TotalPendingLiability: domain.ZeroWei,
	}
	_, err := s.Balances()
	assert.Equal(t, domain.ErrInvalidNumberFormat, err)
}
