package stake

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stakevault/goapi/domain"
)

func tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), domain.WeiPerToken)
}

func TestInstantReward(t *testing.T) {
	cases := []struct {
		name      string
		principal *big.Int
		bps       int32
		want      *big.Int
	}{
		{
			name:      "5% of 1000 tokens",
			principal: tokens(1000),
			bps:       500,
			want:      tokens(50),
		},
		{
			name:      "zero bps pays nothing",
			principal: tokens(1000),
			bps:       0,
			want:      big.NewInt(0),
		},
		{
			name:      "floors toward zero",
			principal: big.NewInt(3),
			bps:       500,
			want:      big.NewInt(0),
		},
		{
			name:      "odd principal floors the remainder",
			principal: big.NewInt(10001),
			bps:       1,
			want:      big.NewInt(1),
		},
	}

	for _, c := range cases {
		got := InstantReward(c.principal, c.bps)
		assert.Equal(t, 0, c.want.Cmp(got), c.name+" failed, got "+got.String())
	}
}

func TestAccruedReward(t *testing.T) {
	cases := []struct {
		name      string
		principal *big.Int
		aprBps    int32
		elapsed   time.Duration
		want      *big.Int
	}{
		{
			name:      "full year at 10% apr yields 10%",
			principal: tokens(1000),
			aprBps:    1000,
			elapsed:   SecondsPerYear * time.Second,
			want:      tokens(100),
		},
		{
			name:      "half year accrues half",
			principal: tokens(1000),
			aprBps:    1000,
			elapsed:   SecondsPerYear / 2 * time.Second,
			want:      tokens(50),
		},
		{
			name:      "one claim interval of a 12% apr",
			principal: tokens(3650),
			aprBps:    1200,
			elapsed:   ClaimInterval,
			want: new(big.Int).Quo(
				new(big.Int).Mul(tokens(3650*1200), big.NewInt(30*24*3600)),
				big.NewInt(domain.BpsDenominator*SecondsPerYear),
			),
		},
		{
			name:      "zero elapsed accrues nothing",
			principal: tokens(1000),
			aprBps:    1000,
			elapsed:   0,
			want:      big.NewInt(0),
		},
		{
			name:      "negative elapsed accrues nothing",
			principal: tokens(1000),
			aprBps:    1000,
			elapsed:   -time.Hour,
			want:      big.NewInt(0),
		},
		{
			name:      "sub-second elapsed accrues nothing",
			principal: tokens(1000),
			aprBps:    1000,
			elapsed:   500 * time.Millisecond,
			want:      big.NewInt(0),
		},
	}

	for _, c := range cases {
		got := AccruedReward(c.principal, c.aprBps, c.elapsed)
		assert.Equal(t, 0, c.want.Cmp(got), c.name+" failed, got "+got.String())
	}
}

// Accruing two consecutive intervals must never pay more than accruing the
// combined span in one shot, or claim timing would change the payout.
func TestAccruedRewardAdditive(t *testing.T) {
	principal := tokens(12345)
	aprBps := int32(777)

	first := AccruedReward(principal, aprBps, ClaimInterval)
	second := AccruedReward(principal, aprBps, ClaimInterval)
	split := new(big.Int).Add(first, second)
	whole := AccruedReward(principal, aprBps, 2*ClaimInterval)

	assert.True(t, split.Cmp(whole) <= 0, "split accrual exceeds whole-span accrual")
	// the gap is only ever the flooring remainder
	diff := new(big.Int).Sub(whole, split)
	assert.True(t, diff.Cmp(big.NewInt(2)) < 0, "flooring gap too large: "+diff.String())
}
