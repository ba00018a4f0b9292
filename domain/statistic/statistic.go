package statistic

import (
	bCtx "github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/domain"
	"github.com/stakevault/goapi/domain/stake"
)

// PlatformStats is the public aggregate view across all positions and
// rewards. Reward totals cover both pending and claimed entries.
type PlatformStats struct {
	TotalStaked          domain.WeiAmount                      `json:"totalStaked"`
	TotalPrincipalLocked domain.WeiAmount                      `json:"totalPrincipalLocked"`
	UniqueStakerCount    int64                                 `json:"uniqueStakerCount"`
	OpenPositionCount    int                                   `json:"openPositionCount"`
	RewardTotals         map[stake.RewardKind]domain.WeiAmount `json:"rewardTotals"`
}

type UseCase interface {
	GetPlatformStats(ctx bCtx.Ctx) (*PlatformStats, error)
}
