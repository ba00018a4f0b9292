package ledgerevent

import (
	"time"

	"github.com/stakevault/goapi/base/ctx"
)

type EventType string

const (
	TypeStaked                EventType = "Staked"
	TypeRewardClaimed         EventType = "RewardClaimed"
	TypeInstantRewardClaimed  EventType = "InstantRewardClaimed"
	TypeUnstaked              EventType = "Unstaked"
	TypeEmergencyUnstaked     EventType = "EmergencyUnstaked"
	TypeReferralRegistered    EventType = "ReferralRegistered"
	TypeAmountConfigAdded     EventType = "AmountConfigAdded"
	TypeAmountConfigUpdated   EventType = "AmountConfigUpdated"
	TypeLockConfigAdded       EventType = "LockConfigAdded"
	TypeLockConfigUpdated     EventType = "LockConfigUpdated"
	TypeReferralConfigUpdated EventType = "ReferralConfigUpdated"
	TypeTreasuryDeposited     EventType = "TreasuryDeposited"
	TypeTreasuryWithdrawn     EventType = "TreasuryWithdrawn"
	TypePaused                EventType = "Paused"
	TypeUnpaused              EventType = "Unpaused"
)

// Event is one entry of the append-only outbox consumed by off-chain
// mirrors. Seq is assigned atomically with the mutation that produced the
// event, so a consumer can replay deterministically from any offset.
// The mirror is never a source of truth for invariant enforcement.
type Event struct {
	Seq       int64                  `json:"seq" bson:"seq"`
	Type      EventType              `json:"type" bson:"type"`
	Timestamp time.Time              `json:"timestamp" bson:"timestamp"`
	Payload   map[string]interface{} `json:"payload" bson:"payload"`
}

type FindAllOptions struct {
	AfterSeq *int64
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

func WithAfterSeq(seq int64) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.AfterSeq = &seq
		return nil
	}
}

func WithLimit(limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Limit = &limit
		return nil
	}
}

type Repo interface {
	// Append assigns the next sequence numbers and inserts the events.
	// Callers invoke it inside the same transaction as the state mutation.
	Append(c ctx.Ctx, evts ...*Event) error
	FindAll(ctx.Ctx, ...FindAllOptionsFunc) ([]Event, error)
}

type UseCase interface {
	FindAll(ctx.Ctx, ...FindAllOptionsFunc) ([]Event, error)
}
