package repository

import (
	"time"

	bCtx "github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/domain"
	"github.com/stakevault/goapi/domain/stake"
	"github.com/stakevault/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

type pendingRewardRepoImpl struct {
	q query.Mongo
}

func NewPendingRewardRepo(q query.Mongo) stake.PendingRewardRepo {
	return &pendingRewardRepoImpl{q: q}
}

func (r *pendingRewardRepoImpl) FindAll(ctx bCtx.Ctx, optFns ...stake.RewardFindAllOptionsFunc) ([]stake.PendingReward, error) {
	opts, err := stake.GetRewardFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("stake.GetRewardFindAllOptions failed")
		return nil, err
	}

	qry := bson.M{}
	if opts.Wallet != nil {
		qry["walletAddress"] = *opts.Wallet
	}
	if opts.Kind != nil {
		qry["kind"] = *opts.Kind
	}
	if opts.Status != nil {
		qry["status"] = *opts.Status
	}
	if opts.SourceStakeId != nil {
		qry["sourceStakeId"] = *opts.SourceStakeId
	}

	rewards := []stake.PendingReward{}
	if err := r.q.Search(ctx, domain.TablePendingRewards, 0, 0, "createdAt", qry, &rewards); err != nil {
		ctx.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return rewards, nil
}

func (r *pendingRewardRepoImpl) Create(ctx bCtx.Ctx, reward *stake.PendingReward) error {
	copy := *reward
	copy.WalletAddress = reward.WalletAddress.ToLower()
	if err := r.q.Insert(ctx, domain.TablePendingRewards, &copy); err != nil {
		ctx.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *pendingRewardRepoImpl) MarkClaimed(ctx bCtx.Ctx, id string, claimedAt time.Time) error {
	// selecting on status makes the pending->claimed transition exactly-once
	selector := bson.M{"id": id, "status": stake.RewardStatusPending}
	update := bson.M{"status": stake.RewardStatusClaimed, "claimedAt": claimedAt}
	if err := r.q.Patch(ctx, domain.TablePendingRewards, selector, update); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.Patch failed")
		return err
	}
	return nil
}
