package repository

import (
	"math/big"
	"time"

	bCtx "github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/domain"
	"github.com/stakevault/goapi/domain/referral"
	"github.com/stakevault/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

var timeNow = time.Now

type statsRepoImpl struct {
	q query.Mongo
}

func NewStatsRepo(q query.Mongo) referral.StatsRepo {
	return &statsRepoImpl{q: q}
}

func (r *statsRepoImpl) Get(ctx bCtx.Ctx, wallet domain.Address) (*referral.Stats, error) {
	res := &referral.Stats{}
	err := r.q.FindOne(ctx, domain.TableReferralStats, bson.M{"wallet": wallet.ToLower()}, res)
	if err == query.ErrNotFound {
		return &referral.Stats{Wallet: wallet.ToLower(), TotalEarnings: domain.ZeroWei}, nil
	} else if err != nil {
		ctx.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

// IncrementEarnings runs read-modify-write; wei totals are decimal strings
// so mongo $inc cannot apply. Callers hold the ledger write lock, which
// serializes the update.
func (r *statsRepoImpl) IncrementEarnings(ctx bCtx.Ctx, wallet domain.Address, earned domain.WeiAmount) error {
	stats, err := r.Get(ctx, wallet)
	if err != nil {
		return err
	}

	total, err := stats.TotalEarnings.BigInt()
	if err != nil {
		ctx.WithField("err", err).Error("TotalEarnings.BigInt failed")
		return err
	}
	add, err := earned.BigInt()
	if err != nil {
		ctx.WithField("err", err).Error("earned.BigInt failed")
		return err
	}

	stats.ReferralsMade++
	stats.TotalEarnings = domain.ToWeiAmount(new(big.Int).Add(total, add))
	stats.UpdatedAt = timeNow()

	if err := r.q.Upsert(ctx, domain.TableReferralStats, bson.M{"wallet": wallet.ToLower()}, stats); err != nil {
		ctx.WithField("err", err).Error("q.Upsert failed")
		return err
	}
	return nil
}
