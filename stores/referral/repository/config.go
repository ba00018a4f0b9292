package repository

import (
	bCtx "github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/domain"
	"github.com/stakevault/goapi/domain/referral"
	"github.com/stakevault/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

type configRepoImpl struct {
	q query.Mongo
}

func NewConfigRepo(q query.Mongo) referral.ConfigRepo {
	return &configRepoImpl{q: q}
}

func (r *configRepoImpl) Get(ctx bCtx.Ctx) (*referral.Config, error) {
	res := &referral.Config{}
	err := r.q.FindOne(ctx, domain.TableReferralConfigs, bson.M{"id": referral.ConfigId}, res)
	if err == query.ErrNotFound {
		// unconfigured engine pays no commission and accepts no links
		return &referral.Config{Id: referral.ConfigId, Paused: true}, nil
	} else if err != nil {
		ctx.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (r *configRepoImpl) Upsert(ctx bCtx.Ctx, cfg *referral.Config) error {
	cfg.Id = referral.ConfigId
	if err := r.q.Upsert(ctx, domain.TableReferralConfigs, bson.M{"id": referral.ConfigId}, cfg); err != nil {
		ctx.WithField("err", err).Error("q.Upsert failed")
		return err
	}
	return nil
}
