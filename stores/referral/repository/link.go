package repository

import (
	bCtx "github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/domain"
	"github.com/stakevault/goapi/domain/referral"
	"github.com/stakevault/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

type linkRepoImpl struct {
	q query.Mongo
}

func NewLinkRepo(q query.Mongo) referral.LinkRepo {
	return &linkRepoImpl{q: q}
}

func (r *linkRepoImpl) FindAll(ctx bCtx.Ctx, optFns ...referral.LinkFindAllOptionsFunc) ([]referral.Link, error) {
	opts, err := referral.GetLinkFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("referral.GetLinkFindAllOptions failed")
		return nil, err
	}

	qry := bson.M{}
	if opts.Referrer != nil {
		qry["referrer"] = *opts.Referrer
	}
	if opts.Referred != nil {
		qry["referred"] = *opts.Referred
	}
	if opts.StakeId != nil {
		qry["stakeId"] = *opts.StakeId
	}

	links := []referral.Link{}
	if err := r.q.Search(ctx, domain.TableReferralLinks, 0, 0, "createdAt", qry, &links); err != nil {
		ctx.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return links, nil
}

func (r *linkRepoImpl) FindOne(ctx bCtx.Ctx, referred domain.Address, stakeId string) (*referral.Link, error) {
	res := &referral.Link{}
	qry := bson.M{"referred": referred.ToLower(), "stakeId": stakeId}
	if err := r.q.FindOne(ctx, domain.TableReferralLinks, qry, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (r *linkRepoImpl) Create(ctx bCtx.Ctx, l *referral.Link) error {
	copy := *l
	copy.Referrer = l.Referrer.ToLower()
	copy.Referred = l.Referred.ToLower()
	if err := r.q.Insert(ctx, domain.TableReferralLinks, &copy); err != nil {
		ctx.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}
