package repository

import (
	bCtx "github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/domain"
	"github.com/stakevault/goapi/domain/tier"
	"github.com/stakevault/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

type amountTierRepoImpl struct {
	q query.Mongo
}

func NewAmountTierRepo(q query.Mongo) tier.AmountTierRepo {
	return &amountTierRepoImpl{q: q}
}

func (r *amountTierRepoImpl) FindAll(ctx bCtx.Ctx, optFns ...tier.FindAllOptionsFunc) ([]tier.AmountTier, error) {
	opts, err := tier.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("tier.GetFindAllOptions failed")
		return nil, err
	}

	var (
		sort string = "createdAt"
		qry  bson.M = bson.M{}
	)
	if opts.SortBy != nil && opts.SortDir != nil {
		sort = *opts.SortBy
		if *opts.SortDir == domain.SortDirDesc {
			sort = "-" + sort
		}
	}
	if opts.ActiveOnly != nil && *opts.ActiveOnly {
		qry["active"] = true
	}

	tiers := []tier.AmountTier{}
	if err := r.q.Search(ctx, domain.TableAmountTiers, 0, 0, sort, qry, &tiers); err != nil {
		ctx.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return tiers, nil
}

func (r *amountTierRepoImpl) FindOne(ctx bCtx.Ctx, id string) (*tier.AmountTier, error) {
	res := &tier.AmountTier{}
	if err := r.q.FindOne(ctx, domain.TableAmountTiers, bson.M{"id": id}, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (r *amountTierRepoImpl) Create(ctx bCtx.Ctx, t *tier.AmountTier) error {
	if err := r.q.Insert(ctx, domain.TableAmountTiers, t); err != nil {
		ctx.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *amountTierRepoImpl) Patch(ctx bCtx.Ctx, id string, patchable tier.AmountTierPatchable) error {
	if err := r.q.Patch(ctx, domain.TableAmountTiers, bson.M{"id": id}, patchable); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.Patch failed")
		return err
	}
	return nil
}
