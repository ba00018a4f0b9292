package repository

import (
	bCtx "github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/domain"
	"github.com/stakevault/goapi/domain/tier"
	"github.com/stakevault/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

type lockTierRepoImpl struct {
	q query.Mongo
}

func NewLockTierRepo(q query.Mongo) tier.LockTierRepo {
	return &lockTierRepoImpl{q: q}
}

func (r *lockTierRepoImpl) FindAll(ctx bCtx.Ctx, optFns ...tier.FindAllOptionsFunc) ([]tier.LockTier, error) {
	opts, err := tier.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("tier.GetFindAllOptions failed")
		return nil, err
	}

	var (
		sort string = "lockDurationDays"
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

	tiers := []tier.LockTier{}
	if err := r.q.Search(ctx, domain.TableLockTiers, 0, 0, sort, qry, &tiers); err != nil {
		ctx.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return tiers, nil
}

func (r *lockTierRepoImpl) FindOne(ctx bCtx.Ctx, id string) (*tier.LockTier, error) {
	res := &tier.LockTier{}
	if err := r.q.FindOne(ctx, domain.TableLockTiers, bson.M{"id": id}, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (r *lockTierRepoImpl) Create(ctx bCtx.Ctx, t *tier.LockTier) error {
	if err := r.q.Insert(ctx, domain.TableLockTiers, t); err != nil {
		ctx.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *lockTierRepoImpl) Patch(ctx bCtx.Ctx, id string, patchable tier.LockTierPatchable) error {
	if err := r.q.Patch(ctx, domain.TableLockTiers, bson.M{"id": id}, patchable); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.Patch failed")
		return err
	}
	return nil
}
