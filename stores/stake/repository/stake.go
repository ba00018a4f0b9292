package repository

import (
	bCtx "github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/domain"
	"github.com/stakevault/goapi/domain/stake"
	"github.com/stakevault/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

type stakeRepoImpl struct {
	q query.Mongo
}

func NewStakeRepo(q query.Mongo) stake.StakeRepo {
	return &stakeRepoImpl{q: q}
}

func buildStakeQuery(opts stake.FindAllOptions) bson.M {
	qry := bson.M{}
	if opts.Owner != nil {
		qry["owner"] = *opts.Owner
	}
	if opts.Unstaked != nil {
		qry["unstaked"] = *opts.Unstaked
	}
	return qry
}

func (r *stakeRepoImpl) FindAll(ctx bCtx.Ctx, optFns ...stake.FindAllOptionsFunc) ([]stake.StakePosition, error) {
	opts, err := stake.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("stake.GetFindAllOptions failed")
		return nil, err
	}

	var (
		offset int = 0
		limit  int = 0
	)
	if opts.Offset != nil {
		offset = int(*opts.Offset)
	}
	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}

	positions := []stake.StakePosition{}
	if err := r.q.Search(ctx, domain.TableStakePositions, offset, limit, "-startTime", buildStakeQuery(opts), &positions); err != nil {
		ctx.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return positions, nil
}

func (r *stakeRepoImpl) FindOne(ctx bCtx.Ctx, stakeId string) (*stake.StakePosition, error) {
	res := &stake.StakePosition{}
	if err := r.q.FindOne(ctx, domain.TableStakePositions, bson.M{"stakeId": stakeId}, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (r *stakeRepoImpl) Count(ctx bCtx.Ctx, optFns ...stake.FindAllOptionsFunc) (int, error) {
	opts, err := stake.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("stake.GetFindAllOptions failed")
		return 0, err
	}
	n, err := r.q.Count(ctx, domain.TableStakePositions, buildStakeQuery(opts))
	if err != nil {
		ctx.WithField("err", err).Error("q.Count failed")
		return 0, err
	}
	return n, nil
}

func (r *stakeRepoImpl) Create(ctx bCtx.Ctx, p *stake.StakePosition) error {
	copy := *p
	copy.Owner = p.Owner.ToLower()
	if p.Referrer != nil {
		copy.Referrer = p.Referrer.ToLowerPtr()
	}
	if err := r.q.Insert(ctx, domain.TableStakePositions, &copy); err != nil {
		ctx.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *stakeRepoImpl) Patch(ctx bCtx.Ctx, stakeId string, patchable stake.StakePatchable) error {
	if err := r.q.Patch(ctx, domain.TableStakePositions, bson.M{"stakeId": stakeId}, patchable); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.Patch failed")
		return err
	}
	return nil
}
