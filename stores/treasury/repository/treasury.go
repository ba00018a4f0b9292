package repository

import (
	bCtx "github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/domain"
	"github.com/stakevault/goapi/domain/treasury"
	"github.com/stakevault/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

type treasuryRepoImpl struct {
	q query.Mongo
}

func NewTreasuryRepo(q query.Mongo) treasury.Repo {
	return &treasuryRepoImpl{q: q}
}

// Get returns the singleton state, zero-valued when no deposit or stake has
// touched the treasury yet.
func (r *treasuryRepoImpl) Get(ctx bCtx.Ctx) (*treasury.State, error) {
	res := &treasury.State{}
	err := r.q.FindOne(ctx, domain.TableTreasuryStates, bson.M{"id": treasury.StateId}, res)
	if err == query.ErrNotFound {
		return &treasury.State{
			Id:                    treasury.StateId,
			ContractBalance:       domain.ZeroWei,
			TotalPrincipalLocked:  domain.ZeroWei,
			TotalPendingLiability: domain.ZeroWei,
			TotalStaked:           domain.ZeroWei,
		}, nil
	} else if err != nil {
		ctx.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (r *treasuryRepoImpl) Upsert(ctx bCtx.Ctx, s *treasury.State) error {
	s.Id = treasury.StateId
	if err := r.q.Upsert(ctx, domain.TableTreasuryStates, bson.M{"id": treasury.StateId}, s); err != nil {
		ctx.WithField("err", err).Error("q.Upsert failed")
		return err
	}
	return nil
}
