package repository

import (
	bCtx "github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/domain"
	"github.com/stakevault/goapi/domain/ledgerevent"
	"github.com/stakevault/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

const seqCounterId = "ledgerEventSeq"

type seqCounter struct {
	Id  string `bson:"id"`
	Seq int64  `bson:"seq"`
}

type eventRepoImpl struct {
	q query.Mongo
}

func NewEventRepo(q query.Mongo) ledgerevent.Repo {
	return &eventRepoImpl{q: q}
}

// Append reserves a contiguous sequence range from the counter document and
// inserts the events with it. Running inside the caller's transaction keeps
// the outbox atomic with the mutation it describes.
func (r *eventRepoImpl) Append(ctx bCtx.Ctx, evts ...*ledgerevent.Event) error {
	if len(evts) == 0 {
		return nil
	}

	counter := seqCounter{}
	if err := r.q.Increment(ctx, domain.TableCounters, bson.M{"id": seqCounterId}, &counter, "seq", int64(len(evts))); err != nil {
		ctx.WithField("err", err).Error("q.Increment failed")
		return err
	}

	seq := counter.Seq - int64(len(evts))
	for _, evt := range evts {
		seq++
		evt.Seq = seq
		if err := r.q.Insert(ctx, domain.TableLedgerEvents, evt); err != nil {
			ctx.WithField("err", err).Error("q.Insert failed")
			return err
		}
	}
	return nil
}

func (r *eventRepoImpl) FindAll(ctx bCtx.Ctx, optFns ...ledgerevent.FindAllOptionsFunc) ([]ledgerevent.Event, error) {
	opts, err := ledgerevent.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("ledgerevent.GetFindAllOptions failed")
		return nil, err
	}

	var limit int = 0
	qry := bson.M{}
	if opts.AfterSeq != nil {
		qry["seq"] = bson.M{"$gt": *opts.AfterSeq}
	}
	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}

	events := []ledgerevent.Event{}
	if err := r.q.Search(ctx, domain.TableLedgerEvents, 0, limit, "seq", qry, &events); err != nil {
		ctx.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return events, nil
}
