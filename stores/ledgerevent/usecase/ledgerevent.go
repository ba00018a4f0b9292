package usecase

import (
	bCtx "github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/domain/ledgerevent"
)

type eventUseCaseImpl struct {
	repo ledgerevent.Repo
}

func NewEventUseCase(repo ledgerevent.Repo) ledgerevent.UseCase {
	return &eventUseCaseImpl{repo: repo}
}

func (im *eventUseCaseImpl) FindAll(ctx bCtx.Ctx, optFns ...ledgerevent.FindAllOptionsFunc) ([]ledgerevent.Event, error) {
	events, err := im.repo.FindAll(ctx, optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("repo.FindAll failed")
		return nil, err
	}
	return events, nil
}
