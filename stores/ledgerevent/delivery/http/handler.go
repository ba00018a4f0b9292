package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	bCtx "github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/base/delivery"
	dEvent "github.com/stakevault/goapi/domain/ledgerevent"
)

const maxEventPageSize = 500

type handler struct {
	event dEvent.UseCase
}

func New(e *echo.Echo, event dEvent.UseCase) {
	h := &handler{event}

	e.GET("/events", h.getEvents)
}

// getEvents pages through the ledger event stream in sequence order.
// afterSeq is exclusive, so pollers resume with the last seq they saw.
func (h *handler) getEvents(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	opts := []dEvent.FindAllOptionsFunc{}
	if v := c.QueryParam("afterSeq"); len(v) > 0 {
		afterSeq, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid afterSeq")
		}
		opts = append(opts, dEvent.WithAfterSeq(afterSeq))
	}

	limit := int32(100)
	if v := c.QueryParam("limit"); len(v) > 0 {
		l, err := strconv.ParseInt(v, 10, 32)
		if err != nil || l < 1 {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid limit")
		}
		limit = int32(l)
	}
	if limit > maxEventPageSize {
		limit = maxEventPageSize
	}
	opts = append(opts, dEvent.WithLimit(limit))

	res, err := h.event.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
