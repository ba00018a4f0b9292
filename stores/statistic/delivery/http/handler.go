package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/base/delivery"
	"github.com/stakevault/goapi/domain/statistic"
	"github.com/stakevault/goapi/middleware"
)

type handler struct {
	statisticUC statistic.UseCase
}

func New(e *echo.Echo, statisticUC statistic.UseCase) {
	h := &handler{statisticUC}
	e.GET("/stats", h.getPlatformStats, middleware.CacheHttp(30*time.Second))
}

// getPlatformStats
//
//	@Summary		Platform statistics
//	@Description	Aggregate staking totals and per-kind reward totals
//	@Tags			stats
//	@Produce		json
//	@Success		200	{object}	object{data=statistic.PlatformStats}
//	@Failure		500
//	@Router			/stats [get]
func (h *handler) getPlatformStats(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(ctx.Ctx)
	res, err := h.statisticUC.GetPlatformStats(ctx)
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(_ctx, http.StatusOK, res)
}
