package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	bCtx "github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/base/delivery"
	"github.com/stakevault/goapi/domain"
	dReferral "github.com/stakevault/goapi/domain/referral"
	"github.com/stakevault/goapi/middleware"
	authMiddleware "github.com/stakevault/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	referral dReferral.UseCase
}

func New(e *echo.Echo, referral dReferral.UseCase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{referral}

	g := e.Group("/referrals")
	g.GET("/config", h.getConfig)
	g.GET("/:wallet", h.getStats, middleware.IsValidAddress("wallet"))

	// admin
	g.PUT("/config", h.setConfig, authMiddleware.Auth(), authMiddleware.IsAdmin())
}

func (h *handler) getConfig(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	res, err := h.referral.GetConfig(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getStats(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	res, err := h.referral.GetStats(ctx, domain.Address(c.Param("wallet")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) setConfig(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	type payload struct {
		ReferralBps      int32 `json:"referralBps"`
		ReferrerBonusBps int32 `json:"referrerBonusBps"`
		Paused           bool  `json:"paused"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	res, err := h.referral.SetConfig(ctx, p.ReferralBps, p.ReferrerBonusBps, p.Paused)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
