package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	bCtx "github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/base/delivery"
	"github.com/stakevault/goapi/domain"
	dTreasury "github.com/stakevault/goapi/domain/treasury"
	"github.com/stakevault/goapi/middleware"
	authMiddleware "github.com/stakevault/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	treasury dTreasury.UseCase
}

func New(e *echo.Echo, treasury dTreasury.UseCase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{treasury}

	e.GET("/treasury", h.getStats, middleware.CacheHttp(10*time.Second))

	g := e.Group("/admin", authMiddleware.Auth(), authMiddleware.IsAdmin())
	g.POST("/treasury/deposit", h.deposit)
	g.POST("/treasury/withdraw", h.withdraw)
	g.POST("/pause", h.pause)
	g.POST("/unpause", h.unpause)
}

func (h *handler) getStats(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	res, err := h.treasury.GetStats(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) deposit(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	type payload struct {
		Amount string `json:"amount" validate:"required"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.treasury.Deposit(ctx, domain.WeiAmount(p.Amount))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) withdraw(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	type payload struct {
		Amount string `json:"amount" validate:"required"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.treasury.Withdraw(ctx, domain.WeiAmount(p.Amount))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) pause(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	if err := h.treasury.Pause(ctx); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "paused")
}

func (h *handler) unpause(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	if err := h.treasury.Unpause(ctx); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "unpaused")
}
