package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	bCtx "github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/base/delivery"
	"github.com/stakevault/goapi/domain"
	dTier "github.com/stakevault/goapi/domain/tier"
	authMiddleware "github.com/stakevault/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	tier dTier.UseCase
}

func New(e *echo.Echo, tier dTier.UseCase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{tier}

	g := e.Group("/tiers")
	g.GET("", h.getActiveTiers)

	// admin
	g.GET("/all", h.getAllTiers, authMiddleware.Auth(), authMiddleware.IsAdmin())
	g.POST("/amount", h.addAmountTier, authMiddleware.Auth(), authMiddleware.IsAdmin())
	g.POST("/lock", h.addLockTier, authMiddleware.Auth(), authMiddleware.IsAdmin())
	g.PATCH("/amount/:id", h.updateAmountTier, authMiddleware.Auth(), authMiddleware.IsAdmin())
	g.PATCH("/lock/:id", h.updateLockTier, authMiddleware.Auth(), authMiddleware.IsAdmin())
}

// getActiveTiers lists the tiers offered to new stakers. Deactivated tiers
// stay resolvable for open positions but are excluded here.
func (h *handler) getActiveTiers(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	res, err := h.tier.GetCatalog(ctx, true)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getAllTiers(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	res, err := h.tier.GetCatalog(ctx, false)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) addAmountTier(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	type payload struct {
		PrincipalAmount  string `json:"principalAmount" validate:"required"`
		InstantRewardBps int32  `json:"instantRewardBps"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.tier.AddAmountTier(ctx, domain.WeiAmount(p.PrincipalAmount), p.InstantRewardBps)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) addLockTier(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	type payload struct {
		LockDurationDays int32 `json:"lockDurationDays" validate:"required"`
		AprBps           int32 `json:"aprBps"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.tier.AddLockTier(ctx, p.LockDurationDays, p.AprBps)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) updateAmountTier(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	type payload struct {
		InstantRewardBps *int32 `json:"instantRewardBps"`
		Active           *bool  `json:"active"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	res, err := h.tier.UpdateAmountTier(ctx, c.Param("id"), p.InstantRewardBps, p.Active)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) updateLockTier(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	type payload struct {
		AprBps *int32 `json:"aprBps"`
		Active *bool  `json:"active"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	res, err := h.tier.UpdateLockTier(ctx, c.Param("id"), p.AprBps, p.Active)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
