package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	bCtx "github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/base/delivery"
	"github.com/stakevault/goapi/domain"
	dStake "github.com/stakevault/goapi/domain/stake"
	authMiddleware "github.com/stakevault/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	stake dStake.UseCase
}

func New(e *echo.Echo, stake dStake.UseCase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{stake}

	g := e.Group("/stakes")
	g.POST("", h.openStake, authMiddleware.Auth())
	g.GET("", h.getUserStakes)
	g.GET("/:stakeId", h.getStakeDetails)
	g.POST("/:stakeId/claim", h.claim, authMiddleware.Auth())
	g.POST("/:stakeId/unstake", h.unstake, authMiddleware.Auth())
	g.POST("/:stakeId/emergency-unstake", h.emergencyUnstake, authMiddleware.Auth())

	r := e.Group("/rewards")
	r.GET("", h.getPendingRewards)
	r.GET("/instant", h.getClaimableInstantRewards, authMiddleware.Auth())
	r.POST("/instant/claim", h.claimInstantRewards, authMiddleware.Auth())
	r.POST("/referral/claim", h.claimReferralRewards, authMiddleware.Auth())
}

// openStake
//
//	@Summary		Open a stake position
//	@Description	Locks the tier principal for the tier duration, pays the instant cashback and registers the optional referral
//	@Tags			stakes
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Success		201	{object}	stake.StakePosition
//	@Failure		400
//	@Failure		409
//	@Router			/stakes [post]
func (h *handler) openStake(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	owner := c.Get("address").(domain.Address)

	type payload struct {
		AmountTierId string          `json:"amountTierId" validate:"required"`
		LockTierId   string          `json:"lockTierId" validate:"required"`
		Referrer     *domain.Address `json:"referrer"`
	}

	p := &payload{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.stake.OpenStake(ctx, owner, p.AmountTierId, p.LockTierId, p.Referrer)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) getUserStakes(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	type params struct {
		Owner  domain.Address `query:"owner" validate:"required"`
		Offset int32          `query:"offset"`
		Limit  int32          `query:"limit"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	opts := []dStake.FindAllOptionsFunc{}
	if p.Limit > 0 {
		opts = append(opts, dStake.WithPagination(p.Offset, p.Limit))
	}

	res, err := h.stake.GetUserStakes(ctx, p.Owner, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getStakeDetails(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	res, err := h.stake.GetStakeDetails(ctx, c.Param("stakeId"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) claim(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	caller := c.Get("address").(domain.Address)

	res, err := h.stake.Claim(ctx, caller, c.Param("stakeId"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) unstake(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	caller := c.Get("address").(domain.Address)

	res, err := h.stake.Unstake(ctx, caller, c.Param("stakeId"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) emergencyUnstake(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	caller := c.Get("address").(domain.Address)

	res, err := h.stake.EmergencyUnstake(ctx, caller, c.Param("stakeId"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getPendingRewards(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	type params struct {
		Owner  domain.Address       `query:"owner" validate:"required"`
		Kind   *dStake.RewardKind   `query:"kind"`
		Status *dStake.RewardStatus `query:"status"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	opts := []dStake.RewardFindAllOptionsFunc{dStake.RewardWithWallet(p.Owner)}
	if p.Kind != nil {
		opts = append(opts, dStake.RewardWithKind(*p.Kind))
	}
	if p.Status != nil {
		opts = append(opts, dStake.RewardWithStatus(*p.Status))
	}

	res, err := h.stake.PendingRewards(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getClaimableInstantRewards(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	owner := c.Get("address").(domain.Address)

	res, err := h.stake.ClaimableInstantRewards(ctx, owner)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) claimInstantRewards(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	owner := c.Get("address").(domain.Address)

	res, err := h.stake.ClaimInstantRewards(ctx, owner)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) claimReferralRewards(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	owner := c.Get("address").(domain.Address)

	res, err := h.stake.ClaimReferralRewards(ctx, owner)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
