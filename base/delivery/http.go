package delivery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stakevault/goapi/domain"
	"github.com/stakevault/goapi/service/query"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

// errStatus maps ledger rejections onto http statuses so handlers can pass
// a default and still surface the rejection kind to collaborators.
func errStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, domain.ErrNotFound) || errors.Is(err, query.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, domain.ErrInvalidParameter) || errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest, true
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, true
	case errors.Is(err, domain.ErrPaused) ||
		errors.Is(err, domain.ErrNotPaused) ||
		errors.Is(err, domain.ErrLockActive) ||
		errors.Is(err, domain.ErrClaimTooEarly) ||
		errors.Is(err, domain.ErrAlreadyClosed):
		return http.StatusConflict, true
	case errors.Is(err, domain.ErrInsufficientTreasury) || errors.Is(err, domain.ErrInsufficientSurplus):
		return http.StatusUnprocessableEntity, true
	}
	return 0, false
}

func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		if mapped, ok := errStatus(err); ok {
			status = mapped
		}
		data = err.Error()
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}
