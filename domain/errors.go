package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput       = errors.New("Given Param is not valid")
	ErrInvalidNumberFormat = errors.New("invalid number format")

	// ledger rejections. a rejected operation leaves the ledger untouched
	ErrInvalidParameter     = errors.New("invalid parameter")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrPaused               = errors.New("ledger is paused")
	ErrNotPaused            = errors.New("ledger is not paused")
	ErrLockActive           = errors.New("lock period still active")
	ErrClaimTooEarly        = errors.New("claim interval not elapsed")
	ErrInsufficientTreasury = errors.New("insufficient treasury for reward")
	ErrInsufficientSurplus  = errors.New("withdrawal exceeds available surplus")
	ErrAlreadyClosed        = errors.New("stake position already closed")

	// request error
	ErrInvalidAddress   = errors.New("Invalid address")
	ErrInvalidSignature = errors.New("Invalid signature")
)
