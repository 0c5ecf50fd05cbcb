package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/kas/internal/storage"
)

// Validation errors. A request failing validation never reaches the store.
var (
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidRow      = errors.New("invalid expense row")
	ErrUnknownMember   = errors.New("unknown member")
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownPayer    = errors.New("unknown payer")
	ErrUnknownPeriod   = errors.New("unknown period")
)

var validationErrors = []error{
	ErrInvalidAmount, ErrInvalidDate, ErrInvalidRow,
	ErrUnknownMember, ErrUnknownCategory, ErrUnknownPayer, ErrUnknownPeriod,
}

// IsValidation reports whether err is a rejected request.
func IsValidation(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// toConnectError maps the error taxonomy onto Connect codes.
func toConnectError(err error) *connect.Error {
	switch {
	case IsValidation(err):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrSheetNotFound):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, storage.ErrBackendUnavailable):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
