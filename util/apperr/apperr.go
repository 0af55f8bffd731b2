// Package apperr defines the stable machine-readable error kinds shared by
// every service. Controllers translate codes to HTTP statuses.
package apperr

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeValidation         Code = "VALIDATION"
	CodeNotFound           Code = "NOT_FOUND"
	CodeForbidden          Code = "FORBIDDEN"
	CodeCarUnavailable     Code = "CAR_UNAVAILABLE"
	CodeDriverUnavailable  Code = "DRIVER_UNAVAILABLE"
	CodeInvalidSignature   Code = "INVALID_SIGNATURE"
	CodeGateway            Code = "GATEWAY"
	CodeInvalidState       Code = "INVALID_STATE"
	CodeAlreadyConfirmed   Code = "ALREADY_CONFIRMED"
	CodeManualIntervention Code = "MANUAL_INTERVENTION"
)

type codedError struct {
	code  Code
	msg   string
	cause error
}

func (e codedError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}
func (e codedError) Code() Code    { return e.code }
func (e codedError) Unwrap() error { return e.cause }

func New(code Code, msg string) error { return codedError{code: code, msg: msg} }

func Newf(code Code, format string, args ...any) error {
	return codedError{code: code, msg: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, msg string, cause error) error {
	return codedError{code: code, msg: msg, cause: cause}
}

// GetCode extracts the error code, or "" for uncoded errors.
func GetCode(err error) Code {
	var ce interface{ Code() Code }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// ManualInterventionError is raised when saga compensation itself fails and
// persisted state may be inconsistent. It carries every entity id touched so
// an operator can remediate out of band. Never treated as success.
type ManualInterventionError struct {
	CarBookingID    int64
	DriverBookingID int64
	CarID           int64
	DriverID        int64
	Cause           error // the failure that started compensation
	CompensationErr error // the failure during compensation
}

func (e *ManualInterventionError) Error() string {
	return fmt.Sprintf(
		"manual intervention required: compensation failed (car_booking=%d driver_booking=%d car=%d driver=%d): %v (original: %v)",
		e.CarBookingID, e.DriverBookingID, e.CarID, e.DriverID, e.CompensationErr, e.Cause,
	)
}

func (e *ManualInterventionError) Code() Code    { return CodeManualIntervention }
func (e *ManualInterventionError) Unwrap() error { return e.Cause }
