// Package respond maps service error codes to HTTP responses. Every failure
// carries a stable machine-readable kind plus a human-readable message.
package respond

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/PragyeNawani/wheelify/util/apperr"
)

func status(code apperr.Code) int {
	switch code {
	case apperr.CodeValidation, apperr.CodeInvalidSignature:
		return http.StatusBadRequest
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeForbidden:
		return http.StatusForbidden
	case apperr.CodeCarUnavailable, apperr.CodeDriverUnavailable, apperr.CodeInvalidState:
		return http.StatusConflict
	case apperr.CodeGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func Error(c echo.Context, log *slog.Logger, err error) error {
	code := apperr.GetCode(err)
	msg := err.Error()
	if code == "" {
		code = "INTERNAL"
		msg = "internal error"
		log.Error("request failed",
			"path", c.Path(),
			"req_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"err", err,
		)
	}
	if code == apperr.CodeManualIntervention {
		log.Error("request left inconsistent state",
			"path", c.Path(),
			"req_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"err", err,
		)
	}
	return c.JSON(status(code), echo.Map{
		"error":   string(code),
		"message": msg,
	})
}
