package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/hirehub/hirehub-backend/internal/logging"
	"github.com/hirehub/hirehub-backend/internal/service"
	"github.com/hirehub/hirehub-backend/internal/util"
)

const genericErrorMessage = "internal server error"

var errRateLimited = errors.New("too many requests, please slow down")

// errorStatus maps service errors onto HTTP statuses. Client errors keep the
// wrapped detail, server errors only expose the sentinel text.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidOTP),
		errors.Is(err, service.ErrOTPExpired),
		errors.Is(err, service.ErrRoleMismatch):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, service.ErrUserNotFound.Error()
	case errors.Is(err, service.ErrContactNotFound):
		return http.StatusNotFound, service.ErrContactNotFound.Error()
	case errors.Is(err, service.ErrEmailAlreadyUsed):
		return http.StatusConflict, service.ErrEmailAlreadyUsed.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, service.ErrInvalidCredentials.Error()
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, service.ErrUnauthenticated.Error()
	case errors.Is(err, service.ErrAccountBlocked):
		return http.StatusForbidden, service.ErrAccountBlocked.Error()
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, service.ErrForbidden.Error()
	case errors.Is(err, service.ErrNotificationFailed):
		return http.StatusInternalServerError, service.ErrNotificationFailed.Error()
	case errors.Is(err, service.ErrConfiguration):
		return http.StatusInternalServerError, service.ErrConfiguration.Error()
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests, errRateLimited.Error()
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return he.Code, msg
		}
		return he.Code, http.StatusText(he.Code)
	}
	return http.StatusInternalServerError, genericErrorMessage
}

// newErrorHandler renders every error returned by a handler or middleware,
// recovered panics included, as the standard envelope.
func newErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, msg := errorStatus(err)
		if status >= http.StatusInternalServerError {
			logging.FromContext(c.Request().Context(), logger).Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, util.Error(msg))
		}
		if err != nil {
			logger.Warn("write error response", zap.Error(err))
		}
	}
}
