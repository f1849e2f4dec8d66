package http

import (
	"errors"
	"net/http"

	"assetsync/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func statusFor(kind errs.Kind) int {
	switch kind {
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindInvalidInput:
		return http.StatusBadRequest
	case errs.KindInvalidState:
		return http.StatusUnprocessableEntity
	case errs.KindConflict:
		return http.StatusConflict
	case errs.KindUnavailable:
		return http.StatusServiceUnavailable
	case errs.KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

func errorBody(err error) (int, Error) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		msg := http.StatusText(httpErr.Code)
		if s, ok := httpErr.Message.(string); ok {
			msg = s
		}
		kind := errs.KindInternal.String()
		if httpErr.Code < http.StatusInternalServerError {
			kind = errs.KindInvalidInput.String()
		}
		if httpErr.Code == http.StatusNotFound {
			kind = errs.KindNotFound.String()
		}
		return httpErr.Code, Error{Code: httpErr.Code, Kind: kind, Message: msg}
	}

	kind := errs.Classify(err)
	code := statusFor(kind)
	msg := err.Error()
	switch kind {
	case errs.KindConflict:
		msg = "already taken: " + msg
	case errs.KindInternal:
		msg = "internal error"
	case errs.KindNotFound, errs.KindInvalidInput, errs.KindInvalidState, errs.KindUnavailable:
	}
	return code, Error{Code: code, Kind: kind.String(), Message: msg}
}

// errorHandler renders handler errors as Error bodies.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := errorBody(err)
		if code >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err))
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, body)
		}
		if writeErr != nil {
			logger.Warn("writing error response", zap.Error(writeErr))
		}
	}
}
