package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/quillpress/blog-api/internal/api/response"
	"github.com/quillpress/blog-api/internal/core/domain"
)

const serverErrorMessage = "Server Error"

// NewHTTPErrorHandler returns the terminal echo.HTTPErrorHandler. It maps
// tagged domain errors to status codes, logs every error with the request
// method and path, and renders the error envelope. Stack traces are only
// included when exposeStack is true (non-production).
func NewHTTPErrorHandler(log zerolog.Logger, exposeStack bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err)
		if code >= http.StatusInternalServerError && exposeStack {
			body.Stack = fmt.Sprintf("%+v", err)
		}

		ev := log.Warn()
		if code >= http.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Err(err).
			Int("status", code).
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Msg("request failed")

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			log.Error().Err(err).Msg("write error response")
		}
	}
}

// resolveError picks the status code and envelope for err.
func resolveError(err error) (int, response.ErrorBody) {
	// Echo's own errors (bind failures, method not allowed, rate limiter, ...).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		if he.Code >= http.StatusInternalServerError {
			msg = serverErrorMessage
		}
		return he.Code, response.ErrorBody{Error: msg}
	}

	var de *domain.Error
	if !errors.As(err, &de) {
		return http.StatusInternalServerError, response.ErrorBody{Error: serverErrorMessage}
	}

	switch de.Kind {
	case domain.KindValidation:
		msgs := make([]string, 0, len(de.Violations))
		for _, v := range de.Violations {
			msgs = append(msgs, v.Message)
		}
		if len(msgs) == 0 {
			return http.StatusBadRequest, response.ErrorBody{Error: de.Message}
		}
		return http.StatusBadRequest, response.ErrorBody{Error: msgs, Errors: de.Violations}
	case domain.KindDuplicateKey:
		return http.StatusBadRequest, response.ErrorBody{Error: de.Message, Field: de.Field}
	case domain.KindBadRequest:
		return http.StatusBadRequest, response.ErrorBody{Error: de.Message}
	case domain.KindNotFound:
		return http.StatusNotFound, response.ErrorBody{Error: de.Message}
	case domain.KindNoToken, domain.KindAccessDenied, domain.KindInvalidToken, domain.KindTokenExpired,
		domain.KindAccountDeactivated, domain.KindAuthRequired, domain.KindInvalidCredentials:
		return http.StatusUnauthorized, response.ErrorBody{Error: de.Message}
	case domain.KindForbidden:
		return http.StatusForbidden, response.ErrorBody{Error: de.Message}
	case domain.KindTooManyRequests:
		return http.StatusTooManyRequests, response.ErrorBody{Error: de.Message}
	}

	msg := de.Message
	if msg == "" {
		msg = serverErrorMessage
	}
	return http.StatusInternalServerError, response.ErrorBody{Error: msg}
}

// notFoundRoute turns unmatched routes into a not-found error for the terminal handler.
func notFoundRoute(c echo.Context) error {
	return domain.NotFound(fmt.Sprintf("Not found - %s", c.Request().URL.Path))
}
