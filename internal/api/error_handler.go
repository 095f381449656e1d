package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fasttech/usuarios/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps each domain error kind to its HTTP status code.
//   - Logs internal errors once, here, without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "kind": "<kind>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, middleware 401s).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	kind := domain.KindOf(err)
	switch kind {
	case domain.KindDecoding, domain.KindInvalidIdentifier, domain.KindValidation:
		return http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: kind.String()}
	case domain.KindConflict:
		return http.StatusConflict, errorResponse{Error: "user already exists", Kind: kind.String()}
	case domain.KindAuthentication:
		msg := "invalid credentials"
		if errors.Is(err, domain.ErrInvalidToken) {
			msg = "invalid token"
		}
		return http.StatusUnauthorized, errorResponse{Error: msg, Kind: kind.String()}
	case domain.KindAuthorization:
		return http.StatusForbidden, errorResponse{Error: err.Error(), Kind: kind.String()}
	case domain.KindNotFound:
		return http.StatusNotFound, errorResponse{Error: "user not found", Kind: kind.String()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error", Kind: kind.String()}
}
