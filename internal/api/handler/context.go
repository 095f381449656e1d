package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fasttech/usuarios/internal/api/middleware"
	"github.com/fasttech/usuarios/internal/core/authz"
	"github.com/fasttech/usuarios/internal/core/domain"
)

// ctxRequester extracts the requester injected by the Auth middleware.
// Its absence means the route was mounted without Auth.
func ctxRequester(c echo.Context) (authz.Requester, error) {
	r, ok := middleware.RequesterFrom(c)
	if !ok {
		return authz.Requester{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return r, nil
}

// pathUserID parses the :id path parameter.
func pathUserID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, domain.ErrInvalidIdentifier
	}
	return id, nil
}

// bindAndValidate binds the request body into req and validates it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
