package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fasttech/usuarios/internal/api/metrics"
	"github.com/fasttech/usuarios/internal/core/domain"
	"github.com/fasttech/usuarios/internal/core/ports"
)

// AuthHandler serves token issuance, refresh and logout.
type AuthHandler struct {
	service ports.UserService
	now     func() time.Time
}

func NewAuthHandler(service ports.UserService) *AuthHandler {
	return &AuthHandler{service: service, now: time.Now}
}

// Token authenticates a user and returns an access and refresh token pair.
//
// @Summary      Issue tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      tokenRequest  true  "Identifier, base64 password and identifier type (1=cpf, 2=email)"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/v1/auth/token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	kind, err := domain.ParseLoginIdentifierType(string(req.IdentifierType))
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("unknown", metrics.Result(err)).Inc()
		return err
	}

	pair, err := h.service.Login(c.Request().Context(), ports.LoginInput{
		Identifier:     req.Identifier,
		PasswordBase64: req.Password,
		IdentifierType: kind,
	})
	metrics.LoginsTotal.WithLabelValues(kind.String(), metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toTokenResponse(pair, h.now()))
}

// Refresh exchanges a refresh token for a new token pair.
//
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pair, err := h.service.Refresh(c.Request().Context(), req.RefreshToken)
	metrics.TokenRefreshesTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toTokenResponse(pair, h.now()))
}

// Logout revokes a refresh token.
//
// @Summary      Revoke a refresh token
// @Tags         auth
// @Accept       json
// @Param        body  body  refreshRequest  true  "Refresh token"
// @Success      204
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
