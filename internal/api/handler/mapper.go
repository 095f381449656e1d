package handler

import (
	"time"

	"github.com/fasttech/usuarios/internal/core/domain"
	"github.com/fasttech/usuarios/internal/core/ports"
)

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:            u.ID.String(),
		Name:          u.Name,
		CPF:           u.CPF,
		Email:         u.Email,
		Role:          u.Role.String(),
		IsAvailable:   u.IsAvailable,
		CreatedAt:     u.CreatedAt,
		LastUpdatedAt: u.LastUpdatedAt,
	}
}

func toTokenResponse(p *ports.TokenPair, now time.Time) tokenResponse {
	expiresIn := int64(p.AccessTokenExpiresAt.Sub(now).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}
	return tokenResponse{
		AccessToken:           p.AccessToken,
		TokenType:             "Bearer",
		ExpiresIn:             expiresIn,
		AccessTokenExpiresAt:  p.AccessTokenExpiresAt,
		RefreshToken:          p.RefreshToken,
		RefreshTokenExpiresAt: p.RefreshTokenExpiresAt,
	}
}
