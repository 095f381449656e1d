package ports

import (
	"github.com/fasttech/usuarios/internal/core/domain"
	"github.com/fasttech/usuarios/internal/core/token"
)

// TokenIssuer builds and verifies session tokens.
type TokenIssuer interface {
	IssueAccessToken(subject string, role domain.Role) (*token.SessionToken, error)
	IssueRefreshToken(subject string) (*token.RefreshToken, error)
	ParseRefreshToken(raw string) (*token.RefreshClaims, error)
}
