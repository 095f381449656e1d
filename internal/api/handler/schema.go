package handler

import (
	"bytes"
	"encoding/json"
	"time"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

// identifierType accepts both the numeric code (1, 2) and the name
// ("cpf", "email") of a login identifier type.
type identifierType string

func (t *identifierType) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = identifierType(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = identifierType(n.String())
	return nil
}

type tokenRequest struct {
	Identifier     string         `json:"identifier"      validate:"required"`
	Password       string         `json:"password"        validate:"required"`
	IdentifierType identifierType `json:"identifier_type" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type tokenResponse struct {
	AccessToken           string    `json:"access_token"`
	TokenType             string    `json:"token_type"`
	ExpiresIn             int64     `json:"expires_in"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshToken          string    `json:"refresh_token"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
}

// --- Users ---

type registerCustomerRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	CPF      string `json:"cpf"      validate:"required,cpf"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerEmployeeRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	CPF      string `json:"cpf"      validate:"required,cpf"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required"`
}

type updateUserRequest struct {
	Name     string `json:"name"     validate:"omitempty,min=2,max=100"`
	CPF      string `json:"cpf"      validate:"omitempty,cpf"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	CPF           string    `json:"cpf"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	IsAvailable   bool      `json:"is_available"`
	CreatedAt     time.Time `json:"created_at"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}
