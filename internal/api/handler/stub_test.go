package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/fasttech/usuarios/internal/core/authz"
	"github.com/fasttech/usuarios/internal/core/domain"
	"github.com/fasttech/usuarios/internal/core/ports"
)

type stubUserService struct {
	loginFn    func(ctx context.Context, in ports.LoginInput) (*ports.TokenPair, error)
	refreshFn  func(ctx context.Context, token string) (*ports.TokenPair, error)
	logoutFn   func(ctx context.Context, token string) error
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	getFn      func(ctx context.Context, id uuid.UUID, r authz.Requester) (*domain.User, error)
	updateFn   func(ctx context.Context, in ports.UpdateInput, r authz.Requester) (*domain.User, error)
	deleteFn   func(ctx context.Context, id uuid.UUID, r authz.Requester) (*domain.User, error)
}

func (s *stubUserService) Login(ctx context.Context, in ports.LoginInput) (*ports.TokenPair, error) {
	return s.loginFn(ctx, in)
}

func (s *stubUserService) Refresh(ctx context.Context, token string) (*ports.TokenPair, error) {
	return s.refreshFn(ctx, token)
}

func (s *stubUserService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubUserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubUserService) GetByID(ctx context.Context, id uuid.UUID, r authz.Requester) (*domain.User, error) {
	return s.getFn(ctx, id, r)
}

func (s *stubUserService) Update(ctx context.Context, in ports.UpdateInput, r authz.Requester) (*domain.User, error) {
	return s.updateFn(ctx, in, r)
}

func (s *stubUserService) Delete(ctx context.Context, id uuid.UUID, r authz.Requester) (*domain.User, error) {
	return s.deleteFn(ctx, id, r)
}
