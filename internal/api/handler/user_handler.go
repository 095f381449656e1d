package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fasttech/usuarios/internal/api/metrics"
	"github.com/fasttech/usuarios/internal/core/authz"
	"github.com/fasttech/usuarios/internal/core/domain"
	"github.com/fasttech/usuarios/internal/core/ports"
)

// UserHandler serves registration and the protected user operations.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterCustomer creates a customer account. The role is always Customer.
//
// @Summary      Register a customer
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerCustomerRequest  true  "Customer details, password base64-encoded"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/v1/users/customers [post]
func (h *UserHandler) RegisterCustomer(c echo.Context) error {
	var req registerCustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	return h.register(c, ports.RegisterInput{
		Name:           req.Name,
		CPF:            req.CPF,
		Email:          req.Email,
		PasswordBase64: req.Password,
		Role:           domain.RoleCustomer,
	})
}

// RegisterEmployee creates a staff account. Customers register through
// RegisterCustomer and Admin accounts cannot be registered at all.
//
// @Summary      Register an employee
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerEmployeeRequest  true  "Employee details, password base64-encoded"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/v1/users/employees [post]
func (h *UserHandler) RegisterEmployee(c echo.Context) error {
	var req registerEmployeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return err
	}
	if role == domain.RoleCustomer {
		return echo.NewHTTPError(http.StatusBadRequest, "customers register through /api/v1/users/customers")
	}

	return h.register(c, ports.RegisterInput{
		Name:           req.Name,
		CPF:            req.CPF,
		Email:          req.Email,
		PasswordBase64: req.Password,
		Role:           role,
	})
}

func (h *UserHandler) register(c echo.Context, in ports.RegisterInput) error {
	user, err := h.service.Register(c.Request().Context(), in)
	metrics.RegistrationsTotal.WithLabelValues(in.Role.String(), metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Get returns a user record.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id (uuid)"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	requester, id, err := h.target(c)
	if err != nil {
		return err
	}

	user, err := h.service.GetByID(c.Request().Context(), id, requester)
	metrics.UserOperationsTotal.WithLabelValues(string(authz.OpRead), metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Update changes the non-empty fields of a user record.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id (uuid)"
// @Param        body  body      updateUserRequest  true  "Fields to change, password base64-encoded"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/v1/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	requester, id, err := h.target(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.Update(c.Request().Context(), ports.UpdateInput{
		ID:             id,
		Name:           req.Name,
		CPF:            req.CPF,
		Email:          req.Email,
		PasswordBase64: req.Password,
	}, requester)
	metrics.UserOperationsTotal.WithLabelValues(string(authz.OpUpdate), metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete soft-deletes a user record and returns it.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id (uuid)"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	requester, id, err := h.target(c)
	if err != nil {
		return err
	}

	user, err := h.service.Delete(c.Request().Context(), id, requester)
	metrics.UserOperationsTotal.WithLabelValues(string(authz.OpDelete), metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) target(c echo.Context) (authz.Requester, uuid.UUID, error) {
	requester, err := ctxRequester(c)
	if err != nil {
		return authz.Requester{}, uuid.Nil, err
	}
	id, err := pathUserID(c)
	if err != nil {
		return authz.Requester{}, uuid.Nil, err
	}
	return requester, id, nil
}
