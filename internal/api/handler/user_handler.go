package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devlink/devlink-api/internal/api/metrics"
	"github.com/devlink/devlink-api/internal/core/domain"
	"github.com/devlink/devlink-api/internal/core/ports"
)

// UserHandler handles registration, login and current-user lookup.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register creates a new account and returns a signed token.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorsResponse
// @Failure      500   {object}  msgResponse
// @Router       /users [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if handled, err := bindAndValidate(c, &req); handled {
		return err
	}

	token, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return c.JSON(http.StatusBadRequest, errorsResponse{
				Errors: []errorMessage{{Msg: "User already exists"}},
			})
		}
		return err
	}

	metrics.UsersRegisteredTotal.Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// Login authenticates credentials and returns a signed token.
//
// @Summary      Authenticate and obtain a token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorsResponse
// @Failure      500   {object}  msgResponse
// @Router       /auth [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if handled, err := bindAndValidate(c, &req); handled {
		return err
	}

	token, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return c.JSON(http.StatusBadRequest, errorsResponse{
				Errors: []errorMessage{{Msg: "Invalid Credentials"}},
			})
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// Current returns the authenticated user, without the password hash.
//
// @Summary      Get the authenticated user
// @Tags         users
// @Produce      json
// @Param        x-auth-token  header    string  true  "Signed token"
// @Success      200  {object}  domain.User
// @Failure      401  {object}  msgResponse
// @Failure      500  {object}  msgResponse
// @Router       /auth [get]
func (h *UserHandler) Current(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.service.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		// The id came from a just-verified token, so any failure here is a
		// server-side problem, not a 404.
		return err
	}
	return c.JSON(http.StatusOK, user)
}
