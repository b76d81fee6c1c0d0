package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edutube/core"
	"github.com/trezcool/edutube/core/user"
)

const msgServerError = "Server error"

type authApi struct {
	svc user.Service
}

func registerAuthAPI(g *echo.Group, svc user.Service) {
	api := authApi{svc: svc}

	ag := g.Group("/auth")
	ag.POST("/register", api.register)
	ag.POST("/login", api.login)
}

// LoginResponse is the identity of an authenticated user.
type LoginResponse struct {
	ID       string `json:"_id"`
	LegacyID string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func newLoginResponse(usr user.User) LoginResponse {
	return LoginResponse{
		ID:       usr.ID,
		LegacyID: usr.ID,
		Name:     usr.FullName,
		Email:    usr.Email,
		Role:     usr.Role,
	}
}

// authErr renders message-only validation errors as `{"message": ...}`, the shape auth clients read.
func authErr(err error, msg string) error {
	var vErr *core.ValidationError
	if errors.As(err, &vErr) && vErr.Fields == nil {
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{"message": vErr.Error()})
	}
	return fail(err, msg)
}

// Handlers

func (api *authApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if _, err := api.svc.Register(ctx.Request().Context(), data); err != nil {
		return authErr(err, msgServerError)
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"message": "User registered successfully"})
}

func (api *authApi) login(ctx echo.Context) error {
	var data user.LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	usr, err := api.svc.Authenticate(ctx.Request().Context(), data)
	if err != nil {
		return authErr(err, msgServerError)
	}
	return ctx.JSON(http.StatusOK, newLoginResponse(usr))
}
