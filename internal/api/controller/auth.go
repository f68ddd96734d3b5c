package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/roaddefects/internal/domain"
	"github.com/ougirez/roaddefects/internal/pkg/logger"
)

func (c *Controller) Index(ctx echo.Context) error {
	return ctx.Redirect(http.StatusFound, "/login")
}

func (c *Controller) LoginPage(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, TemplateLogin, page(ctx, nil))
}

func (c *Controller) LoginUser(ctx echo.Context) error {
	var request domain.LoginUserRequest
	err := ctx.Bind(&request)
	if err == nil {
		var resp *domain.AuthResponse
		resp, err = c.authService.LoginUser(ctx.Request().Context(), &request)
		if err == nil {
			c.cookies.Set(ctx, resp, c.authService.AccessTTL(), c.authService.RefreshTTL())
			return ctx.Redirect(http.StatusFound, "/home")
		}
	}

	code, ok := clientError(err)
	if !ok {
		return err
	}
	return ctx.Render(code, TemplateLogin, page(ctx, map[string]any{
		"Error":    err.Error(),
		"Username": request.Username,
	}))
}

func (c *Controller) RegisterPage(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, TemplateRegister, page(ctx, nil))
}

func (c *Controller) SignupUser(ctx echo.Context) error {
	var request domain.SignupUserRequest
	err := ctx.Bind(&request)
	if err == nil {
		var resp *domain.AuthResponse
		resp, err = c.authService.SignupUser(ctx.Request().Context(), &request)
		if err == nil {
			c.cookies.Set(ctx, resp, c.authService.AccessTTL(), c.authService.RefreshTTL())
			return ctx.Redirect(http.StatusFound, "/profile")
		}
	}

	code, ok := clientError(err)
	if !ok {
		logger.Errorf(ctx.Request().Context(), "signup %s: %s", request.Username, err.Error())
		return err
	}
	return ctx.Render(code, TemplateRegister, page(ctx, map[string]any{
		"Error":    err.Error(),
		"Username": request.Username,
	}))
}

func (c *Controller) LogoutUser(ctx echo.Context) error {
	c.cookies.Clear(ctx)
	return ctx.Redirect(http.StatusFound, "/login")
}

func (c *Controller) Profile(ctx echo.Context) error {
	user, err := c.userService.GetUser(ctx.Request().Context(), userID(ctx))
	if err != nil {
		return err
	}

	fields := map[string]any{"User": user}
	if ctx.QueryParam("changed") != "" {
		fields["Notice"] = "Password changed."
	}
	return ctx.Render(http.StatusOK, TemplateProfile, page(ctx, fields))
}

func (c *Controller) ChangePassword(ctx echo.Context) error {
	var request domain.ChangePasswordRequest
	err := ctx.Bind(&request)
	if err == nil {
		err = c.authService.ChangePassword(ctx.Request().Context(), userID(ctx), &request)
		if err == nil {
			return ctx.Redirect(http.StatusFound, "/profile?changed=1")
		}
	}

	code, ok := clientError(err)
	if !ok {
		return err
	}
	return ctx.Render(code, TemplateProfile, page(ctx, map[string]any{"Error": err.Error()}))
}
