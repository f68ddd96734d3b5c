package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/ougirez/roaddefects/internal/domain"
	"github.com/ougirez/roaddefects/internal/pkg/constants"
	"github.com/ougirez/roaddefects/internal/pkg/logger"
	"go.uber.org/zap"
)

// AuthMiddleware accepts the access cookie, falling back to the refresh cookie
// and re-issuing both when the access token is gone or expired.
func (svc *APIService) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := svc.authenticate(c)
		if err != nil {
			logger.Debugf(c.Request().Context(), "auth: %s", err.Error())
			if isAPIRequest(c) {
				return err
			}
			return c.Redirect(http.StatusFound, "/login")
		}

		c.Set(constants.CtxKeyUserID, user.ID)
		c.Set(constants.CtxKeyUser, user)

		return next(c)
	}
}

func (svc *APIService) authenticate(c echo.Context) (*domain.User, error) {
	ctx := c.Request().Context()

	if cookie, err := c.Cookie(constants.CookieKeyAuthToken); err == nil && cookie.Value != "" {
		user, err := svc.authService.Authenticate(ctx, cookie.Value)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, constants.ErrInvalidToken) {
			return nil, err
		}
	}

	cookie, err := c.Cookie(constants.CookieKeyRefreshToken)
	if err != nil || cookie.Value == "" {
		return nil, constants.ErrMissingAuthCookie
	}

	resp, err := svc.authService.Refresh(ctx, cookie.Value)
	if err != nil {
		return nil, err
	}
	svc.cookies.Set(c, resp, svc.authService.AccessTTL(), svc.authService.RefreshTTL())
	logger.Debugf(ctx, "auth: refreshed tokens of user %d", resp.User.ID)

	return resp.User, nil
}

func isAPIRequest(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}

func requestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			c.Set(constants.CtxKeyRequestID, id)
			ctx := logger.WithContext(c.Request().Context(), zap.String(constants.CtxKeyRequestID, id))
			c.SetRequest(c.Request().WithContext(ctx))
		},
	})
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Info(c.Request().Context(), "request", fields...)
			return nil
		},
	})
}
