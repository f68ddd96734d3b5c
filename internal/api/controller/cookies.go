package controller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/roaddefects/internal/domain"
	"github.com/ougirez/roaddefects/internal/pkg/constants"
)

type Cookies struct {
	Secure bool
}

func (k Cookies) Set(ctx echo.Context, resp *domain.AuthResponse, accessTTL, refreshTTL time.Duration) {
	ctx.SetCookie(k.cookie(constants.CookieKeyAuthToken, resp.AuthToken, accessTTL))
	ctx.SetCookie(k.cookie(constants.CookieKeyRefreshToken, resp.RefreshToken, refreshTTL))
}

func (k Cookies) Clear(ctx echo.Context) {
	for _, name := range []string{constants.CookieKeyAuthToken, constants.CookieKeyRefreshToken} {
		cookie := k.cookie(name, "", 0)
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
		ctx.SetCookie(cookie)
	}
}

func (k Cookies) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   k.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
