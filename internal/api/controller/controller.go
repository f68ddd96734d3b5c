package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/roaddefects/internal/domain"
	"github.com/ougirez/roaddefects/internal/pkg/constants"
	"github.com/ougirez/roaddefects/internal/service/auth"
	"github.com/ougirez/roaddefects/internal/service/defects"
	"github.com/ougirez/roaddefects/internal/service/locations"
	"github.com/ougirez/roaddefects/internal/service/report"
	"github.com/ougirez/roaddefects/internal/service/user"
)

const (
	TemplateLogin    = "login.html"
	TemplateRegister = "register.html"
	TemplateProfile  = "profile.html"
	TemplateHome     = "home.html"
	TemplateError    = "error.html"
)

type Deps struct {
	Auth      *auth.Service
	User      *user.Service
	Defects   *defects.Service
	Locations *locations.Service
	Report    *report.Service
	Cookies   Cookies
}

type Controller struct {
	authService      *auth.Service
	userService      *user.Service
	defectsService   *defects.Service
	locationsService *locations.Service
	reportService    *report.Service
	cookies          Cookies
}

func NewController(deps Deps) *Controller {
	return &Controller{
		authService:      deps.Auth,
		userService:      deps.User,
		defectsService:   deps.Defects,
		locationsService: deps.Locations,
		reportService:    deps.Report,
		cookies:          deps.Cookies,
	}
}

func (c *Controller) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// page is the data every template gets: the signed-in user plus page fields.
func page(ctx echo.Context, fields map[string]any) map[string]any {
	data := map[string]any{}
	if u, ok := ctx.Get(constants.CtxKeyUser).(*domain.User); ok {
		data["User"] = u
	}
	for k, v := range fields {
		data[k] = v
	}
	return data
}

// clientError reports the status of errors worth showing on a form.
func clientError(err error) (int, bool) {
	var ce *constants.CodedError
	if errors.As(err, &ce) && ce.Code() < http.StatusInternalServerError {
		return ce.Code(), true
	}
	return 0, false
}

func userID(ctx echo.Context) int64 {
	id, _ := ctx.Get(constants.CtxKeyUserID).(int64)
	return id
}
