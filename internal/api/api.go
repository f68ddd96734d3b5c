package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/ougirez/roaddefects/internal/api/controller"
	"github.com/ougirez/roaddefects/internal/pkg/logger"
	"github.com/ougirez/roaddefects/internal/service/auth"
	"github.com/ougirez/roaddefects/internal/service/defects"
	"github.com/ougirez/roaddefects/internal/service/locations"
	"github.com/ougirez/roaddefects/internal/service/report"
	"github.com/ougirez/roaddefects/internal/service/user"
)

type Config struct {
	CORSOrigins  []string
	CookieSecure bool
	Debug        bool
}

type Services struct {
	Auth      *auth.Service
	User      *user.Service
	Defects   *defects.Service
	Locations *locations.Service
	Report    *report.Service
}

type APIService struct {
	router      *echo.Echo
	authService *auth.Service
	cookies     controller.Cookies
}

func (svc *APIService) Serve(addr string) error {
	logger.Infof(context.Background(), "listening on %s", addr)
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func NewAPIService(cfg Config, services Services) (*APIService, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	svc := &APIService{
		router:      echo.New(),
		authService: services.Auth,
		cookies:     controller.Cookies{Secure: cfg.CookieSecure},
	}

	svc.router.HideBanner = true
	svc.router.Debug = cfg.Debug
	if cfg.Debug {
		svc.router.Logger.SetLevel(log.DEBUG)
	} else {
		svc.router.Logger.SetLevel(log.WARN)
	}

	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.JSONSerializer = NewJSONSerializer()
	svc.router.Renderer = renderer
	svc.router.HTTPErrorHandler = httpErrorHandler

	svc.router.Use(requestID())
	svc.router.Use(requestLogger())
	svc.router.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisablePrintStack: true,
		LogLevel:          log.ERROR,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Errorf(c.Request().Context(), "panic recovered: %s\n%s", err.Error(), stack)
			return err
		},
	}))
	if len(cfg.CORSOrigins) > 0 {
		svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{echo.GET, echo.POST},
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
			AllowCredentials: true,
		}))
	}

	cntrl := controller.NewController(controller.Deps{
		Auth:      services.Auth,
		User:      services.User,
		Defects:   services.Defects,
		Locations: services.Locations,
		Report:    services.Report,
		Cookies:   svc.cookies,
	})

	svc.router.GET("/healthz", cntrl.Health)
	svc.router.GET("/", cntrl.Index)
	svc.router.GET("/login", cntrl.LoginPage)
	svc.router.POST("/login", cntrl.LoginUser)
	svc.router.GET("/register", cntrl.RegisterPage)
	svc.router.POST("/register", cntrl.SignupUser)
	svc.router.GET("/proxy-image/:id", cntrl.ProxyImage)

	svc.router.GET("/logout", cntrl.LogoutUser, svc.AuthMiddleware)
	svc.router.GET("/profile", cntrl.Profile, svc.AuthMiddleware)
	svc.router.POST("/profile/password", cntrl.ChangePassword, svc.AuthMiddleware)
	svc.router.GET("/home", cntrl.Home, svc.AuthMiddleware)

	api := svc.router.Group("/api", svc.AuthMiddleware)

	locationsGroup := api.Group("/locations")
	locationsGroup.GET("/cities", cntrl.GetCities)
	locationsGroup.GET("/list", cntrl.GetLocationList)
	locationsGroup.GET("/districts", cntrl.GetDistricts)
	locationsGroup.GET("/roads", cntrl.GetRoads)

	defectsGroup := api.Group("/road-defects")
	defectsGroup.GET("/list", cntrl.ListDefects)
	defectsGroup.GET("/:kind", cntrl.GetAnalytics)

	llm := api.Group("/llm")
	llm.POST("/generate-report", cntrl.GenerateReport)
	llm.POST("/analyze-defect/:id", cntrl.AnalyzeDefect)

	return svc, nil
}
