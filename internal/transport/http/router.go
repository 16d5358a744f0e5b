package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/hirehub/hirehub-backend/internal/metrics"
	"github.com/hirehub/hirehub-backend/internal/service"
	"github.com/hirehub/hirehub-backend/internal/util"
)

type RouterConfig struct {
	AllowOrigins       []string
	Cookies            CookieConfig
	RateLimitPerMinute int
	SwaggerSpecPath    string
}

type Services struct {
	Auth     *service.AuthService
	Users    *service.UserService
	Contacts *service.ContactService
}

func NewRouter(cfg RouterConfig, svc Services, m *metrics.Metrics, logger *zap.Logger) *echo.Echo {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = newErrorHandler(logger)

	allowCredentials := true
	for _, origin := range cfg.AllowOrigins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	registerLogging(e, logger, m)

	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderAuthorization,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderOrigin,
			echo.HeaderXRequestedWith,
			echo.HeaderXRequestID,
		},
		AllowCredentials: allowCredentials,
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	})
	e.GET("/test", func(c echo.Context) error {
		return c.JSON(http.StatusOK, util.Success("HireHub API is running", nil))
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))
	RegisterSwagger(e, cfg.SwaggerSpecPath)

	limiter := NewRateLimiter(cfg.RateLimitPerMinute)
	requireAuth := RequireAuth(svc.Auth)

	api := e.Group("/api/v1")
	RegisterAuth(api.Group("/user"), NewAuthHandler(svc.Auth, cfg.Cookies), limiter)
	RegisterUsers(api.Group("/user"), NewUserHandler(svc.Users), requireAuth)
	RegisterContact(api.Group("/contact"), NewContactHandler(svc.Contacts), requireAuth, limiter)
	return e
}
