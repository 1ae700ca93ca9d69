package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	echomw "notes-converter/src/pkg/echo-middleware"
)

/*
NewServer wires the routes and middlewares.

/healthz stays outside the /api group so probes are neither size limited nor
asked for a token.
*/
func NewServer(handler *Handler, cfg echomw.Config, bearerToken string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(echomw.RouteAccessLoggerMiddleware)
	e.Use(echomw.NewRateLimiter(cfg.MiddlewareRateLimit, cfg.MiddlewareBurst).Middleware)

	e.GET("/healthz", Health)

	api := e.Group("/api", middleware.BodyLimit(cfg.BodyLimit))
	if cfg.RequireAuth {
		api.Use(echomw.RequireBearerToken(bearerToken))
	}
	api.POST("/notes", handler.Convert)
	api.POST("/notes/download", handler.Download)

	return e
}
