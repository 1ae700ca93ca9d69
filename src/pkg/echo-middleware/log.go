package echomw

import (
	"github.com/labstack/echo/v4"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

// quietRoutes are polled by probes and only logged at Verbose.
var quietRoutes = map[string]bool{
	"/healthz": true,
}

func RouteAccessLoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		LogRouteAccess(c, tl.Info, "Accessing route", palette.Blue)
		err := next(c)
		if err != nil {
			// Let echo's error handler write the response so the status below is final.
			c.Error(err)
		}
		logRouteDone(c)
		return nil
	}
}

// LogRouteAccess logs method, route, and client of the current request.
func LogRouteAccess(c echo.Context, logLevel tl.LogLevel, actionName string, colorizer palette.Colorizer) {
	path := c.Path()
	if quietRoutes[path] {
		logLevel = tl.Verbose
		colorizer = palette.CyanDim
	}
	tl.Log(logLevel, colorizer, "%s: Method='%s', Path='%s', ClientIP='%s'", actionName, c.Request().Method, path, c.RealIP())
}

func logRouteDone(c echo.Context) {
	status := c.Response().Status
	switch {
	case quietRoutes[c.Path()]:
		tl.Log(tl.Verbose, palette.CyanDim, "Route accessed: Path='%s', Status='%d'", c.Path(), status)
	case status >= 500:
		tl.Log(tl.Warning, palette.Red, "Route failed: Method='%s', Path='%s', Status='%d'", c.Request().Method, c.Path(), status)
	case status >= 400:
		tl.Log(tl.Info1, palette.Yellow, "Route rejected: Method='%s', Path='%s', Status='%d'", c.Request().Method, c.Path(), status)
	default:
		tl.Log(tl.Info1, palette.Green, "Route accessed: Method='%s', Path='%s', Status='%d'", c.Request().Method, c.Path(), status)
	}
}
