// Package echomw provides the Echo middlewares of the notes upload service.
package echomw

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

const (
	// Env var the server reads the expected token from.
	EnvBearerToken = "NOTES_API_BEARER_TOKEN"

	// Realm for WWW-Authenticate header.
	authRealm = "notes-converter"
)

/*
RequireBearerToken validates "Authorization: Bearer <token>" against
expectedToken and responds 401 on any mismatch. An empty expectedToken
rejects every request.
*/
func RequireBearerToken(expectedToken string) echo.MiddlewareFunc {
	expected := strings.TrimSpace(expectedToken)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if expected == "" {
				// Fail closed if not configured.
				return unauthorized(c)
			}

			auth := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			// Case-insensitive scheme per RFC; allow extra spaces.
			const bearer = "bearer "
			if len(auth) < len(bearer) || !strings.EqualFold(auth[:len(bearer)], bearer) {
				return unauthorized(c)
			}
			received := strings.TrimSpace(auth[len(bearer):])
			if received == "" {
				return unauthorized(c)
			}

			if subtle.ConstantTimeCompare([]byte(received), []byte(expected)) != 1 {
				return unauthorized(c)
			}

			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	LogRouteAccess(c, tl.Info, "Unauthorized access attempt", palette.Yellow)

	// Helpful for clients/tools; avoids browser basic-auth popups.
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm="`+authRealm+`"`)
	return c.JSON(http.StatusUnauthorized, map[string]string{
		"error": "unauthorized",
	})
}
