package middleware

import (
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lromero/appointment-assistant/internal/utils"
)

// AdminBasicAuth returns an Echo middleware guarding the admin API with HTTP
// Basic credentials.  The username comparison is constant time and the
// password is checked against a bcrypt hash, so the plain admin password
// never lives in the environment.
func AdminBasicAuth(user, passHash string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Basic ") {
				return challenge(c)
			}
			raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
			if err != nil {
				return challenge(c)
			}
			name, pass, ok := strings.Cut(string(raw), ":")
			if !ok {
				return challenge(c)
			}
			if subtle.ConstantTimeCompare([]byte(name), []byte(user)) != 1 {
				return challenge(c)
			}
			if !utils.VerifyPassword(passHash, pass) {
				return challenge(c)
			}
			return next(c)
		}
	}
}

func challenge(c echo.Context) error {
	c.Response().Header().Set("WWW-Authenticate", `Basic realm="admin"`)
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}
