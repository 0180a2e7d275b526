package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// UserHeader carries the caller's user id. There is no login flow; the
// header is trusted as-is.
const UserHeader = "X-User-Id"

// Identify stores the caller's user id under "uid" when the header is present.
func Identify(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if uid := strings.TrimSpace(c.Request().Header.Get(UserHeader)); uid != "" {
			c.Set("uid", uid)
		}
		return next(c)
	}
}

// UserID returns the id stored by Identify, or "".
func UserID(c echo.Context) string {
	uid, _ := c.Get("uid").(string)
	return uid
}
