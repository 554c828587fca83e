package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Redirect targets of the route guards.
const (
	PathLogin     = "/"
	PathIncidents = "/incidents"
)

// Private lets the request through only when the browser has a session
// token. Otherwise it redirects to the login page.
func Private() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !authenticated(c) {
				return c.Redirect(http.StatusFound, PathLogin)
			}
			return next(c)
		}
	}
}

// GuestOnly sends browsers that already have a session to the incident list.
func GuestOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if authenticated(c) {
				return c.Redirect(http.StatusFound, PathIncidents)
			}
			return next(c)
		}
	}
}

func authenticated(c echo.Context) bool {
	ws := WorkspaceFrom(c)
	return ws != nil && ws.Session.Current().IsAuthenticated()
}
