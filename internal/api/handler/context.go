package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bethehero/web/internal/api/middleware"
	"github.com/bethehero/web/internal/core/service"
)

// ctxWorkspace returns the workspace put on the context by the Browser
// middleware. A missing workspace means the route was registered outside the
// browser group.
func ctxWorkspace(c echo.Context) (*service.Workspace, error) {
	ws := middleware.WorkspaceFrom(c)
	if ws == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "missing browser workspace")
	}
	return ws, nil
}

// isXHR reports whether the request came from the page script.
func isXHR(c echo.Context) bool {
	return c.Request().Header.Get(echo.HeaderXRequestedWith) == "XMLHttpRequest"
}

// formFields reads the named fields from the submitted form.
func formFields(c echo.Context, names ...string) map[string]string {
	fields := make(map[string]string, len(names))
	for _, n := range names {
		fields[n] = c.FormValue(n)
	}
	return fields
}
