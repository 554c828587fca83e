package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bethehero/web/internal/core/domain"
	"github.com/bethehero/web/internal/core/service"
)

// --- View models ---

type page struct {
	Title   string
	NGOName string
	Toasts  []service.Toast
}

type formPage struct {
	page
	Values map[string]string
	Errors domain.FieldErrors
}

type incidentsPage struct {
	page
	Feed service.FeedSnapshot
}

type moreFragment struct {
	Items  []domain.Incident
	Toasts []service.Toast
}

type errorPage struct {
	page
	Code    int
	Message string
}

// newPage drains the workspace toasts. Call it after every action that may
// raise one.
func newPage(ws *service.Workspace, title string) page {
	return page{
		Title:   title,
		NGOName: ws.Session.Current().Name,
		Toasts:  ws.Toasts.Drain(),
	}
}

// renderForm answers a form submission: redirect on success, the same page
// with 422 on invalid input, or the same page with the failure toast.
func renderForm(c echo.Context, ws *service.Workspace, view, title string, res service.FormResult) error {
	if res.OK() {
		return c.Redirect(http.StatusSeeOther, res.Redirect)
	}
	status := http.StatusOK
	if res.Errors.Has() {
		status = http.StatusUnprocessableEntity
	}
	return c.Render(status, view, formPage{
		page:   newPage(ws, title),
		Values: res.Values,
		Errors: res.Errors,
	})
}

// ViewError is the name of the error page view.
const ViewError = pageError

// ErrorView returns the data of the error page.
func ErrorView(code int, message string) any {
	return errorPage{
		page:    page{Title: http.StatusText(code)},
		Code:    code,
		Message: message,
	}
}
