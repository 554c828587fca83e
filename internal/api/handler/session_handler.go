package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bethehero/web/internal/core/ports"
)

// SessionHandler serves the login page and logout.
type SessionHandler struct {
	submit submitGuard
	log    zerolog.Logger
}

// NewSessionHandler returns a SessionHandler. guard may be nil.
func NewSessionHandler(guard ports.SubmitGuard, log zerolog.Logger) *SessionHandler {
	log = log.With().Str("component", "session_handler").Logger()
	return &SessionHandler{submit: submitGuard{guard: guard, log: log}, log: log}
}

// LoginPage renders GET /.
func (h *SessionHandler) LoginPage(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, pageLogin, formPage{page: newPage(ws, "Logon")})
}

// Login handles POST /.
func (h *SessionHandler) Login(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	return h.submit.run(c, "login", func() error {
		res := ws.LoginForm().Submit(c.Request().Context(), formFields(c, "id"))
		return renderForm(c, ws, pageLogin, "Logon", res)
	})
}

// Logout handles POST /logout.
func (h *SessionHandler) Logout(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	if err := ws.Logout(c.Request().Context()); err != nil {
		h.log.Warn().Err(err).Str("browser_id", ws.ID).Msg("logout left a stored session behind")
	}
	return c.Redirect(http.StatusSeeOther, "/")
}
