package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bethehero/web/internal/core/ports"
)

// NGOHandler serves NGO sign-up.
type NGOHandler struct {
	submit submitGuard
}

// NewNGOHandler returns an NGOHandler. guard may be nil.
func NewNGOHandler(guard ports.SubmitGuard, log zerolog.Logger) *NGOHandler {
	return &NGOHandler{submit: submitGuard{guard: guard, log: log.With().Str("component", "ngo_handler").Logger()}}
}

// RegisterPage renders GET /register.
func (h *NGOHandler) RegisterPage(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, pageRegister, formPage{page: newPage(ws, "Cadastro")})
}

// Register handles POST /register.
func (h *NGOHandler) Register(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	return h.submit.run(c, "register", func() error {
		fields := formFields(c, "name", "email", "whatsapp", "city", "state")
		res := ws.RegisterForm().Submit(c.Request().Context(), fields)
		return renderForm(c, ws, pageRegister, "Cadastro", res)
	})
}
