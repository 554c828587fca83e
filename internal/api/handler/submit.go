package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bethehero/web/internal/api/middleware"
	"github.com/bethehero/web/internal/core/domain"
	"github.com/bethehero/web/internal/core/ports"
	"github.com/bethehero/web/internal/pkg/metrics"
)

// MsgSubmitInFlight is shown when the same form is posted again before the
// first submission finished.
const MsgSubmitInFlight = "Envio em andamento, aguarde."

// submitGuard serialises submissions of one form per browser. A nil guard
// lets everything through.
type submitGuard struct {
	guard ports.SubmitGuard
	log   zerolog.Logger
}

func (g submitGuard) run(c echo.Context, form string, fn func() error) error {
	if g.guard == nil {
		return fn()
	}
	key := middleware.BrowserIDFrom(c) + ":" + form
	ctx := c.Request().Context()

	ok, err := g.guard.Acquire(ctx, key)
	if err != nil {
		// Fail open: a broken guard must not block the forms.
		g.log.Warn().Err(err).Str("form", form).Msg("submit guard unavailable")
		return fn()
	}
	if !ok {
		metrics.FormSubmissionsTotal.WithLabelValues(form, "busy").Inc()
		return echo.NewHTTPError(http.StatusConflict, MsgSubmitInFlight).SetInternal(domain.ErrSubmitInFlight)
	}
	defer func() {
		if err := g.guard.Release(context.WithoutCancel(ctx), key); err != nil {
			g.log.Warn().Err(err).Str("form", form).Msg("submit guard release failed")
		}
	}()
	return fn()
}
