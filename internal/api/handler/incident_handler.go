package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bethehero/web/internal/core/domain"
	"github.com/bethehero/web/internal/core/ports"
)

// HeaderFeedState tells the page script the feed state after a load-more.
const HeaderFeedState = "X-Feed-State"

// feedStale is sent in HeaderFeedState when the page outlived its feed
// (workspace evicted, process restarted or the list mounted elsewhere). The
// script reloads the page to mount a fresh one.
const feedStale = "stale"

// IncidentHandler serves the incident list and the create form.
type IncidentHandler struct {
	submit submitGuard
	log    zerolog.Logger
}

// NewIncidentHandler returns an IncidentHandler. guard may be nil.
func NewIncidentHandler(guard ports.SubmitGuard, log zerolog.Logger) *IncidentHandler {
	log = log.With().Str("component", "incident_handler").Logger()
	return &IncidentHandler{submit: submitGuard{guard: guard, log: log}, log: log}
}

// List handles GET /incidents. Every full render mounts a fresh feed and
// shows page 1.
func (h *IncidentHandler) List(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	feed, err := ws.MountFeed(c.Request().Context())
	if err != nil {
		h.log.Debug().Err(err).Str("browser_id", ws.ID).Msg("first page failed")
	}
	return c.Render(http.StatusOK, pageIncidents, incidentsPage{
		page: newPage(ws, "Casos"),
		Feed: feed.Snapshot(),
	})
}

// More handles GET /incidents/more: the next page as a fragment, or 204 when
// the trigger was suppressed.
func (h *IncidentHandler) More(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	feed := ws.Feed()
	if feed == nil {
		c.Response().Header().Set(HeaderFeedState, feedStale)
		return c.NoContent(http.StatusNoContent)
	}

	res, err := feed.LoadMore(c.Request().Context())
	if errors.Is(err, domain.ErrFeedClosed) {
		c.Response().Header().Set(HeaderFeedState, feedStale)
		return c.NoContent(http.StatusNoContent)
	}
	c.Response().Header().Set(HeaderFeedState, string(feed.State()))
	switch {
	case err != nil:
		// The feed already raised its toast; ship it with an empty page.
		return c.Render(http.StatusOK, fragmentMore, moreFragment{Toasts: ws.Toasts.Drain()})
	case !res.Issued:
		return c.NoContent(http.StatusNoContent)
	}
	return c.Render(http.StatusOK, fragmentMore, moreFragment{
		Items:  res.Appended,
		Toasts: ws.Toasts.Drain(),
	})
}

// Delete handles POST /incidents/:id/delete. The API call is made even when
// no feed is mounted for this browser.
func (h *IncidentHandler) Delete(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}

	err = ws.DeleteIncident(c.Request().Context(), domain.ID(c.Param("id")))
	if !isXHR(c) {
		return c.Redirect(http.StatusSeeOther, "/incidents")
	}
	status := http.StatusOK
	if err != nil {
		status = http.StatusConflict
	}
	return c.Render(status, fragmentToasts, ws.Toasts.Drain())
}

// CreatePage renders GET /incidents/create.
func (h *IncidentHandler) CreatePage(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, pageIncidentNew, formPage{page: newPage(ws, "Novo caso")})
}

// Create handles POST /incidents/create.
func (h *IncidentHandler) Create(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	return h.submit.run(c, "incident", func() error {
		fields := formFields(c, "title", "description", "value")
		res := ws.IncidentForm().Submit(c.Request().Context(), fields)
		return renderForm(c, ws, pageIncidentNew, "Novo caso", res)
	})
}
