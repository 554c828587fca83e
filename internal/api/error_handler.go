package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bethehero/web/internal/api/handler"
	"github.com/bethehero/web/internal/core/domain"
)

// Messages shown on the error page.
const (
	msgUpstreamDown = "Serviço indisponível, tente novamente!"
	msgInternal     = "Erro inesperado, tente novamente!"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Keeps the status of *echo.HTTPError.
//   - Maps domain.ErrRemote to 502.
//   - Logs anything else and answers 500 without leaking the cause.
//
// Browsers get the error page; other clients and failed renders get plain text.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		if c.Echo().Renderer != nil && acceptsHTML(c) {
			rerr := c.Render(code, handler.ViewError, handler.ErrorView(code, msg))
			if rerr == nil {
				return
			}
			log.Error().Err(rerr).Msg("render error page")
		}
		_ = c.String(code, msg)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	if errors.Is(err, domain.ErrRemote) {
		log.Warn().Err(err).Str("path", c.Path()).Msg("upstream failure")
		return http.StatusBadGateway, msgUpstreamDown
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, msgInternal
}

func acceptsHTML(c echo.Context) bool {
	accept := c.Request().Header.Get(echo.HeaderAccept)
	return accept == "" || strings.Contains(strings.ToLower(accept), echo.MIMETextHTML)
}
