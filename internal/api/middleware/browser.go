package middleware

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/hkdf"

	"github.com/bethehero/web/internal/core/service"
)

const (
	// BrowserCookie carries the signed browser id.
	BrowserCookie = "bth_sid"

	contextWorkspace = "workspace"
	contextBrowserID = "browser_id"

	cookieKeyInfo = "bethehero-web browser cookie v1"
	defaultMaxAge = 30 * 24 * time.Hour
	browserIssuer = "bethehero-web"
)

// WorkspaceResolver returns the workspace of a browser.
type WorkspaceResolver interface {
	Get(ctx context.Context, browserID string) *service.Workspace
}

// BrowserConfig configures the browser cookie.
type BrowserConfig struct {
	// Key signs the cookie. Derive it with CookieKey.
	Key    []byte
	Secure bool
	MaxAge time.Duration
}

// CookieKey derives the 32-byte cookie signing key from secret.
func CookieKey(secret []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, errors.New("cookie key: empty secret")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(cookieKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("cookie key: %w", err)
	}
	return key, nil
}

// Browser identifies the browser by its signed cookie, issuing a new id when
// the cookie is missing or does not verify, and puts its workspace on the
// context.
func Browser(cfg BrowserConfig, workspaces WorkspaceResolver) echo.MiddlewareFunc {
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = defaultMaxAge
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			browserID, ok := verifiedBrowserID(c, cfg.Key)
			if !ok {
				browserID = uuid.NewString()
				signed, err := signBrowserID(browserID, cfg.Key, cfg.MaxAge, time.Now())
				if err != nil {
					return fmt.Errorf("browser cookie: %w", err)
				}
				c.SetCookie(&http.Cookie{
					Name:     BrowserCookie,
					Value:    signed,
					Path:     "/",
					MaxAge:   int(cfg.MaxAge.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(contextBrowserID, browserID)
			c.Set(contextWorkspace, workspaces.Get(c.Request().Context(), browserID))
			return next(c)
		}
	}
}

// WorkspaceFrom returns the workspace set by Browser.
func WorkspaceFrom(c echo.Context) *service.Workspace {
	ws, _ := c.Get(contextWorkspace).(*service.Workspace)
	return ws
}

// BrowserIDFrom returns the browser id set by Browser.
func BrowserIDFrom(c echo.Context) string {
	id, _ := c.Get(contextBrowserID).(string)
	return id
}

func verifiedBrowserID(c echo.Context, key []byte) (string, bool) {
	cookie, err := c.Cookie(BrowserCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	var claims jwt.RegisteredClaims
	tkn, err := jwt.ParseWithClaims(cookie.Value, &claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(browserIssuer))
	if err != nil || !tkn.Valid {
		return "", false
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", false
	}
	return claims.Subject, true
}

func signBrowserID(browserID string, key []byte, maxAge time.Duration, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    browserIssuer,
		Subject:   browserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(maxAge)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}
