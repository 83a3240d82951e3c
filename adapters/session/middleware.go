package session

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	DefaultSessionKeyForContext = "vitrine-default-session-context"
)

var ErrSessionNotFound = fmt.Errorf("session not found")

// MiddlewareOptions holds the session middleware settings.
type MiddlewareOptions struct {
	sessionKeyForCookie  string
	sessionKeyForContext string
	cookieMaxAge         time.Duration
	cookiePath           string
	cookieDomain         string
	cookieSecure         bool
	cookieHTTPOnly       bool
}

type MiddlewareOption func(*MiddlewareOptions)

// WithSessionKeyForCookie sets the cookie name carrying the session id.
func WithSessionKeyForCookie(key string) MiddlewareOption {
	return func(options *MiddlewareOptions) {
		options.sessionKeyForCookie = key
	}
}

// WithSessionKeyForContext sets the gin context key holding the session.
func WithSessionKeyForContext(key string) MiddlewareOption {
	return func(options *MiddlewareOptions) {
		options.sessionKeyForContext = key
	}
}

// WithCookieMaxAge sets the session cookie lifetime.
func WithCookieMaxAge(maxAge time.Duration) MiddlewareOption {
	return func(options *MiddlewareOptions) {
		options.cookieMaxAge = maxAge
	}
}

// WithCookiePath sets the session cookie path.
func WithCookiePath(path string) MiddlewareOption {
	return func(options *MiddlewareOptions) {
		options.cookiePath = path
	}
}

// WithCookieDomain sets the session cookie domain.
func WithCookieDomain(domain string) MiddlewareOption {
	return func(options *MiddlewareOptions) {
		options.cookieDomain = domain
	}
}

// WithCookieSecure controls the cookie Secure attribute.
func WithCookieSecure(secure bool) MiddlewareOption {
	return func(options *MiddlewareOptions) {
		options.cookieSecure = secure
	}
}

// WithCookieHTTPOnly controls the cookie HttpOnly attribute.
func WithCookieHTTPOnly(httpOnly bool) MiddlewareOption {
	return func(options *MiddlewareOptions) {
		options.cookieHTTPOnly = httpOnly
	}
}

// GinMiddleware attaches a session to every request. A missing or empty
// session cookie gets a fresh id; the cookie is (re)written after the
// handler chain runs.
func GinMiddleware(store IStore, opts ...MiddlewareOption) gin.HandlerFunc {
	options := MiddlewareOptions{
		sessionKeyForCookie:  "session",
		sessionKeyForContext: DefaultSessionKeyForContext,
		cookieMaxAge:         24 * time.Hour,
		cookiePath:           "/",
		cookieDomain:         "",
		cookieSecure:         true,
		cookieHTTPOnly:       true,
	}

	for _, opt := range opts {
		opt(&options)
	}

	return func(c *gin.Context) {
		sessionID, err := c.Cookie(options.sessionKeyForCookie)
		if err != nil || sessionID == "" {
			sessionID = uuid.New().String()
		}

		// headers flush as soon as a handler renders, so the cookie must be
		// issued before the chain runs or the client never learns its id
		c.SetCookie(
			options.sessionKeyForCookie,
			sessionID,
			int(options.cookieMaxAge/time.Second),
			options.cookiePath,
			options.cookieDomain,
			options.cookieSecure,
			options.cookieHTTPOnly,
		)

		session := NewSession(c.Request.Context(), sessionID, store)
		c.Set(options.sessionKeyForContext, session)

		c.Next()
	}
}

// GetSession retrieves and loads the session placed in the context by
// GinMiddleware.
func GetSession(ctx context.Context, opts ...MiddlewareOption) (ISession, error) {
	const op = "session.GetSession"
	options := MiddlewareOptions{
		sessionKeyForContext: DefaultSessionKeyForContext,
	}
	for _, opt := range opts {
		opt(&options)
	}
	v := ctx.Value(options.sessionKeyForContext)
	if v == nil {
		return nil, ErrSessionNotFound
	}
	session, ok := v.(ISession)
	if !ok {
		return nil, fmt.Errorf("%s: invalid session type in context", op)
	}
	if err := session.Load(); err != nil {
		return nil, fmt.Errorf("%s: failed to load session: %w", op, err)
	}

	return session, nil
}
