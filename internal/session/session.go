// Package session issues and validates the browser session cookie. The cookie
// carries a base64 JSON descriptor with an embedded expiry and is not persisted
// server-side; expiry and cookie deletion are the only ways a session ends.
package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

const CookieName = "golf_session"

const (
	// DefaultMaxAge is the session lifetime without remember-me.
	DefaultMaxAge = 24 * time.Hour
	// RememberMaxAge is the session lifetime with remember-me.
	RememberMaxAge = 30 * 24 * time.Hour
)

type contextKey string

const sessionContextKey contextKey = "session"

type Session struct {
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	ExpiresAt int64  `json:"expiresAt"`
}

// NewCookie builds the session cookie for a freshly authenticated user.
// ExpiresAt is epoch milliseconds; the cookie value is base64 of the JSON
// descriptor. The value is unsigned: integrity relies on HttpOnly and
// transport security.
func NewCookie(userID, userName string, rememberMe bool) *http.Cookie {
	maxAge := DefaultMaxAge
	if rememberMe {
		maxAge = RememberMaxAge
	}

	s := Session{
		UserID:    userID,
		UserName:  userName,
		ExpiresAt: time.Now().Add(maxAge).UnixMilli(),
	}

	payload, _ := json.Marshal(s)

	return &http.Cookie{
		Name:     CookieName,
		Value:    base64.StdEncoding.EncodeToString(payload),
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie instructs the client to discard the session immediately.
func ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	}
}

// Get extracts the session from the request cookie. It returns nil for a
// missing cookie, an undecodable value, or an expired descriptor; none of
// those are errors from the caller's point of view.
func Get(r *http.Request) *Session {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	// PathUnescape, not QueryUnescape: standard base64 contains literal '+',
	// which query unescaping would turn into a space and break the decode.
	value := cookie.Value
	if unescaped, err := url.PathUnescape(value); err == nil {
		value = unescaped
	}

	payload, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil
	}

	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil
	}

	if s.ExpiresAt <= time.Now().UnixMilli() {
		return nil
	}

	return &s
}

// FromContext returns the session stored by the RequireAuth middleware.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionContextKey).(*Session); ok {
		return s
	}
	return nil
}

// WithSession is exposed for handler tests that bypass the middleware.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// RequireAuth gates protected routes. Requests without a valid session are
// redirected to the login entry point; an absent cookie and an expired one
// are indistinguishable here.
type RequireAuth struct {
	loginPath string
}

func NewRequireAuth(loginPath string) *RequireAuth {
	return &RequireAuth{loginPath: loginPath}
}

func (m *RequireAuth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := Get(r)
		if s == nil {
			http.Redirect(w, r, m.loginPath, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}
