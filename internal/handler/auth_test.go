package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairway/scorecard-server/internal/lockout"
	"github.com/fairway/scorecard-server/internal/model"
	"github.com/fairway/scorecard-server/internal/service"
	"github.com/fairway/scorecard-server/internal/session"
	"github.com/fairway/scorecard-server/internal/util"
)

type mockProfileRepo struct {
	findByIDFunc  func(ctx context.Context, id string) (*model.Profile, error)
	incrementFunc func(ctx context.Context, id string) (*model.Profile, error)
	resetCalls    int
	lockoutCalls  int
}

func (m *mockProfileRepo) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockProfileRepo) FindAll(ctx context.Context) ([]model.Profile, error) {
	return []model.Profile{}, nil
}

func (m *mockProfileRepo) Create(ctx context.Context, params model.CreateProfileParams) (*model.Profile, error) {
	return &model.Profile{ID: "new", Name: params.Name, PinHash: params.PinHash}, nil
}

func (m *mockProfileRepo) UpdatePin(ctx context.Context, id, pinHash string) error {
	return nil
}

func (m *mockProfileRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockProfileRepo) IncrementLoginAttempts(ctx context.Context, id string) (*model.Profile, error) {
	if m.incrementFunc != nil {
		return m.incrementFunc(ctx, id)
	}
	return &model.Profile{ID: id, LoginAttempts: 1}, nil
}

func (m *mockProfileRepo) ApplyLockout(ctx context.Context, id string, level int, lockedUntil time.Time) error {
	m.lockoutCalls++
	return nil
}

func (m *mockProfileRepo) ApplyPermanentLock(ctx context.Context, id string, level int) error {
	return nil
}

func (m *mockProfileRepo) ResetLoginState(ctx context.Context, id string) error {
	m.resetCalls++
	return nil
}

func (m *mockProfileRepo) ClearElapsedLockouts(ctx context.Context) (int64, error) {
	return 0, nil
}

func noThrottle(next http.Handler) http.Handler {
	return next
}

func newAuthHandler(repo *mockProfileRepo) *AuthHandler {
	svc := service.NewAuthService(repo, lockout.DefaultPolicy())
	return NewAuthHandler(svc, noThrottle)
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}

func TestLoginHandler(t *testing.T) {
	pinHash, err := util.HashPin("1234")
	require.NoError(t, err)

	profile := &model.Profile{ID: "p1", Name: "영희", PinHash: pinHash}

	t.Run("successful login sets a one-day session cookie", func(t *testing.T) {
		repo := &mockProfileRepo{
			findByIDFunc: func(ctx context.Context, id string) (*model.Profile, error) {
				return profile, nil
			},
		}
		h := newAuthHandler(repo)

		w := postJSON(t, h.Routes(), "/login", `{"userId":"p1","pin":"1234"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, repo.resetCalls)

		setCookie := w.Header().Get("Set-Cookie")
		assert.Contains(t, setCookie, session.CookieName+"=")
		assert.Contains(t, setCookie, "Max-Age=86400")
		assert.Contains(t, setCookie, "HttpOnly")
		assert.Contains(t, setCookie, "SameSite=Lax")
	})

	t.Run("remember me extends the cookie to thirty days", func(t *testing.T) {
		repo := &mockProfileRepo{
			findByIDFunc: func(ctx context.Context, id string) (*model.Profile, error) {
				return profile, nil
			},
		}
		h := newAuthHandler(repo)

		w := postJSON(t, h.Routes(), "/login", `{"userId":"p1","pin":"1234","rememberMe":true}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=2592000")
	})

	t.Run("wrong PIN returns 401 with the mismatch message", func(t *testing.T) {
		repo := &mockProfileRepo{
			findByIDFunc: func(ctx context.Context, id string) (*model.Profile, error) {
				return profile, nil
			},
			incrementFunc: func(ctx context.Context, id string) (*model.Profile, error) {
				return &model.Profile{ID: id, LoginAttempts: 1}, nil
			},
		}
		h := newAuthHandler(repo)

		w := postJSON(t, h.Routes(), "/login", `{"userId":"p1","pin":"0000"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "PIN이 일치하지 않습니다")
		assert.Empty(t, w.Header().Get("Set-Cookie"))
	})

	t.Run("locked account returns 403 with the lockout message", func(t *testing.T) {
		lockedUntil := time.Now().Add(10 * time.Minute)
		locked := &model.Profile{ID: "p1", Name: "영희", PinHash: pinHash, LockedUntil: &lockedUntil}
		repo := &mockProfileRepo{
			findByIDFunc: func(ctx context.Context, id string) (*model.Profile, error) {
				return locked, nil
			},
		}
		h := newAuthHandler(repo)

		w := postJSON(t, h.Routes(), "/login", `{"userId":"p1","pin":"1234"}`)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "다시 시도해주세요")
	})

	t.Run("malformed PIN is rejected before any lookup", func(t *testing.T) {
		h := newAuthHandler(&mockProfileRepo{})

		w := postJSON(t, h.Routes(), "/login", `{"userId":"p1","pin":"12"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown profile returns 404", func(t *testing.T) {
		h := newAuthHandler(&mockProfileRepo{})

		w := postJSON(t, h.Routes(), "/login", `{"userId":"ghost","pin":"1234"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLogoutHandler(t *testing.T) {
	t.Run("clears the session cookie", func(t *testing.T) {
		h := newAuthHandler(&mockProfileRepo{})

		w := postJSON(t, h.Routes(), "/logout", ``)

		assert.Equal(t, http.StatusOK, w.Code)
		setCookie := w.Header().Get("Set-Cookie")
		assert.Contains(t, setCookie, session.CookieName+"=")
		assert.Contains(t, setCookie, "Max-Age=0")
	})
}

func TestMeHandler(t *testing.T) {
	t.Run("returns 401 without a session", func(t *testing.T) {
		h := newAuthHandler(&mockProfileRepo{})
		r := httptest.NewRequest(http.MethodGet, "/me", nil)
		w := httptest.NewRecorder()

		h.Routes().ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("echoes the session user", func(t *testing.T) {
		h := newAuthHandler(&mockProfileRepo{})
		cookie := session.NewCookie("p1", "영희", false)
		r := httptest.NewRequest(http.MethodGet, "/me", nil)
		r.AddCookie(cookie)
		w := httptest.NewRecorder()

		h.Routes().ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"p1"`)
		assert.Contains(t, w.Body.String(), "영희")
	})
}

func TestRegisterHandler(t *testing.T) {
	t.Run("creates a profile", func(t *testing.T) {
		h := newAuthHandler(&mockProfileRepo{})

		w := postJSON(t, h.Routes(), "/register", `{"name":"영희","pin":"1234"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "영희")
	})

	t.Run("rejects a bad PIN", func(t *testing.T) {
		h := newAuthHandler(&mockProfileRepo{})

		w := postJSON(t, h.Routes(), "/register", `{"name":"영희","pin":"abcd"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
