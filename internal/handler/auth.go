package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/fairway/scorecard-server/internal/audit"
	apperrors "github.com/fairway/scorecard-server/internal/errors"
	"github.com/fairway/scorecard-server/internal/lockout"
	"github.com/fairway/scorecard-server/internal/service"
	"github.com/fairway/scorecard-server/internal/session"
	"github.com/fairway/scorecard-server/internal/util"
)

type AuthHandler struct {
	authService *service.AuthService
	throttle    func(http.Handler) http.Handler
}

func NewAuthHandler(authService *service.AuthService, throttle func(http.Handler) http.Handler) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		throttle:    throttle,
	}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.throttle).Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Post("/register", h.Register)
	r.Post("/pin", h.ChangePin)
	r.Get("/me", h.Me)
	r.Get("/profiles", h.ListProfiles)

	return r
}

// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID     string `json:"userId"`
		Pin        string `json:"pin"`
		RememberMe bool   `json:"rememberMe"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "malformed JSON"))
		return
	}

	if req.UserID == "" {
		writeError(w, apperrors.MissingRequired("userId"))
		return
	}
	if !util.IsValidPin(req.Pin) {
		writeError(w, apperrors.InvalidInput("pin", "must be 4 digits"))
		return
	}

	result, err := h.authService.Login(r.Context(), req.UserID, req.Pin)
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok && appErr.Code == apperrors.ErrCodeNotFound {
			writeError(w, err)
			return
		}
		log.Error().Err(err).Msg("login failed")
		writeError(w, apperrors.Internal("로그인 처리 중 오류가 발생했습니다."))
		return
	}

	if !result.Success() {
		h.auditFailure(r, req.UserID, result.Status)
		status := http.StatusUnauthorized
		if result.Status == lockout.StatusTemporarilyLocked || result.Status == lockout.StatusPermanentlyLocked {
			status = http.StatusForbidden
		}
		writeJSON(w, status, map[string]any{
			"success": false,
			"status":  result.Status,
			"message": result.Message,
		})
		return
	}

	http.SetCookie(w, session.NewCookie(result.Profile.ID, result.Profile.Name, req.RememberMe))
	audit.LogFromRequest(r, audit.Event{Type: audit.EventLoginSuccess, ProfileID: result.Profile.ID})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user": map[string]any{
			"id":   result.Profile.ID,
			"name": result.Profile.Name,
		},
	})
}

func (h *AuthHandler) auditFailure(r *http.Request, profileID string, status lockout.Status) {
	event := audit.Event{
		Type:      audit.EventLoginFailure,
		ProfileID: profileID,
		Details:   map[string]interface{}{"status": string(status)},
	}
	switch status {
	case lockout.StatusTemporarilyLocked:
		event.Type = audit.EventLockout
	case lockout.StatusPermanentlyLocked:
		event.Type = audit.EventPermanentLock
	}
	audit.LogFromRequest(r, event)
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if s := session.Get(r); s != nil {
		audit.LogFromRequest(r, audit.Event{Type: audit.EventLogout, ProfileID: s.UserID})
	}

	http.SetCookie(w, session.ClearCookie())
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Pin  string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "malformed JSON"))
		return
	}

	profile, err := h.authService.Register(r.Context(), req.Name, req.Pin)
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{Type: audit.EventProfileCreate, ProfileID: profile.ID})
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":   profile.ID,
		"name": profile.Name,
	})
}

// POST /api/auth/pin
func (h *AuthHandler) ChangePin(w http.ResponseWriter, r *http.Request) {
	s := session.Get(r)
	if s == nil {
		writeError(w, apperrors.AuthRequired())
		return
	}

	var req struct {
		CurrentPin string `json:"currentPin"`
		NewPin     string `json:"newPin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "malformed JSON"))
		return
	}

	if err := h.authService.ChangePin(r.Context(), s.UserID, req.CurrentPin, req.NewPin); err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{Type: audit.EventPinChange, ProfileID: s.UserID})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	s := session.Get(r)
	if s == nil {
		writeError(w, apperrors.AuthRequired())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":   s.UserID,
			"name": s.UserName,
		},
		"expiresAt": s.ExpiresAt,
	})
}

// GET /api/auth/profiles
func (h *AuthHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.authService.ListProfiles(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list profiles")
		writeError(w, err)
		return
	}

	formatted := make([]map[string]any, len(profiles))
	for i, p := range profiles {
		formatted[i] = map[string]any{
			"id":   p.ID,
			"name": p.Name,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"profiles": formatted})
}
