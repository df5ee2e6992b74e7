package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/fairway/scorecard-server/internal/errors"
	"github.com/fairway/scorecard-server/internal/model"
	"github.com/fairway/scorecard-server/internal/service"
	"github.com/fairway/scorecard-server/internal/session"
)

type RoundHandler struct {
	roundService *service.RoundService
}

func NewRoundHandler(roundService *service.RoundService) *RoundHandler {
	return &RoundHandler{roundService: roundService}
}

func (h *RoundHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{roundID}", h.Get)
	r.Delete("/{roundID}", h.Delete)

	return r
}

// GET /api/rounds
func (h *RoundHandler) List(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	pagination := ParsePagination(r)

	rounds, total, err := h.roundService.ListRounds(r.Context(), s.UserID, pagination.Limit, pagination.Offset)
	if err != nil {
		log.Error().Err(err).Msg("failed to list rounds")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"rounds": rounds,
		"total":  total,
		"limit":  pagination.Limit,
		"offset": pagination.Offset,
	})
}

type scoreRequest struct {
	Hole    int    `json:"hole"`
	Strokes int    `json:"strokes"`
	Club    string `json:"club"`
}

// POST /api/rounds
func (h *RoundHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())

	var req struct {
		CourseID   string         `json:"courseId"`
		PlayedOn   string         `json:"playedOn"`
		Memo       *string        `json:"memo"`
		Companions []string       `json:"companions"`
		Scores     []scoreRequest `json:"scores"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "malformed JSON"))
		return
	}

	if req.CourseID == "" {
		writeError(w, apperrors.MissingRequired("courseId"))
		return
	}

	playedOn, err := time.Parse("2006-01-02", req.PlayedOn)
	if err != nil {
		writeError(w, apperrors.InvalidInput("playedOn", "expected YYYY-MM-DD"))
		return
	}

	scores := make([]model.CreateScoreParams, len(req.Scores))
	for i, score := range req.Scores {
		scores[i] = model.CreateScoreParams{
			Hole:    score.Hole,
			Strokes: score.Strokes,
			Club:    model.ClubType(score.Club),
		}
	}

	round, err := h.roundService.CreateRound(r.Context(), s.UserID, service.CreateRoundInput{
		CourseID:   req.CourseID,
		PlayedOn:   playedOn,
		Memo:       req.Memo,
		Companions: req.Companions,
		Scores:     scores,
	})
	if err != nil {
		if _, ok := apperrors.AsAppError(err); !ok {
			log.Error().Err(err).Msg("failed to create round")
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, round)
}

// GET /api/rounds/{roundID}
func (h *RoundHandler) Get(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	roundID := chi.URLParam(r, "roundID")

	round, scores, err := h.roundService.GetRound(r.Context(), s.UserID, roundID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"round":  round,
		"scores": scores,
	})
}

// DELETE /api/rounds/{roundID}
func (h *RoundHandler) Delete(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	roundID := chi.URLParam(r, "roundID")

	if err := h.roundService.DeleteRound(r.Context(), s.UserID, roundID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// CompanionHandler serves the distinct companion names for autocomplete.
type CompanionHandler struct {
	roundService *service.RoundService
}

func NewCompanionHandler(roundService *service.RoundService) *CompanionHandler {
	return &CompanionHandler{roundService: roundService}
}

// GET /api/companions
func (h *CompanionHandler) List(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())

	companions, err := h.roundService.ListCompanions(r.Context(), s.UserID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list companions")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"companions": companions})
}
