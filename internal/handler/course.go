package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/fairway/scorecard-server/internal/errors"
	"github.com/fairway/scorecard-server/internal/model"
	"github.com/fairway/scorecard-server/internal/repository"
)

type CourseHandler struct {
	courseRepo repository.CourseRepository
}

func NewCourseHandler(courseRepo repository.CourseRepository) *CourseHandler {
	return &CourseHandler{courseRepo: courseRepo}
}

func (h *CourseHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{courseID}", h.Get)

	return r
}

// GET /api/courses
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseRepo.FindAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list courses")
		writeError(w, apperrors.Database("failed to list courses", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"courses": courses})
}

// GET /api/courses/{courseID}
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	course, err := h.courseRepo.FindByID(r.Context(), courseID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load course")
		writeError(w, apperrors.Database("failed to load course", err))
		return
	}
	if course == nil {
		writeError(w, apperrors.NotFound("Course"))
		return
	}

	writeJSON(w, http.StatusOK, course)
}

// POST /api/courses
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string  `json:"name"`
		Region    string  `json:"region"`
		HoleCount int     `json:"holeCount"`
		Pars      []int64 `json:"pars"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "malformed JSON"))
		return
	}

	if req.Name == "" {
		writeError(w, apperrors.MissingRequired("name"))
		return
	}
	if req.HoleCount != 9 && req.HoleCount != 18 {
		writeError(w, apperrors.InvalidInput("holeCount", "must be 9 or 18"))
		return
	}
	if len(req.Pars) != req.HoleCount {
		writeError(w, apperrors.InvalidInput("pars", "must match the hole count"))
		return
	}
	for _, par := range req.Pars {
		if par < 3 || par > 5 {
			writeError(w, apperrors.InvalidInput("pars", "each par must be 3, 4 or 5"))
			return
		}
	}

	course, err := h.courseRepo.Create(r.Context(), model.CreateCourseParams{
		Name:      req.Name,
		Region:    req.Region,
		HoleCount: req.HoleCount,
		Pars:      req.Pars,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create course")
		writeError(w, apperrors.Database("failed to create course", err))
		return
	}

	writeJSON(w, http.StatusCreated, course)
}
