package handler

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/fairway/scorecard-server/internal/service"
	"github.com/fairway/scorecard-server/internal/session"
)

type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GET /api/stats/summary
func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())

	summary, err := h.statsService.Summary(r.Context(), s.UserID)
	if err != nil {
		log.Error().Err(err).Msg("failed to build stats summary")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
