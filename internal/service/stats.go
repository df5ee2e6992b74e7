package service

import (
	"context"

	apperrors "github.com/fairway/scorecard-server/internal/errors"
	"github.com/fairway/scorecard-server/internal/model"
	"github.com/fairway/scorecard-server/internal/repository"
	"github.com/fairway/scorecard-server/internal/stats"
)

const handicapHistory = 20

type StatsService struct {
	roundRepo repository.RoundRepository
}

func NewStatsService(roundRepo repository.RoundRepository) *StatsService {
	return &StatsService{roundRepo: roundRepo}
}

// Summary aggregates the profile's recent form: handicap estimate over the
// last twenty rounds, the par-relative hole distribution, and the recent
// round list the trend chart is drawn from.
type Summary struct {
	TotalRounds  int                  `json:"totalRounds"`
	Handicap     float64              `json:"handicap"`
	Distribution stats.Distribution   `json:"distribution"`
	Recent       []model.RoundSummary `json:"recent"`
}

func (s *StatsService) Summary(ctx context.Context, profileID string) (*Summary, error) {
	summaries, err := s.roundRepo.FindRecentSummaries(ctx, profileID, handicapHistory)
	if err != nil {
		return nil, apperrors.Database("failed to load round summaries", err)
	}

	total, err := s.roundRepo.CountByProfile(ctx, profileID)
	if err != nil {
		return nil, apperrors.Database("failed to count rounds", err)
	}

	holes, err := s.roundRepo.FindHoleResults(ctx, profileID)
	if err != nil {
		return nil, apperrors.Database("failed to load hole results", err)
	}

	overPars := make([]int, len(summaries))
	for i, summary := range summaries {
		overPars[i] = summary.OverPar()
	}

	results := make([]stats.HoleResult, len(holes))
	for i, h := range holes {
		results[i] = stats.HoleResult{Strokes: h.Strokes, Par: h.Par}
	}

	return &Summary{
		TotalRounds:  total,
		Handicap:     stats.Handicap(overPars),
		Distribution: stats.Distribute(results),
		Recent:       summaries,
	}, nil
}
