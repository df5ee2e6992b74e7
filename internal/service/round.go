package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fairway/scorecard-server/internal/database"
	apperrors "github.com/fairway/scorecard-server/internal/errors"
	"github.com/fairway/scorecard-server/internal/model"
	"github.com/fairway/scorecard-server/internal/repository"
	"github.com/fairway/scorecard-server/internal/util"
)

// TxRunner runs a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn database.TxFunc) error
}

type RoundService struct {
	db         TxRunner
	roundRepo  repository.RoundRepository
	courseRepo repository.CourseRepository
}

func NewRoundService(db TxRunner, roundRepo repository.RoundRepository, courseRepo repository.CourseRepository) *RoundService {
	return &RoundService{
		db:         db,
		roundRepo:  roundRepo,
		courseRepo: courseRepo,
	}
}

type CreateRoundInput struct {
	CourseID   string
	PlayedOn   time.Time
	Memo       *string
	Companions []string
	Scores     []model.CreateScoreParams
}

// CreateRound inserts the round and its scores in one transaction so a
// half-written scorecard never becomes visible.
func (s *RoundService) CreateRound(ctx context.Context, profileID string, input CreateRoundInput) (*model.Round, error) {
	course, err := s.courseRepo.FindByID(ctx, input.CourseID)
	if err != nil {
		return nil, apperrors.Database("failed to load course", err)
	}
	if course == nil {
		return nil, apperrors.NotFound("Course")
	}

	seen := make(map[int]bool, len(input.Scores))
	for _, score := range input.Scores {
		if score.Hole < 1 || score.Hole > course.HoleCount {
			return nil, apperrors.InvalidInput("hole", "outside the course hole range")
		}
		if seen[score.Hole] {
			return nil, apperrors.InvalidInput("hole", "duplicate hole number")
		}
		seen[score.Hole] = true
		if score.Strokes < 1 {
			return nil, apperrors.InvalidInput("strokes", "must be at least 1")
		}
		if !util.IsValidEnum(string(score.Club), model.ValidClubTypes) {
			return nil, apperrors.InvalidInput("club", "unknown club type")
		}
	}

	var round *model.Round
	err = s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		txRepo := s.roundRepo.WithTx(tx)

		created, err := txRepo.Create(ctx, model.CreateRoundParams{
			ProfileID:  profileID,
			CourseID:   input.CourseID,
			PlayedOn:   input.PlayedOn,
			Memo:       input.Memo,
			Companions: input.Companions,
		})
		if err != nil {
			return err
		}

		for _, score := range input.Scores {
			if _, err := txRepo.CreateScore(ctx, created.ID, score); err != nil {
				return err
			}
		}

		round = created
		return nil
	})
	if err != nil {
		return nil, apperrors.Database("failed to create round", err)
	}

	return round, nil
}

// GetRound returns the round with its scores, enforcing ownership.
func (s *RoundService) GetRound(ctx context.Context, profileID, roundID string) (*model.Round, []model.Score, error) {
	round, err := s.roundRepo.FindByID(ctx, roundID)
	if err != nil {
		return nil, nil, apperrors.Database("failed to load round", err)
	}
	if round == nil || round.ProfileID != profileID {
		return nil, nil, apperrors.NotFound("Round")
	}

	scores, err := s.roundRepo.FindScores(ctx, roundID)
	if err != nil {
		return nil, nil, apperrors.Database("failed to load scores", err)
	}

	return round, scores, nil
}

func (s *RoundService) ListRounds(ctx context.Context, profileID string, limit, offset int) ([]model.Round, int, error) {
	rounds, err := s.roundRepo.FindByProfile(ctx, profileID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Database("failed to list rounds", err)
	}

	total, err := s.roundRepo.CountByProfile(ctx, profileID)
	if err != nil {
		return nil, 0, apperrors.Database("failed to count rounds", err)
	}

	return rounds, total, nil
}

func (s *RoundService) DeleteRound(ctx context.Context, profileID, roundID string) error {
	round, err := s.roundRepo.FindByID(ctx, roundID)
	if err != nil {
		return apperrors.Database("failed to load round", err)
	}
	if round == nil || round.ProfileID != profileID {
		return apperrors.NotFound("Round")
	}

	if err := s.roundRepo.Delete(ctx, roundID); err != nil {
		return apperrors.Database("failed to delete round", err)
	}
	return nil
}

func (s *RoundService) ListCompanions(ctx context.Context, profileID string) ([]string, error) {
	companions, err := s.roundRepo.ListCompanions(ctx, profileID)
	if err != nil {
		return nil, apperrors.Database("failed to list companions", err)
	}
	return companions, nil
}
