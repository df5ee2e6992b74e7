package service

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairway/scorecard-server/internal/database"
	apperrors "github.com/fairway/scorecard-server/internal/errors"
	"github.com/fairway/scorecard-server/internal/model"
	"github.com/fairway/scorecard-server/internal/repository"
)

type fakeTxRunner struct {
	err error
}

func (f *fakeTxRunner) WithTx(ctx context.Context, fn database.TxFunc) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type fakeCourseRepo struct {
	course *model.Course
}

func (f *fakeCourseRepo) FindByID(ctx context.Context, id string) (*model.Course, error) {
	if f.course != nil && f.course.ID == id {
		return f.course, nil
	}
	return nil, nil
}

func (f *fakeCourseRepo) FindAll(ctx context.Context) ([]model.Course, error) {
	return nil, nil
}

func (f *fakeCourseRepo) Create(ctx context.Context, params model.CreateCourseParams) (*model.Course, error) {
	return nil, nil
}

type fakeRoundRepo struct {
	rounds       map[string]*model.Round
	scores       map[string][]model.Score
	created      int
	scoresStored int
	deleted      []string
}

func newFakeRoundRepo() *fakeRoundRepo {
	return &fakeRoundRepo{
		rounds: make(map[string]*model.Round),
		scores: make(map[string][]model.Score),
	}
}

func (f *fakeRoundRepo) WithTx(tx *sqlx.Tx) repository.RoundRepository {
	return f
}

func (f *fakeRoundRepo) FindByID(ctx context.Context, id string) (*model.Round, error) {
	return f.rounds[id], nil
}

func (f *fakeRoundRepo) FindByProfile(ctx context.Context, profileID string, limit, offset int) ([]model.Round, error) {
	var out []model.Round
	for _, r := range f.rounds {
		if r.ProfileID == profileID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRoundRepo) CountByProfile(ctx context.Context, profileID string) (int, error) {
	count := 0
	for _, r := range f.rounds {
		if r.ProfileID == profileID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRoundRepo) Create(ctx context.Context, params model.CreateRoundParams) (*model.Round, error) {
	f.created++
	round := &model.Round{
		ID:         "round-1",
		ProfileID:  params.ProfileID,
		CourseID:   params.CourseID,
		PlayedOn:   params.PlayedOn,
		Memo:       params.Memo,
		Companions: params.Companions,
	}
	f.rounds[round.ID] = round
	return round, nil
}

func (f *fakeRoundRepo) CreateScore(ctx context.Context, roundID string, params model.CreateScoreParams) (*model.Score, error) {
	f.scoresStored++
	score := model.Score{RoundID: roundID, Hole: params.Hole, Strokes: params.Strokes, Club: params.Club}
	f.scores[roundID] = append(f.scores[roundID], score)
	return &score, nil
}

func (f *fakeRoundRepo) Delete(ctx context.Context, id string) error {
	delete(f.rounds, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRoundRepo) FindScores(ctx context.Context, roundID string) ([]model.Score, error) {
	return f.scores[roundID], nil
}

func (f *fakeRoundRepo) ListCompanions(ctx context.Context, profileID string) ([]string, error) {
	return nil, nil
}

func (f *fakeRoundRepo) FindRecentSummaries(ctx context.Context, profileID string, limit int) ([]model.RoundSummary, error) {
	return nil, nil
}

func (f *fakeRoundRepo) FindHoleResults(ctx context.Context, profileID string) ([]model.HoleResult, error) {
	return nil, nil
}

func testCourse() *model.Course {
	return &model.Course{
		ID:        "course-1",
		Name:      "레이크사이드",
		HoleCount: 9,
		Pars:      []int64{4, 4, 3, 5, 4, 4, 3, 5, 4},
	}
}

func TestCreateRound(t *testing.T) {
	validScores := []model.CreateScoreParams{
		{Hole: 1, Strokes: 5, Club: model.ClubDriver},
		{Hole: 2, Strokes: 4, Club: model.ClubIron},
	}

	t.Run("stores the round and every score", func(t *testing.T) {
		repo := newFakeRoundRepo()
		svc := NewRoundService(&fakeTxRunner{}, repo, &fakeCourseRepo{course: testCourse()})

		round, err := svc.CreateRound(context.Background(), "p1", CreateRoundInput{
			CourseID: "course-1",
			PlayedOn: time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
			Scores:   validScores,
		})

		require.NoError(t, err)
		assert.Equal(t, "p1", round.ProfileID)
		assert.Equal(t, 1, repo.created)
		assert.Equal(t, 2, repo.scoresStored)
	})

	t.Run("rejects an unknown course", func(t *testing.T) {
		repo := newFakeRoundRepo()
		svc := NewRoundService(&fakeTxRunner{}, repo, &fakeCourseRepo{})

		_, err := svc.CreateRound(context.Background(), "p1", CreateRoundInput{
			CourseID: "missing",
			Scores:   validScores,
		})

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
		assert.Equal(t, 0, repo.created)
	})

	t.Run("rejects a hole outside the course range", func(t *testing.T) {
		svc := NewRoundService(&fakeTxRunner{}, newFakeRoundRepo(), &fakeCourseRepo{course: testCourse()})

		_, err := svc.CreateRound(context.Background(), "p1", CreateRoundInput{
			CourseID: "course-1",
			Scores:   []model.CreateScoreParams{{Hole: 10, Strokes: 4, Club: model.ClubIron}},
		})

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, appErr.Code)
	})

	t.Run("rejects duplicate holes", func(t *testing.T) {
		svc := NewRoundService(&fakeTxRunner{}, newFakeRoundRepo(), &fakeCourseRepo{course: testCourse()})

		_, err := svc.CreateRound(context.Background(), "p1", CreateRoundInput{
			CourseID: "course-1",
			Scores: []model.CreateScoreParams{
				{Hole: 1, Strokes: 4, Club: model.ClubIron},
				{Hole: 1, Strokes: 5, Club: model.ClubIron},
			},
		})

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, appErr.Code)
	})

	t.Run("rejects an unknown club", func(t *testing.T) {
		svc := NewRoundService(&fakeTxRunner{}, newFakeRoundRepo(), &fakeCourseRepo{course: testCourse()})

		_, err := svc.CreateRound(context.Background(), "p1", CreateRoundInput{
			CourseID: "course-1",
			Scores:   []model.CreateScoreParams{{Hole: 1, Strokes: 4, Club: model.ClubType("bat")}},
		})

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, appErr.Code)
	})

	t.Run("wraps transaction failures as database errors", func(t *testing.T) {
		svc := NewRoundService(&fakeTxRunner{err: assert.AnError}, newFakeRoundRepo(), &fakeCourseRepo{course: testCourse()})

		_, err := svc.CreateRound(context.Background(), "p1", CreateRoundInput{
			CourseID: "course-1",
			Scores:   validScores,
		})

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeDatabase, appErr.Code)
	})
}

func TestGetRound(t *testing.T) {
	t.Run("returns the round with scores for the owner", func(t *testing.T) {
		repo := newFakeRoundRepo()
		repo.rounds["r1"] = &model.Round{ID: "r1", ProfileID: "p1"}
		repo.scores["r1"] = []model.Score{{RoundID: "r1", Hole: 1, Strokes: 4, Club: model.ClubDriver}}
		svc := NewRoundService(&fakeTxRunner{}, repo, &fakeCourseRepo{})

		round, scores, err := svc.GetRound(context.Background(), "p1", "r1")

		require.NoError(t, err)
		assert.Equal(t, "r1", round.ID)
		assert.Len(t, scores, 1)
	})

	t.Run("hides other profiles' rounds behind not found", func(t *testing.T) {
		repo := newFakeRoundRepo()
		repo.rounds["r1"] = &model.Round{ID: "r1", ProfileID: "p1"}
		svc := NewRoundService(&fakeTxRunner{}, repo, &fakeCourseRepo{})

		_, _, err := svc.GetRound(context.Background(), "p2", "r1")

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestDeleteRound(t *testing.T) {
	t.Run("deletes an owned round", func(t *testing.T) {
		repo := newFakeRoundRepo()
		repo.rounds["r1"] = &model.Round{ID: "r1", ProfileID: "p1"}
		svc := NewRoundService(&fakeTxRunner{}, repo, &fakeCourseRepo{})

		err := svc.DeleteRound(context.Background(), "p1", "r1")

		require.NoError(t, err)
		assert.Equal(t, []string{"r1"}, repo.deleted)
	})

	t.Run("refuses to delete another profile's round", func(t *testing.T) {
		repo := newFakeRoundRepo()
		repo.rounds["r1"] = &model.Round{ID: "r1", ProfileID: "p1"}
		svc := NewRoundService(&fakeTxRunner{}, repo, &fakeCourseRepo{})

		err := svc.DeleteRound(context.Background(), "p2", "r1")

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
		assert.Empty(t, repo.deleted)
	})
}
