package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fairway/scorecard-server/internal/model"
)

type RoundRepository interface {
	FindByID(ctx context.Context, id string) (*model.Round, error)
	FindByProfile(ctx context.Context, profileID string, limit, offset int) ([]model.Round, error)
	CountByProfile(ctx context.Context, profileID string) (int, error)
	Create(ctx context.Context, params model.CreateRoundParams) (*model.Round, error)
	CreateScore(ctx context.Context, roundID string, params model.CreateScoreParams) (*model.Score, error)
	Delete(ctx context.Context, id string) error
	FindScores(ctx context.Context, roundID string) ([]model.Score, error)
	ListCompanions(ctx context.Context, profileID string) ([]string, error)
	FindRecentSummaries(ctx context.Context, profileID string, limit int) ([]model.RoundSummary, error)
	FindHoleResults(ctx context.Context, profileID string) ([]model.HoleResult, error)
	// WithTx returns a repository bound to the given transaction.
	WithTx(tx *sqlx.Tx) RoundRepository
}

// roundDB is satisfied by both *sqlx.DB and *sqlx.Tx.
type roundDB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type roundRepo struct {
	db roundDB
}

func NewRoundRepository(db *sqlx.DB) RoundRepository {
	return &roundRepo{db: db}
}

func (r *roundRepo) WithTx(tx *sqlx.Tx) RoundRepository {
	return &roundRepo{db: tx}
}

func (r *roundRepo) FindByID(ctx context.Context, id string) (*model.Round, error) {
	var round model.Round
	err := r.db.GetContext(ctx, &round, `SELECT * FROM rounds WHERE id = $1`, id)
	return HandleNotFound(&round, err)
}

func (r *roundRepo) FindByProfile(ctx context.Context, profileID string, limit, offset int) ([]model.Round, error) {
	rounds := []model.Round{}
	err := r.db.SelectContext(ctx, &rounds, `
		SELECT * FROM rounds
		WHERE profile_id = $1
		ORDER BY played_on DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`, profileID, limit, offset)
	return rounds, err
}

func (r *roundRepo) CountByProfile(ctx context.Context, profileID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM rounds WHERE profile_id = $1`, profileID)
	return count, err
}

func (r *roundRepo) Create(ctx context.Context, params model.CreateRoundParams) (*model.Round, error) {
	var round model.Round
	err := r.db.GetContext(ctx, &round, `
		INSERT INTO rounds (profile_id, course_id, played_on, memo, companions)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.ProfileID, params.CourseID, params.PlayedOn, params.Memo,
		pq.StringArray(params.Companions))
	if err != nil {
		return nil, err
	}
	return &round, nil
}

func (r *roundRepo) CreateScore(ctx context.Context, roundID string, params model.CreateScoreParams) (*model.Score, error) {
	var score model.Score
	err := r.db.GetContext(ctx, &score, `
		INSERT INTO scores (round_id, hole, strokes, club)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, roundID, params.Hole, params.Strokes, params.Club)
	if err != nil {
		return nil, err
	}
	return &score, nil
}

func (r *roundRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM rounds WHERE id = $1`, id)
	return err
}

func (r *roundRepo) FindScores(ctx context.Context, roundID string) ([]model.Score, error) {
	scores := []model.Score{}
	err := r.db.SelectContext(ctx, &scores, `
		SELECT * FROM scores WHERE round_id = $1 ORDER BY hole
	`, roundID)
	return scores, err
}

func (r *roundRepo) ListCompanions(ctx context.Context, profileID string) ([]string, error) {
	companions := []string{}
	err := r.db.SelectContext(ctx, &companions, `
		SELECT DISTINCT unnest(companions) AS companion
		FROM rounds
		WHERE profile_id = $1
		ORDER BY companion
	`, profileID)
	return companions, err
}

func (r *roundRepo) FindRecentSummaries(ctx context.Context, profileID string, limit int) ([]model.RoundSummary, error) {
	summaries := []model.RoundSummary{}
	err := r.db.SelectContext(ctx, &summaries, `
		SELECT r.id AS round_id,
		       r.played_on,
		       c.name AS course_name,
		       COALESCE(SUM(s.strokes), 0) AS total_strokes,
		       (SELECT COALESCE(SUM(p), 0) FROM unnest(c.pars) AS p) AS total_par
		FROM rounds r
		JOIN courses c ON c.id = r.course_id
		LEFT JOIN scores s ON s.round_id = r.id
		WHERE r.profile_id = $1
		GROUP BY r.id, r.played_on, c.name, c.pars
		ORDER BY r.played_on DESC, r.created_at DESC
		LIMIT $2
	`, profileID, limit)
	return summaries, err
}

func (r *roundRepo) FindHoleResults(ctx context.Context, profileID string) ([]model.HoleResult, error) {
	results := []model.HoleResult{}
	err := r.db.SelectContext(ctx, &results, `
		SELECT s.strokes, c.pars[s.hole] AS par
		FROM scores s
		JOIN rounds r ON r.id = s.round_id
		JOIN courses c ON c.id = r.course_id
		WHERE r.profile_id = $1
	`, profileID)
	return results, err
}
