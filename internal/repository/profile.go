package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fairway/scorecard-server/internal/model"
)

type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*model.Profile, error)
	FindAll(ctx context.Context) ([]model.Profile, error)
	Create(ctx context.Context, params model.CreateProfileParams) (*model.Profile, error)
	UpdatePin(ctx context.Context, id, pinHash string) error
	Delete(ctx context.Context, id string) error

	// IncrementLoginAttempts bumps the failed-attempt counter in a single
	// statement and returns the updated row, so concurrent failures cannot
	// lose increments.
	IncrementLoginAttempts(ctx context.Context, id string) (*model.Profile, error)
	ApplyLockout(ctx context.Context, id string, level int, lockedUntil time.Time) error
	ApplyPermanentLock(ctx context.Context, id string, level int) error
	ResetLoginState(ctx context.Context, id string) error
	ClearElapsedLockouts(ctx context.Context) (int64, error)
}

type profileRepo struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, `SELECT * FROM profiles WHERE id = $1`, id)
	return HandleNotFound(&profile, err)
}

func (r *profileRepo) FindAll(ctx context.Context) ([]model.Profile, error) {
	profiles := []model.Profile{}
	err := r.db.SelectContext(ctx, &profiles, `SELECT * FROM profiles ORDER BY name`)
	return profiles, err
}

func (r *profileRepo) Create(ctx context.Context, params model.CreateProfileParams) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, `
		INSERT INTO profiles (name, pin_hash)
		VALUES ($1, $2)
		RETURNING *
	`, params.Name, params.PinHash)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) UpdatePin(ctx context.Context, id, pinHash string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE profiles SET pin_hash = $2, updated_at = NOW() WHERE id = $1
	`, id, pinHash)
	return err
}

func (r *profileRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	return err
}

func (r *profileRepo) IncrementLoginAttempts(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, `
		UPDATE profiles
		SET login_attempts = login_attempts + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, id)
	return HandleNotFound(&profile, err)
}

func (r *profileRepo) ApplyLockout(ctx context.Context, id string, level int, lockedUntil time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET lockout_level = $2, locked_until = $3, login_attempts = 0, updated_at = NOW()
		WHERE id = $1
	`, id, level, lockedUntil)
	return err
}

func (r *profileRepo) ApplyPermanentLock(ctx context.Context, id string, level int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET is_locked = TRUE, lockout_level = $2, locked_until = NULL,
		    login_attempts = 0, updated_at = NOW()
		WHERE id = $1
	`, id, level)
	return err
}

func (r *profileRepo) ResetLoginState(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET login_attempts = 0, locked_until = NULL, updated_at = NOW()
		WHERE id = $1
	`, id)
	return err
}

func (r *profileRepo) ClearElapsedLockouts(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE profiles SET locked_until = NULL
		WHERE locked_until IS NOT NULL AND locked_until < NOW()
	`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
