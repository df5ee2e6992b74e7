package service

import (
	"context"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/fairway/scorecard-server/internal/errors"
	"github.com/fairway/scorecard-server/internal/lockout"
	"github.com/fairway/scorecard-server/internal/model"
	"github.com/fairway/scorecard-server/internal/repository"
	"github.com/fairway/scorecard-server/internal/util"
)

var pinHashShape = regexp.MustCompile(`^[0-9a-f]{32}:[0-9a-f]{64}$`)

type AuthService struct {
	profileRepo repository.ProfileRepository
	policy      lockout.Policy
}

func NewAuthService(profileRepo repository.ProfileRepository, policy lockout.Policy) *AuthService {
	return &AuthService{
		profileRepo: profileRepo,
		policy:      policy,
	}
}

// LoginResult reports one login attempt. Profile is set only on success;
// otherwise Message carries the user-facing guidance for the status.
type LoginResult struct {
	Profile *model.Profile
	Status  lockout.Status
	Message string
}

func (r *LoginResult) Success() bool {
	return r.Profile != nil
}

// Login runs the full attempt: lockout gate, PIN verification, then state
// recording. A locked account never reaches key derivation, and counters are
// only touched after verification has an answer.
func (s *AuthService) Login(ctx context.Context, profileID, pin string) (*LoginResult, error) {
	profile, err := s.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return nil, apperrors.Database("failed to load profile", err)
	}
	if profile == nil {
		return nil, apperrors.NotFound("Profile")
	}

	check := s.policy.Check(profile, time.Now())
	if !check.Allowed {
		return &LoginResult{
			Status:  check.Status,
			Message: lockout.FormatMessage(check.Notice()),
		}, nil
	}

	if !pinHashShape.MatchString(profile.PinHash) {
		// Corrupt credential row. Verification below fails closed; the row
		// needs operator attention.
		log.Warn().Str("profileId", profile.ID).Msg("stored pin hash is malformed")
	}

	if !util.VerifyPin(pin, profile.PinHash) {
		return s.recordFailure(ctx, profile)
	}

	if err := s.profileRepo.ResetLoginState(ctx, profile.ID); err != nil {
		return nil, apperrors.Database("failed to reset login state", err)
	}

	return &LoginResult{Profile: profile, Status: lockout.StatusOK}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, profile *model.Profile) (*LoginResult, error) {
	updated, err := s.profileRepo.IncrementLoginAttempts(ctx, profile.ID)
	if err != nil {
		return nil, apperrors.Database("failed to record login failure", err)
	}
	if updated == nil {
		return nil, apperrors.NotFound("Profile")
	}

	outcome := s.policy.OnFailure(updated.LoginAttempts, updated.LockoutLevel, time.Now())

	switch {
	case outcome.Permanent:
		if err := s.profileRepo.ApplyPermanentLock(ctx, profile.ID, outcome.Level); err != nil {
			return nil, apperrors.Database("failed to apply permanent lock", err)
		}
		log.Warn().Str("profileId", profile.ID).Int("level", outcome.Level).
			Msg("account permanently locked after repeated failures")
	case outcome.Lock:
		if err := s.profileRepo.ApplyLockout(ctx, profile.ID, outcome.Level, outcome.LockedUntil); err != nil {
			return nil, apperrors.Database("failed to apply lockout", err)
		}
		log.Info().Str("profileId", profile.ID).Int("level", outcome.Level).
			Time("lockedUntil", outcome.LockedUntil).Msg("account temporarily locked")
	}

	return &LoginResult{
		Status:  outcome.Status,
		Message: lockout.FormatMessage(outcome.Notice()),
	}, nil
}

// Register creates a profile with a freshly hashed PIN.
func (s *AuthService) Register(ctx context.Context, name, pin string) (*model.Profile, error) {
	if name == "" {
		return nil, apperrors.MissingRequired("name")
	}
	if !util.IsValidPin(pin) {
		return nil, apperrors.InvalidInput("pin", "must be 4 digits")
	}

	pinHash, err := util.HashPin(pin)
	if err != nil {
		return nil, apperrors.Internal("failed to hash pin").WithCause(err)
	}

	profile, err := s.profileRepo.Create(ctx, model.CreateProfileParams{
		Name:    name,
		PinHash: pinHash,
	})
	if err != nil {
		return nil, apperrors.Database("failed to create profile", err)
	}

	return profile, nil
}

// ChangePin verifies the current PIN before storing a new hash. Lockout state
// applies the same as on login so a stolen session cannot brute-force the PIN.
func (s *AuthService) ChangePin(ctx context.Context, profileID, currentPin, newPin string) error {
	if !util.IsValidPin(newPin) {
		return apperrors.InvalidInput("pin", "must be 4 digits")
	}

	result, err := s.Login(ctx, profileID, currentPin)
	if err != nil {
		return err
	}
	if !result.Success() {
		if result.Status == lockout.StatusTemporarilyLocked || result.Status == lockout.StatusPermanentlyLocked {
			return apperrors.Locked(result.Message)
		}
		return apperrors.PinMismatch(result.Message)
	}

	pinHash, err := util.HashPin(newPin)
	if err != nil {
		return apperrors.Internal("failed to hash pin").WithCause(err)
	}

	if err := s.profileRepo.UpdatePin(ctx, profileID, pinHash); err != nil {
		return apperrors.Database("failed to update pin", err)
	}

	return nil
}

// ListProfiles backs the login screen's profile picker.
func (s *AuthService) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	profiles, err := s.profileRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Database("failed to list profiles", err)
	}
	return profiles, nil
}
