// Package lockout holds the progressive login-lockout state machine. The
// functions here are pure over a profile snapshot; persisting the resulting
// state is the auth service's job, through a single atomic update per step.
package lockout

import (
	"time"

	"github.com/fairway/scorecard-server/internal/model"
)

type Status string

const (
	StatusOK                Status = "OK"
	StatusAttemptRecorded   Status = "ATTEMPT_RECORDED"
	StatusTemporarilyLocked Status = "TEMPORARILY_LOCKED"
	StatusPermanentlyLocked Status = "PERMANENTLY_LOCKED"
)

// Policy is the escalation schedule. Durations[n-1] is the lockout applied
// when the lockout level reaches n; a level past MaxLevel locks the account
// permanently.
type Policy struct {
	Threshold int
	Durations []time.Duration
	MaxLevel  int
}

func DefaultPolicy() Policy {
	return Policy{
		Threshold: 3,
		Durations: []time.Duration{
			5 * time.Minute,
			1 * time.Hour,
			24 * time.Hour,
		},
		MaxLevel: 3,
	}
}

// CheckResult is the gate evaluated before PIN verification. A disallowed
// attempt must skip key derivation entirely.
type CheckResult struct {
	Allowed          bool
	Status           Status
	Attempts         int
	Remaining        int
	RemainingSeconds int64
}

// Check classifies the profile's current lockout state at time now.
func (p Policy) Check(profile *model.Profile, now time.Time) CheckResult {
	if profile.IsLocked {
		return CheckResult{Allowed: false, Status: StatusPermanentlyLocked}
	}

	if profile.LockedUntil != nil && profile.LockedUntil.After(now) {
		millis := profile.LockedUntil.Sub(now).Milliseconds()
		return CheckResult{
			Allowed:          false,
			Status:           StatusTemporarilyLocked,
			RemainingSeconds: (millis + 999) / 1000,
		}
	}

	return CheckResult{
		Allowed:   true,
		Status:    StatusOK,
		Attempts:  profile.LoginAttempts,
		Remaining: p.Threshold - profile.LoginAttempts,
	}
}

// FailureOutcome describes the state transition after a failed PIN attempt.
// When Lock is true the caller must persist LockedUntil and the new Level;
// when Permanent is true the account must be flagged locked for good.
type FailureOutcome struct {
	Status          Status
	Attempts        int
	Remaining       int
	Level           int
	LockedUntil     time.Time
	DurationSeconds int64
	Lock            bool
	Permanent       bool
}

// OnFailure computes the transition given the already-incremented attempt
// count and the profile's current lockout level.
func (p Policy) OnFailure(attempts, level int, now time.Time) FailureOutcome {
	if attempts < p.Threshold {
		return FailureOutcome{
			Status:    StatusAttemptRecorded,
			Attempts:  attempts,
			Remaining: p.Threshold - attempts,
		}
	}

	newLevel := level + 1
	if newLevel > p.MaxLevel {
		return FailureOutcome{
			Status:    StatusPermanentlyLocked,
			Level:     newLevel,
			Permanent: true,
		}
	}

	duration := p.Durations[newLevel-1]
	return FailureOutcome{
		Status:          StatusTemporarilyLocked,
		Level:           newLevel,
		LockedUntil:     now.Add(duration),
		DurationSeconds: int64(duration.Seconds()),
		Lock:            true,
	}
}
