package lockout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fairway/scorecard-server/internal/model"
)

func TestPolicyCheck(t *testing.T) {
	policy := DefaultPolicy()
	now := time.Now()

	t.Run("permanently locked account is never allowed", func(t *testing.T) {
		locked := now.Add(time.Hour)
		profile := &model.Profile{IsLocked: true, LockedUntil: &locked}

		result := policy.Check(profile, now)

		assert.False(t, result.Allowed)
		assert.Equal(t, StatusPermanentlyLocked, result.Status)
	})

	t.Run("active temporary lockout reports remaining seconds rounded up", func(t *testing.T) {
		lockedUntil := now.Add(90*time.Second + 500*time.Millisecond)
		profile := &model.Profile{LockedUntil: &lockedUntil}

		result := policy.Check(profile, now)

		assert.False(t, result.Allowed)
		assert.Equal(t, StatusTemporarilyLocked, result.Status)
		assert.Equal(t, int64(91), result.RemainingSeconds)
	})

	t.Run("elapsed lockout allows the attempt", func(t *testing.T) {
		lockedUntil := now.Add(-time.Second)
		profile := &model.Profile{LockedUntil: &lockedUntil, LoginAttempts: 0}

		result := policy.Check(profile, now)

		assert.True(t, result.Allowed)
		assert.Equal(t, StatusOK, result.Status)
	})

	t.Run("clean profile reports attempts remaining", func(t *testing.T) {
		profile := &model.Profile{LoginAttempts: 1}

		result := policy.Check(profile, now)

		assert.True(t, result.Allowed)
		assert.Equal(t, StatusOK, result.Status)
		assert.Equal(t, 1, result.Attempts)
		assert.Equal(t, 2, result.Remaining)
	})
}

func TestPolicyOnFailure(t *testing.T) {
	policy := DefaultPolicy()
	now := time.Now()

	t.Run("below threshold records the attempt", func(t *testing.T) {
		outcome := policy.OnFailure(1, 0, now)

		assert.Equal(t, StatusAttemptRecorded, outcome.Status)
		assert.Equal(t, 1, outcome.Attempts)
		assert.Equal(t, 2, outcome.Remaining)
		assert.False(t, outcome.Lock)
		assert.False(t, outcome.Permanent)
	})

	t.Run("reaching the threshold triggers the first lockout tier", func(t *testing.T) {
		outcome := policy.OnFailure(3, 0, now)

		assert.Equal(t, StatusTemporarilyLocked, outcome.Status)
		assert.Equal(t, 1, outcome.Level)
		assert.True(t, outcome.Lock)
		assert.Equal(t, int64(300), outcome.DurationSeconds)
		assert.Equal(t, now.Add(5*time.Minute), outcome.LockedUntil)
	})

	t.Run("each tier escalates the duration", func(t *testing.T) {
		second := policy.OnFailure(3, 1, now)
		third := policy.OnFailure(3, 2, now)

		assert.Equal(t, int64(3600), second.DurationSeconds)
		assert.Equal(t, int64(86400), third.DurationSeconds)
	})

	t.Run("past the final tier the lock becomes permanent", func(t *testing.T) {
		outcome := policy.OnFailure(3, 3, now)

		assert.Equal(t, StatusPermanentlyLocked, outcome.Status)
		assert.True(t, outcome.Permanent)
		assert.False(t, outcome.Lock)
	})
}

func TestFormatMessage(t *testing.T) {
	t.Run("permanent lock", func(t *testing.T) {
		msg := FormatMessage(Notice{Status: StatusPermanentlyLocked})
		assert.Equal(t, "계정이 잠겼습니다. 관리자에게 문의해주세요.", msg)
	})

	t.Run("temporary lock in hours", func(t *testing.T) {
		msg := FormatMessage(Notice{Status: StatusTemporarilyLocked, Seconds: 7200, HasSeconds: true})
		assert.Equal(t, "2시간 후에 다시 시도해주세요.", msg)
	})

	t.Run("temporary lock rounds hours up", func(t *testing.T) {
		msg := FormatMessage(Notice{Status: StatusTemporarilyLocked, Seconds: 3601, HasSeconds: true})
		assert.Equal(t, "2시간 후에 다시 시도해주세요.", msg)
	})

	t.Run("temporary lock in minutes", func(t *testing.T) {
		msg := FormatMessage(Notice{Status: StatusTemporarilyLocked, Seconds: 600, HasSeconds: true})
		assert.Equal(t, "10분 후에 다시 시도해주세요.", msg)
	})

	t.Run("temporary lock rounds minutes up", func(t *testing.T) {
		msg := FormatMessage(Notice{Status: StatusTemporarilyLocked, Seconds: 61, HasSeconds: true})
		assert.Equal(t, "2분 후에 다시 시도해주세요.", msg)
	})

	t.Run("temporary lock in seconds", func(t *testing.T) {
		msg := FormatMessage(Notice{Status: StatusTemporarilyLocked, Seconds: 45, HasSeconds: true})
		assert.Equal(t, "45초 후에 다시 시도해주세요.", msg)
	})

	t.Run("temporary lock without a known remainder", func(t *testing.T) {
		msg := FormatMessage(Notice{Status: StatusTemporarilyLocked})
		assert.Equal(t, "잠시 후 다시 시도해주세요.", msg)
	})

	t.Run("recorded attempt with remaining count", func(t *testing.T) {
		msg := FormatMessage(Notice{Status: StatusAttemptRecorded, Remaining: 2, HasRemaining: true})
		assert.Equal(t, "PIN이 일치하지 않습니다. (2회 남음)", msg)
	})

	t.Run("recorded attempt without remaining count", func(t *testing.T) {
		msg := FormatMessage(Notice{Status: StatusAttemptRecorded})
		assert.Equal(t, "PIN이 일치하지 않습니다.", msg)
	})
}

func TestNoticeNarrowing(t *testing.T) {
	t.Run("check result carries remaining seconds when locked", func(t *testing.T) {
		n := CheckResult{Status: StatusTemporarilyLocked, RemainingSeconds: 45}.Notice()

		assert.True(t, n.HasSeconds)
		assert.Equal(t, int64(45), n.Seconds)
		assert.False(t, n.HasRemaining)
	})

	t.Run("failure outcome carries the lockout duration", func(t *testing.T) {
		n := FailureOutcome{Status: StatusTemporarilyLocked, DurationSeconds: 300}.Notice()

		assert.True(t, n.HasSeconds)
		assert.Equal(t, int64(300), n.Seconds)
	})

	t.Run("recorded attempt carries the remaining count", func(t *testing.T) {
		n := FailureOutcome{Status: StatusAttemptRecorded, Remaining: 1}.Notice()

		assert.True(t, n.HasRemaining)
		assert.Equal(t, 1, n.Remaining)
	})

	t.Run("permanent lock carries no optional fields", func(t *testing.T) {
		n := CheckResult{Status: StatusPermanentlyLocked}.Notice()

		assert.False(t, n.HasSeconds)
		assert.False(t, n.HasRemaining)
	})
}
