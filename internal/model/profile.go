package model

import (
	"time"
)

// Profile is a player account. PIN credentials and lockout bookkeeping live
// directly on the row so a login attempt touches a single record.
type Profile struct {
	ID            string     `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	PinHash       string     `db:"pin_hash" json:"-"`
	LoginAttempts int        `db:"login_attempts" json:"-"`
	LockoutLevel  int        `db:"lockout_level" json:"-"`
	LockedUntil   *time.Time `db:"locked_until" json:"-"`
	IsLocked      bool       `db:"is_locked" json:"-"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

type CreateProfileParams struct {
	Name    string
	PinHash string
}
