package model

import (
	"time"

	"github.com/lib/pq"
)

type Round struct {
	ID         string         `db:"id" json:"id"`
	ProfileID  string         `db:"profile_id" json:"profileId"`
	CourseID   string         `db:"course_id" json:"courseId"`
	PlayedOn   time.Time      `db:"played_on" json:"playedOn"`
	Memo       *string        `db:"memo" json:"memo,omitempty"`
	Companions pq.StringArray `db:"companions" json:"companions"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updatedAt"`
}

type Score struct {
	ID      string   `db:"id" json:"id"`
	RoundID string   `db:"round_id" json:"roundId"`
	Hole    int      `db:"hole" json:"hole"`
	Strokes int      `db:"strokes" json:"strokes"`
	Club    ClubType `db:"club" json:"club"`
}

type CreateRoundParams struct {
	ProfileID  string
	CourseID   string
	PlayedOn   time.Time
	Memo       *string
	Companions []string
	Scores     []CreateScoreParams
}

type CreateScoreParams struct {
	Hole    int
	Strokes int
	Club    ClubType
}

// RoundSummary joins a round with the course totals needed for statistics.
type RoundSummary struct {
	RoundID      string    `db:"round_id" json:"roundId"`
	PlayedOn     time.Time `db:"played_on" json:"playedOn"`
	CourseName   string    `db:"course_name" json:"courseName"`
	TotalStrokes int       `db:"total_strokes" json:"totalStrokes"`
	TotalPar     int       `db:"total_par" json:"totalPar"`
}

// OverPar is the round's score relative to the course par.
func (s RoundSummary) OverPar() int {
	return s.TotalStrokes - s.TotalPar
}

// HoleResult pairs strokes with the hole's par, as read from the join of
// scores against course par arrays.
type HoleResult struct {
	Strokes int `db:"strokes"`
	Par     int `db:"par"`
}
