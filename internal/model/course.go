package model

import (
	"time"

	"github.com/lib/pq"
)

type Course struct {
	ID        string        `db:"id" json:"id"`
	Name      string        `db:"name" json:"name"`
	Region    string        `db:"region" json:"region"`
	HoleCount int           `db:"hole_count" json:"holeCount"`
	Pars      pq.Int64Array `db:"pars" json:"pars"`
	CreatedAt time.Time     `db:"created_at" json:"createdAt"`
}

// TotalPar sums the per-hole pars.
func (c *Course) TotalPar() int {
	total := 0
	for _, p := range c.Pars {
		total += int(p)
	}
	return total
}

type CreateCourseParams struct {
	Name      string
	Region    string
	HoleCount int
	Pars      []int64
}
