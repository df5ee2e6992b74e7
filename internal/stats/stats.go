// Package stats computes aggregate figures over finished rounds. Everything
// here is pure arithmetic; fetching the inputs is the repository's job.
package stats

import (
	"sort"
)

// HoleResult pairs the strokes taken on a hole with that hole's par.
type HoleResult struct {
	Strokes int
	Par     int
}

// Distribution counts par-relative outcomes across holes.
type Distribution struct {
	EagleOrBetter int `json:"eagleOrBetter"`
	Birdie        int `json:"birdie"`
	Par           int `json:"par"`
	Bogey         int `json:"bogey"`
	DoubleOrWorse int `json:"doubleOrWorse"`
}

func Distribute(results []HoleResult) Distribution {
	var d Distribution
	for _, r := range results {
		switch diff := r.Strokes - r.Par; {
		case diff <= -2:
			d.EagleOrBetter++
		case diff == -1:
			d.Birdie++
		case diff == 0:
			d.Par++
		case diff == 1:
			d.Bogey++
		default:
			d.DoubleOrWorse++
		}
	}
	return d
}

const (
	handicapWindow = 20
	handicapBest   = 10
)

// Handicap estimates a playing handicap from over-par results ordered newest
// first. It averages the best rounds of the last twenty: ten when enough
// history exists, otherwise the better half rounded up.
func Handicap(overPars []int) float64 {
	if len(overPars) == 0 {
		return 0
	}

	window := overPars
	if len(window) > handicapWindow {
		window = window[:handicapWindow]
	}

	count := (len(window) + 1) / 2
	if count > handicapBest {
		count = handicapBest
	}

	best := make([]int, len(window))
	copy(best, window)
	sort.Ints(best)

	sum := 0
	for _, v := range best[:count] {
		sum += v
	}
	return float64(sum) / float64(count)
}
