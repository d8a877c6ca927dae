// Package aggregate rolls per-date archive snapshots up into per-player
// summary statistics over a date range.
package aggregate

import (
	"math"
	"sort"
	"strings"

	"github.com/bastienzim/quizwatch/internal/archive"
	"github.com/bastienzim/quizwatch/internal/config"
)

// PlayerSummary is one tracked player's rollup across a date range. Sample
// slices hold the collected raw values; the derived fields are nil when a
// player has no samples for that metric. Built fresh per request, never
// persisted.
type PlayerSummary struct {
	User             string `json:"user"`
	RealName         string `json:"real_name,omitempty"`
	DaysParticipated int    `json:"days_participated"`

	Ranks     []int `json:"-"`
	Scores    []int `json:"-"`
	Durations []int `json:"-"`

	AvgRank   *float64 `json:"avg_rank,omitempty"`
	BestRank  *int     `json:"best_rank,omitempty"`
	AvgScore  *float64 `json:"avg_score,omitempty"`
	MaxScore  *int     `json:"max_score,omitempty"`
	AvgTime   *int     `json:"avg_time,omitempty"`
	BestTime  *int     `json:"best_time,omitempty"`
}

// Aggregate folds every snapshot's results into per-player summaries for the
// tracked cohort. A date where a player is absent contributes no sample, so
// partial participation is not penalized beyond what the averages reflect.
// Ordering: ascending average rank, players without rank samples last,
// username tiebreak.
func Aggregate(snapshots map[string]*archive.Snapshot, tracked []string) []PlayerSummary {
	wanted := make(map[string]string, len(tracked)) // lower -> canonical
	for _, name := range tracked {
		wanted[strings.ToLower(name)] = name
	}

	byUser := make(map[string]*PlayerSummary)
	dates := make([]string, 0, len(snapshots))
	for date := range snapshots {
		dates = append(dates, date)
	}
	sort.Strings(dates) // deterministic sample order

	for _, date := range dates {
		snap := snapshots[date]
		if snap == nil {
			continue
		}
		for _, res := range snap.Results {
			lower := strings.ToLower(res.User)
			if _, ok := wanted[lower]; !ok {
				continue
			}
			sum := byUser[lower]
			if sum == nil {
				sum = &PlayerSummary{User: res.User, RealName: config.RealNames[lower]}
				byUser[lower] = sum
			}
			sum.DaysParticipated++
			if res.Rank != nil {
				sum.Ranks = append(sum.Ranks, *res.Rank)
			}
			if res.GoodResponses != nil {
				sum.Scores = append(sum.Scores, *res.GoodResponses)
			}
			if res.ElapsedTime != nil {
				sum.Durations = append(sum.Durations, *res.ElapsedTime)
			}
		}
	}

	summaries := make([]PlayerSummary, 0, len(byUser))
	for _, sum := range byUser {
		if len(sum.Ranks) > 0 {
			avg := round2(mean(sum.Ranks))
			sum.AvgRank = &avg
			best := minInt(sum.Ranks)
			sum.BestRank = &best
		}
		if len(sum.Scores) > 0 {
			avg := round2(mean(sum.Scores))
			sum.AvgScore = &avg
			max := maxInt(sum.Scores)
			sum.MaxScore = &max
		}
		if len(sum.Durations) > 0 {
			avg := int(math.Round(mean(sum.Durations)))
			sum.AvgTime = &avg
			best := minInt(sum.Durations)
			sum.BestTime = &best
		}
		summaries = append(summaries, *sum)
	}

	sort.Slice(summaries, func(i, j int) bool {
		ri, rj := summaries[i].AvgRank, summaries[j].AvgRank
		switch {
		case ri != nil && rj != nil && *ri != *rj:
			return *ri < *rj
		case ri != nil && rj == nil:
			return true
		case ri == nil && rj != nil:
			return false
		}
		return strings.ToLower(summaries[i].User) < strings.ToLower(summaries[j].User)
	})
	return summaries
}

// Distribution describes the numeric spread of one day's full result set,
// used for the daily report's distribution block.
type Distribution struct {
	ScoreCount     int
	ScoreMin       int
	ScoreMax       int
	ScoreMean      float64
	DurationCount  int
	DurationMin    int
	DurationMax    int
	DurationMedian float64
}

// Distribute computes score and duration statistics over all entries,
// ignoring rows where the value is absent.
func Distribute(results []archive.PlayerResult) Distribution {
	var scores, durations []int
	for _, r := range results {
		if r.GoodResponses != nil {
			scores = append(scores, *r.GoodResponses)
		}
		if r.ElapsedTime != nil {
			durations = append(durations, *r.ElapsedTime)
		}
	}
	var d Distribution
	if len(scores) > 0 {
		d.ScoreCount = len(scores)
		d.ScoreMin = minInt(scores)
		d.ScoreMax = maxInt(scores)
		d.ScoreMean = round2(mean(scores))
	}
	if len(durations) > 0 {
		d.DurationCount = len(durations)
		d.DurationMin = minInt(durations)
		d.DurationMax = maxInt(durations)
		d.DurationMedian = median(durations)
	}
	return d
}

func mean(xs []int) float64 {
	total := 0
	for _, x := range xs {
		total += x
	}
	return float64(total) / float64(len(xs))
}

func median(xs []int) float64 {
	sorted := append([]int(nil), xs...)
	sort.Ints(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}

func minInt(xs []int) int {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxInt(xs []int) int {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
