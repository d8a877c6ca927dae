// Package leaderboard derives the local ranking among tracked players from a
// single day's archive results.
//
// The local leaderboard is intentionally independent of the site-wide rank
// column: it orders only the tracked cohort, by score then time, with the
// global rank as a final tiebreak.
package leaderboard

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/bastienzim/quizwatch/internal/archive"
	"github.com/bastienzim/quizwatch/internal/config"
)

// Medal is the positional award for local ranks 1-3.
type Medal string

const (
	MedalGold   Medal = "gold"
	MedalSilver Medal = "silver"
	MedalBronze Medal = "bronze"
	MedalNone   Medal = ""
)

// Emoji returns the display form of a medal.
func (m Medal) Emoji() string {
	switch m {
	case MedalGold:
		return "🥇"
	case MedalSilver:
		return "🥈"
	case MedalBronze:
		return "🥉"
	default:
		return ""
	}
}

// Row is one tracked player's derived report row. Rebuilt on every report
// run and discarded after output.
type Row struct {
	archive.PlayerResult
	RealName         string   `json:"real_name,omitempty"`
	Total            int      `json:"total"`
	Percent          *float64 `json:"pct,omitempty"`
	ElapsedFormatted string   `json:"elapsed_fmt"`
	LocalRank        int      `json:"local_rank"`
	Medal            Medal    `json:"medal,omitempty"`
}

// Derive filters results to the tracked cohort, computes the display fields,
// and orders them by the local composite key: score desc (absent sorts as
// -1), elapsed asc (absent sorts last), global rank asc as final tiebreak.
// Pure: absent or malformed optional fields degrade instead of erroring.
func Derive(results []archive.PlayerResult, tracked []string) []Row {
	wanted := make(map[string]struct{}, len(tracked))
	for _, name := range tracked {
		wanted[strings.ToLower(name)] = struct{}{}
	}

	var rows []Row
	for _, res := range results {
		if _, ok := wanted[strings.ToLower(res.User)]; !ok {
			continue
		}
		row := Row{
			PlayerResult:     res,
			RealName:         config.RealNames[strings.ToLower(res.User)],
			Total:            archive.DefaultTotalQuestions,
			ElapsedFormatted: FormatElapsed(res.ElapsedTime),
		}
		// Percent only when the score is present and consistent with the
		// question count; the source does not enforce score <= total.
		if res.GoodResponses != nil && row.Total > 0 && *res.GoodResponses <= row.Total {
			pct := math.Round(float64(*res.GoodResponses)/float64(row.Total)*1000) / 10
			row.Percent = &pct
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		si, sj := sortKey(rows[i]), sortKey(rows[j])
		if si.score != sj.score {
			return si.score > sj.score
		}
		if si.elapsed != sj.elapsed {
			return si.elapsed < sj.elapsed
		}
		return si.rank < sj.rank
	})

	for i := range rows {
		rows[i].LocalRank = i + 1
		switch i {
		case 0:
			rows[i].Medal = MedalGold
		case 1:
			rows[i].Medal = MedalSilver
		case 2:
			rows[i].Medal = MedalBronze
		}
	}
	return rows
}

type key struct {
	score   int
	elapsed int
	rank    int
}

const sortLast = math.MaxInt32

func sortKey(r Row) key {
	k := key{score: -1, elapsed: sortLast, rank: sortLast}
	if r.GoodResponses != nil {
		k.score = *r.GoodResponses
	}
	if r.ElapsedTime != nil {
		k.elapsed = *r.ElapsedTime
	}
	if r.Rank != nil {
		k.rank = *r.Rank
	}
	return k
}

// FormatElapsed renders seconds as a mm:ss display string: "0:SS" under a
// minute, "M:SS" from a minute up. Absent input yields "".
func FormatElapsed(seconds *int) string {
	if seconds == nil {
		return ""
	}
	s := *seconds
	if s < 0 {
		return ""
	}
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
