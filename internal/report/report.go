// Package report renders derived leaderboard and aggregation rows for the
// console, Slack, and file export.
//
// All styling toggles travel in an explicit Options value passed at call
// time; there is no ambient presentation state.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/bastienzim/quizwatch/internal/aggregate"
	"github.com/bastienzim/quizwatch/internal/leaderboard"
)

// Options is the immutable presentation configuration for one render call.
type Options struct {
	Emojis bool // medal emoji instead of G/S/B letters
}

func medalCell(m leaderboard.Medal, opts Options) string {
	if opts.Emojis {
		return m.Emoji()
	}
	switch m {
	case leaderboard.MedalGold:
		return "G"
	case leaderboard.MedalSilver:
		return "S"
	case leaderboard.MedalBronze:
		return "B"
	default:
		return ""
	}
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func pctCell(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.1f%%", *v)
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

// RenderDaily writes the tracked-players table for one day.
func RenderDaily(w io.Writer, rows []leaderboard.Row, opts Options) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No tracked players found in the archive.")
		return
	}
	table := newTable("#", "player", "name", "score", "total", "pct", "time", "rank", "medal")
	for _, r := range rows {
		table.add(
			fmt.Sprintf("%d", r.LocalRank),
			r.User,
			r.RealName,
			intCell(r.GoodResponses),
			fmt.Sprintf("%d", r.Total),
			pctCell(r.Percent),
			r.ElapsedFormatted,
			intCell(r.Rank),
			medalCell(r.Medal, opts),
		)
	}
	table.write(w)
}

// RenderWeekly writes the aggregation table for a date range.
func RenderWeekly(w io.Writer, summaries []aggregate.PlayerSummary, opts Options) {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No tracked players appeared in the period.")
		return
	}
	table := newTable("player", "name", "days", "avg_rank", "best_rank", "avg_score", "max_score", "avg_time", "best_time")
	for _, s := range summaries {
		avgTime := ""
		if s.AvgTime != nil {
			avgTime = leaderboard.FormatElapsed(s.AvgTime)
		}
		bestTime := ""
		if s.BestTime != nil {
			bestTime = leaderboard.FormatElapsed(s.BestTime)
		}
		table.add(
			s.User,
			s.RealName,
			fmt.Sprintf("%d", s.DaysParticipated),
			floatCell(s.AvgRank),
			intCell(s.BestRank),
			floatCell(s.AvgScore),
			intCell(s.MaxScore),
			avgTime,
			bestTime,
		)
	}
	table.write(w)
}

// RenderDistribution writes the score/duration spread for a full result set.
func RenderDistribution(w io.Writer, d aggregate.Distribution) {
	if d.ScoreCount > 0 {
		fmt.Fprintf(w, "Scores:    n=%d min=%d max=%d mean=%.2f\n",
			d.ScoreCount, d.ScoreMin, d.ScoreMax, d.ScoreMean)
	} else {
		fmt.Fprintln(w, "Scores:    no numeric entries")
	}
	if d.DurationCount > 0 {
		fmt.Fprintf(w, "Durations: n=%d min=%d max=%d median=%.1f\n",
			d.DurationCount, d.DurationMin, d.DurationMax, d.DurationMedian)
	} else {
		fmt.Fprintln(w, "Durations: no numeric entries")
	}
}

// --------------------------------------------------------------------------
// Serialization (file export)
// --------------------------------------------------------------------------

var exportColumns = []string{"local_rank", "player", "real_name", "score", "total", "pct", "time", "rank", "medal"}

func rowCells(r leaderboard.Row) []string {
	return []string{
		fmt.Sprintf("%d", r.LocalRank),
		r.User,
		r.RealName,
		intCell(r.GoodResponses),
		fmt.Sprintf("%d", r.Total),
		pctCell(r.Percent),
		r.ElapsedFormatted,
		intCell(r.Rank),
		string(r.Medal),
	}
}

// Serialize renders rows in one of csv, tsv, json, md, or txt.
func Serialize(rows []leaderboard.Row, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode rows: %w", err)
		}
		return string(data), nil
	case "csv", "tsv":
		sep := ","
		if format == "tsv" {
			sep = "\t"
		}
		lines := []string{strings.Join(exportColumns, sep)}
		for _, r := range rows {
			cells := rowCells(r)
			if sep == "," {
				for i, c := range cells {
					if strings.ContainsAny(c, ",\"") {
						cells[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
					}
				}
			}
			lines = append(lines, strings.Join(cells, sep))
		}
		return strings.Join(lines, "\n"), nil
	case "md":
		lines := []string{
			"| " + strings.Join(exportColumns, " | ") + " |",
			"| " + strings.Repeat("--- | ", len(exportColumns)-1) + "--- |",
		}
		for _, r := range rows {
			lines = append(lines, "| "+strings.Join(rowCells(r), " | ")+" |")
		}
		return strings.Join(lines, "\n"), nil
	case "txt":
		table := newTable(exportColumns...)
		for _, r := range rows {
			table.add(rowCells(r)...)
		}
		var b strings.Builder
		table.write(&b)
		return b.String(), nil
	default:
		return "", fmt.Errorf("unknown table format %q", format)
	}
}

// SlackTable renders rows as a fixed-width ASCII pipe table wrapped in
// triple backticks. Slack does not render Markdown tables.
func SlackTable(rows []leaderboard.Row) string {
	if len(rows) == 0 {
		return "```\n(no data)\n```"
	}
	headers := []string{"#", "player", "sc", "tot", "%", "tps"}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		row := []string{
			fmt.Sprintf("%d", r.LocalRank),
			r.User,
			intCell(r.GoodResponses),
			fmt.Sprintf("%d", r.Total),
			pctCell(r.Percent),
			r.ElapsedFormatted,
		}
		for i, c := range row {
			if len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
		cells = append(cells, row)
	}

	line := func(row []string) string {
		parts := make([]string, len(row))
		for i, c := range row {
			parts[i] = fmt.Sprintf(" %-*s ", widths[i], c)
		}
		return "|" + strings.Join(parts, "|") + "|"
	}
	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w+2)
	}
	sep := "+" + strings.Join(seps, "+") + "+"

	out := []string{"```", sep, line(headers), sep}
	for _, row := range cells {
		out = append(out, line(row))
	}
	out = append(out, sep, "```")
	return strings.Join(out, "\n")
}

// --------------------------------------------------------------------------
// Plain aligned table
// --------------------------------------------------------------------------

type table struct {
	headers []string
	rows    [][]string
	widths  []int
}

func newTable(headers ...string) *table {
	t := &table{headers: headers, widths: make([]int, len(headers))}
	for i, h := range headers {
		t.widths[i] = len(h)
	}
	return t
}

func (t *table) add(cells ...string) {
	for i, c := range cells {
		if i < len(t.widths) && len(c) > t.widths[i] {
			t.widths[i] = len(c)
		}
	}
	t.rows = append(t.rows, cells)
}

func (t *table) write(w io.Writer) {
	writeRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = fmt.Sprintf("%-*s", t.widths[i], c)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}
	writeRow(t.headers)
	total := len(t.widths)*2 - 2
	for _, w := range t.widths {
		total += w
	}
	fmt.Fprintln(w, strings.Repeat("-", total))
	for _, row := range t.rows {
		writeRow(row)
	}
}
