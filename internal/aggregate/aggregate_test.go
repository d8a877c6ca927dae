package aggregate

import (
	"testing"

	"github.com/bastienzim/quizwatch/internal/archive"
)

func intp(n int) *int { return &n }

func snap(date string, results ...archive.PlayerResult) *archive.Snapshot {
	return &archive.Snapshot{Date: date, Count: len(results), Results: results}
}

var tracked = []string{"alice", "bob", "carol"}

func TestAggregateAverages(t *testing.T) {
	snapshots := map[string]*archive.Snapshot{
		"2025-10-13": snap("2025-10-13",
			archive.PlayerResult{User: "alice", Rank: intp(10), GoodResponses: intp(15), ElapsedTime: intp(60)},
			archive.PlayerResult{User: "bob", Rank: intp(3), GoodResponses: intp(19), ElapsedTime: intp(45)},
		),
		"2025-10-14": snap("2025-10-14",
			archive.PlayerResult{User: "alice", Rank: intp(20), GoodResponses: intp(19), ElapsedTime: intp(50)},
			// bob absent on the 14th: contributes no sample, not a zero.
		),
	}

	summaries := Aggregate(snapshots, tracked)
	if len(summaries) != 2 {
		t.Fatalf("summaries = %d, want 2", len(summaries))
	}

	byUser := map[string]PlayerSummary{}
	for _, s := range summaries {
		byUser[s.User] = s
	}

	alice := byUser["alice"]
	if alice.DaysParticipated != 2 {
		t.Errorf("alice days = %d, want 2", alice.DaysParticipated)
	}
	if alice.AvgScore == nil || *alice.AvgScore != 17.0 {
		t.Errorf("alice avg score = %v, want 17.0", alice.AvgScore)
	}
	if alice.MaxScore == nil || *alice.MaxScore != 19 {
		t.Errorf("alice max score = %v, want 19", alice.MaxScore)
	}
	if alice.AvgRank == nil || *alice.AvgRank != 15.0 {
		t.Errorf("alice avg rank = %v, want 15.0", alice.AvgRank)
	}
	if alice.BestRank == nil || *alice.BestRank != 10 {
		t.Errorf("alice best rank = %v, want 10", alice.BestRank)
	}
	if alice.AvgTime == nil || *alice.AvgTime != 55 {
		t.Errorf("alice avg time = %v, want 55", alice.AvgTime)
	}
	if alice.BestTime == nil || *alice.BestTime != 50 {
		t.Errorf("alice best time = %v, want 50", alice.BestTime)
	}

	bob := byUser["bob"]
	if bob.DaysParticipated != 1 {
		t.Errorf("bob days = %d, want 1 (absence is not a zero sample)", bob.DaysParticipated)
	}
	if bob.AvgScore == nil || *bob.AvgScore != 19.0 {
		t.Errorf("bob avg score = %v, want 19.0", bob.AvgScore)
	}

	// Ordering: bob's avg rank 3 beats alice's 15.
	if summaries[0].User != "bob" {
		t.Errorf("first summary = %s, want bob", summaries[0].User)
	}
}

func TestAggregateRounding(t *testing.T) {
	snapshots := map[string]*archive.Snapshot{
		"2025-10-13": snap("2025-10-13", archive.PlayerResult{User: "alice", GoodResponses: intp(15), ElapsedTime: intp(31)}),
		"2025-10-14": snap("2025-10-14", archive.PlayerResult{User: "alice", GoodResponses: intp(16), ElapsedTime: intp(32)}),
		"2025-10-15": snap("2025-10-15", archive.PlayerResult{User: "alice", GoodResponses: intp(16), ElapsedTime: intp(32)}),
	}
	summaries := Aggregate(snapshots, tracked)
	alice := summaries[0]
	if alice.AvgScore == nil || *alice.AvgScore != 15.67 {
		t.Errorf("avg score = %v, want 15.67 (two decimals)", alice.AvgScore)
	}
	if alice.AvgTime == nil || *alice.AvgTime != 32 {
		t.Errorf("avg time = %v, want 32 (rounded to integer)", alice.AvgTime)
	}
}

func TestAggregateNoRankSamplesSortLast(t *testing.T) {
	snapshots := map[string]*archive.Snapshot{
		"2025-10-14": snap("2025-10-14",
			archive.PlayerResult{User: "alice", GoodResponses: intp(20)}, // no rank published
			archive.PlayerResult{User: "bob", Rank: intp(500), GoodResponses: intp(1)},
		),
	}
	summaries := Aggregate(snapshots, tracked)
	if summaries[0].User != "bob" || summaries[1].User != "alice" {
		t.Errorf("order = %s, %s; players without rank samples sort last",
			summaries[0].User, summaries[1].User)
	}
	if summaries[1].AvgRank != nil || summaries[1].BestRank != nil {
		t.Errorf("alice rank stats should be absent, got %+v", summaries[1])
	}
}

func TestAggregateUsernameTiebreak(t *testing.T) {
	snapshots := map[string]*archive.Snapshot{
		"2025-10-14": snap("2025-10-14",
			archive.PlayerResult{User: "carol", Rank: intp(5)},
			archive.PlayerResult{User: "alice", Rank: intp(5)},
		),
	}
	summaries := Aggregate(snapshots, tracked)
	if summaries[0].User != "alice" {
		t.Errorf("equal avg rank should tiebreak by username, got %s first", summaries[0].User)
	}
}

func TestAggregateEmpty(t *testing.T) {
	if got := Aggregate(nil, tracked); len(got) != 0 {
		t.Errorf("Aggregate(nil) = %v, want none", got)
	}
	snapshots := map[string]*archive.Snapshot{
		"2025-10-14": snap("2025-10-14", archive.PlayerResult{User: "stranger", Rank: intp(1)}),
	}
	if got := Aggregate(snapshots, tracked); len(got) != 0 {
		t.Errorf("untracked players should produce no summaries, got %v", got)
	}
}

func TestDistribute(t *testing.T) {
	results := []archive.PlayerResult{
		{User: "a", GoodResponses: intp(10), ElapsedTime: intp(30)},
		{User: "b", GoodResponses: intp(20), ElapsedTime: intp(60)},
		{User: "c", GoodResponses: intp(15)},
		{User: "d"}, // contributes nothing
	}
	d := Distribute(results)
	if d.ScoreCount != 3 || d.ScoreMin != 10 || d.ScoreMax != 20 || d.ScoreMean != 15.0 {
		t.Errorf("score stats = %+v", d)
	}
	if d.DurationCount != 2 || d.DurationMedian != 45.0 {
		t.Errorf("duration stats = %+v", d)
	}

	empty := Distribute(nil)
	if empty.ScoreCount != 0 || empty.DurationCount != 0 {
		t.Errorf("empty distribution = %+v", empty)
	}
}
