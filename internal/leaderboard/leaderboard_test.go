package leaderboard

import (
	"testing"

	"github.com/bastienzim/quizwatch/internal/archive"
)

func intp(n int) *int { return &n }

var tracked = []string{"alice", "bob", "carol", "dave"}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		seconds *int
		want    string
	}{
		{intp(0), "0:00"},
		{intp(59), "0:59"},
		{intp(60), "1:00"},
		{intp(125), "2:05"},
		{intp(3600), "60:00"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.seconds); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestDeriveOrdering(t *testing.T) {
	// Score dominates time, and both dominate the global rank.
	results := []archive.PlayerResult{
		{User: "alice", GoodResponses: intp(18), ElapsedTime: intp(40), Rank: intp(2)},
		{User: "bob", GoodResponses: intp(18), ElapsedTime: intp(30), Rank: intp(50)},
		{User: "carol", GoodResponses: intp(20), ElapsedTime: intp(999), Rank: intp(400)},
	}
	rows := Derive(results, tracked)
	wantOrder := []string{"carol", "bob", "alice"}
	if len(rows) != len(wantOrder) {
		t.Fatalf("rows = %d, want %d", len(rows), len(wantOrder))
	}
	for i, user := range wantOrder {
		if rows[i].User != user {
			t.Errorf("position %d = %s, want %s", i+1, rows[i].User, user)
		}
		if rows[i].LocalRank != i+1 {
			t.Errorf("%s local rank = %d, want %d", rows[i].User, rows[i].LocalRank, i+1)
		}
	}
	if rows[0].Medal != MedalGold || rows[1].Medal != MedalSilver || rows[2].Medal != MedalBronze {
		t.Errorf("medals = %v %v %v", rows[0].Medal, rows[1].Medal, rows[2].Medal)
	}
}

func TestDeriveAbsentFieldsSortLast(t *testing.T) {
	results := []archive.PlayerResult{
		{User: "alice"}, // no score at all
		{User: "bob", GoodResponses: intp(10), ElapsedTime: intp(50)},
		{User: "carol", GoodResponses: intp(10)}, // no time
	}
	rows := Derive(results, tracked)
	wantOrder := []string{"bob", "carol", "alice"}
	for i, user := range wantOrder {
		if rows[i].User != user {
			t.Errorf("position %d = %s, want %s", i+1, rows[i].User, user)
		}
	}
	if rows[2].Medal != MedalBronze {
		t.Errorf("third of three still gets bronze, got %v", rows[2].Medal)
	}
}

func TestDeriveGlobalRankTiebreak(t *testing.T) {
	results := []archive.PlayerResult{
		{User: "alice", GoodResponses: intp(15), ElapsedTime: intp(60), Rank: intp(30)},
		{User: "bob", GoodResponses: intp(15), ElapsedTime: intp(60), Rank: intp(10)},
	}
	rows := Derive(results, tracked)
	if rows[0].User != "bob" {
		t.Errorf("equal score and time should fall back to global rank, got %s first", rows[0].User)
	}
}

func TestDeriveFiltersAndComputes(t *testing.T) {
	results := []archive.PlayerResult{
		{User: "alice", GoodResponses: intp(15), ElapsedTime: intp(45), Rank: intp(3)},
		{User: "BOB", GoodResponses: intp(20), ElapsedTime: intp(30), Rank: intp(1)},
		{User: "stranger", GoodResponses: intp(20), ElapsedTime: intp(5), Rank: intp(2)},
	}
	rows := Derive(results, []string{"alice", "bob"})
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (case-insensitive filter)", len(rows))
	}

	bob, alice := rows[0], rows[1]
	if bob.User != "BOB" || bob.Medal != MedalGold {
		t.Errorf("bob row = %+v", bob)
	}
	if bob.Percent == nil || *bob.Percent != 100.0 {
		t.Errorf("bob percent = %v, want 100.0", bob.Percent)
	}
	if alice.Percent == nil || *alice.Percent != 75.0 {
		t.Errorf("alice percent = %v, want 75.0", alice.Percent)
	}
	if alice.ElapsedFormatted != "0:45" || bob.ElapsedFormatted != "0:30" {
		t.Errorf("elapsed = %q / %q", alice.ElapsedFormatted, bob.ElapsedFormatted)
	}
	if alice.Total != archive.DefaultTotalQuestions {
		t.Errorf("total = %d, want fallback %d", alice.Total, archive.DefaultTotalQuestions)
	}
}

func TestDerivePercentEdgeCases(t *testing.T) {
	rows := Derive([]archive.PlayerResult{
		{User: "alice"},                           // absent score
		{User: "bob", GoodResponses: intp(25)},    // inconsistent with total
		{User: "carol", GoodResponses: intp(13)},  // rounds to one decimal
	}, tracked)

	byUser := map[string]Row{}
	for _, r := range rows {
		byUser[r.User] = r
	}
	if byUser["alice"].Percent != nil {
		t.Error("absent score should leave percent absent")
	}
	if byUser["bob"].Percent != nil {
		t.Error("score above the question count should leave percent absent")
	}
	if p := byUser["carol"].Percent; p == nil || *p != 65.0 {
		t.Errorf("carol percent = %v, want 65.0", p)
	}
}

func TestDeriveEmpty(t *testing.T) {
	if rows := Derive(nil, tracked); len(rows) != 0 {
		t.Errorf("rows = %v, want none", rows)
	}
	if rows := Derive([]archive.PlayerResult{{User: "stranger"}}, tracked); len(rows) != 0 {
		t.Errorf("rows = %v, want none", rows)
	}
}
