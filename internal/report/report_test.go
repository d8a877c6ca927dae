package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastienzim/quizwatch/internal/archive"
	"github.com/bastienzim/quizwatch/internal/leaderboard"
)

func intp(n int) *int { return &n }

func sampleRows() []leaderboard.Row {
	return leaderboard.Derive([]archive.PlayerResult{
		{User: "alice", Rank: intp(3), GoodResponses: intp(15), ElapsedTime: intp(45)},
		{User: "bob", Rank: intp(1), GoodResponses: intp(20), ElapsedTime: intp(30)},
	}, []string{"alice", "bob"})
}

func TestRenderDaily(t *testing.T) {
	var b strings.Builder
	RenderDaily(&b, sampleRows(), Options{})
	out := b.String()

	bobLine := -1
	aliceLine := -1
	for i, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "bob") {
			bobLine = i
		}
		if strings.Contains(line, "alice") {
			aliceLine = i
		}
	}
	if bobLine < 0 || aliceLine < 0 || bobLine > aliceLine {
		t.Errorf("bob should render above alice:\n%s", out)
	}
	if !strings.Contains(out, "100.0%") || !strings.Contains(out, "75.0%") {
		t.Errorf("percent columns missing:\n%s", out)
	}
	if !strings.Contains(out, "G") {
		t.Errorf("plain medal letter missing:\n%s", out)
	}
}

func TestRenderDailyEmojis(t *testing.T) {
	var b strings.Builder
	RenderDaily(&b, sampleRows(), Options{Emojis: true})
	if !strings.Contains(b.String(), "🥇") {
		t.Errorf("emoji medal missing:\n%s", b.String())
	}
}

func TestSerializeFormats(t *testing.T) {
	rows := sampleRows()

	csv, err := Serialize(rows, "csv")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(csv, "\n")
	if len(lines) != 3 {
		t.Fatalf("csv lines = %d, want header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "local_rank,player") {
		t.Errorf("csv header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "1,bob") {
		t.Errorf("csv first data row = %q", lines[1])
	}

	tsv, err := Serialize(rows, "tsv")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(tsv, "\t") {
		t.Error("tsv should be tab separated")
	}

	md, err := Serialize(rows, "md")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(md, "| local_rank |") || !strings.Contains(md, "| --- |") {
		t.Errorf("markdown table malformed:\n%s", md)
	}

	js, err := Serialize(rows, "json")
	if err != nil {
		t.Fatal(err)
	}
	var decoded []leaderboard.Row
	if err := json.Unmarshal([]byte(js), &decoded); err != nil {
		t.Fatalf("json output does not decode: %v", err)
	}
	if len(decoded) != 2 || decoded[0].User != "bob" {
		t.Errorf("decoded = %+v", decoded)
	}

	if _, err := Serialize(rows, "xlsx"); err == nil {
		t.Error("unknown format should error")
	}
}

func TestSlackTable(t *testing.T) {
	out := SlackTable(sampleRows())
	if !strings.HasPrefix(out, "```") || !strings.HasSuffix(out, "```") {
		t.Errorf("slack table must be fenced:\n%s", out)
	}
	if !strings.Contains(out, "| bob") {
		t.Errorf("slack table missing player row:\n%s", out)
	}
	if out := SlackTable(nil); !strings.Contains(out, "(no data)") {
		t.Errorf("empty slack table = %q", out)
	}
}

func TestSaveTable(t *testing.T) {
	dir := t.TempDir()
	rows := sampleRows()

	path := filepath.Join(dir, "out.csv")
	if err := SaveTable(path, rows); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "local_rank,player") {
		t.Errorf("saved csv = %q", string(data))
	}

	// Unknown extension falls back to the plain text table.
	path = filepath.Join(dir, "out.data")
	if err := SaveTable(path, rows); err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "local_rank") {
		t.Errorf("saved txt = %q", string(data))
	}
}
