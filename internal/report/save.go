package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bastienzim/quizwatch/internal/leaderboard"
)

// SaveTable writes rows to path, inferring the format from the file
// extension (csv, tsv, json, md; anything else falls back to txt).
func SaveTable(path string, rows []leaderboard.Row) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv", "tsv", "json", "md", "txt":
	default:
		ext = "txt"
	}
	data, err := Serialize(rows, ext)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}
