// Package archive holds the result types and the extraction/parsing pipeline
// for the daily challenge archive pages.
package archive

import (
	"strings"
	"time"
)

// DefaultTotalQuestions is the fallback question count when the payload does
// not carry one. The daily challenge has had 20 questions since launch.
const DefaultTotalQuestions = 20

// PlayerResult is one participant's row in a single day's published archive.
// Optional fields are pointers: absent in the payload means nil here, and
// defaulting happens in derivation, not at parse time.
type PlayerResult struct {
	User          string `json:"user"`
	Rank          *int   `json:"rank,omitempty"`
	GoodResponses *int   `json:"good_responses,omitempty"`
	ElapsedTime   *int   `json:"elapsed_time,omitempty"`
}

// IsUser compares usernames case-insensitively, the equality rule used
// throughout the system.
func (r PlayerResult) IsUser(name string) bool {
	return strings.EqualFold(r.User, name)
}

// Snapshot is the cached, immutable-once-written results for one date.
// Count is redundant with len(Results) and stored for quick inspection of
// the cache files.
type Snapshot struct {
	Date      string         `json:"date"`
	FetchedAt time.Time      `json:"fetched_at"`
	Count     int            `json:"count"`
	Results   []PlayerResult `json:"results"`
}
