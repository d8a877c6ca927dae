package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedPayload marks a payload that could not be decoded even after
// the comment-stripping recovery pass. Callers must not cache or partially
// trust such a payload.
var ErrMalformedPayload = errors.New("malformed results payload")

var lineCommentRe = regexp.MustCompile(`//.*?\n`)

// ParseResults decodes the extracted raw payload into typed player results.
//
// The payload is usually a JavaScript variable assignment fragment, so one
// trailing ';' is stripped before decoding. When the direct decode fails, a
// single recovery pass strips //-style line comments (seen in hand-edited
// embeds) and retries; a second failure surfaces ErrMalformedPayload with
// the decode error attached. Unknown fields are ignored and missing optional
// fields stay absent.
func ParseResults(raw string) ([]PlayerResult, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimSuffix(cleaned, ";")

	var results []PlayerResult
	if err := json.Unmarshal([]byte(cleaned), &results); err != nil {
		stripped := lineCommentRe.ReplaceAllString(cleaned, "\n")
		if err2 := json.Unmarshal([]byte(stripped), &results); err2 != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err2)
		}
	}
	return results, nil
}
