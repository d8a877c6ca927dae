package archive

import "strings"

// PayloadMarker is the literal that opens the embedded results array in the
// archive page HTML. It is the only site-specific coupling in the pipeline:
// pointing quizwatch at a different source means choosing a new marker.
const PayloadMarker = `[{"good_responses"`

// ExtractPayload locates the embedded JSON results array in raw HTML and
// returns the exact span from the marker's opening bracket to its matching
// closing bracket, tracking bracket nesting depth so arrays nested inside
// result objects are handled correctly.
//
// ok is false when the marker is absent (no results published for that page,
// a normal outcome rather than an error) or when the depth never returns to
// zero (truncated HTML or a false-positive marker).
//
// Known limitation: the first marker occurrence wins. A page carrying two
// embedded result arrays would be ambiguous and is not disambiguated.
func ExtractPayload(html string) (payload string, ok bool) {
	start := strings.Index(html, PayloadMarker)
	if start < 0 {
		return "", false
	}
	depth := 0
	for i := start; i < len(html); i++ {
		switch html[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return html[start : i+1], true
			}
		}
	}
	return "", false
}
