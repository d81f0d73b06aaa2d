package analyzer

import (
	"regexp"
	"strings"
)

var (
	labelPattern   = regexp.MustCompile(`(?im)^\W*label\W*:\W*([a-z]+)`)
	summaryPattern = regexp.MustCompile(`(?ims)^\W*summary\W*:[*\s]*(.*)`)
)

// ParseResponse extracts the label and summary markers from a chat
// completion. Markers only count at the start of a line. Missing or unknown labels give Neutral, a missing summary
// marker gives an empty summary.
func ParseResponse(text string) Result {
	text = strings.TrimSpace(text)
	result := Result{Sentiment: Neutral}

	if m := labelPattern.FindStringSubmatch(text); m != nil {
		result.Sentiment = ParseSentiment(m[1])
	}
	if m := summaryPattern.FindStringSubmatch(text); m != nil {
		result.Summary = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(m[1]), "*"))
	}

	return result
}
