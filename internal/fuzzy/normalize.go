package fuzzy

import (
	"regexp"
	"strings"
)

var patterns = []*regexp.Regexp{
	regexp.MustCompile(`https?://\S+`),
	regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.-]+`),
	regexp.MustCompile(`[$€£₹]\s?\d[\d,]*(\.\d+)?|\b\d[\d,]*(\.\d+)?\s?(rs|inr|usd|eur)\b`),
	regexp.MustCompile(`\b[a-z]+\d+[a-z\d]*\b`),
	regexp.MustCompile(`\b\d+(\.\d+)?\b`),
}

var placeholders = []string{
	"<URL>",
	"<EMAIL>",
	"<PRICE>",
	"<MODEL>",
	"<NUM>",
}

var whitespace = regexp.MustCompile(`\s+`)

// Normalize reduces a summary to a template so that complaints differing
// only in figures, links or product codes compare equal.
func Normalize(msg string) string {
	msg = strings.ToLower(msg)
	for i, p := range patterns {
		msg = p.ReplaceAllString(msg, placeholders[i])
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(msg, " "))
}
