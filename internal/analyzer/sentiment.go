package analyzer

import "strings"

type Sentiment string

const (
	Positive Sentiment = "Positive"
	Neutral  Sentiment = "Neutral"
	Negative Sentiment = "Negative"
)

var Sentiments = []Sentiment{Positive, Neutral, Negative}

// ParseSentiment maps any unrecognized label to Neutral.
func ParseSentiment(label string) Sentiment {
	label = strings.TrimSpace(label)
	for _, s := range Sentiments {
		if strings.EqualFold(label, string(s)) {
			return s
		}
	}
	return Neutral
}

func (s Sentiment) ActionNeeded() bool {
	return s == Negative
}

type Result struct {
	Sentiment Sentiment `json:"sentiment"`
	Summary   string    `json:"summary"`
}
