package aggregator

import (
	"github.com/ricardonunez-io/reviewlens/internal/analyzer"
	"github.com/ricardonunez-io/reviewlens/internal/fuzzy"
	"github.com/rs/zerolog/log"
)

type Breakdown struct {
	Counts map[analyzer.Sentiment]int `json:"counts"`
	Total  int                        `json:"total"`
}

// Tally counts every result, including labels outside the known set, which
// are folded into Neutral.
func Tally(results []analyzer.Result) Breakdown {
	b := Breakdown{Counts: make(map[analyzer.Sentiment]int, len(analyzer.Sentiments))}
	for _, s := range analyzer.Sentiments {
		b.Counts[s] = 0
	}

	for _, r := range results {
		b.Counts[analyzer.ParseSentiment(string(r.Sentiment))]++
		b.Total++
	}

	log.Debug().
		Int("positive", b.Counts[analyzer.Positive]).
		Int("neutral", b.Counts[analyzer.Neutral]).
		Int("negative", b.Counts[analyzer.Negative]).
		Msg("Tallied sentiments")
	return b
}

// Complaints groups the summaries of negative reviews into recurring themes.
func Complaints(results []analyzer.Result, limit int) []fuzzy.MessageGroup {
	var summaries []string
	for _, r := range results {
		if r.Sentiment == analyzer.Negative && r.Summary != "" {
			summaries = append(summaries, r.Summary)
		}
	}
	if len(summaries) == 0 {
		return nil
	}

	groups := fuzzy.Group(summaries)
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}
