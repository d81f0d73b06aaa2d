package aggregator

import "github.com/ricardonunez-io/reviewlens/internal/analyzer"

type Slice struct {
	Label   analyzer.Sentiment `json:"label"`
	Count   int                `json:"count"`
	Percent float64            `json:"percent"`
}

// Slices lists every sentiment in the fixed Positive, Neutral, Negative
// order. Zero counts are kept so renderers can show empty categories.
func (b Breakdown) Slices() []Slice {
	slices := make([]Slice, 0, len(analyzer.Sentiments))
	for _, s := range analyzer.Sentiments {
		slices = append(slices, Slice{
			Label:   s,
			Count:   b.Counts[s],
			Percent: b.Percent(s),
		})
	}
	return slices
}

func (b Breakdown) Percent(s analyzer.Sentiment) float64 {
	if b.Total == 0 {
		return 0
	}
	return float64(b.Counts[s]) / float64(b.Total) * 100
}

func (b Breakdown) Dominant() analyzer.Sentiment {
	best := analyzer.Neutral
	bestCount := -1
	for _, s := range analyzer.Sentiments {
		if b.Counts[s] > bestCount {
			best = s
			bestCount = b.Counts[s]
		}
	}
	return best
}
