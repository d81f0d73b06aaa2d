package fuzzy

import "sort"

type MessageGroup struct {
	Template string   `json:"template"`
	Count    int      `json:"count"`
	Samples  []string `json:"samples"`
}

const DefaultSimilarityThreshold = 0.85
const maxSamplesPerGroup = 3

func Group(messages []string) []MessageGroup {
	return GroupWithThreshold(messages, DefaultSimilarityThreshold)
}

func GroupWithThreshold(messages []string, threshold float64) []MessageGroup {
	templateGroups := make(map[string]*MessageGroup)
	var order []string

	for _, msg := range messages {
		norm := Normalize(msg)
		if g, ok := templateGroups[norm]; ok {
			g.Count++
			if len(g.Samples) < maxSamplesPerGroup {
				g.Samples = append(g.Samples, msg)
			}
			continue
		}
		templateGroups[norm] = &MessageGroup{
			Template: norm,
			Count:    1,
			Samples:  []string{msg},
		}
		order = append(order, norm)
	}

	groups := make([]*MessageGroup, 0, len(order))
	for _, norm := range order {
		groups = append(groups, templateGroups[norm])
	}

	merged := mergeByLevenshtein(groups, threshold)

	result := make([]MessageGroup, 0, len(merged))
	for _, g := range merged {
		if g.Count > 0 {
			result = append(result, *g)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})

	return result
}

func mergeByLevenshtein(groups []*MessageGroup, threshold float64) []*MessageGroup {
	if len(groups) <= 1 {
		return groups
	}

	for i := 0; i < len(groups); i++ {
		if groups[i].Count == 0 {
			continue
		}
		for j := i + 1; j < len(groups); j++ {
			if groups[j].Count == 0 {
				continue
			}
			if similarity(groups[i].Template, groups[j].Template) < threshold {
				continue
			}
			groups[i].Count += groups[j].Count
			for _, s := range groups[j].Samples {
				if len(groups[i].Samples) < maxSamplesPerGroup {
					groups[i].Samples = append(groups[i].Samples, s)
				}
			}
			groups[j].Count = 0
			groups[j].Samples = nil
		}
	}

	return groups
}

func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	maxLen := max(len(ra), len(rb))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(ra, rb))/float64(maxLen)
}

func levenshtein(a, b []rune) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)

	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[lb]
}
