package attribution

import "sort"

const percentMultiplier = 100

// AuthorStats is the aggregated contribution record for one author.
type AuthorStats struct {
	Author      string  `json:"author"       yaml:"author"`
	Edits       int     `json:"edits"        yaml:"edits"`
	TextAdded   int     `json:"text_added"   yaml:"text_added"`
	TextRemoved int     `json:"text_removed" yaml:"text_removed"`
	Percentage  float64 `json:"percentage"   yaml:"percentage"`
}

// Summary is the aggregated result of a pipeline run. Authors is ranked by
// descending percentage share; it is empty when no content was added.
type Summary struct {
	Authors      []AuthorStats `json:"authors"       yaml:"authors"`
	TotalEdits   int           `json:"total_edits"   yaml:"total_edits"`
	TotalAdded   int           `json:"total_added"   yaml:"total_added"`
	TotalRemoved int           `json:"total_removed" yaml:"total_removed"`
}

// NoContentAdded reports whether the history grew by zero bytes in total.
// Percentage shares are undefined in that case and Authors is empty.
func (s Summary) NoContentAdded() bool {
	return s.TotalAdded == 0
}

// Aggregate folds a delta sequence into ranked per-author statistics.
//
// A positive change counts toward the author's added total; a non-positive
// change counts its absolute value toward the removed total, so zero-byte
// edits land on the removed side.
//
// Authors with equal percentage keep the relative order in which they first
// appeared in the input; no secondary sort key is introduced.
func Aggregate(deltas []Delta) Summary {
	stats := make(map[string]*AuthorStats)
	order := make([]string, 0)

	for _, d := range deltas {
		as := stats[d.Author]
		if as == nil {
			as = &AuthorStats{Author: d.Author}
			stats[d.Author] = as
			order = append(order, d.Author)
		}

		as.Edits++

		if d.Change > 0 {
			as.TextAdded += d.Change
		} else {
			as.TextRemoved += -d.Change
		}
	}

	summary := Summary{TotalEdits: len(deltas)}

	for _, as := range stats {
		summary.TotalAdded += as.TextAdded
		summary.TotalRemoved += as.TextRemoved
	}

	if summary.TotalAdded == 0 {
		return summary
	}

	ranked := make([]AuthorStats, 0, len(order))

	for _, author := range order {
		as := *stats[author]
		as.Percentage = float64(as.TextAdded) / float64(summary.TotalAdded) * percentMultiplier
		ranked = append(ranked, as)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Percentage > ranked[j].Percentage
	})

	summary.Authors = ranked

	return summary
}
