package resolver

import (
	"sort"

	"github.com/tailored-agentic-units/journal/rdf"
)

// Candidate is a ranked search result offered for selection.
type Candidate struct {
	About  string
	Label  string
	Degree float64
	Result rdf.Result
}

// Rank orders results by descending graph degree and keeps the first limit.
// Ties keep store order. The label is the schema:name column, or the
// identifier when the result has no name. A non-positive limit keeps all.
func Rank(results []rdf.Result, limit int) []Candidate {
	candidates := make([]Candidate, 0, len(results))
	for _, r := range results {
		label, ok := r.Column(rdf.SchemaName)
		if !ok || label == "" {
			label = r.About
		}
		candidates = append(candidates, Candidate{
			About:  r.About,
			Label:  label,
			Degree: r.Degree(),
			Result: r,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Degree > candidates[j].Degree
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
