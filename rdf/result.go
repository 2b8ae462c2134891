package rdf

import "strconv"

// Result is one entity returned by a search or create call. Columns hold
// per-result values keyed by predicate, including store-computed columns
// such as GraphDegree.
type Result struct {
	About   string              `json:"about"`
	Types   []string            `json:"types,omitempty"`
	Columns map[string][]string `json:"columns,omitempty"`
}

// Column returns the first value of column key.
func (r Result) Column(key string) (string, bool) {
	return first(r.Columns[key])
}

// Degree returns the GraphDegree column as a number. A missing or malformed
// column counts as zero.
func (r Result) Degree() float64 {
	v, ok := r.Column(GraphDegree)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// Source names a provider that contributed to a result set, with the command
// that can be invoked against it.
type Source struct {
	Name    string `json:"name"`
	Command string `json:"command"`
}

// ResultSet is the response to a search or create call.
type ResultSet struct {
	Results []Result `json:"results"`
	Sources []Source `json:"sources,omitempty"`
}

// First returns the identifier of the first result.
func (rs *ResultSet) First() (string, bool) {
	if rs == nil || len(rs.Results) == 0 {
		return "", false
	}
	return rs.Results[0].About, true
}

// Len returns the number of results.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Results)
}
