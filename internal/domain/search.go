package domain

import "strings"

// FilterExperiments returns the experiments whose title or goal contains
// query, compared case-insensitively. Order is preserved and the input
// slice is never modified. An empty query matches everything.
func FilterExperiments(query string, exps []*Experiment) []*Experiment {
	q := strings.ToLower(query)
	out := make([]*Experiment, 0, len(exps))
	for _, e := range exps {
		if q == "" ||
			strings.Contains(strings.ToLower(e.Title), q) ||
			strings.Contains(strings.ToLower(e.Goal), q) {
			out = append(out, e)
		}
	}
	return out
}
