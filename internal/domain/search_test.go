package domain

import (
	"strings"
	"testing"
)

func sampleExperiments() []*Experiment {
	return []*Experiment{
		{ID: "1", Title: "Heat test", Goal: "measure rate"},
		{ID: "2", Title: "Polymer trial", Goal: "synthesize capsules"},
		{ID: "3", Title: "Catalyst screening", Goal: "Find a HEAT resistant catalyst"},
	}
}

func ids(exps []*Experiment) string {
	out := make([]string, len(exps))
	for i, e := range exps {
		out[i] = e.ID
	}
	return strings.Join(out, ",")
}

func TestFilterExperiments(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "empty query returns all in order", query: "", want: "1,2,3"},
		{name: "title match is case-insensitive", query: "heat", want: "1,3"},
		{name: "goal match", query: "capsules", want: "2"},
		{name: "upper case query", query: "POLYMER", want: "2"},
		{name: "substring inside word", query: "lyst", want: "3"},
		{name: "no match", query: "quantum", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterExperiments(tt.query, sampleExperiments()))
			if got != tt.want {
				t.Errorf("FilterExperiments(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestFilterExperiments_Scenario(t *testing.T) {
	exps := sampleExperiments()[:2]
	got := FilterExperiments("heat", exps)
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected only id 1, got %q", ids(got))
	}
}

func TestFilterExperiments_DoesNotMutateInput(t *testing.T) {
	exps := sampleExperiments()
	before := ids(exps)

	got := FilterExperiments("polymer", exps)
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if after := ids(exps); after != before {
		t.Errorf("input changed: %q -> %q", before, after)
	}
}

func TestFilterExperiments_ResultsMatchQuery(t *testing.T) {
	exps := sampleExperiments()
	for _, q := range []string{"a", "te", "RATE", "cat", "x"} {
		for _, e := range FilterExperiments(q, exps) {
			lq := strings.ToLower(q)
			if !strings.Contains(strings.ToLower(e.Title), lq) && !strings.Contains(strings.ToLower(e.Goal), lq) {
				t.Errorf("query %q returned non-matching experiment %s", q, e.ID)
			}
		}
	}
}

func TestFindExperiment(t *testing.T) {
	exps := sampleExperiments()
	if e := FindExperiment(exps, "2"); e == nil || e.Title != "Polymer trial" {
		t.Errorf("expected Polymer trial, got %+v", e)
	}
	if e := FindExperiment(exps, "missing"); e != nil {
		t.Errorf("expected nil for missing id, got %+v", e)
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in    string
		want  Status
		badge string
	}{
		{"in_progress", StatusInProgress, "badge-blue"},
		{"completed", StatusCompleted, "badge-green"},
		{"paused", StatusPaused, "badge-yellow"},
		{"cancelled", StatusOther, "badge-red"},
		{"", StatusOther, "badge-red"},
	}
	for _, tt := range tests {
		got := ParseStatus(tt.in)
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if got.Badge() != tt.badge {
			t.Errorf("%q badge = %q, want %q", got, got.Badge(), tt.badge)
		}
	}
}
