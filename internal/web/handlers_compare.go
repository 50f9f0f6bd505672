package web

import (
	"net/http"

	"github.com/coBecT/MtsTrueTech/internal/domain"
	"github.com/coBecT/MtsTrueTech/internal/web/templates"
)

// handleComparison renders the side-by-side view. The selection and the
// open sections live in the query string; toggle, section and reset apply
// a single transition and redirect to the canonical URL.
func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	exps, err := s.experimentRepo.List(r.Context())
	if err != nil {
		serverError(w, r, err, "failed to list experiments")
		return
	}

	q := r.URL.Query()
	query := q.Get("q")

	var known []string
	for _, id := range domain.ParseIDSet(q.Get("ids")).IDs() {
		if domain.FindExperiment(exps, id) != nil {
			known = append(known, id)
		}
	}
	sel := domain.NewSelection(known...)

	sections := domain.DefaultOpenSections()
	if q.Has("sections") {
		sections = domain.NewIDSet()
		for _, name := range domain.ParseIDSet(q.Get("sections")).IDs() {
			if domain.IsCompareSection(name) {
				sections.Add(name)
			}
		}
	}

	switch {
	case q.Get("reset") != "":
		sel.Reset()
		http.Redirect(w, r, templates.ComparisonURL(query, sel, sections), http.StatusSeeOther)
		return
	case q.Has("toggle"):
		if id := q.Get("toggle"); domain.FindExperiment(exps, id) != nil {
			sel.Toggle(id)
		}
		http.Redirect(w, r, templates.ComparisonURL(query, sel, sections), http.StatusSeeOther)
		return
	case q.Has("section"):
		if name := q.Get("section"); domain.IsCompareSection(name) {
			sections.Toggle(name)
		}
		http.Redirect(w, r, templates.ComparisonURL(query, sel, sections), http.StatusSeeOther)
		return
	}

	data := templates.ComparePage{
		Nav:         s.nav(r, "/comparison"),
		Query:       query,
		Experiments: domain.FilterExperiments(query, exps),
		Selection:   sel,
		Sections:    sections,
	}
	for _, id := range sel.IDs() {
		data.Selected = append(data.Selected, domain.FindExperiment(exps, id))
	}
	if sel.State() == domain.Comparing {
		s.metrics.ComparisonRendered(r.Context())
	}

	render(w, r, http.StatusOK, templates.Comparison(data))
}
