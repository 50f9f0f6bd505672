package web

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/a-h/templ"
	"github.com/rs/zerolog"

	"github.com/coBecT/MtsTrueTech/internal/domain"
	"github.com/coBecT/MtsTrueTech/internal/notify"
	"github.com/coBecT/MtsTrueTech/internal/shared/middleware"
	"github.com/coBecT/MtsTrueTech/internal/web/templates"
)

const maxJSONBody = 1 << 20

// writeJSON writes response as JSON with the given status. API replies are
// never cached.
func writeJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "max-age=0")
	w.WriteHeader(status)

	if response != nil {
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// writeError replies with the {success:false, message} envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, domain.SocialAuthResult{Success: false, Message: message})
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.UseNumber()
	return dec.Decode(v)
}

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to render page")
	}
}

// redirect sends htmx clients an HX-Redirect and everyone else a 303.
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if middleware.IsHTMX(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg(msg)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// nav collects the top bar data. A missing registry leaves the bell empty.
func (s *Server) nav(r *http.Request, active string) templates.Nav {
	nav := templates.Nav{Active: active}
	if reg, err := notify.FromContext(r.Context()); err == nil {
		nav.Notifications, _ = reg.List()
		nav.Unread, _ = reg.UnreadCount()
	}
	if identity := s.currentIdentity(r); identity != nil {
		nav.UserName = identity.Name
	}
	return nav
}

// addNotification posts to the request's registry and records the metric.
// Failures are logged; the triggering action has already succeeded.
func (s *Server) addNotification(r *http.Request, title, message string, typ domain.NotificationType) {
	logger := zerolog.Ctx(r.Context())
	reg, err := notify.FromContext(r.Context())
	if err != nil {
		logger.Error().Err(err).Str("title", title).Msg("notification dropped")
		return
	}
	if _, err := reg.Add(title, message, typ); err != nil {
		logger.Error().Err(err).Str("title", title).Msg("notification dropped")
		return
	}
	s.metrics.NotificationAdded(r.Context(), string(typ))
}

func sortedMedians(m map[string]float64) []templates.Median {
	out := make([]templates.Median, 0, len(m))
	for name, v := range m {
		out = append(out, templates.Median{Name: name, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
