package web

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/coBecT/MtsTrueTech/internal/domain"
	"github.com/coBecT/MtsTrueTech/internal/notify"
	"github.com/coBecT/MtsTrueTech/internal/web/templates"
)

type notificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

type addNotificationRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// registryFor resolves the request's registry, answering 500 when the
// handler runs outside the registry's scope.
func registryFor(w http.ResponseWriter, r *http.Request) (*notify.Registry, bool) {
	reg, err := notify.FromContext(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("notification registry unavailable")
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return reg, true
}

// registryError maps registry errors to status codes.
func registryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, notify.ErrNotFound):
		writeError(w, http.StatusNotFound, "notification not found")
	case errors.Is(err, notify.ErrInvalidType):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, notify.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("notification registry error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleAPIListNotifications(w http.ResponseWriter, r *http.Request) {
	reg, ok := registryFor(w, r)
	if !ok {
		return
	}
	items, err := reg.List()
	if err != nil {
		registryError(w, r, err)
		return
	}
	unread, err := reg.UnreadCount()
	if err != nil {
		registryError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, notificationsResponse{Notifications: items, UnreadCount: unread})
}

func (s *Server) handleAPIAddNotification(w http.ResponseWriter, r *http.Request) {
	reg, ok := registryFor(w, r)
	if !ok {
		return
	}

	var req addNotificationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	n, err := reg.Add(req.Title, req.Message, domain.NotificationType(req.Type))
	if err != nil {
		registryError(w, r, err)
		return
	}
	s.metrics.NotificationAdded(r.Context(), string(n.Type))
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) handleAPIMarkRead(w http.ResponseWriter, r *http.Request) {
	reg, ok := registryFor(w, r)
	if !ok {
		return
	}
	if err := reg.MarkRead(r.PathValue("id")); err != nil {
		registryError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPIMarkAllRead(w http.ResponseWriter, r *http.Request) {
	reg, ok := registryFor(w, r)
	if !ok {
		return
	}
	if err := reg.MarkAllRead(); err != nil {
		registryError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPIRemoveNotification(w http.ResponseWriter, r *http.Request) {
	reg, ok := registryFor(w, r)
	if !ok {
		return
	}
	if err := reg.Remove(r.PathValue("id")); err != nil {
		registryError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleNotificationStream is the long-lived SSE endpoint behind the bell.
// The bell is patched once on connect and again on every registry change.
func (s *Server) handleNotificationStream(w http.ResponseWriter, r *http.Request) {
	reg, ok := registryFor(w, r)
	if !ok {
		return
	}

	updates, err := reg.Subscribe()
	if err != nil {
		registryError(w, r, err)
		return
	}
	defer reg.Unsubscribe(updates)

	sse := datastar.NewSSE(w, r)
	logger := zerolog.Ctx(r.Context())

	patchBell := func() bool {
		items, err := reg.List()
		if err != nil {
			return false
		}
		unread, err := reg.UnreadCount()
		if err != nil {
			return false
		}
		if err := sse.PatchElementTempl(templates.NotificationBell(items, unread)); err != nil {
			logger.Debug().Err(err).Msg("notification stream closed")
			return false
		}
		return true
	}

	if !patchBell() {
		return
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case _, open := <-updates:
			if !open || !patchBell() {
				return
			}
		}
	}
}
