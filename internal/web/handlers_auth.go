package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/coBecT/MtsTrueTech/internal/authn"
	"github.com/coBecT/MtsTrueTech/internal/domain"
	"github.com/coBecT/MtsTrueTech/internal/util"
	"github.com/coBecT/MtsTrueTech/internal/web/templates"
)

const sessionIdentityKey = "identity_id"

// socialLoginRequest is posted by the VK and Google widgets. VK sends a
// numeric id, Google a string.
type socialLoginRequest struct {
	Provider   string `json:"provider"`
	ID         any    `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar"`
	Credential string `json:"credential"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, templates.Login(templates.LoginPage{
		Nav:   s.nav(r, "/login"),
		Panel: r.URL.Query().Get("panel"),
	}))
}

// handleLoginSubmit serves both the sign-in and the sign-up form. Neither
// checks anything; both land on the profile.
func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	data := templates.ProfilePage{Nav: s.nav(r, "/profile"), User: s.defaultUser}
	if identity := s.currentIdentity(r); identity != nil {
		data.User = identity.User()
		data.SignedIn = true
	}
	if data.User == nil {
		data.User = &domain.User{Name: "Guest"}
	}
	render(w, r, http.StatusOK, templates.Profile(data))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session, _ := s.sessionStore.Get(r, sessionName)
	delete(session.Values, sessionIdentityKey)
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to clear session")
	}
	redirect(w, r, "/login")
}

func (s *Server) handleAPISocialLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req socialLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.metrics.SocialLogin(ctx, req.Provider, false)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	login := domain.SocialLogin{
		Provider:   domain.Provider(strings.ToLower(strings.TrimSpace(req.Provider))),
		ID:         util.ToString(req.ID),
		Name:       req.Name,
		Email:      req.Email,
		Avatar:     req.Avatar,
		Credential: req.Credential,
	}
	if err := authn.CheckCredential(&login); err != nil {
		s.metrics.SocialLogin(ctx, string(login.Provider), false)
		logger.Info().Err(err).Str("provider", string(login.Provider)).Msg("social login rejected")
		writeError(w, http.StatusBadRequest, socialErrorMessage(err))
		return
	}

	identity := login.Identity(s.now())
	if err := s.identityRepo.Upsert(ctx, identity); err != nil {
		s.metrics.SocialLogin(ctx, string(login.Provider), false)
		logger.Error().Err(err).Msg("failed to store identity")
		writeError(w, http.StatusInternalServerError, "failed to store identity")
		return
	}

	session, _ := s.sessionStore.Get(r, sessionName)
	session.Values[sessionIdentityKey] = identity.ID()
	if err := session.Save(r, w); err != nil {
		logger.Error().Err(err).Msg("failed to save session")
		writeError(w, http.StatusInternalServerError, "failed to save session")
		return
	}

	s.metrics.SocialLogin(ctx, string(login.Provider), true)
	logger.Info().Str("identity_id", identity.ID()).Msg("social login")
	writeJSON(w, http.StatusOK, domain.SocialAuthResult{Success: true})
}

func socialErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownProvider):
		return "unknown provider"
	case errors.Is(err, domain.ErrInvalidIdentity):
		return "id and name are required"
	case errors.Is(err, authn.ErrInvalidJWT):
		return "invalid credential"
	case errors.Is(err, authn.ErrCredentialMismatch):
		return "credential does not match the user"
	}
	return "invalid login"
}

// currentIdentity returns the identity stored in the session cookie, or nil.
func (s *Server) currentIdentity(r *http.Request) *domain.Identity {
	session, err := s.sessionStore.Get(r, sessionName)
	if err != nil {
		return nil
	}
	id, ok := session.Values[sessionIdentityKey].(string)
	if !ok || id == "" {
		return nil
	}
	identity, err := s.identityRepo.GetByID(r.Context(), id)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to load session identity")
		return nil
	}
	return identity
}
