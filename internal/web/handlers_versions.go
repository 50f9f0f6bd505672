package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coBecT/MtsTrueTech/internal/domain"
	"github.com/coBecT/MtsTrueTech/internal/util"
)

// parameterRequest accepts values sent as JSON strings, numbers or booleans.
type parameterRequest struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
	Type  string `json:"type"`
	Unit  string `json:"unit"`
}

type createVersionRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  []parameterRequest `json:"parameters"`
}

type forkVersionRequest struct {
	Name      string `json:"name"`
	ChangeLog string `json:"change_log"`
}

type versionStatusRequest struct {
	Status string `json:"status"`
}

type addFileRequest struct {
	SourceType string `json:"source_type"`
	PathOrURL  string `json:"path_or_url"`
	FileType   string `json:"file_type"`
}

type addResultRequest struct {
	Data    json.RawMessage `json:"data"`
	Metrics string          `json:"metrics"`
}

type metadataRequest struct {
	Value string `json:"value"`
}

type versionResponse struct {
	Version *domain.ExperimentVersion `json:"version"`
	Alerts  []domain.Alert            `json:"alerts"`
}

func (s *Server) handleAPIListVersions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	exp, err := s.experimentRepo.GetByID(ctx, r.PathValue("id"))
	if err != nil {
		versionError(w, r, err)
		return
	}
	if exp == nil {
		writeError(w, http.StatusNotFound, "experiment not found")
		return
	}

	versions, err := s.versionRepo.ListByExperiment(ctx, exp.ID)
	if err != nil {
		versionError(w, r, err)
		return
	}
	if versions == nil {
		versions = []*domain.ExperimentVersion{}
	}
	writeJSON(w, http.StatusOK, versions)
}

func (s *Server) handleAPICreateVersion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createVersionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := s.experimentRepo.GetByID(ctx, r.PathValue("id"))
	if err != nil {
		versionError(w, r, err)
		return
	}
	if exp == nil {
		writeError(w, http.StatusNotFound, "experiment not found")
		return
	}

	v, err := domain.NewVersion(uuid.New().String(), exp.ID, req.Name, req.Description, s.now())
	if err != nil {
		versionError(w, r, err)
		return
	}
	for _, p := range req.Parameters {
		param := domain.Parameter{
			Name:  p.Name,
			Value: util.ToString(p.Value),
			Type:  domain.ParamType(p.Type),
			Unit:  p.Unit,
		}
		if param.Type == "" {
			param.Type = domain.ParamString
		}
		if err := v.AddParameter(param); err != nil {
			versionError(w, r, err)
			return
		}
	}

	number, err := s.versionRepo.NextNumber(ctx, exp.ID)
	if err != nil {
		versionError(w, r, err)
		return
	}
	v.Number = number

	s.saveVersion(w, r, exp, v)
}

func (s *Server) handleAPIForkVersion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req forkVersionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	parent, err := s.versionRepo.GetByID(ctx, r.PathValue("id"))
	if err != nil {
		versionError(w, r, err)
		return
	}
	if parent == nil {
		writeError(w, http.StatusNotFound, "version not found")
		return
	}
	exp, err := s.experimentRepo.GetByID(ctx, parent.ExperimentID)
	if err != nil {
		versionError(w, r, err)
		return
	}
	if exp == nil {
		writeError(w, http.StatusNotFound, "experiment not found")
		return
	}

	child, err := parent.Fork(uuid.New().String(), req.Name, req.ChangeLog, s.now())
	if err != nil {
		versionError(w, r, err)
		return
	}

	s.saveVersion(w, r, exp, child)
}

// saveVersion persists v and runs the critical-parameter monitor over it.
func (s *Server) saveVersion(w http.ResponseWriter, r *http.Request, exp *domain.Experiment, v *domain.ExperimentVersion) {
	ctx := r.Context()
	if err := s.versionRepo.Create(ctx, v); err != nil {
		versionError(w, r, err)
		return
	}

	alerts := domain.CheckParameters(v.Parameters, domain.DefaultCriticalRules)
	if len(alerts) > 0 {
		title := fmt.Sprintf("Critical parameters in %s v%d", exp.Title, v.Number)
		s.addNotification(r, title, domain.AlertSummary(alerts), domain.NotificationWarning)
	}
	s.metrics.VersionCreated(ctx, exp.ID, len(alerts))

	zerolog.Ctx(ctx).Info().
		Str("experiment_id", exp.ID).
		Str("version_id", v.ID).
		Int("number", v.Number).
		Int("alerts", len(alerts)).
		Msg("version created")

	if alerts == nil {
		alerts = []domain.Alert{}
	}
	writeJSON(w, http.StatusCreated, versionResponse{Version: v, Alerts: alerts})
}

func (s *Server) handleAPIVersionStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req versionStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status, err := domain.ParseVersionStatus(req.Status)
	if err != nil {
		versionError(w, r, err)
		return
	}

	v, err := s.versionRepo.GetByID(ctx, r.PathValue("id"))
	if err != nil {
		versionError(w, r, err)
		return
	}
	if v == nil {
		writeError(w, http.StatusNotFound, "version not found")
		return
	}

	previous := v.Status
	if err := s.versionRepo.UpdateStatus(ctx, v.ID, status); err != nil {
		versionError(w, r, err)
		return
	}
	v.Status = status

	if status == domain.VersionCompleted && previous != domain.VersionCompleted {
		s.addNotification(r, "Version completed", fmt.Sprintf("Version %d (%s) is completed", v.Number, v.Name), domain.NotificationSuccess)
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleAPIGetVersion(w http.ResponseWriter, r *http.Request) {
	v, err := s.versionRepo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		versionError(w, r, err)
		return
	}
	if v == nil {
		writeError(w, http.StatusNotFound, "version not found")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// handleAPIAddVersionFile records a remote file reference. Local files are
// hashed on disk, so they are added through the CLI.
func (s *Server) handleAPIAddVersionFile(w http.ResponseWriter, r *http.Request) {
	var req addFileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !domain.IsRemote(req.PathOrURL) {
		writeError(w, http.StatusBadRequest, "only http, https and ftp references can be added over the API")
		return
	}
	source, err := domain.ParseSourceType(req.SourceType)
	if err != nil {
		versionError(w, r, err)
		return
	}
	fileType, err := domain.ParseFileType(req.FileType)
	if err != nil {
		versionError(w, r, err)
		return
	}

	f, err := domain.NewFileReference(uuid.New().String(), r.PathValue("id"), source, req.PathOrURL, fileType, s.now())
	if err != nil {
		versionError(w, r, err)
		return
	}
	if err := s.versionRepo.AddFile(r.Context(), f); err != nil {
		versionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (s *Server) handleAPIAddVersionResult(w http.ResponseWriter, r *http.Request) {
	var req addResultRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := domain.NewResult(uuid.New().String(), r.PathValue("id"), req.Data, req.Metrics, s.now())
	if err != nil {
		versionError(w, r, err)
		return
	}
	if err := s.versionRepo.AddResult(r.Context(), res); err != nil {
		versionError(w, r, err)
		return
	}
	zerolog.Ctx(r.Context()).Info().Str("version_id", res.VersionID).Msg("result recorded")
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleAPISetVersionMetadata(w http.ResponseWriter, r *http.Request) {
	var req metadataRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, key := r.PathValue("id"), r.PathValue("key")
	if strings.TrimSpace(key) == "" {
		writeError(w, http.StatusBadRequest, "metadata key is required")
		return
	}
	if err := s.versionRepo.SetMetadata(r.Context(), id, key, req.Value); err != nil {
		versionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
}

// versionError maps domain and repository errors to status codes.
func versionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidParameter),
		errors.Is(err, domain.ErrDuplicateParameter),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidFileReference),
		errors.Is(err, domain.ErrInvalidResult):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("version request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
