package web

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coBecT/MtsTrueTech/internal/domain"
	"github.com/coBecT/MtsTrueTech/internal/shared/middleware"
	"github.com/coBecT/MtsTrueTech/internal/web/templates"
)

const maxUploadSize = 32 << 20

func (s *Server) handleExperimentList(w http.ResponseWriter, r *http.Request) {
	exps, err := s.experimentRepo.List(r.Context())
	if err != nil {
		serverError(w, r, err, "failed to list experiments")
		return
	}

	query := r.URL.Query().Get("q")
	render(w, r, http.StatusOK, templates.ExperimentList(templates.ListPage{
		Nav:         s.nav(r, "/"),
		Query:       query,
		Open:        domain.ParseIDSet(r.URL.Query().Get("open")),
		Experiments: domain.FilterExperiments(query, exps),
	}))
}

func (s *Server) handleExperimentDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	exp, err := s.experimentRepo.GetByID(ctx, r.PathValue("id"))
	if err != nil {
		serverError(w, r, err, "failed to get experiment")
		return
	}
	if exp == nil {
		s.handleNotFound(w, r)
		return
	}

	tab := r.URL.Query().Get("tab")
	switch tab {
	case templates.TabFiles, templates.TabCalendar, templates.TabAnalytics:
	default:
		tab = templates.TabOverview
	}

	data := templates.DetailPage{
		Nav:        s.nav(r, "/"),
		Experiment: exp,
		Tab:        tab,
	}
	if tab == templates.TabAnalytics {
		versions, err := s.versionRepo.ListByExperiment(ctx, exp.ID)
		if err != nil {
			serverError(w, r, err, "failed to list versions")
			return
		}
		data.Versions = versions
		data.Medians = sortedMedians(domain.ParameterMedians(versions))
		if len(versions) > 0 {
			latest := versions[len(versions)-1]
			data.Alerts = domain.CheckParameters(latest.Parameters, domain.DefaultCriticalRules)
		}
	}

	render(w, r, http.StatusOK, templates.ExperimentDetail(data))
}

func (s *Server) handleExperimentForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, templates.ExperimentForm(templates.FormPage{
		Nav:   s.nav(r, "/experiments/new"),
		Draft: &domain.Draft{},
	}))
}

// handleExperimentFormPreview re-renders the staged file list for the files
// posted by the drop zone, minus the one named by remove.
func (s *Server) handleExperimentFormPreview(w http.ResponseWriter, r *http.Request) {
	draft, err := parseDraft(w, r)
	if err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	if raw := r.FormValue("remove"); raw != "" {
		if i, err := strconv.Atoi(raw); err == nil {
			draft.RemoveFile(i)
		}
	}
	render(w, r, http.StatusOK, templates.StagedFiles(draft.Files))
}

func (s *Server) handleAPICreateExperiment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	draft, err := parseDraft(w, r)
	if err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	if err := draft.Validate(); err != nil {
		s.formError(w, r, draft, err)
		return
	}

	exp := draft.Experiment(uuid.New().String(), s.now())
	for i, f := range draft.Files {
		if _, err := s.files.Store(ctx, exp.ID, exp.Files[i], f.Content); err != nil {
			serverError(w, r, err, "failed to store experiment file")
			return
		}
	}
	if err := s.experimentRepo.Create(ctx, exp); err != nil {
		if cleanupErr := s.files.Delete(ctx, exp.ID); cleanupErr != nil {
			logger.Warn().Err(cleanupErr).Str("experiment_id", exp.ID).Msg("failed to remove orphaned files")
		}
		serverError(w, r, err, "failed to create experiment")
		return
	}

	logger.Info().
		Str("experiment_id", exp.ID).
		Str("title", exp.Title).
		Str("timeline", exp.Timeline).
		Strs("files", exp.Files).
		Msg("experiment created")

	s.metrics.ExperimentCreated(ctx, len(exp.Files))
	s.addNotification(r, "Experiment created", "\""+exp.Title+"\" has been added", domain.NotificationSuccess)

	redirect(w, r, "/")
}

// formError answers a failed submission. Fragment requests get the error
// block swapped into the form; plain and boosted posts get the form back
// with the entered values.
func (s *Server) formError(w http.ResponseWriter, r *http.Request, draft *domain.Draft, err error) {
	msg := "Could not create experiment: " + err.Error()
	if middleware.IsPartial(r) {
		w.Header().Set("HX-Retarget", "#form-error")
		w.Header().Set("HX-Reswap", "innerHTML")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `<div class="error" role="alert">`+templ.EscapeString(msg)+`</div>`)
		return
	}
	render(w, r, http.StatusUnprocessableEntity, templates.ExperimentForm(templates.FormPage{
		Nav:   s.nav(r, "/experiments/new"),
		Draft: draft,
		Error: msg,
	}))
}

func (s *Server) handleAPIListExperiments(w http.ResponseWriter, r *http.Request) {
	exps, err := s.experimentRepo.List(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to list experiments")
		writeError(w, http.StatusInternalServerError, "failed to list experiments")
		return
	}
	writeJSON(w, http.StatusOK, domain.FilterExperiments(r.URL.Query().Get("q"), exps))
}

func (s *Server) handleAPIGetExperiment(w http.ResponseWriter, r *http.Request) {
	exp, err := s.experimentRepo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to get experiment")
		writeError(w, http.StatusInternalServerError, "failed to get experiment")
		return
	}
	if exp == nil {
		writeError(w, http.StatusNotFound, "experiment not found")
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusNotFound, templates.NotFound(s.nav(r, "")))
}

// parseDraft reads the experiment form. Uploaded parts go through the drop
// zone's picker path into the draft in the order they were sent.
func parseDraft(w http.ResponseWriter, r *http.Request) (*domain.Draft, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}

	draft := &domain.Draft{}
	for _, name := range domain.DraftFields {
		if err := draft.Set(name, r.FormValue(name)); err != nil {
			return nil, err
		}
	}

	if r.MultipartForm != nil {
		staged, err := stagedFiles(r.MultipartForm.File["files"])
		if err != nil {
			return nil, err
		}
		var zone domain.DropZone
		if r.FormValue("source") == "drop" {
			draft.AddFiles(zone.Drop(staged)...)
		} else {
			draft.AddFiles(zone.Pick(staged)...)
		}
	}
	return draft, nil
}

func stagedFiles(headers []*multipart.FileHeader) ([]domain.StagedFile, error) {
	files := make([]domain.StagedFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, domain.StagedFile{
			Name:      fh.Filename,
			MediaType: fh.Header.Get("Content-Type"),
			Size:      fh.Size,
			Content:   content,
		})
	}
	return files, nil
}
