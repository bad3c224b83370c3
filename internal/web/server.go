// Package web provides the HTTP UI and JSON API for a bughunt session.
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/metalagman/bughunt/internal/defect"
	"github.com/metalagman/bughunt/internal/session"
	"github.com/metalagman/bughunt/internal/task"
	"github.com/rs/zerolog/log"
)

// Server provides the web UI handlers and state.
type Server struct {
	session  *session.Session
	tmpl     *template.Template
	validate *validator.Validate
}

//go:embed templates/*.html
var templatesFS embed.FS

// NewServer creates a new web server.
func NewServer(sess *session.Session) (*Server, error) {
	tmpl, err := template.New("index.html").Funcs(template.FuncMap{
		"plural": func(n int, one, many string) string {
			if n == 1 {
				return one
			}
			return many
		},
		"modes": func() []task.Mode {
			return []task.Mode{task.ModeAll, task.ModeActive, task.ModeCompleted}
		},
	}).ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, err
	}
	return &Server{session: sess, tmpl: tmpl, validate: v}, nil
}

// Routes returns the router for the web UI.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/tasks", s.handleAddTask)
	mux.HandleFunc("POST /api/tasks/clear-completed", s.handleClearCompleted)
	mux.HandleFunc("POST /api/tasks/{id}/toggle", s.handleToggleTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("POST /api/tasks/{id}/delete", s.handleDeleteTask)
	mux.HandleFunc("GET /api/defects", s.handleCatalog)
	mux.HandleFunc("POST /api/defects/{id}", s.handleReport)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	return mux
}

type indexData struct {
	View    session.View
	Catalog []session.CatalogItem
	Notice  string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	mode, err := task.ParseMode(r.URL.Query().Get("filter"))
	if err != nil {
		mode = task.ModeAll
	}
	view, err := s.session.Snapshot(r.Context(), mode, r.URL.Query().Get("q"))
	if err != nil {
		s.internalError(w, err)
		return
	}
	items, _, err := s.session.Catalog(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, indexData{View: view, Catalog: items, Notice: r.URL.Query().Get("notice")}); err != nil {
		log.Error().Err(err).Msg("render index")
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	mode, err := task.ParseMode(r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	view, err := s.session.Snapshot(r.Context(), mode, r.URL.Query().Get("q"))
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type addTaskRequest struct {
	Text string `json:"text" validate:"required,notblank"`
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var req addTaskRequest
	if isForm(r) {
		req.Text = r.PostFormValue("text")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		if isForm(r) {
			s.redirect(w, r, "Task text cannot be empty")
			return
		}
		writeError(w, http.StatusBadRequest, validationError(err))
		return
	}
	created, added, err := s.session.AddTask(r.Context(), req.Text)
	if err != nil {
		s.internalError(w, err)
		return
	}
	if !added {
		if isForm(r) {
			s.redirect(w, r, "Task text cannot be empty")
			return
		}
		writeError(w, http.StatusBadRequest, errors.New("task text cannot be blank"))
		return
	}
	if isForm(r) {
		s.redirect(w, r, "")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	if err := s.session.ToggleTask(r.Context(), r.PathValue("id")); err != nil {
		s.internalError(w, err)
		return
	}
	s.done(w, r)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.session.DeleteTask(r.Context(), r.PathValue("id")); err != nil {
		s.internalError(w, err)
		return
	}
	s.done(w, r)
}

func (s *Server) handleClearCompleted(w http.ResponseWriter, r *http.Request) {
	if err := s.session.ClearCompleted(r.Context()); err != nil {
		s.internalError(w, err)
		return
	}
	s.done(w, r)
}

type catalogResponse struct {
	Defects      []session.CatalogItem `json:"defects"`
	HintsVisible bool                  `json:"hintsVisible"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	items, visible, err := s.session.Catalog(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalogResponse{Defects: items, HintsVisible: visible})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id, err := defect.ParseID(r.PathValue("id"))
	if err != nil {
		if isForm(r) {
			s.redirect(w, r, "Unknown bug")
			return
		}
		writeError(w, http.StatusNotFound, err)
		return
	}
	report, err := s.session.Report(r.Context(), id)
	if err != nil {
		s.internalError(w, err)
		return
	}
	if isForm(r) {
		s.redirect(w, r, reportNotice(report))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Reset(r.Context()); err != nil {
		s.internalError(w, err)
		return
	}
	if isForm(r) {
		s.redirect(w, r, "Challenge reset!")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func reportNotice(r session.Report) string {
	switch {
	case r.Outcome == defect.OutcomeAlreadyReported:
		return "You already found this bug!"
	case r.Completed:
		return "Congratulations! You found all " + strconv.Itoa(defect.CatalogSize) + " bugs!"
	default:
		return "Bug found! " + r.Entry.Title
	}
}

func (s *Server) done(w http.ResponseWriter, r *http.Request) {
	if isForm(r) {
		s.redirect(w, r, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// redirect sends form posts back to the page they came from, keeping filter and query.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, notice string) {
	q := url.Values{}
	if f := r.PostFormValue("filter"); f != "" {
		q.Set("filter", f)
	}
	if term := r.PostFormValue("q"); term != "" {
		q.Set("q", term)
	}
	if notice != "" {
		q.Set("notice", notice)
	}
	target := "/"
	if enc := q.Encode(); enc != "" {
		target += "?" + enc
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("request failed")
	writeError(w, http.StatusInternalServerError, err)
}

func isForm(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data")
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, strings.ToLower(e.Field())+": failed "+e.Tag())
	}
	return errors.New(strings.Join(msgs, "; "))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
