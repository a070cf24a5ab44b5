package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"edabot/internal/agent"
	"edabot/internal/dataset"
	"edabot/internal/session"
)

// Server is the HTTP surface: upload a CSV to open a session, then ask
// questions against it. All rendering happens client-side from the
// structured results.
type Server struct {
	cfg       Config
	sessions  *session.Manager
	responder *agent.Agent
}

func NewServer(cfg Config, sessions *session.Manager, responder *agent.Agent) *Server {
	return &Server{cfg: cfg, sessions: sessions, responder: responder}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.Health)
	r.Post("/sessions", s.CreateSession)
	r.Get("/sessions/{id}/preview", s.Preview)
	r.Post("/sessions/{id}/ask", s.Ask)
	r.Get("/sessions/{id}/conclusions", s.Conclusions)
	r.Delete("/sessions/{id}/conclusions", s.ClearConclusions)
	r.Delete("/sessions/{id}", s.DeleteSession)
	return r
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

type sessionResponse struct {
	SessionID string               `json:"session_id"`
	Filename  string               `json:"filename"`
	Rows      int                  `json:"rows"`
	Columns   int                  `json:"columns"`
	TimeCol   string               `json:"time_column,omitempty"`
	Preview   [][]string           `json:"preview"`
	Header    []string             `json:"header"`
	Types     []dataset.Descriptor `json:"types"`
}

// CreateSession ingests an uploaded CSV. When a time column is detected by
// name, the dataset is sorted by it once, before any question runs.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		http.Error(w, "Upload too large or malformed", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing 'file' field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ds, err := dataset.ParseCSV(file)
	if err != nil {
		http.Error(w, "Invalid CSV: "+err.Error(), http.StatusBadRequest)
		return
	}

	timeCol := ""
	if tcol, ok := dataset.DetectTimeColumn(ds); ok {
		ds.SortByColumn(tcol)
		timeCol = tcol
	}

	sess := s.sessions.Create(ds, header.Filename)
	log.Printf("session %s created: file=%s rows=%d cols=%d", sess.ID, header.Filename, ds.Rows, len(ds.Columns))

	types, _ := dataset.Classify(ds)
	writeJSON(w, http.StatusCreated, sessionResponse{
		SessionID: sess.ID,
		Filename:  header.Filename,
		Rows:      ds.Rows,
		Columns:   len(ds.Columns),
		TimeCol:   timeCol,
		Preview:   previewRows(ds, s.cfg.PreviewRows),
		Header:    columnNames(ds),
		Types:     types,
	})
}

func (s *Server) Preview(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"header":  columnNames(sess.Dataset),
		"preview": previewRows(sess.Dataset, s.cfg.PreviewRows),
		"rows":    sess.Dataset.Rows,
	})
}

type askRequest struct {
	Question string `json:"question"`
}

func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		http.Error(w, "Body must be {\"question\": \"...\"}", http.StatusBadRequest)
		return
	}

	result := s.responder.Respond(r.Context(), sess.Dataset, sess.Log, req.Question)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) Conclusions(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records":  sess.Log.Records(),
		"markdown": sess.Log.Render(),
	})
}

func (s *Server) ClearConclusions(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Log.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.sessions.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Get(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

func previewRows(ds *dataset.Dataset, n int) [][]string {
	if n > ds.Rows {
		n = ds.Rows
	}
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(ds.Columns))
		for j, c := range ds.Columns {
			row[j] = c.CellString(i)
		}
		rows[i] = row
	}
	return rows
}

func columnNames(ds *dataset.Dataset) []string {
	names := make([]string, len(ds.Columns))
	for i, c := range ds.Columns {
		names[i] = c.Name
	}
	return names
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
