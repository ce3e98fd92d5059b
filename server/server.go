package server

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/rjegjin/Specific-Skills-and-Accomplishments/generator"
	"github.com/rjegjin/Specific-Skills-and-Accomplishments/publisher"
	"github.com/rjegjin/Specific-Skills-and-Accomplishments/record"
)

// Server exposes the latest results for review and single-pass validation.
type Server struct {
	fs          afero.Fs
	resultsPath string
	terms       generator.TermSet
	logger      *zap.Logger
}

func New(fsys afero.Fs, resultsPath string, terms generator.TermSet, logger *zap.Logger) (*Server, error) {
	if fsys == nil {
		return nil, errors.New("filesystem required")
	}
	if resultsPath == "" {
		return nil, errors.New("results path required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{fs: fsys, resultsPath: resultsPath, terms: terms, logger: logger}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/students", s.handleList)
	mux.HandleFunc("GET /api/students/{name}", s.handleStudent)
	mux.HandleFunc("GET /api/students/{name}/preview", s.handlePreview)
	mux.HandleFunc("POST /api/validate", s.handleValidate)
	return logMiddleware(s.logger, mux)
}

// --- Handlers ---

type studentSummary struct {
	Name   string         `json:"name"`
	Bytes  map[string]int `json:"bytes"`
	Status string         `json:"status"`
}

type studentResp struct {
	record.IntegratedRecord
	Bytes  map[string]int `json:"bytes"`
	Status string         `json:"status"`
}

// maxValidateBody bounds a validation request; a full record is a few KB.
const maxValidateBody = 256 << 10

type validateReq struct {
	Text  string `json:"text"`
	Name  string `json:"name"`
	Embed *bool  `json:"embed,omitempty"`
}

type validateResp struct {
	Text    string   `json:"text"`
	Flagged []string `json:"flagged"`
	Status  string   `json:"status"`
	Bytes   int      `json:"bytes"`
}

type errorResp struct {
	Error string `json:"error"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := s.load()
	if err != nil {
		s.fail(w, err)
		return
	}
	out := make([]studentSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, studentSummary{
			Name:   rec.Name,
			Bytes:  byteCounts(rec),
			Status: generator.RecordStatus(rec, s.terms),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStudent(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.find(w, r.PathValue("name"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, studentResp{
		IntegratedRecord: rec,
		Bytes:            byteCounts(rec),
		Status:           generator.RecordStatus(rec, s.terms),
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.find(w, r.PathValue("name"))
	if !ok {
		return
	}
	body, err := publisher.MarkdownToHTML(publisher.StudentMarkdown(rec, s.terms))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(publisher.HTMLPage(rec.Name, body)))
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxValidateBody)
	var req validateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, errorResp{Error: err.Error()})
		return
	}
	mode := generator.ModeEmbed
	if req.Embed != nil && !*req.Embed {
		mode = generator.ModeReport
	}
	res := generator.Validate(req.Text, req.Name, s.terms, mode)
	flagged := res.Flagged
	if flagged == nil {
		flagged = []string{}
	}
	writeJSON(w, http.StatusOK, validateResp{
		Text:    res.Text,
		Flagged: flagged,
		Status:  res.Status(),
		Bytes:   generator.ByteCount(res.Text),
	})
}

// --- Helpers ---

func (s *Server) load() ([]record.IntegratedRecord, error) {
	records, err := record.LoadResults(s.fs, s.resultsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return records, err
}

func (s *Server) find(w http.ResponseWriter, name string) (record.IntegratedRecord, bool) {
	records, err := s.load()
	if err != nil {
		s.fail(w, err)
		return record.IntegratedRecord{}, false
	}
	_, rec, err := record.Find(records, name)
	if errors.Is(err, record.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResp{Error: "student not found: " + name})
		return record.IntegratedRecord{}, false
	}
	return rec, true
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.logger.Error("load results", zap.String("path", s.resultsPath), zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResp{Error: err.Error()})
}

func byteCounts(rec record.IntegratedRecord) map[string]int {
	out := make(map[string]int, len(record.Areas))
	for _, a := range record.Areas {
		out[string(a)] = generator.ByteCount(rec.Text(a))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func logMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		logger.Info("http",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}
