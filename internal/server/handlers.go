package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/alexanderramin/swimmenu/internal/app"
	"github.com/alexanderramin/swimmenu/internal/domain"
	"github.com/alexanderramin/swimmenu/internal/export"
	"github.com/alexanderramin/swimmenu/internal/generation"
	"github.com/alexanderramin/swimmenu/internal/repository"
)

// maxBodyBytes bounds generation request bodies.
const maxBodyBytes = 64 << 10

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var in app.GenerateInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON: " + err.Error(), Code: string(generation.CodeInvalidRequest)})
		return
	}

	req, err := in.Request()
	if err != nil {
		s.writeGenerationError(w, err)
		return
	}
	res, err := s.generator.GenerateMenu(r.Context(), req)
	if err != nil {
		s.writeGenerationError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app.NewGenerateOutput(res))
}

func (s *Server) writeGenerationError(w http.ResponseWriter, err error) {
	var ge *generation.Error
	if errors.As(err, &ge) {
		writeJSON(w, ge.HTTPStatus(), errorBody{Error: ge.Message, Code: string(ge.Code)})
		return
	}
	s.log.Error("generation error", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}

func (s *Server) handleListMenus(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	recs, err := s.menus.List(r.Context(), limit)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app.Summarize(recs))
}

func (s *Server) handleGetMenu(w http.ResponseWriter, r *http.Request) {
	rec, err := s.menus.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteMenu(w http.ResponseWriter, r *http.Request) {
	if err := s.menus.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := export.FormatJSON
	if v := r.URL.Query().Get("format"); v != "" {
		f, err := export.ParseFormat(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}
		format = f
	}
	upload := r.URL.Query().Get("upload") == "true"

	res, err := s.exports.Export(r.Context(), chi.URLParam(r, "id"), format, upload)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	if res.Location != "" {
		w.Header().Set("X-Export-Location", res.Location)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	duration, err := strconv.Atoi(q.Get("duration"))
	if err != nil || duration <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: domain.ErrInvalidDuration.Error()})
		return
	}
	var rawLevels []string
	if v := q.Get("load"); v != "" {
		rawLevels = strings.Split(v, ",")
	}
	levels, err := domain.ParseLoadLevels(rawLevels)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	topK, _ := strconv.Atoi(q.Get("k"))

	hits, err := s.search.Search(r.Context(), app.SearchRequest{
		LoadLevels:  levels,
		Duration:    duration,
		Notes:       q.Get("notes"),
		Credentials: r.Header.Get("X-Embedding-Key"),
		TopK:        topK,
	})
	if errors.Is(err, app.ErrNoEmbeddingCredentials) {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
		return
	}
	if err != nil {
		s.log.Error("search error", "error", err)
		writeJSON(w, http.StatusBadGateway, errorBody{Error: err.Error()})
		return
	}
	if hits == nil {
		hits = []domain.RetrievalHit{}
	}
	writeJSON(w, http.StatusOK, hits)
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "menu not found"})
	case errors.Is(err, export.ErrUnknownFormat):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		s.log.Error("store error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
