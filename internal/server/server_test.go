package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/swimmenu/internal/app"
	"github.com/alexanderramin/swimmenu/internal/domain"
	"github.com/alexanderramin/swimmenu/internal/export"
	"github.com/alexanderramin/swimmenu/internal/generation"
	"github.com/alexanderramin/swimmenu/internal/llm"
	"github.com/alexanderramin/swimmenu/internal/menu"
	"github.com/alexanderramin/swimmenu/internal/repository"
	"github.com/alexanderramin/swimmenu/internal/testutil"
)

type fakeGenerator struct {
	res     *generation.Result
	err     error
	lastReq domain.GenerationRequest
}

func (f *fakeGenerator) GenerateMenu(_ context.Context, req domain.GenerationRequest) (*generation.Result, error) {
	f.lastReq = req
	return f.res, f.err
}

type fakeSearch struct {
	hits    []domain.RetrievalHit
	err     error
	lastReq app.SearchRequest
}

func (f *fakeSearch) Search(_ context.Context, req app.SearchRequest) ([]domain.RetrievalHit, error) {
	f.lastReq = req
	return f.hits, f.err
}

type exportAdapter struct{ menus repository.MenuRepo }

func (e exportAdapter) Export(ctx context.Context, id string, f export.Format, _ bool) (*app.ExportResult, error) {
	rec, err := e.menus.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := export.Render(rec.Menu, f)
	if err != nil {
		return nil, err
	}
	return &app.ExportResult{Data: data, ContentType: export.ContentType(f)}, nil
}

type testEnv struct {
	srv    *Server
	gen    *fakeGenerator
	search *fakeSearch
	menus  repository.MenuRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	menus := repository.NewSQLiteMenuRepo(testutil.NewTestDB(t))
	env := &testEnv{gen: &fakeGenerator{}, search: &fakeSearch{}, menus: menus}
	env.srv = New(Deps{
		Generator: env.gen,
		Menus:     menus,
		Search:    env.search,
		Exports:   exportAdapter{menus: menus},
	}, "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	return env
}

func (e *testEnv) do(method, target string, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestGenerate_Created(t *testing.T) {
	env := newTestEnv(t)
	env.gen.res = &generation.Result{
		MenuID: "m-1",
		Menu:   testutil.NewTestMenu("Sprint"),
		Report: menu.Report{Converged: true},
	}

	rec := env.do(http.MethodPost, "/api/v1/menus",
		`{"loadLevels":["high","low"],"duration":45,"model":"openai","credentials":"sk","useRetrieval":true,"retrievalCredentials":"ek"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var out app.GenerateOutput
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, "m-1", out.MenuID)
	assert.True(t, out.Converged)
	assert.Equal(t, "Sprint", out.Menu.Title)

	assert.Equal(t, []domain.LoadLevel{domain.LoadLow, domain.LoadHigh}, env.gen.lastReq.LoadLevels)
	assert.Equal(t, domain.ProviderOpenAI, env.gen.lastReq.Provider)
	assert.Equal(t, "ek", env.gen.lastReq.RetrievalCredentials)
}

func TestGenerate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		msg    string
	}{
		{"invalid request", &generation.Error{Code: generation.CodeInvalidRequest, Message: "bad duration"}, http.StatusBadRequest, "INVALID_REQUEST", "bad duration"},
		{"missing credentials", &generation.Error{Code: generation.CodeMissingCredentials, Message: "need key"}, http.StatusUnauthorized, "MISSING_CREDENTIALS", "need key"},
		{"invalid menu", &generation.Error{Code: generation.CodeInvalidMenu, Message: "response is not a valid menu"}, http.StatusUnprocessableEntity, "INVALID_MENU", "response is not a valid menu"},
		{"rate limited", &generation.Error{Code: generation.CodeUpstream, Message: llm.ErrRateLimited.Error(), Err: llm.ErrRateLimited}, http.StatusTooManyRequests, "UPSTREAM", llm.ErrRateLimited.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.gen.err = tt.err

			rec := env.do(http.MethodPost, "/api/v1/menus", `{"loadLevels":["low"],"duration":30,"model":"openai"}`)
			assert.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.msg, body.Error)
		})
	}
}

func TestGenerate_BadInput(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/menus", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/v1/menus", `{"loadLevels":["brutal"],"duration":30,"model":"openai"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeError(t, rec).Code)
}

func TestMenus_ListGetDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	saved := testutil.NewTestRecord("Stored")
	require.NoError(t, env.menus.Save(ctx, saved, nil))

	rec := env.do(http.MethodGet, "/api/v1/menus?limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []app.MenuSummary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, saved.ID, list[0].ID)

	rec = env.do(http.MethodGet, "/api/v1/menus/"+saved.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.MenuRecord
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, saved.Menu, got.Menu)

	rec = env.do(http.MethodDelete, "/api/v1/menus/"+saved.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/menus/"+saved.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(http.MethodDelete, "/api/v1/menus/"+saved.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMenus_ListBadLimit(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/api/v1/menus?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	saved := testutil.NewTestRecord("Exported")
	require.NoError(t, env.menus.Save(context.Background(), saved, nil))

	rec := env.do(http.MethodGet, "/api/v1/menus/"+saved.ID+"/export?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("section,description")))

	rec = env.do(http.MethodGet, "/api/v1/menus/"+saved.ID+"/export?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/menus/nope/export", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)
	env.search.hits = []domain.RetrievalHit{{ID: "a", Similarity: 0.9}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/menus/search?duration=60&load=low,high&notes=kick&k=3", nil)
	req.Header.Set("X-Embedding-Key", "ek")
	rec := httptest.NewRecorder()
	env.srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var hits []domain.RetrievalHit
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&hits))
	assert.Equal(t, "a", hits[0].ID)
	assert.Equal(t, 60, env.search.lastReq.Duration)
	assert.Equal(t, 3, env.search.lastReq.TopK)
	assert.Equal(t, "ek", env.search.lastReq.Credentials)

	rec = env.do(http.MethodGet, "/api/v1/menus/search?duration=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env.search.err = app.ErrNoEmbeddingCredentials
	rec = env.do(http.MethodGet, "/api/v1/menus/search?duration=60", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodOptions, "/api/v1/menus", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	h := RequestLogging(slog.New(slog.NewTextHandler(&buf, nil)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Contains(t, buf.String(), "status=418")
	assert.Contains(t, buf.String(), "path=/x")
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
