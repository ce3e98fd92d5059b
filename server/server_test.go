package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rjegjin/Specific-Skills-and-Accomplishments/generator"
	"github.com/rjegjin/Specific-Skills-and-Accomplishments/record"
)

const resultsPath = "out/results.json"

func newTestServer(t *testing.T, records []record.IntegratedRecord) http.Handler {
	t.Helper()
	fsys := afero.NewMemMapFs()
	if records != nil {
		require.NoError(t, record.SaveResults(fsys, resultsPath, records))
	}
	srv, err := New(fsys, resultsPath, generator.NewTermSet(generator.DefaultProhibitedTerms), nil)
	require.NoError(t, err)
	return srv.Routes()
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

var sampleRecords = []record.IntegratedRecord{
	{Name: "김민수", Course: "발표하였음.", Career: "[⚠️금지어주의: 대학교] 대학교 탐방에 참여하였음."},
	{Name: "이서연", Behavior: "배려하였음."},
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, resultsPath, generator.TermSet{}, nil)
	assert.Error(t, err)
	_, err = New(afero.NewMemMapFs(), "", generator.TermSet{}, nil)
	assert.Error(t, err)
}

func TestHandleList_NoResults(t *testing.T) {
	rec := serve(newTestServer(t, nil), http.MethodGet, "/api/students", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandleList(t *testing.T) {
	rec := serve(newTestServer(t, sampleRecords), http.MethodGet, "/api/students", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []studentSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "김민수", got[0].Name)
	assert.Equal(t, 16, got[0].Bytes["course"])
	assert.Equal(t, "⚠️금지어주의(대학교)", got[0].Status)
	assert.Equal(t, generator.StatusAllClean, got[1].Status)
}

func TestHandleStudent(t *testing.T) {
	h := newTestServer(t, sampleRecords)

	rec := serve(h, http.MethodGet, "/api/students/"+url.PathEscape("이서연"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "이서연", got["name"])
	assert.Equal(t, "배려하였음.", got["behavior"])
	assert.Equal(t, generator.StatusAllClean, got["status"])

	rec = serve(h, http.MethodGet, "/api/students/"+url.PathEscape("박하늘"), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"student not found: 박하늘"}`, rec.Body.String())
}

func TestHandlePreview(t *testing.T) {
	rec := serve(newTestServer(t, sampleRecords), http.MethodGet, "/api/students/"+url.PathEscape("김민수")+"/preview", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<h2>김민수</h2>")
	assert.Contains(t, rec.Body.String(), "<title>김민수</title>")
}

func TestHandleValidate(t *testing.T) {
	h := newTestServer(t, nil)

	rec := serve(h, http.MethodPost, "/api/validate", `{"text":"**초안**\n김민수는 대학교 탐방에 참여하였음.","name":"김민수"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var got validateResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "[⚠️금지어주의: 대학교] 대학교 탐방에 참여하였음.", got.Text)
	assert.Equal(t, []string{"대학교"}, got.Flagged)
	assert.Equal(t, "⚠️금지어주의(대학교)", got.Status)

	rec = serve(h, http.MethodPost, "/api/validate", `{"text":"대학교 탐방","embed":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "대학교 탐방", got.Text)
	assert.Equal(t, 16, got.Bytes)

	rec = serve(h, http.MethodPost, "/api/validate", `{"text":"참여하였음."}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"flagged":[]`)

	rec = serve(h, http.MethodPost, "/api/validate", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleValidate_BodyTooLarge(t *testing.T) {
	h := newTestServer(t, nil)

	big := `{"text":"` + strings.Repeat("가", maxValidateBody/3+1) + `"}`
	rec := serve(h, http.MethodPost, "/api/validate", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	fits := `{"text":"` + strings.Repeat("가", 1000) + `"}`
	rec = serve(h, http.MethodPost, "/api/validate", fits)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	rec := serve(newTestServer(t, nil), http.MethodDelete, "/api/students", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
