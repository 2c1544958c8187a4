package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhucNguyen204/cpe_engine/cpe"
	"github.com/PhucNguyen204/cpe_engine/matching"
)

func testMux(t *testing.T, s *AppServer) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return mux
}

func withKnown(t *testing.T, s *AppServer, names ...string) {
	t.Helper()
	set := matching.NewSet()
	for _, raw := range names {
		n, err := cpe.ParseName(raw)
		require.NoError(t, err, raw)
		set.Add(n)
	}
	s.SwapKnown(set)
}

func TestHandleHealth(t *testing.T) {
	s, _ := newMockServer(t)
	rr := httptest.NewRecorder()
	testMux(t, s).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestHandleMatch(t *testing.T) {
	s, _ := newMockServer(t)
	withKnown(t, s,
		"cpe:/o:microsoft:windows_2000::sp3:pro",
		"cpe:/a:microsoft:ie:5.5",
	)
	mux := testMux(t, s)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/match",
		strings.NewReader(`{"name":"cpe:/o:microsoft:windows_2000"}`)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"match":true}`, rr.Body.String())

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/match",
		strings.NewReader(`{"name":"cpe:/a:redhat:openshift"}`)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"match":false}`, rr.Body.String())

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/match",
		strings.NewReader(`{"name":"garbage everywhere"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/match", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHandleConvert(t *testing.T) {
	s, _ := newMockServer(t)
	mux := testMux(t, s)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/convert",
		strings.NewReader(`{"name":"cpe:/a:hp:insight_diagnostics:7.4.0.1570:-:~~online~win2003~x64~","target":"fs"}`)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t,
		`{"name":"cpe:2.3:a:hp:insight_diagnostics:7.4.0.1570:-:*:*:online:win2003:x64:*"}`,
		rr.Body.String())

	// Infeasible conversions surface as bad requests.
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/convert",
		strings.NewReader(`{"name":"cpe://cisco::3825;cisco:2:44/cisco:ios:12.3","target":"fs"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/convert",
		strings.NewReader(`{"name":"cpe:/a:microsoft:ie:5.5","target":"png"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleEvaluate(t *testing.T) {
	s, _ := newMockServer(t)
	withKnown(t, s,
		"cpe:2.3:o:sun:solaris:5.9:*:*:*:*:*:*:*",
		"cpe:2.3:a:bea:weblogic:8.1:*:*:*:*:*:*:*",
	)
	mux := testMux(t, s)

	doc := `{"configurations":{"nodes":[{"operator":"AND","children":[
	  {"operator":"OR","cpe_match":[
	    {"cpe23Uri":"cpe:2.3:o:sun:solaris:5.8:*:*:*:*:*:*:*","vulnerable":true},
	    {"cpe23Uri":"cpe:2.3:o:sun:solaris:5.9:*:*:*:*:*:*:*","vulnerable":true}]},
	  {"operator":"OR","cpe_match":[
	    {"cpe23Uri":"cpe:2.3:a:bea:weblogic:8.1:*:*:*:*:*:*:*","vulnerable":true}]}
	]}]}}`
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", strings.NewReader(doc)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"match":true}`, rr.Body.String())

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/evaluate",
		strings.NewReader(`{"configurations":{"nodes":[]}}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleNames(t *testing.T) {
	s, mock := newMockServer(t)
	mux := testMux(t, s)

	mock.ExpectExec("INSERT INTO cpe_names").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/names",
		strings.NewReader(`{"name":"cpe:/a:bea:weblogic:8.1"}`)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"added":true}`, rr.Body.String())

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/names", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "cpe:/a:bea:weblogic:8.1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleStats(t *testing.T) {
	s, _ := newMockServer(t)
	withKnown(t, s, "cpe:/a:bea:weblogic:8.1")
	rr := httptest.NewRecorder()
	testMux(t, s).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"known_names":1}`, rr.Body.String())
}
