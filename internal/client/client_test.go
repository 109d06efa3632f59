package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mendizabala/dual/internal/model"
	"mendizabala/dual/internal/session"
)

type recorded struct {
	method string
	path   string
	query  string
	auth   string
	body   map[string]json.RawMessage
}

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, auth: r.Header.Get("Authorization")}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &rec.body)
		}
		calls = append(calls, rec)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func TestLoginStoresTokenAndSendsBearer(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Sesión iniciada", "token": "tok-1", "userId": "u1", "email": "ane@mendizabala.eus", "roles": []string{"teacher"}})
		case "/api/teachers":
			writeJSON(w, http.StatusOK, []map[string]interface{}{{"id": "t1", "name": "Ane", "email": "ane@mendizabala.eus", "substitute_name": "Jon"}})
		default:
			http.NotFound(w, r)
		}
	})

	path := filepath.Join(t.TempDir(), "session.json")
	state := session.New(path)
	c := New(srv.URL+"/api/", state)

	sess, err := c.Login(context.Background(), "ane@mendizabala.eus", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", sess.Token)
	assert.Equal(t, "tok-1", state.Token())
	assert.Equal(t, []string{"teacher"}, state.Roles())

	reloaded, err := session.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", reloaded.Token())

	teachers, err := c.ListTeachers(context.Background(), "an")
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "Jon", teachers[0].DisplayName())

	require.Len(t, *calls, 2)
	assert.Equal(t, "", (*calls)[0].auth)
	assert.Equal(t, "Bearer tok-1", (*calls)[1].auth)
	assert.Equal(t, "q=an", (*calls)[1].query)
}

func TestUnauthorizedClearsSession(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
	})

	state := session.New("")
	state.Begin("stale", []string{"admin"})
	c := New(srv.URL, state)

	_, err := c.ListCompanies(context.Background(), CompanyFilter{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, "invalid_token", Code(err))
	assert.Equal(t, "", state.Token())
	assert.Empty(t, state.Roles())
}

func TestAPIErrorCarriesServerCode(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "company_not_found"})
	})
	state := session.New("")
	state.Begin("tok", nil)
	c := New(srv.URL, state)

	_, err := c.DeleteCompany(context.Background(), "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "company_not_found", apiErr.Code)
	assert.False(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, "tok", state.Token())
}

func TestNonJSONErrorFallsBack(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	_, err := New(srv.URL, session.New("")).Me(context.Background())
	assert.Equal(t, "request_failed", Code(err))
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := New(base, session.New("")).ListTeachers(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestPatchSendsOnlySetFields(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"id": "c1", "name": "Acme", "status": "red", "demand_dual1": 0})
	})
	c := New(srv.URL, session.New(""))

	company, err := c.UpdateCompany(context.Background(), "c1", CompanyPatch{
		Location:    model.Null[string](),
		Status:      model.Set("red"),
		DemandDual1: model.Set[int32](0),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusRed, company.Status)

	body := (*calls)[0].body
	assert.Equal(t, http.MethodPut, (*calls)[0].method)
	assert.Equal(t, "/companies/c1", (*calls)[0].path)
	assert.Len(t, body, 3)
	assert.JSONEq(t, "null", string(body["location"]))
	assert.JSONEq(t, `"red"`, string(body["status"]))
	assert.JSONEq(t, "0", string(body["demandDual1"]))
	assert.NotContains(t, body, "name")
}

func TestAssignCompanyUnassignSendsNull(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"id": "c1", "name": "Acme", "status": "green", "assigned_teacher_id": nil})
	})
	c := New(srv.URL, session.New(""))

	company, err := c.AssignCompany(context.Background(), "c1", nil)
	require.NoError(t, err)
	assert.Nil(t, company.AssignedTeacherID)
	assert.Equal(t, "/companies/c1/assignment", (*calls)[0].path)
	assert.JSONEq(t, "null", string((*calls)[0].body["teacherId"]))
}

func TestVerifyOTPSelectsDevRole(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Sesión iniciada", "token": "dev", "userId": "dev-admin", "email": "x@mendizabala.eus", "role": "admin"})
	})
	state := session.New("")
	_, err := New(srv.URL, state).VerifyOTP(context.Background(), "x@mendizabala.eus", "123456")
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, state.Roles())
	assert.Equal(t, "admin", state.ActiveRole())
}
