package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mendizabala/dual/internal/session"
)

func init() {
	color.NoColor = true
}

type fakeAPI struct {
	mu           sync.Mutex
	unauthorized bool
	assignedTo   interface{}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	if f.unauthorized || r.Header.Get("Authorization") != "Bearer tok" {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_token"})
		return
	}
	switch {
	case r.URL.Path == "/api/auth/me":
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "u1", "email": "ane@mendizabala.eus", "name": "Ane", "roles": []string{"admin"}})
	case r.URL.Path == "/api/teachers":
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": "t1", "name": "Miren", "email": "miren@mendizabala.eus", "substitute_name": "Zuriñe"},
		})
	case r.URL.Path == "/api/companies":
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": "c1", "name": "Acme", "status": "green", "assigned_teacher_id": f.assignedTo, "demand_dual1": 2},
			{"id": "c2", "name": "Beta, S.L.", "status": "red", "assigned_teacher_id": nil},
		})
	case r.URL.Path == "/api/companies/c1/assignment" && r.Method == http.MethodPut:
		var body struct {
			TeacherID *string `json:"teacherId"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.TeacherID == nil {
			f.assignedTo = nil
		} else {
			f.assignedTo = *body.TeacherID
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "c1", "name": "Acme", "status": "green", "assigned_teacher_id": f.assignedTo})
	default:
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
	}
}

func setup(t *testing.T) (*fakeAPI, func(args ...string) (int, string, string), string) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "session.json")
	state := session.New(path)
	state.Begin("tok", []string{"admin"})
	require.NoError(t, state.SelectRole("admin"))
	require.NoError(t, state.Save())

	exec := func(args ...string) (int, string, string) {
		var stdout, stderr bytes.Buffer
		full := append([]string{"--api", srv.URL + "/api", "--session", path}, args...)
		code := run(context.Background(), full, &stdout, &stderr)
		return code, stdout.String(), stderr.String()
	}
	return api, exec, path
}

func TestBoardRendersColumns(t *testing.T) {
	_, exec, _ := setup(t)

	code, out, stderr := exec("board")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "Esleitu gabe (2)")
	assert.Contains(t, out, "Zuriñe (0)")
	assert.Contains(t, out, "[Gorria] Beta, S.L.")

	code, _, _ = exec("lang", "es")
	require.Equal(t, 0, code)
	_, out, _ = exec("board")
	assert.Contains(t, out, "Sin asignar (2)")
}

func TestAssignAndUnassign(t *testing.T) {
	_, exec, _ := setup(t)

	code, out, stderr := exec("assign", "c1", "t1")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "Zuriñe")

	_, out, _ = exec("board")
	assert.Contains(t, out, "Zuriñe (1)")

	code, out, _ = exec("unassign", "c1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Esleitu gabe")
}

func TestExpiredSessionReturnsToLogin(t *testing.T) {
	api, exec, path := setup(t)
	api.mu.Lock()
	api.unauthorized = true
	api.mu.Unlock()

	code, _, stderr := exec("teachers", "list")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "not logged in")

	state, err := session.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "", state.Token())
}

func TestExportCompaniesCSV(t *testing.T) {
	_, exec, _ := setup(t)

	code, out, stderr := exec("export", "csv", "companies")
	require.Equal(t, 0, code, stderr)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "id,name,location"))
	assert.Contains(t, lines[2], `"Beta, S.L."`)

	code, _, stderr = exec("export", "xml", "companies")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unsupported export format")
}

func TestRoleCommandRejectsUnknownRole(t *testing.T) {
	_, exec, _ := setup(t)

	code, out, _ := exec("role")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "* admin")

	code, _, stderr := exec("role", "company")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown_role")
}
