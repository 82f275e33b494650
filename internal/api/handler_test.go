package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"countystats/internal/ai"
	internaldb "countystats/internal/db"
	"countystats/internal/db/repository"
	"countystats/internal/domain"
	"countystats/internal/engine"
	"countystats/internal/middleware"
	"countystats/internal/service"
)

const testJWTSecret = "handler-test-secret"

type echoProvider struct{ reply string }

func (p *echoProvider) Complete(context.Context, string, string) (string, error) {
	return p.reply, nil
}

type testServer struct {
	srv   *httptest.Server
	users *repository.UserRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, _ := internaldb.OpenTestSQLite(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	userRepo := repository.NewUserRepo(db)
	overrideRepo := repository.NewOverrideRepo(db)
	promptRepo := repository.NewPromptConfigRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	historyRepo := repository.NewQueryHistoryRepo(db)
	countyRepo := repository.NewCountyRepo(db)
	infraRepo := repository.NewInfrastructureRepo(db)
	agriRepo := repository.NewAgricultureSaleRepo(db)
	economyRepo := repository.NewCountyEconomyRepo(db)
	demoRepo := repository.NewCountyDemographicsRepo(db)
	statsRepo := repository.NewStatsRepo(db)

	executor := engine.NewExecutor(db, logger)
	generator := ai.NewGenerator(&echoProvider{}, promptRepo, false, logger)

	permissions := service.NewPermissionService(overrideRepo)
	authSvc := service.NewAuthService(userRepo, auditRepo, []byte(testJWTSecret))
	querySvc := service.NewQueryService(executor, generator, permissions, historyRepo, auditRepo, logger)
	userSvc := service.NewUserService(userRepo, overrideRepo, permissions, auditRepo)
	promptSvc := service.NewPromptService(promptRepo, generator, auditRepo)
	recordSvc := service.NewRecordService(countyRepo, infraRepo, agriRepo, economyRepo, demoRepo, permissions)
	infoSvc := service.NewInfoService(statsRepo, historyRepo, auditRepo)

	handler := NewHandler(authSvc, querySvc, userSvc, promptSvc, recordSvc, infoSvc, logger)

	r := chi.NewRouter()
	handler.PublicRoutes(r)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Auth([]byte(testJWTSecret), userRepo))
		handler.Routes(r)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, users: userRepo}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// registerAndLogin creates an account via the API and returns its token.
func (ts *testServer) registerAndLogin(t *testing.T, username string) string {
	t.Helper()
	resp := ts.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func (ts *testServer) promote(t *testing.T, username string) {
	t.Helper()
	u, err := ts.users.GetByUsername(context.Background(), username)
	require.NoError(t, err)
	require.NoError(t, ts.users.SetSuperuser(context.Background(), u.ID, true))
}

func (ts *testServer) grantRole(t *testing.T, username string, role domain.Role) {
	t.Helper()
	u, err := ts.users.GetByUsername(context.Background(), username)
	require.NoError(t, err)
	require.NoError(t, ts.users.SetRole(context.Background(), u.ID, role))
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "short",
		"password": "tiny",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterDuplicate(t *testing.T) {
	ts := newTestServer(t)
	ts.registerAndLogin(t, "dup")

	resp := ts.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "dup",
		"email":    "dup2@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLoginBadPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.registerAndLogin(t, "alice")

	resp := ts.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/v1/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRunSQLReadThenError(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAndLogin(t, "reader")

	resp := ts.do(t, http.MethodPost, "/v1/sql", token, map[string]string{
		"sql": "SELECT COUNT(*) AS n FROM core_county",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ok executionResponse
	decodeBody(t, resp, &ok)
	assert.Empty(t, ok.Error)
	assert.Equal(t, []string{"n"}, ok.Columns)

	// Bad SQL still answers 200; the error travels in the payload.
	resp = ts.do(t, http.MethodPost, "/v1/sql", token, map[string]string{
		"sql": "SELECT * FROM no_such_table",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var bad executionResponse
	decodeBody(t, resp, &bad)
	assert.NotEmpty(t, bad.Error)
}

func TestRunSQLWriteForbidden(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAndLogin(t, "viewer")

	resp := ts.do(t, http.MethodPost, "/v1/sql", token, map[string]string{
		"sql": "DELETE FROM core_county",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRunSQLWriteAllowedForDataEntry(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAndLogin(t, "editor")
	ts.grantRole(t, "editor", domain.RoleDataEntry)

	resp := ts.do(t, http.MethodPost, "/v1/sql", token, map[string]string{
		"sql": "INSERT INTO core_county (name, province) VALUES ('Huichang', 'Jiangxi')",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out executionResponse
	decodeBody(t, resp, &out)
	assert.Empty(t, out.Error)
	assert.Equal(t, 1, out.RowCount)
}

func TestSmartQueryNotConfigured(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAndLogin(t, "asker")

	resp := ts.do(t, http.MethodPost, "/v1/smart", token, map[string]string{
		"question": "how many counties",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out smartQueryResponse
	decodeBody(t, resp, &out)
	assert.Empty(t, out.SQL)
	assert.Nil(t, out.Result)
	assert.Contains(t, out.Explanation, "not configured")
}

func TestProfileShape(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAndLogin(t, "profiled")

	resp := ts.do(t, http.MethodGet, "/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		User           userResponse              `json:"user"`
		Permissions    []tablePermissionResponse `json:"permissions"`
		AvailableRoles []string                  `json:"available_roles"`
	}
	decodeBody(t, resp, &out)
	assert.Equal(t, "profiled", out.User.Username)
	assert.Len(t, out.Permissions, 5)
	assert.ElementsMatch(t, []string{"data_entry", "analyst"}, out.AvailableRoles)
	for _, p := range out.Permissions {
		assert.True(t, p.View, "authenticated users view by default")
		assert.False(t, p.Edit)
	}
}

func TestAdminEndpointsForbiddenForRegularUser(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAndLogin(t, "pleb")

	for _, path := range []string{"/v1/users", "/v1/audit", "/v1/prompt"} {
		resp := ts.do(t, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
	}
}

func TestAdminUserManagement(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.registerAndLogin(t, "boss")
	ts.promote(t, "boss")
	ts.registerAndLogin(t, "worker")

	resp := ts.do(t, http.MethodGet, "/v1/users?search=work", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []struct {
		User userResponse `json:"user"`
	}
	decodeBody(t, resp, &list)
	require.Len(t, list, 1)
	workerID := list[0].User.ID

	resp = ts.do(t, http.MethodPost, "/v1/users/"+itoa(workerID)+"/role", adminToken, map[string]string{"role": "data_entry"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.do(t, http.MethodPut, "/v1/users/"+itoa(workerID)+"/permissions", adminToken, map[string]interface{}{
		"table": "economy", "can_view": false, "can_edit": false,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.do(t, http.MethodDelete, "/v1/users/"+itoa(workerID), adminToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = ts.do(t, http.MethodDelete, "/v1/users/99999", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRecordsCRUDAndGating(t *testing.T) {
	ts := newTestServer(t)
	editorToken := ts.registerAndLogin(t, "editor")
	ts.grantRole(t, "editor", domain.RoleDataEntry)
	viewerToken := ts.registerAndLogin(t, "viewer")

	resp := ts.do(t, http.MethodPost, "/v1/county", editorToken, countyPayload{Name: "Anyuan", Province: "Jiangxi"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created countyPayload
	decodeBody(t, resp, &created)
	assert.Positive(t, created.CountyID)

	// Viewers read but cannot write.
	resp = ts.do(t, http.MethodGet, "/v1/county", viewerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all []countyPayload
	decodeBody(t, resp, &all)
	assert.Len(t, all, 1)

	resp = ts.do(t, http.MethodPost, "/v1/county", viewerToken, countyPayload{Name: "Xunwu", Province: "Jiangxi"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Update through the API.
	city := "Ganzhou"
	resp = ts.do(t, http.MethodPut, "/v1/county/"+itoa(created.CountyID), editorToken, countyPayload{
		Name: "Anyuan", Province: "Jiangxi", City: &city,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated countyPayload
	decodeBody(t, resp, &updated)
	require.NotNil(t, updated.City)
	assert.Equal(t, "Ganzhou", *updated.City)

	resp = ts.do(t, http.MethodGet, "/v1/county/99999", viewerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Duplicate (name, province) conflicts.
	resp = ts.do(t, http.MethodPost, "/v1/county", editorToken, countyPayload{Name: "Anyuan", Province: "Jiangxi"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestTablesAndStats(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAndLogin(t, "anyone")

	resp := ts.do(t, http.MethodGet, "/v1/tables", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tables []struct {
		Key          string `json:"key"`
		PhysicalName string `json:"physical_name"`
	}
	decodeBody(t, resp, &tables)
	require.Len(t, tables, 5)
	assert.Equal(t, "county", tables[0].Key)
	assert.Equal(t, "core_county", tables[0].PhysicalName)

	resp = ts.do(t, http.MethodGet, "/v1/stats", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats map[string]interface{}
	decodeBody(t, resp, &stats)
	assert.Contains(t, stats, "county_count")
	assert.Contains(t, stats, "avg_gdp_total")
}

func TestHistoryIsScopedToUser(t *testing.T) {
	ts := newTestServer(t)
	aToken := ts.registerAndLogin(t, "a")
	bToken := ts.registerAndLogin(t, "b")

	resp := ts.do(t, http.MethodPost, "/v1/sql", aToken, map[string]string{"sql": "SELECT 1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = ts.do(t, http.MethodPost, "/v1/sql", bToken, map[string]string{"sql": "SELECT 2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/v1/history", aToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entries []map[string]interface{}
	decodeBody(t, resp, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0]["username"])

	// Superusers see everyone.
	ts.promote(t, "a")
	resp = ts.do(t, http.MethodGet, "/v1/history", aToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &entries)
	assert.Len(t, entries, 2)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
