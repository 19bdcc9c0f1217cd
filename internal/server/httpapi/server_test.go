package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/server/config"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tasktracker/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type stubPresigner struct{}

func (stubPresigner) PresignPut(ctx context.Context, key string) (string, error) {
	return "http://s3/put/" + key, nil
}

func (stubPresigner) PresignGet(ctx context.Context, key string) (string, error) {
	return "http://s3/get/" + key, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, health HealthFunc) http.Handler {
	t.Helper()
	m := repomanager.NewMemoryRepositoryManager()
	cfg := &config.Config{
		SecretKey:                    "secret",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: time.Hour,
	}
	s := NewHTTPServer(":0", nopLogger{}, services.NewUserService(m, cfg), services.NewTaskService(m, stubPresigner{}), health)
	return s.Handler()
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func registerUser(t *testing.T, h http.Handler, name, email string) string {
	t.Helper()
	rec, out := do(t, h, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": name, "email": email, "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return out["token"].(string)
}

func TestHealth(t *testing.T) {
	rec, out := do(t, newTestServer(t, nil), http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", out["status"])

	failing := func(context.Context) error { return errors.New("db down") }
	rec, _ = do(t, newTestServer(t, failing), http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestProtect(t *testing.T) {
	h := newTestServer(t, nil)

	rec, out := do(t, h, http.MethodGet, "/api/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, no token", out["message"])

	rec, out = do(t, h, http.MethodGet, "/api/tasks", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, token failed", out["message"])

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Basic abc")
	raw := httptest.NewRecorder()
	h.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusUnauthorized, raw.Code)
}

func TestTaskScenario(t *testing.T) {
	h := newTestServer(t, nil)
	alice := registerUser(t, h, "Alice", "alice@example.com")
	bob := registerUser(t, h, "Bob", "bob@example.com")

	rec, created := do(t, h, http.MethodPost, "/api/tasks", alice, map[string]any{"title": "Buy milk"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := created["id"].(string)
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, "", created["description"])
	owner := created["owner"].(string)

	rec, updated := do(t, h, http.MethodPut, "/api/tasks/"+id, alice, map[string]any{"status": "completed", "owner": "someone-else"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "completed", updated["status"])
	assert.Equal(t, owner, updated["owner"])

	rec, out := do(t, h, http.MethodGet, "/api/tasks", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, out)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec, out = do(t, h, http.MethodDelete, "/api/tasks/"+id, bob, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User not authorized", out["message"])

	rec, out = do(t, h, http.MethodPut, "/api/tasks/"+id, bob, map[string]any{"title": "mine now"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User not authorized", out["message"])

	rec, out = do(t, h, http.MethodDelete, "/api/tasks/"+id, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"id": id}, out)

	rec, out = do(t, h, http.MethodDelete, "/api/tasks/"+id, alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", out["message"])

	rec, _ = do(t, h, http.MethodGet, "/api/tasks", alice, nil)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestCreateTask_Validation(t *testing.T) {
	h := newTestServer(t, nil)
	alice := registerUser(t, h, "Alice", "alice@example.com")

	rec, out := do(t, h, http.MethodPost, "/api/tasks", alice, map[string]any{"description": "no title"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid data", out["message"])

	rec, _ = do(t, h, http.MethodPost, "/api/tasks", alice, map[string]any{"title": "x", "status": "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/api/tasks", alice, map[string]any{"title": 12})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/api/tasks", alice, nil)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestUpdateTask_EmptyPatchAndMissing(t *testing.T) {
	h := newTestServer(t, nil)
	alice := registerUser(t, h, "Alice", "alice@example.com")

	_, created := do(t, h, http.MethodPost, "/api/tasks", alice, map[string]any{"title": "Buy milk", "description": "2l"})
	id := created["id"].(string)

	rec, updated := do(t, h, http.MethodPut, "/api/tasks/"+id, alice, map[string]any{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, updated)

	rec, out := do(t, h, http.MethodPut, "/api/tasks/does-not-exist", alice, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", out["message"])
}

func TestUpdateTask_NoBodyIsEmptyPatch(t *testing.T) {
	h := newTestServer(t, nil)
	alice := registerUser(t, h, "Alice", "alice@example.com")

	_, created := do(t, h, http.MethodPost, "/api/tasks", alice, map[string]any{"title": "Buy milk"})
	id := created["id"].(string)

	rec, updated := do(t, h, http.MethodPut, "/api/tasks/"+id, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, created, updated)

	req := httptest.NewRequest(http.MethodPut, "/api/tasks/"+id, bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+alice)
	raw := httptest.NewRecorder()
	h.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestUpdateTask_ForeignTaskWithBadInput(t *testing.T) {
	h := newTestServer(t, nil)
	alice := registerUser(t, h, "Alice", "alice@example.com")
	bob := registerUser(t, h, "Bob", "bob@example.com")

	_, created := do(t, h, http.MethodPost, "/api/tasks", alice, map[string]any{"title": "Buy milk"})
	id := created["id"].(string)

	rec, out := do(t, h, http.MethodPut, "/api/tasks/"+id, bob, map[string]any{"title": ""})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User not authorized", out["message"])

	rec, out = do(t, h, http.MethodPut, "/api/tasks/"+id, bob, map[string]any{"status": "bogus"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User not authorized", out["message"])

	rec, out = do(t, h, http.MethodPut, "/api/tasks/does-not-exist", alice, map[string]any{"title": ""})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", out["message"])

	rec, out = do(t, h, http.MethodPut, "/api/tasks/"+id, alice, map[string]any{"title": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid data", out["message"])
}

func TestAuthEndpoints(t *testing.T) {
	h := newTestServer(t, nil)

	rec, reg := do(t, h, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Alice", "email": "Alice@Example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	user := reg["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", user["email"])
	assert.NotContains(t, user, "password")

	rec, out := do(t, h, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Alice", "email": "alice@example.com", "password": "hunter22",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", out["message"])

	rec, _ = do(t, h, http.MethodPost, "/api/auth/register", "", map[string]any{"name": "X", "email": "x", "password": "hunter22"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "alice@example.com", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, login := do(t, h, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "alice@example.com", "password": "hunter22"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, pair := do(t, h, http.MethodPost, "/api/auth/refresh", "", map[string]any{"refreshToken": login["refreshToken"]})
	require.Equal(t, http.StatusOK, rec.Code)
	token := pair["token"].(string)

	rec, _ = do(t, h, http.MethodPost, "/api/auth/refresh", "", map[string]any{"refreshToken": login["refreshToken"]})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, me := do(t, h, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alice", me["name"])

	rec, _ = do(t, h, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/api/auth/refresh", "", map[string]any{"refreshToken": pair["refreshToken"]})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAttachmentEndpoints(t *testing.T) {
	h := newTestServer(t, nil)
	alice := registerUser(t, h, "Alice", "alice@example.com")
	bob := registerUser(t, h, "Bob", "bob@example.com")

	_, created := do(t, h, http.MethodPost, "/api/tasks", alice, map[string]any{"title": "Receipt"})
	id := created["id"].(string)

	rec, out := do(t, h, http.MethodGet, "/api/tasks/"+id+"/attachment", alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Attachment not found", out["message"])

	rec, _ = do(t, h, http.MethodPost, "/api/tasks/"+id+"/attachment", bob, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, attached := do(t, h, http.MethodPost, "/api/tasks/"+id+"/attachment", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	key := attached["key"].(string)

	rec, got := do(t, h, http.MethodGet, "/api/tasks/"+id+"/attachment", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://s3/get/"+key, got["url"])

	rec, out = do(t, h, http.MethodGet, "/api/tasks/missing/attachment", alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", out["message"])
}
