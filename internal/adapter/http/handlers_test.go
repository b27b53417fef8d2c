package adapthttp_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	adapthttp "sortstore/internal/adapter/http"
	"sortstore/internal/adapter/memory"
	"sortstore/internal/app"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler() http.Handler {
	db := memory.New()
	return adapthttp.New(
		app.NewAuthService(db),
		app.NewArrayService(db),
		app.NewHistoryService(db),
		zap.NewNop(),
	).Handler()
}

func do(t *testing.T, h http.Handler, method, target, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func register(t *testing.T, h http.Handler, username, password string) string {
	t.Helper()
	w := do(t, h, http.MethodPost, "/register?username="+username+"&password="+password, "")
	require.Equal(t, http.StatusCreated, w.Code)
	token, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func arrayOf(t *testing.T, body map[string]any) []int {
	t.Helper()
	raw, ok := body["array"].([]any)
	require.True(t, ok, "response must carry an array field: %v", body)
	out := make([]int, len(raw))
	for i, v := range raw {
		out[i] = int(v.(float64))
	}
	return out
}

func TestHealth(t *testing.T) {
	h := newTestHandler()
	w := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["ok"])
}

func TestRegisterEndpoint(t *testing.T) {
	h := newTestHandler()

	w := do(t, h, http.MethodPost, "/register?username=alice&password=pw1", "")
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "User registered successfully", body["message"])
	assert.NotEmpty(t, body["token"])

	w = do(t, h, http.MethodPost, "/register?username=alice&password=other", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already exists", decode(t, w)["error"])

	w = do(t, h, http.MethodPost, "/register?username=&password=pw", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username and password required", decode(t, w)["error"])
}

func TestLoginEndpoint(t *testing.T) {
	h := newTestHandler()
	regToken := register(t, h, "alice", "pw1")

	w := do(t, h, http.MethodPost, "/login?username=alice&password=wrong", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, decode(t, w)["error"])

	w = do(t, h, http.MethodPost, "/login?username=nobody&password=pw1", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodPost, "/login?username=alice&password=pw1", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Login successful", body["message"])
	assert.NotEmpty(t, body["token"])
	assert.NotEqual(t, regToken, body["token"], "login must issue a fresh token")
}

func TestAuthCheckedBeforeInput(t *testing.T) {
	h := newTestHandler()

	// Malformed request without a token: 401, never 400.
	w := do(t, h, http.MethodPatch, "/array", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, decode(t, w)["error"])

	w = do(t, h, http.MethodPost, "/array/create?size=-1", "bogus-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Non-bearer scheme is not accepted.
	token := register(t, h, "alice", "pw1")
	req := httptest.NewRequest(http.MethodGet, "/array", nil)
	req.Header.Set("Authorization", "Basic "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerSchemeCaseInsensitive(t *testing.T) {
	h := newTestHandler()
	token := register(t, h, "alice", "pw1")

	for _, scheme := range []string{"Bearer", "bearer", "BEARER"} {
		req := httptest.NewRequest(http.MethodGet, "/array", nil)
		req.Header.Set("Authorization", scheme+" "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		// 404: the token was accepted, there is just no array yet.
		assert.Equal(t, http.StatusNotFound, rec.Code, "scheme %q", scheme)
	}
}

func TestTokenRotation(t *testing.T) {
	h := newTestHandler()
	t1 := register(t, h, "a", "pw1")

	w := do(t, h, http.MethodPost, "/login?username=a&password=pw1", "")
	require.Equal(t, http.StatusOK, w.Code)
	t2, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, t2)

	// The registration token died the moment login issued a new one.
	w = do(t, h, http.MethodGet, "/array", t1)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodPatch, "/change_password?newPassword=pw2", t2)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Password changed", body["message"])
	t3, _ := body["newToken"].(string)
	require.NotEmpty(t, t3)
	require.NotEqual(t, t2, t3)

	// The token that authorized the change is itself now invalid.
	w = do(t, h, http.MethodGet, "/array", t2)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = do(t, h, http.MethodGet, "/array", t3)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Old password no longer logs in; new one does.
	w = do(t, h, http.MethodPost, "/login?username=a&password=pw1", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = do(t, h, http.MethodPost, "/login?username=a&password=pw2", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChangePasswordEmpty(t *testing.T) {
	h := newTestHandler()
	token := register(t, h, "alice", "pw1")

	w := do(t, h, http.MethodPatch, "/change_password", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "New password is required", decode(t, w)["error"])
}

func TestArrayLifecycle(t *testing.T) {
	h := newTestHandler()
	token := register(t, h, "alice", "pw1")

	// No array yet.
	w := do(t, h, http.MethodGet, "/array", token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Array not found", decode(t, w)["error"])

	w = do(t, h, http.MethodPost, "/array/sort/shell", token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPatch, "/array?newSize=3", token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Array not found. Create an array first (/array/create)", decode(t, w)["error"])

	// Invalid create sizes.
	for _, target := range []string{"/array/create", "/array/create?size=0", "/array/create?size=-2", "/array/create?size=abc"} {
		w = do(t, h, http.MethodPost, target, token)
		assert.Equal(t, http.StatusBadRequest, w.Code, "target %s", target)
		assert.Equal(t, "Size must be > 0", decode(t, w)["error"])
	}

	// Create.
	w = do(t, h, http.MethodPost, "/array/create?size=5", token)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Array created/updated", body["message"])
	created := arrayOf(t, body)
	require.Len(t, created, 5)
	for _, v := range created {
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 100)
	}

	// Get returns what create stored.
	w = do(t, h, http.MethodGet, "/array", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, arrayOf(t, decode(t, w)))

	// Sort: ascending and same multiset, persisted.
	w = do(t, h, http.MethodPost, "/array/sort/shell", token)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, "Shell sort completed", body["message"])
	sorted := arrayOf(t, body)
	assert.True(t, sort.IntsAreSorted(sorted))
	wantSorted := append([]int(nil), created...)
	sort.Ints(wantSorted)
	assert.Equal(t, wantSorted, sorted)

	w = do(t, h, http.MethodGet, "/array", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, sorted, arrayOf(t, decode(t, w)), "sorted result must be persisted")

	// Patch: newValues wins over newSize.
	w = do(t, h, http.MethodPatch, "/array?newSize=3&newValues=7&newValues=7", token)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, "Array updated", body["message"])
	assert.Equal(t, []int{7, 7}, arrayOf(t, body))

	// Patch: newSize alone regenerates.
	w = do(t, h, http.MethodPatch, "/array?newSize=4", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, arrayOf(t, decode(t, w)), 4)

	// Patch: newValues round-trips negatives and duplicates.
	w = do(t, h, http.MethodPatch, "/array?newValues=-5&newValues=0&newValues=-5", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{-5, 0, -5}, arrayOf(t, decode(t, w)))

	// Patch: nothing effective to update, signaled under "message".
	for _, target := range []string{"/array", "/array?newSize=0", "/array?newSize=-1"} {
		w = do(t, h, http.MethodPatch, target, token)
		assert.Equal(t, http.StatusBadRequest, w.Code, "target %s", target)
		body = decode(t, w)
		assert.Equal(t, "Nothing to update. Provide newSize>0 or newValues.", body["message"])
		assert.NotContains(t, body, "error")
	}

	// Malformed patch parameters.
	w = do(t, h, http.MethodPatch, "/array?newSize=abc", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, h, http.MethodPatch, "/array?newValues=1&newValues=x", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestArraysAreIsolatedPerUser(t *testing.T) {
	h := newTestHandler()
	alice := register(t, h, "alice", "pw1")
	bob := register(t, h, "bob", "pw2")

	w := do(t, h, http.MethodPost, "/array/create?size=3", alice)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/array", bob)
	assert.Equal(t, http.StatusNotFound, w.Code, "bob must not see alice's array")
}

func TestRequestHistory(t *testing.T) {
	h := newTestHandler()
	token := register(t, h, "alice", "pw1")

	// Three authenticated calls; register itself is never recorded.
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/array/create?size=3", token).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/array", token).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/array/sort/shell", token).Code)

	w := do(t, h, http.MethodGet, "/requests_history", token)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []struct {
		ID       int64  `json:"id"`
		Endpoint string `json:"endpoint"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 3, "the listing call must not appear in its own result")
	assert.Equal(t, "POST /array/sort/shell", entries[0].Endpoint)
	assert.Equal(t, "GET /array", entries[1].Endpoint)
	assert.Equal(t, "POST /array/create", entries[2].Endpoint)

	// The previous listing shows up once we list again.
	w = do(t, h, http.MethodGet, "/requests_history", token)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 4)
	assert.Equal(t, "GET /requests_history", entries[0].Endpoint)

	// Clearing records itself after the delete.
	w = do(t, h, http.MethodDelete, "/requests_history", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Request history deleted", decode(t, w)["message"])

	w = do(t, h, http.MethodGet, "/requests_history", token)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "DELETE /requests_history", entries[0].Endpoint)
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler()
	token := register(t, h, "alice", "pw1")

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodGet, "/register?username=x&password=y", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodGet, "/login?username=x&password=y", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodPost, "/change_password?newPassword=x", token).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodDelete, "/array", token).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodGet, "/array/sort/shell", token).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodPost, "/requests_history", token).Code)
}
