package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	adapthttp "sortstore/internal/adapter/http"
	"sortstore/internal/adapter/memory"
	"sortstore/internal/app"
	"sortstore/internal/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) *client.Client {
	t.Helper()
	db := memory.New()
	srv := httptest.NewServer(adapthttp.New(
		app.NewAuthService(db),
		app.NewArrayService(db),
		app.NewHistoryService(db),
		zap.NewNop(),
	).Handler())
	t.Cleanup(srv.Close)
	return client.New(srv.URL, srv.Client())
}

func TestClientAuthFlow(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	reg, err := c.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "User registered successfully", reg.Message)
	require.NotEmpty(t, reg.Token)

	login, err := c.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "Login successful", login.Message)
	require.NotEmpty(t, login.Token)
	assert.NotEqual(t, reg.Token, login.Token)

	// The registration token was rotated out by the login.
	_, err = c.GetArray(ctx, reg.Token)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	changed, err := c.ChangePassword(ctx, login.Token, "pw2")
	require.NoError(t, err)
	assert.Equal(t, "Password changed", changed.Message)
	require.NotEmpty(t, changed.NewToken)

	_, err = c.Login(ctx, "alice", "pw1")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	_, err = c.Login(ctx, "alice", "pw2")
	require.NoError(t, err)
}

func TestClientRegisterDuplicate(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = c.Register(ctx, "alice", "pw2")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "User already exists", apiErr.Message)
}

func TestClientArrayFlow(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	reg, err := c.Register(ctx, "alice", "pw")
	require.NoError(t, err)
	token := reg.Token

	_, err = c.GetArray(ctx, token)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Array not found", apiErr.Message)

	created, err := c.CreateArray(ctx, token, 5)
	require.NoError(t, err)
	assert.Equal(t, "Array created/updated", created.Message)
	require.Len(t, created.Array, 5)

	got, err := c.GetArray(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, created.Array, got)

	sorted, err := c.SortShell(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "Shell sort completed", sorted.Message)
	assert.True(t, sort.IntsAreSorted(sorted.Array))

	newSize := 3
	patched, err := c.PatchArray(ctx, token, &newSize, []int{7, 7})
	require.NoError(t, err)
	assert.Equal(t, "Array updated", patched.Message)
	assert.Equal(t, []int{7, 7}, patched.Array, "explicit values win over a size")

	// A patch with nothing to apply surfaces the service's message text.
	_, err = c.PatchArray(ctx, token, nil, nil)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Nothing to update. Provide newSize>0 or newValues.", apiErr.Message)
}

func TestClientHistoryFlow(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	reg, err := c.Register(ctx, "alice", "pw")
	require.NoError(t, err)
	token := reg.Token

	_, err = c.CreateArray(ctx, token, 2)
	require.NoError(t, err)
	_, err = c.SortShell(ctx, token)
	require.NoError(t, err)

	entries, err := c.History(ctx, token)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "POST /array/sort/shell", entries[0].Endpoint)
	assert.Equal(t, "POST /array/create", entries[1].Endpoint)

	require.NoError(t, c.ClearHistory(ctx, token))

	entries, err = c.History(ctx, token)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "DELETE /requests_history", entries[0].Endpoint)
}

func TestClientAPIErrorText(t *testing.T) {
	err := &client.APIError{StatusCode: 400, Message: "Size must be > 0"}
	assert.Equal(t, "api error: status 400: Size must be > 0", err.Error())
	assert.True(t, errors.As(error(err), new(*client.APIError)))
}
