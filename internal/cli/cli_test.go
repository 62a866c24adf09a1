package cli

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codewandler/lrukv/adapters/httpapi"
	"github.com/codewandler/lrukv/core/cache"
	"github.com/codewandler/lrukv/core/service"
)

func newServer(t *testing.T) string {
	t.Helper()
	store, err := cache.NewLRU(cache.LRUOpts{Capacity: 10})
	require.NoError(t, err)
	svc, err := service.New(service.Options{Store: store})
	require.NoError(t, err)
	srv := httptest.NewServer(httpapi.NewServer(httpapi.ServerOptions{Service: svc}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestCLI(t *testing.T) {
	addr := newServer(t)

	out, err := execute(t, "--addr", addr, "health")
	require.NoError(t, err)
	require.Equal(t, "healthy\n", out)

	out, err = execute(t, "--addr", addr, "put", "greeting", "hello world")
	require.NoError(t, err)
	require.Equal(t, "OK\n", out)

	out, err = execute(t, "--addr", addr, "get", "greeting")
	require.NoError(t, err)
	require.Equal(t, "hello world\n", out)

	_, err = execute(t, "--addr", addr, "get", "missing")
	require.ErrorContains(t, err, "not found")

	_, err = execute(t, "--addr", addr, "put", "k", strings.Repeat("v", cache.MaxLen+1))
	require.Error(t, err)
}

func TestCLI_Args(t *testing.T) {
	_, err := execute(t, "put", "only-key")
	require.Error(t, err)

	_, err = execute(t, "get")
	require.Error(t, err)
}
