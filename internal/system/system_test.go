package system

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasSufficientSpace(t *testing.T) {
	dir := t.TempDir()
	ok, avail, err := HasSufficientSpace(dir, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Greater(t, avail, uint64(0))

	ok, _, err = HasSufficientSpace(dir, ^uint64(0)/2)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDiskUsage(t *testing.T) {
	u, err := DiskUsage(t.TempDir())
	require.NoError(t, err)
	require.LessOrEqual(t, u.Available, u.Total)
	require.GreaterOrEqual(t, u.UsedPercent(), 0.0)
	require.LessOrEqual(t, u.UsedPercent(), 100.0)

	_, err = DiskUsage("/definitely/not/here")
	require.Error(t, err)
}

func TestUsagePercentEmpty(t *testing.T) {
	require.Zero(t, Usage{}.UsedPercent())
	require.Equal(t, 25.0, Usage{Total: 100, Free: 75}.UsedPercent())
}

func TestCheckHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	code, err := CheckHTTP(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestDetectProxySettings(t *testing.T) {
	t.Setenv("HTTPS_PROXY", "http://proxy.local:3128")
	require.Equal(t, "http://proxy.local:3128", DetectProxySettings()["HTTPS_PROXY"])
}

func TestCheckHTTPUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	t.Setenv("NO_PROXY", "*")
	_, err := CheckHTTP(context.Background(), nil, url)
	require.ErrorContains(t, err, "Server refused connection")
	require.ErrorContains(t, err, "NO_PROXY")
}
