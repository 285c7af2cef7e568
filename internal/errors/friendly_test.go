package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFriendlyErrorFormatting(t *testing.T) {
	base := stderrors.New("boom")
	e := NewFriendlyError("Something broke", "Try again").WithDetails(base).WithDocs("https://example.com/docs")
	require.Equal(t, "Something broke\n\nHow to fix:\nTry again\n\nDocumentation: https://example.com/docs", e.Error())
	require.ErrorIs(t, e, base)
}

func TestNetworkErrorClassification(t *testing.T) {
	cases := map[string]string{
		"dial tcp: lookup api.unsplash.com: no such host": "Cannot resolve hostname - DNS lookup failed",
		"dial tcp 1.2.3.4:443: connection refused":        "Server refused connection",
		"context deadline exceeded":                       "Connection timed out",
		"x509: certificate signed by unknown authority":   "SSL/TLS certificate verification failed",
		"something else":                                  "Network error occurred",
	}
	for in, want := range cases {
		require.Equal(t, want, NetworkError(stderrors.New(in)).Message, in)
	}
}

func TestAuthErrorUnsplash(t *testing.T) {
	e := AuthError("api.unsplash.com", 401, nil)
	require.Equal(t, "Unsplash rejected the access key", e.Message)
	require.Contains(t, e.Suggestion, "UNSPLASH_ACCESS_KEY")

	other := AuthError("example.com", 403, nil)
	require.Equal(t, "Authentication failed (403)", other.Message)
}

func TestRateLimitError(t *testing.T) {
	require.Equal(t, "Unsplash rate limit reached (remaining: 0)", RateLimitError("0", nil).Message)
	require.Equal(t, "Unsplash rate limit reached", RateLimitError("", nil).Message)
}

func TestDiskSpaceError(t *testing.T) {
	e := DiskSpaceError(1024, 4096)
	require.Equal(t, "Insufficient disk space: need 4.0 KiB but only 1.0 KiB available", e.Message)
	require.Contains(t, e.Suggestion, "3.0 KiB")
}

func TestPathError(t *testing.T) {
	e := PathError("/x", stderrors.New("open /x: permission denied"))
	require.Equal(t, "Permission denied: /x", e.Message)
}

func TestDatabaseError(t *testing.T) {
	locked := DatabaseError("/d/state.db", stderrors.New("database is locked (5) (SQLITE_BUSY)"))
	require.Equal(t, "History database is locked by another process", locked.Message)

	bad := DatabaseError("/d/state.db", stderrors.New("file is not a database"))
	require.Equal(t, "History database is corrupted", bad.Message)
	require.Contains(t, bad.Suggestion, "/d/state.db.bak")

	other := DatabaseError("/d/state.db", stderrors.New("disk I/O error"))
	require.Equal(t, "Cannot open history database: /d/state.db", other.Message)
	require.ErrorContains(t, other, "pixnix doctor")
}
