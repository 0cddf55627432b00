package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kestrel-hr/kestrel/internal/platform/httpx"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.Issue(42, "agarcia456")
	require.NoError(t, err)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.EmployeeID)
	require.Equal(t, "agarcia456", claims.UserID)
	require.NotEmpty(t, claims.ID)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Issue(1, "jdoe001")
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Verify(token)
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)

	token, err := tm.Issue(1, "jdoe001")
	require.NoError(t, err)

	_, err = tm.Verify(token)
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	_, err := tm.Verify("not.a.token")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}
