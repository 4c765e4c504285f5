package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/go-tasks/auth"
)

const testSecret = "test-signing-secret"

func newTokenService() *auth.TokenService {
	return auth.NewTokenService([]byte(testSecret), auth.DefaultTokenTTL)
}

func TestIssueAndVerify(t *testing.T) {
	ts := newTokenService()

	token, err := ts.Issue(123)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ts.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, 123, userID)
}

func TestVerifyExpiredToken(t *testing.T) {
	ts := newTokenService()

	token, err := ts.IssueWithTTL(123, -time.Minute)
	require.NoError(t, err)

	_, err = ts.Verify(token)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestVerifyTamperedSignature(t *testing.T) {
	ts := newTokenService()
	other := auth.NewTokenService([]byte("a-different-secret"), auth.DefaultTokenTTL)

	token, err := other.Issue(123)
	require.NoError(t, err)

	_, err = ts.Verify(token)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestVerifyMalformedToken(t *testing.T) {
	ts := newTokenService()

	for _, token := range []string{"", "garbage", "invalid.token.here"} {
		_, err := ts.Verify(token)
		assert.ErrorIs(t, err, auth.ErrTokenInvalid, "token %q", token)
	}
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	ts := newTokenService()

	claims := jwt.RegisteredClaims{
		Subject:   "123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ts.Verify(token)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestVerifySubjectClaim(t *testing.T) {
	ts := newTokenService()

	sign := func(subject string) string {
		claims := jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		if subject != "" {
			claims.Subject = subject
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name    string
		subject string
	}{
		{name: "missing subject", subject: ""},
		{name: "non-numeric subject", subject: "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.Verify(sign(tt.subject))
			assert.ErrorIs(t, err, auth.ErrTokenMissingSubject)
		})
	}
}

func TestVerifyValidFutureToken(t *testing.T) {
	ts := newTokenService()

	token, err := ts.IssueWithTTL(7, time.Hour)
	require.NoError(t, err)

	userID, err := ts.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, 7, userID)
}
