package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the validity window of an access token unless the
// deployment overrides it.
const DefaultTokenTTL = 30 * time.Minute

// ErrTokenInvalid covers bad signatures, malformed tokens, and expiry.
var ErrTokenInvalid = errors.New("invalid or expired token")

// ErrTokenMissingSubject means the token verified but carries no usable
// subject claim.
var ErrTokenMissingSubject = errors.New("token has no subject")

// TokenService signs and verifies stateless bearer tokens. A token carries
// only the subject user id and an absolute expiry, HMAC-signed with the
// process-wide secret; the server keeps no session state.
//
// The subject is always the registered `sub` claim holding the decimal
// user id, for issuance and verification alike.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService builds a TokenService around the signing secret.
// A non-positive ttl falls back to DefaultTokenTTL.
func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: secret, ttl: ttl}
}

// Issue signs a token for the given user id with the default TTL.
func (ts *TokenService) Issue(userID int) (string, error) {
	return ts.IssueWithTTL(userID, ts.ttl)
}

// IssueWithTTL signs a token expiring at now+ttl.
func (ts *TokenService) IssueWithTTL(userID int, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and returns the subject user id.
// Any structural or signature problem comes back as ErrTokenInvalid; a
// valid token without an integer subject is ErrTokenMissingSubject.
func (ts *TokenService) Verify(tokenString string) (int, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return 0, ErrTokenMissingSubject
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return 0, ErrTokenMissingSubject
	}
	return userID, nil
}
