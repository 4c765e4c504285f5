package auth

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is a throwaway bcrypt hash of a random value, used to keep
// login latency flat when the email does not exist.
var dummyHash = mustDummyHash()

func mustDummyHash() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}

// HashPassword generates a salted bcrypt hash of the plaintext. The salt
// is random per call, so hashing the same password twice yields different
// strings that both verify.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// ComparePasswordAndHash reports whether the plaintext matches the stored
// hash. A malformed hash counts as a mismatch rather than an error.
func ComparePasswordAndHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// DummyCompare burns one bcrypt verification against a hash that can never
// match. Login calls this when the account lookup comes up empty so that
// "no such email" and "wrong password" take comparable time.
func DummyCompare() {
	bcrypt.CompareHashAndPassword(dummyHash, []byte(uuid.NewString()))
}
