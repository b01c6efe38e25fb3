package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// RememberTokenBytes is the byte size of generated remember tokens.
const RememberTokenBytes = 32

// MakeRememberToken generates a new random remember token,
// base64 URL encoded so it is cookie-safe.
func MakeRememberToken() (string, error) {
	b := make([]byte, RememberTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// HMAC hashes remember tokens before they touch the database, so a leaked
// users table does not contain usable session tokens.
type HMAC struct {
	key []byte
}

func NewHMAC(key string) HMAC {
	return HMAC{
		key: []byte(key),
	}
}

// Hash returns the base64 encoded HMAC-SHA256 of the input. A fresh
// hash.Hash per call, the middleware hashes concurrently.
func (h HMAC) Hash(input string) string {
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(input))
	return base64.URLEncoding.EncodeToString(mac.Sum(nil))
}
