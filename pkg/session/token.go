package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// RequestToken returns key material derived from the current session key,
// suitable for request forgery checks. It is recomputed whenever the key
// changes, including after Destroy, when it derives from the empty key.
func (l *Lifecycle) RequestToken() string {
	if l.token == "" {
		mac := hmac.New(sha256.New, l.tokenSecret)
		mac.Write([]byte(l.key))
		l.token = hex.EncodeToString(mac.Sum(nil))
	}
	return l.token
}

// VerifyToken reports whether token matches RequestToken in constant time.
func (l *Lifecycle) VerifyToken(token string) bool {
	return hmac.Equal([]byte(token), []byte(l.RequestToken()))
}

func randomSecret() []byte {
	b := make([]byte, 32)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b)
	return b
}
