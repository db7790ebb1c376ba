package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Verifier reports whether a raw webhook body matches its signature header.
type Verifier interface {
	Verify(rawBody []byte, signature string) bool
}

// SignatureVerifier checks the platform HMAC-SHA256 signature, base64-encoded
// with the shared webhook secret. Only base64 signatures are accepted; a
// hex-encoded signature is rejected even when cryptographically equivalent.
type SignatureVerifier struct {
	secret []byte
}

// NewSignatureVerifier constructs a verifier over the shared secret.
func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

// Verify returns false, never an error, on absent signature, empty body, or
// mismatch. Comparison happens between the base64 strings.
func (v *SignatureVerifier) Verify(rawBody []byte, signature string) bool {
	signature = strings.TrimSpace(signature)
	if signature == "" || len(rawBody) == 0 {
		return false
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(rawBody)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

var _ Verifier = (*SignatureVerifier)(nil)
