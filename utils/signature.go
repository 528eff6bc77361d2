package utils

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// ComputeMonnifySignature returns the hex HMAC-SHA512 of the raw webhook body.
// Monnify signs the exact byte sequence, so the body must be hashed before any
// JSON parsing touches it.
func ComputeMonnifySignature(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyMonnifySignature compares the monnify-signature header against the
// computed HMAC in constant time.
func VerifyMonnifySignature(secret string, body []byte, header string) bool {
	if header == "" {
		return false
	}
	expected := ComputeMonnifySignature(secret, body)
	return hmac.Equal([]byte(expected), []byte(header))
}
