package utils

import (
	"strings"
	"testing"
)

func TestVerifyMonnifySignature(t *testing.T) {
	secret := "sk_test_123"
	body := []byte(`{"eventType":"SUCCESSFUL_TRANSACTION"}`)

	sig := ComputeMonnifySignature(secret, body)

	if !VerifyMonnifySignature(secret, body, sig) {
		t.Fatal("valid signature rejected")
	}
	if VerifyMonnifySignature("other-secret", body, sig) {
		t.Fatal("signature accepted with wrong secret")
	}
	if VerifyMonnifySignature(secret, []byte(`{"tampered":true}`), sig) {
		t.Fatal("signature accepted for tampered body")
	}
	if VerifyMonnifySignature(secret, body, "") {
		t.Fatal("empty signature header accepted")
	}
}

func TestComputeMonnifySignatureIsHexSHA512(t *testing.T) {
	sig := ComputeMonnifySignature("secret", []byte("body"))
	if len(sig) != 128 {
		t.Fatalf("expected 128 hex chars, got %d", len(sig))
	}
	if strings.ToLower(sig) != sig {
		t.Fatal("expected lowercase hex")
	}
}

func TestNewDonationReference(t *testing.T) {
	ref := NewDonationReference()
	if !strings.HasPrefix(ref, "DON_") {
		t.Fatalf("unexpected prefix: %s", ref)
	}

	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		r := NewDonationReference()
		if seen[r] {
			t.Fatalf("duplicate reference generated: %s", r)
		}
		seen[r] = true
	}
}
