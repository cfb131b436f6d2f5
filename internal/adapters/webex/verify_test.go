package webex

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"testing"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"resource":"messages"}`)

	if err := VerifySignature("s3cret", sign("s3cret", body), body); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
}

func TestVerifySignatureMissing(t *testing.T) {
	err := VerifySignature("s3cret", "", []byte("body"))
	if !errors.Is(err, ErrMissingSignature) {
		t.Fatalf("expected ErrMissingSignature, got %v", err)
	}
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	body := []byte("body")
	err := VerifySignature("s3cret", sign("other", body), body)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifySignatureTamperedBody(t *testing.T) {
	err := VerifySignature("s3cret", sign("s3cret", []byte("body")), []byte("tampered"))
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}
