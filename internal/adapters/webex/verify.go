package webex

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"errors"
)

var (
	ErrMissingSignature = errors.New("missing webhook signature")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// VerifySignature validates the X-Spark-Signature header against the raw
// webhook body. Webex signs with HMAC-SHA1 of the body using the webhook
// secret, hex encoded.
func VerifySignature(secret, signature string, body []byte) error {
	if signature == "" {
		return ErrMissingSignature
	}

	mac := hmac.New(sha1.New, []byte(secret))
	_, _ = mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}

	return nil
}
