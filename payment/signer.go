package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strings"
)

// Signer computes the message authentication code shared with the gateway.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, errConfig("hash secret is not configured")
	}
	return &Signer{secret: []byte(secret)}, nil
}

// Sign returns the lowercase hex HMAC-SHA512 digest over the canonical
// serialization of params. Deterministic for identical (params, secret).
func (s *Signer) Sign(params Params) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}
	mac := hmac.New(sha512.New, s.secret)
	mac.Write([]byte(params.Sorted().HashData()))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Verify recomputes the digest over params and compares it to signature.
// The comparison is constant-time and case-insensitive on the hex form.
// Any signature that is empty, malformed or mismatched yields false.
func (s *Signer) Verify(params Params, signature string) bool {
	if signature == "" {
		return false
	}
	received, err := hex.DecodeString(strings.ToLower(signature))
	if err != nil {
		return false
	}
	expected, err := s.Sign(params)
	if err != nil {
		return false
	}
	expectedBytes, _ := hex.DecodeString(expected)
	return hmac.Equal(expectedBytes, received)
}
