// internal/form/csrf.go
//
// Survey – Forms subsystem: stateless CSRF token utilities.
//
// Context
//   Every rendered page embeds a hidden `csrf_token` input and every POST
//   must return it.  The token is stateless:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(secret, nonce+unixMicro) )
//
//   •  nonce – 16 random bytes.
//   •  unixMicro – issue time, 8 bytes, big-endian.
//   •  HMAC – keyed with the configured secret.
//
//   Verification checks the signature and that the token is younger than
//   MaxAge.  No server-side state is kept, so any replica can verify a token
//   another one issued provided they share the secret.
//
// Workflow
//   •  NewCSRF(secret)   → signer; a short or empty secret is replaced by a
//                          random per-process key with a warning.
//   •  Generate()        → token string for the renderer.
//   •  Verify(tok)       → constant-time verify; false on any failure.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	nonceBytes = 16
	tokenBytes = nonceBytes + 8 + sha256.Size // nonce + ts + sig

	// MinSecretBytes is the shortest accepted signing key.
	MinSecretBytes = 32

	// MaxAge is how long an issued token stays valid.
	MaxAge = 2 * time.Hour

	// TokenField is the hidden input name.
	TokenField = "csrf_token"
)

// CSRF issues and verifies tokens.  Safe for concurrent use.
type CSRF struct {
	secret []byte
	now    func() time.Time
}

// NewCSRF returns a signer keyed with secret.  When secret is shorter than
// MinSecretBytes a random key is generated; tokens then do not survive a
// restart.
func NewCSRF(secret []byte) *CSRF {
	if len(secret) < MinSecretBytes {
		secret = make([]byte, MinSecretBytes)
		_, _ = rand.Read(secret)
		zap.S().Warnw("csrf key not set or too short, using random key",
			"min_bytes", MinSecretBytes)
	}
	return &CSRF{secret: secret, now: time.Now}
}

// DecodeKey parses a base64url (unpadded) secret as found in configuration.
func DecodeKey(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode csrf key: %w", err)
	}
	return b, nil
}

// Generate creates a new token.  Call once per page render.
func (c *CSRF) Generate() (string, error) {
	nonce := make([]byte, nonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(c.now().UnixMicro()))

	buf := make([]byte, 0, tokenBytes)
	buf = append(buf, nonce...)
	buf = append(buf, ts...)
	buf = append(buf, c.sign(nonce, ts)...)

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Verify returns true if tok passes HMAC and age checks.
func (c *CSRF) Verify(tok string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}

	nonce := raw[:nonceBytes]
	tsBytes := raw[nonceBytes : nonceBytes+8]
	sig := raw[nonceBytes+8:]

	// Future timestamp (clock skew) or older than MaxAge.
	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(tsBytes)))
	now := c.now()
	if now.Sub(issued) > MaxAge || issued.Sub(now) > time.Minute {
		return false
	}

	return hmac.Equal(sig, c.sign(nonce, tsBytes))
}

func (c *CSRF) sign(nonce, ts []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(nonce)
	mac.Write(ts)
	return mac.Sum(nil)
}
