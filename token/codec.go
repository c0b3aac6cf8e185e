// token/codec.go — compact HMAC-signed round tokens
package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"time"
)

// Verification failure modes, surfaced in check order.
var (
	ErrInvalidTokenFormat    = errors.New("invalid token format")
	ErrInvalidTokenSignature = errors.New("invalid token signature")
	ErrInvalidTokenPayload   = errors.New("invalid token payload")
	ErrTokenExpired          = errors.New("token expired")
)

// Payload is everything the server needs to validate round identity,
// ownership and expiry without a storage lookup.
type Payload struct {
	RoundID   string `json:"roundId"`
	PlayerID  string `json:"playerId"`
	SessionID string `json:"sessionId"`
	Exp       int64  `json:"exp"` // unix milliseconds
}

// Codec mints and verifies round tokens. Tokens are deterministic:
// the same payload always signs to the same string (no nonce).
type Codec struct {
	secret []byte
}

func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret}
}

// NewCodecFromEnv reads ROUND_TOKEN_SECRET. In production a missing secret
// is fatal; elsewhere a per-process random key is generated, which means a
// restart invalidates every outstanding token signed under the old key.
func NewCodecFromEnv() *Codec {
	secret := os.Getenv("ROUND_TOKEN_SECRET")
	if secret != "" {
		return NewCodec([]byte(secret))
	}

	if os.Getenv("APP_ENV") == "production" {
		log.Fatal("❌ ROUND_TOKEN_SECRET is not set — refusing to start in production without a token secret")
	}

	fallback := make([]byte, 32)
	if _, err := rand.Read(fallback); err != nil {
		log.Fatal("failed to generate fallback token secret:", err)
	}
	log.Println("⚠️  ROUND_TOKEN_SECRET not set — using a random per-process secret (tokens will not survive a restart)")
	return NewCodec(fallback)
}

// Create serializes and signs the payload as "<body>.<signature>",
// both parts base64url without padding.
func (c *Codec) Create(p Payload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	body := base64.RawURLEncoding.EncodeToString(raw)
	return body + "." + c.sign(body), nil
}

// Verify checks format, signature, payload completeness and expiry,
// in that order, each with its own error.
func (c *Codec) Verify(tok string) (Payload, error) {
	parts := strings.Split(tok, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Payload{}, ErrInvalidTokenFormat
	}
	body, sig := parts[0], parts[1]

	// Constant-time compare; a decode failure of the supplied signature
	// is indistinguishable from tampering on purpose.
	supplied, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(supplied, c.mac(body)) {
		return Payload{}, ErrInvalidTokenSignature
	}

	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return Payload{}, ErrInvalidTokenPayload
	}
	var probe struct {
		RoundID   *string `json:"roundId"`
		PlayerID  *string `json:"playerId"`
		SessionID *string `json:"sessionId"`
		Exp       *int64  `json:"exp"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil ||
		probe.RoundID == nil || probe.PlayerID == nil || probe.SessionID == nil || probe.Exp == nil {
		return Payload{}, ErrInvalidTokenPayload
	}

	if *probe.Exp < time.Now().UnixMilli() {
		return Payload{}, ErrTokenExpired
	}

	return Payload{
		RoundID:   *probe.RoundID,
		PlayerID:  *probe.PlayerID,
		SessionID: *probe.SessionID,
		Exp:       *probe.Exp,
	}, nil
}

func (c *Codec) sign(body string) string {
	return base64.RawURLEncoding.EncodeToString(c.mac(body))
}

func (c *Codec) mac(body string) []byte {
	h := hmac.New(sha256.New, c.secret)
	h.Write([]byte(body))
	return h.Sum(nil)
}
