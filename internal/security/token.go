package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"pagesmith/internal/domain"
)

// SessionDuration is the fixed lifetime of an editor session token.
const SessionDuration = 12 * time.Hour

// TokenCodec issues and verifies signed, expiring session tokens.
// Tokens carry their own expiry; there is no server-side session table.
// A token is base64url(JSON payload) + "." + base64url(HMAC-SHA256 signature
// over the encoded payload). The dot separator never appears in the
// base64url alphabet, so splitting is unambiguous.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
}

// NewTokenCodec creates a codec signing with the given secret.
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Issue creates a signed token for the given username, expiring after
// SessionDuration.
func (c *TokenCodec) Issue(username string) (string, error) {
	payload := domain.SessionPayload{
		Username: username,
		Exp:      c.now().Add(SessionDuration).UnixMilli(),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	encoded := base64.RawURLEncoding.EncodeToString(raw)
	return encoded + "." + c.sign(encoded), nil
}

// Verify checks a token's structure, signature and expiry. It returns the
// decoded payload on success. Every failure collapses to (nil, false);
// callers cannot observe which check rejected the token.
func (c *TokenCodec) Verify(token string) (*domain.SessionPayload, bool) {
	if token == "" {
		return nil, false
	}

	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return nil, false
	}

	encoded, providedSig := parts[0], parts[1]
	expectedSig := c.sign(encoded)

	if len(providedSig) != len(expectedSig) {
		return nil, false
	}

	// hmac.Equal is constant-time; must not be replaced with ==
	if !hmac.Equal([]byte(providedSig), []byte(expectedSig)) {
		return nil, false
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, false
	}

	var payload domain.SessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, false
	}

	if payload.Exp <= c.now().UnixMilli() {
		return nil, false
	}

	return &payload, true
}

// sign computes the base64url HMAC-SHA256 signature of the encoded payload.
func (c *TokenCodec) sign(encodedPayload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(encodedPayload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
