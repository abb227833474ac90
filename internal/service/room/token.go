// Package room issues capability tokens for the media-room transport.
//
// The token format is a placeholder: a colon-joined canonical string with an
// HMAC-SHA256 hex signature, not a standard signed-token format. It is an
// extension point, kept behind this package so a real credential scheme can
// replace it without touching callers.
package room

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrBadSignature   = errors.New("token signature mismatch")
	ErrTokenExpired   = errors.New("token expired")
)

// DefaultTTL is applied when no explicit token lifetime is configured.
const DefaultTTL = 3600 * time.Second

// TokenIssuer mints and verifies access tokens bound to a room name and a
// participant identity.
type TokenIssuer struct {
	apiKey    string
	apiSecret string
	ttl       time.Duration

	now func() time.Time
}

// NewTokenIssuer builds an issuer for the given key pair. A non-positive ttl
// falls back to DefaultTTL.
func NewTokenIssuer(apiKey, apiSecret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenIssuer{apiKey: apiKey, apiSecret: apiSecret, ttl: ttl, now: time.Now}
}

// Claims are the fields embedded in a token.
type Claims struct {
	Identity string
	Room     string
	Expiry   time.Time
}

// Mint returns a signed token binding room and identity until now+ttl.
// Colons are rejected because they delimit the token fields: a signed token
// must always round-trip through Verify.
func (t *TokenIssuer) Mint(roomName, identity string) (string, error) {
	if roomName == "" || identity == "" {
		return "", errors.New("room name and participant identity are required")
	}
	if strings.Contains(roomName, ":") || strings.Contains(identity, ":") {
		return "", errors.New("room name and participant identity must not contain ':'")
	}

	expires := t.now().Add(t.ttl).Unix()
	data := fmt.Sprintf("%s:%s:%s:%d", t.apiKey, identity, roomName, expires)
	return data + ":" + t.sign(data), nil
}

// Verify checks the signature and expiry, returning the embedded claims.
func (t *TokenIssuer) Verify(token string) (Claims, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 5 {
		return Claims{}, ErrMalformedToken
	}

	key, identity, roomName, rawExpiry, sig := parts[0], parts[1], parts[2], parts[3], parts[4]
	if key != t.apiKey {
		return Claims{}, ErrBadSignature
	}

	data := strings.Join(parts[:4], ":")
	if !hmac.Equal([]byte(sig), []byte(t.sign(data))) {
		return Claims{}, ErrBadSignature
	}

	expiry, err := strconv.ParseInt(rawExpiry, 10, 64)
	if err != nil {
		return Claims{}, ErrMalformedToken
	}
	claims := Claims{Identity: identity, Room: roomName, Expiry: time.Unix(expiry, 0)}
	if t.now().After(claims.Expiry) {
		return claims, ErrTokenExpired
	}
	return claims, nil
}

func (t *TokenIssuer) sign(data string) string {
	mac := hmac.New(sha256.New, []byte(t.apiSecret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// RoomName derives the media-room name for a session.
func RoomName(prefix, sessionID string) string {
	return prefix + "-" + sessionID
}
