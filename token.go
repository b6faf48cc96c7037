package main

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Tokens are valid for 24 hours from issuance, checked against the local clock.
const tokenTTL = 24 * time.Hour

// ErrInvalidToken covers malformed and expired tokens alike; callers treat
// both as a silent logout.
var ErrInvalidToken = errors.New("invalid token")

// TokenCodec turns a Session into a self-contained credential string and back.
// Decode fails with ErrInvalidToken for anything malformed or past expiry.
type TokenCodec interface {
	Encode(s Session) (string, error)
	Decode(token string) (Session, error)
}

// newTokenCodec selects the codec from the token_signing configuration value.
func newTokenCodec(mode, secret string) TokenCodec {
	if mode == "hmac" {
		return &signedTokenCodec{secret: []byte(secret)}
	}
	return &mockTokenCodec{}
}

// --- Unsigned demo codec ---

// mockTokenCodec base64-encodes the JSON claims with no signature. Anyone can
// forge a token by constructing the same payload shape. This is a demo
// credential only; switch token_signing to "hmac" for a verifiable one.
type mockTokenCodec struct{}

type mockTokenPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Exp      int64  `json:"exp"` // Unix milliseconds
}

func (m *mockTokenCodec) Encode(s Session) (string, error) {
	return m.EncodeWithExpiry(s, time.Now().Add(tokenTTL))
}

// EncodeWithExpiry exists so expiry handling can be exercised directly.
func (m *mockTokenCodec) EncodeWithExpiry(s Session, exp time.Time) (string, error) {
	payload, err := json.Marshal(mockTokenPayload{
		ID:       s.ID,
		Username: s.Username,
		Role:     s.Role,
		Exp:      exp.UnixMilli(),
	})
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(payload), nil
}

func (m *mockTokenCodec) Decode(token string) (Session, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return Session{}, ErrInvalidToken
	}
	var payload mockTokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Session{}, ErrInvalidToken
	}
	if payload.Exp <= time.Now().UnixMilli() {
		return Session{}, ErrInvalidToken
	}
	return Session{ID: payload.ID, Username: payload.Username, Role: payload.Role}, nil
}

// --- HMAC-signed codec ---

type signedTokenCodec struct {
	secret []byte
}

type sessionClaims struct {
	UserID   string `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (s *signedTokenCodec) Encode(sess Session) (string, error) {
	claims := sessionClaims{
		UserID:   sess.ID,
		Username: sess.Username,
		Role:     sess.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *signedTokenCodec) Decode(token string) (Session, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Session{}, ErrInvalidToken
	}
	return Session{ID: claims.UserID, Username: claims.Username, Role: claims.Role}, nil
}
