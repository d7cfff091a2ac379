package cdp

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/feral-file/ff-buyer-indexer/internal/adapter"
	"github.com/feral-file/ff-buyer-indexer/internal/domain"
)

const (
	tokenIssuer   = "cdp"
	tokenAudience = "cdp_service"
	tokenLifetime = 2 * time.Minute
)

// Claims is the credential payload. URIs binds the token to one method and path.
type Claims struct {
	jwt.RegisteredClaims
	URIs []string `json:"uris"`
}

// Signer mints short-lived EdDSA bearer tokens for one API key
type Signer struct {
	keyID string
	key   ed25519.PrivateKey
	clock adapter.Clock
}

// NewSigner parses a base64 ed25519 secret. Both the 32-byte seed and the
// 64-byte seed+public form are accepted.
func NewSigner(keyID, secret string, clock adapter.Clock) (*Signer, error) {
	if keyID == "" || secret == "" {
		return nil, &domain.AuthError{Message: "api key id and secret are required"}
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(secret))
	if err != nil {
		return nil, &domain.AuthError{Message: fmt.Sprintf("secret is not valid base64: %v", err)}
	}
	if len(raw) < ed25519.SeedSize {
		return nil, &domain.AuthError{Message: fmt.Sprintf("secret is %d bytes, need at least %d", len(raw), ed25519.SeedSize)}
	}

	return &Signer{
		keyID: keyID,
		key:   ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize]),
		clock: clock,
	}, nil
}

// PublicKey returns the verification key
func (s *Signer) PublicKey() ed25519.PublicKey {
	return s.key.Public().(ed25519.PublicKey)
}

// Token returns a signed credential authorizing method on host+path
func (s *Signer) Token(method, host, path string) (string, error) {
	now := s.clock.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.keyID,
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
			ID:        uuid.NewString(),
		},
		URIs: []string{fmt.Sprintf("%s %s%s", method, host, path)},
	}

	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	token.Header["kid"] = s.keyID
	token.Header["nonce"] = hex.EncodeToString(nonce)

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", &domain.AuthError{Message: fmt.Sprintf("failed to sign token: %v", err)}
	}
	return signed, nil
}
