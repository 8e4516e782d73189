package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
)

// IdentityConfig defines how identity provider tokens are verified.
// Exactly one of HMACSecret or PublicKeyPEM is expected.
type IdentityConfig struct {
	HMACSecret   string
	PublicKeyPEM string
	Issuer       string
	Audience     string
}

// Principal is the verified caller described by an identity token
type Principal struct {
	Subject   string
	Email     string
	FirstName string
	LastName  string
	Username  string
}

// Claims defines the identity token content
type Claims struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// IdentityVerifier validates bearer tokens issued by the identity provider
type IdentityVerifier struct {
	config    IdentityConfig
	publicKey *rsa.PublicKey
	parser    *jwt.Parser
}

// NewIdentityVerifier creates a verifier for HS256 (shared secret) or RS256 (public key) tokens
func NewIdentityVerifier(config IdentityConfig) (*IdentityVerifier, error) {
	v := &IdentityVerifier{config: config}

	opts := []jwt.ParserOption{}
	switch {
	case config.PublicKeyPEM != "":
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(config.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("failed to parse identity public key: %w", err)
		}
		v.publicKey = key
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	case config.HMACSecret != "":
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	default:
		return nil, errors.New("identity verifier requires an hmac secret or a public key")
	}

	if config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(config.Issuer))
	}
	if config.Audience != "" {
		opts = append(opts, jwt.WithAudience(config.Audience))
	}
	v.parser = jwt.NewParser(opts...)

	return v, nil
}

func (v *IdentityVerifier) keyFunc(token *jwt.Token) (interface{}, error) {
	if v.publicKey != nil {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.publicKey, nil
	}
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return []byte(v.config.HMACSecret), nil
}

// Verify validates a token and returns its principal
func (v *IdentityVerifier) Verify(tokenString string) (*Principal, error) {
	if tokenString == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, v.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}
	if !token.Valid || strings.TrimSpace(claims.Subject) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	return &Principal{
		Subject:   claims.Subject,
		Email:     strings.TrimSpace(claims.Email),
		FirstName: strings.TrimSpace(claims.FirstName),
		LastName:  strings.TrimSpace(claims.LastName),
		Username:  strings.TrimSpace(claims.Username),
	}, nil
}

// IssueToken signs an HS256 token for p. It backs local development and tests; production tokens come from the identity provider.
func (v *IdentityVerifier) IssueToken(p Principal, ttl time.Duration) (string, error) {
	if v.config.HMACSecret == "" {
		return "", errors.New("token issuing requires an hmac secret")
	}

	now := time.Now()
	claims := &Claims{
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Username:  p.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Subject,
			Issuer:    v.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	if v.config.Audience != "" {
		claims.Audience = jwt.ClaimStrings{v.config.Audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(v.config.HMACSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", apperrors.ErrInvalidFormat
	}

	// The "Bearer " prefix is optional
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return strings.TrimSpace(authHeader[7:]), nil
	}

	return authHeader, nil
}
