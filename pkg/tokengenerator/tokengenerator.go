package tokengenerator

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RealmAccess mirrors the realm_access claim of a Keycloak access token
type RealmAccess struct {
	Roles []string `json:"roles"`
}

// Claims is the shape of a Keycloak access token, reduced to what the
// service reads
type Claims struct {
	PreferredUsername string      `json:"preferred_username,omitempty"`
	Email             string      `json:"email,omitempty"`
	RealmAccess       RealmAccess `json:"realm_access"`
	jwt.RegisteredClaims
}

// TokenRequest describes the caller a token is minted for
type TokenRequest struct {
	Subject  string
	Username string
	Email    string
	Roles    []string
	Expiry   time.Duration
}

// JwtTokenGenerator mints HS256 tokens for local development against a
// service running with JWT_SECRET
type JwtTokenGenerator struct {
	Secret   string
	Issuer   string
	Audience string
}

// NewJwtTokenGenerator creates a new JwtTokenGenerator
func NewJwtTokenGenerator(secret, issuer, audience string) *JwtTokenGenerator {
	return &JwtTokenGenerator{
		Secret:   secret,
		Issuer:   issuer,
		Audience: audience,
	}
}

// GenerateToken creates a new signed token
func (g *JwtTokenGenerator) GenerateToken(req TokenRequest) (string, time.Time, error) {
	if req.Subject == "" {
		req.Subject = uuid.NewString()
	}
	now := time.Now().UTC()

	claims := Claims{
		PreferredUsername: req.Username,
		Email:             req.Email,
		RealmAccess:       RealmAccess{Roles: req.Roles},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(req.Expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-5 * time.Minute)),
			Issuer:    g.Issuer,
			Subject:   req.Subject,
			ID:        uuid.New().String(),
		},
	}
	if g.Audience != "" {
		claims.Audience = jwt.ClaimStrings{g.Audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(g.Secret))
	if err != nil {
		slog.Error("Failed sign JWT Claim string!", "err", err)
		return "", time.Time{}, err
	}
	return ss, claims.ExpiresAt.Time, nil
}

// ParseToken parses and validates a token string
func (g *JwtTokenGenerator) ParseToken(tokenStr string) (*jwt.Token, error) {
	signingKey := []byte(g.Secret)
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return token, err
	}

	if token.Valid {
		return token, nil
	}
	return token, fmt.Errorf("failed_parse_token_claims")
}
