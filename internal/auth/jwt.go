package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuerName = "blog-api"

// ErrTokenExpired is returned by Verify for a well-signed token past its
// expiry. SessionStore drops the matching session when it sees it.
var ErrTokenExpired = errors.New("auth: token expired")

// JWTIssuer issues HS256-signed JWTs as session tokens.
//
// The signature does not replace the session lookup: a logged-out token
// still verifies but no longer resolves. Forged or truncated tokens are
// rejected before the session map is read.
//
// A zero ttl issues tokens without an expiry, matching sessions that live
// until logout.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTIssuer creates a JWTIssuer with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: BLOG_TOKEN_SECRET=$(openssl rand -hex 32)
func NewJWTIssuer(secret string, ttl time.Duration) (*JWTIssuer, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: token secret must be at least 16 characters")
	}
	if ttl < 0 {
		return nil, errors.New("auth: token ttl must not be negative")
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token whose subject is userID. The random jti makes every
// token distinct, even for two logins in the same second.
func (s *JWTIssuer) Issue(userID int64) (string, error) {
	jti, err := randomString(16)
	if err != nil {
		return "", err
	}

	now := s.now()
	c := jwt.RegisteredClaims{
		ID:       jti,
		Subject:  strconv.FormatInt(userID, 10),
		IssuedAt: jwt.NewNumericDate(now),
		Issuer:   tokenIssuerName,
	}
	if s.ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, issuer and, when a ttl is configured, expiry.
// Only HS256 is accepted, so "none" and algorithm-confusion tokens fail.
func (s *JWTIssuer) Verify(tokenStr string) error {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuerName),
		jwt.WithTimeFunc(s.now),
	}
	if s.ttl > 0 {
		opts = append(opts, jwt.WithExpirationRequired())
	}

	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return fmt.Errorf("auth: invalid token: %w", err)
	}
	if !token.Valid {
		return errors.New("auth: invalid token")
	}
	return nil
}
