// Package auth provides JWT session tokens, bcrypt password hashing, and
// the HTTP middleware that attaches a verified identity to the request
// context.
//
// Authentication is stateless: there is no server-side session store. A
// token is an HMAC-signed claim set {userId, email, expiry}; any token
// whose signature checks out is trusted until it expires. The signing
// secret is read once at startup and injected here — nothing in this
// package reaches for globals.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "wellness-backend"

// Sentinel errors returned by Verify. Callers that care about the
// distinction (mostly tests and logs) match with errors.Is; the request
// middleware treats both the same way.
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the verified identity carried by a token.
type Claims struct {
	UserID string
	Email  string
}

// tokenClaims is the on-the-wire claim set. The user ID rides in the
// standard "sub" claim; email is a private claim.
type tokenClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies session tokens.
//
// The zero value is not usable — construct with NewTokenService so the
// secret length is checked once, at startup, instead of failing on the
// first login.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given HMAC secret and
// token lifetime. The secret should be at least 32 random bytes in
// production (e.g. JWT_SECRET=$(openssl rand -hex 32)); anything shorter
// than 16 characters is rejected outright.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token TTL must be positive")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// Issue creates a signed HS256 token for the given user, valid for the
// service's configured TTL.
func (s *TokenService) Issue(userID, email string) (string, error) {
	return s.IssueWithTTL(userID, email, s.ttl)
}

// IssueWithTTL creates a token with an explicit lifetime. Used by tests to
// mint already-expired tokens; production code goes through Issue.
func (s *TokenService) IssueWithTTL(userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()

	c := tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses a token string, checks its signature, expiry, and issuer,
// and returns the identity it carries.
//
// Restricting the accepted algorithms to HS256 closes the usual algorithm
// confusion hole where a token signed with "none" slips through.
func (s *TokenService) Verify(tokenStr string) (Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&tokenClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, fmt.Errorf("auth: %w", ErrTokenExpired)
		}
		return Claims{}, fmt.Errorf("auth: %w: %w", ErrTokenInvalid, err)
	}

	c, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return Claims{}, fmt.Errorf("auth: %w: malformed claims", ErrTokenInvalid)
	}
	if c.Subject == "" {
		return Claims{}, fmt.Errorf("auth: %w: token has no subject", ErrTokenInvalid)
	}

	return Claims{UserID: c.Subject, Email: c.Email}, nil
}
