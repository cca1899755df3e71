// Package auth issues and validates the bearer tokens that prove a
// recent login. Tokens are stateless: subject plus expiry, signed with
// the process-wide secret.
package auth

import (
	"time"

	"github.com/dgrijalva/jwt-go"

	"snapfeed/internal/apperr"
)

type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	return &TokenService{secret: secret, ttl: ttl}
}

// Issue signs an HS256 token with subject=username expiring after the
// configured TTL. Returns the token and its expiry as a unix timestamp.
func (s *TokenService) Issue(username string) (string, int64, error) {
	expiresAt := time.Now().UTC().Add(s.ttl)
	claims := &jwt.StandardClaims{
		Subject:   username,
		IssuedAt:  time.Now().UTC().Unix(),
		ExpiresAt: expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", 0, apperr.Wrap(apperr.KindInternal, "could not sign token", err)
	}
	return signed, expiresAt.Unix(), nil
}

// Validate checks signature and expiry and returns the subject
// username. Every failure mode is an auth error; callers treat the
// token as a single opaque credential.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.Newf(apperr.KindAuth, "unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", apperr.Wrap(apperr.KindAuth, "could not validate credentials", err)
	}
	if claims.Subject == "" {
		return "", apperr.New(apperr.KindAuth, "token has no subject")
	}
	// Compare in UTC on both sides; jwt-go already checks exp but its
	// clock handling is left implicit, and an expired token must never
	// pass on a skewed local zone.
	if !time.Unix(claims.ExpiresAt, 0).UTC().After(time.Now().UTC()) {
		return "", apperr.New(apperr.KindAuth, "token expired")
	}
	return claims.Subject, nil
}
