/*
auth.go - Shared-password admin gate

PURPOSE:
  The whole admin surface is protected by a single shared password: the
  treasurer logs in once, gets a short-lived HS256 token, and sends it as
  a bearer token on mutating requests. There are no user accounts and no
  roles - authenticated means "knows the house password".

  The original kept this gate client-side (a flag in sessionStorage);
  moving it server-side means a declined login actually declines the
  mutation instead of just hiding a button.
*/
package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errBadCredentials = errors.New("wrong password")

// Authenticator issues and verifies admin tokens.
type Authenticator struct {
	password []byte
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthenticator builds the gate. An empty password disables admin
// access entirely (every login and every admin request is declined).
func NewAuthenticator(password, secret string, ttl time.Duration) *Authenticator {
	return &Authenticator{
		password: []byte(password),
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Login checks the shared password and returns a signed token.
func (a *Authenticator) Login(password string) (string, time.Time, error) {
	if len(a.password) == 0 {
		return "", time.Time{}, errBadCredentials
	}
	if subtle.ConstantTimeCompare(a.password, []byte(password)) != 1 {
		return "", time.Time{}, errBadCredentials
	}

	expires := a.now().Add(a.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(a.now()),
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Verify validates a bearer token string.
func (a *Authenticator) Verify(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return a.now() }),
	)
	if err != nil {
		return err
	}
	if !token.Valid {
		return jwt.ErrTokenUnverifiable
	}
	return nil
}

// RequireAdmin declines the request unless it carries a valid token.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			writeError(w, http.StatusUnauthorized, "missing admin token", nil)
			return
		}
		if err := a.Verify(tokenString); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid admin token", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
