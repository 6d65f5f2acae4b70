// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"crypto/sha256"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// TokenAuth guards the API with a single bearer token whose bcrypt hash is
// configured at startup. A token that passed bcrypt once is remembered by
// its SHA-256 digest so later requests skip the expensive comparison.
type TokenAuth struct {
	hash []byte

	mu       sync.RWMutex
	verified map[[32]byte]struct{}
}

// NewTokenAuth returns a TokenAuth for the given bcrypt hash. An empty hash
// disables the check; config.Load refuses that in production.
func NewTokenAuth(hash string) *TokenAuth {
	if hash == "" {
		slog.Warn("ADMIN_TOKEN_HASH not set, API authentication disabled")
	}
	return &TokenAuth{hash: []byte(hash), verified: make(map[[32]byte]struct{})}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Check reports whether token matches the configured hash.
func (a *TokenAuth) Check(token string) bool {
	if len(a.hash) == 0 {
		return true
	}
	digest := sha256.Sum256([]byte(token))

	a.mu.RLock()
	_, known := a.verified[digest]
	a.mu.RUnlock()
	if known {
		return true
	}

	if bcrypt.CompareHashAndPassword(a.hash, []byte(token)) != nil {
		return false
	}

	a.mu.Lock()
	a.verified[digest] = struct{}{}
	a.mu.Unlock()
	return true
}

// Require rejects requests without a valid bearer token with 401.
func (a *TokenAuth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(a.hash) == 0 {
			next.ServeHTTP(w, r)
			return
		}
		token, ok := bearerToken(r)
		if !ok || !a.Check(token) {
			w.Header().Set("WWW-Authenticate", `Bearer realm="meew-admin"`)
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HashToken returns the bcrypt hash to put in ADMIN_TOKEN_HASH.
func HashToken(token string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

