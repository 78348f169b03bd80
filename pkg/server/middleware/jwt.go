// Package middleware provides HTTP middleware for session token
// authentication.
package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/monish1402/insurance-llm-system1/pkg/identity"
	"github.com/monish1402/insurance-llm-system1/pkg/server/store"
)

// JWTAuthenticator is middleware that validates session tokens
type JWTAuthenticator struct {
	secret   []byte
	sessions store.SessionsStore
	required bool
}

// NewJWTAuthenticator creates a new session token authenticator middleware.
// sessions may be nil; token claims are then trusted without a session
// lookup.
func NewJWTAuthenticator(secret string, sessions store.SessionsStore, required bool) *JWTAuthenticator {
	return &JWTAuthenticator{
		secret:   []byte(secret),
		sessions: sessions,
		required: required,
	}
}

// Claims are the session token claims.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// IssueToken signs a session token for a user.
func IssueToken(secret, userID, sessionID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a session token and returns its claims.
func ParseToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Middleware returns an HTTP middleware that validates session tokens
func (j *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if authHeader == "" {
			if !j.required {
				ctx := identity.Set(r.Context(), identity.AnonymousIdentity().WithRemoteIP(remoteIP(r)))
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Authorization missing"))
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Malformed authorization header"))
			return
		}

		claims, err := ParseToken(string(j.secret), tokenString)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Invalid or expired token"))
			return
		}

		if j.sessions != nil && claims.SessionID != "" {
			if _, err := j.sessions.GetSession(claims.SessionID); err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte("Session expired"))
				return
			}
		}

		id := &identity.Identity{
			UserID:    claims.Subject,
			SessionID: claims.SessionID,
		}
		if claims.IssuedAt != nil {
			id.IssuedAt = claims.IssuedAt.Time
		}
		if claims.ExpiresAt != nil {
			id.ExpiresAt = claims.ExpiresAt.Time
		}
		id.WithRemoteIP(remoteIP(r))

		ctx := identity.Set(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func remoteIP(r *http.Request) net.IP {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if ip := net.ParseIP(first); ip != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return net.ParseIP(r.RemoteAddr)
	}
	return net.ParseIP(host)
}
