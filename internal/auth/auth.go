// Package auth validates the session tokens clients present when they open
// a sync socket or create a room. Tokens are HS256 JWTs whose "id" claim is
// the user identity.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLen is the shortest accepted signing secret.
const MinSecretLen = 16

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWeakSecret   = fmt.Errorf("secret must be at least %d bytes", MinSecretLen)
)

type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// Issue signs a token for userID. A zero ttl issues a token that never expires.
func Issue(secret []byte, userID string, ttl time.Duration) (string, error) {
	if len(secret) < MinSecretLen {
		return "", fmt.Errorf("auth: %w", ErrWeakSecret)
	}
	if userID == "" {
		return "", errors.New("auth: empty user id")
	}
	now := time.Now()
	claims := &Claims{UserID: userID}
	claims.IssuedAt = jwt.NewNumericDate(now)
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Verify checks token and returns the user id it carries. Only HS256 is accepted.
func Verify(secret []byte, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: missing", ErrInvalidToken)
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

type userKey struct{}

// UserID returns the identity RequireBearer stored in ctx.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userKey{}).(string)
	return id
}

// WithUserID returns ctx carrying id.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userKey{}, id)
}

// RequireBearer rejects requests without a valid "Authorization: Bearer"
// token and stores the user id in the request context.
func RequireBearer(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			id, err := Verify(secret, strings.TrimSpace(token))
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
		})
	}
}
