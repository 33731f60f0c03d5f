// internal/middleware/jwt.go
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ripple-social/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents the JWT claims for our application
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates access tokens. The secret comes from
// configuration, never from source.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(cfg *config.AuthConfig) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
	}
}

// Generate creates a new JWT token for the given user ID
func (tm *TokenManager) Generate(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "ripple-api",
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Validate parses and verifies the provided JWT token
func (tm *TokenManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return tm.secret, nil
		},
	)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// Authenticate rejects requests without a valid bearer token.
func (tm *TokenManager) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := tm.claimsFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(SetUserIDInContext(r.Context(), claims.UserID)))
	})
}

// OptionalAuthenticate attaches the user ID when a valid token is present
// and lets anonymous requests through. Read surfaces use this so public
// content stays reachable without an account; an invalid token is still
// rejected rather than silently downgraded.
func (tm *TokenManager) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" && r.URL.Query().Get("token") == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := tm.claimsFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(SetUserIDInContext(r.Context(), claims.UserID)))
	})
}

// claimsFromRequest reads the token from the Authorization header, falling
// back to the token query parameter for websocket handshakes where browsers
// cannot set headers.
func (tm *TokenManager) claimsFromRequest(r *http.Request) (*Claims, error) {
	tokenString := ""
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return nil, errors.New("invalid authorization format")
		}
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
	} else if queryToken := r.URL.Query().Get("token"); queryToken != "" {
		tokenString = queryToken
	} else {
		return nil, errors.New("authorization required")
	}

	claims, err := tm.Validate(tokenString)
	if err != nil {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Define a custom context key type to avoid collisions
type contextKey string

// UserIDKey is the key used to store the user ID in the context
const UserIDKey contextKey = "user_id"

// SetUserIDInContext saves the user ID in the request context
func SetUserIDInContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserIDFromContext retrieves the user ID from the context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// ViewerID returns the authenticated user ID, or uuid.Nil for anonymous
// requests.
func ViewerID(ctx context.Context) uuid.UUID {
	if userID, ok := GetUserIDFromContext(ctx); ok {
		return userID
	}
	return uuid.Nil
}
