package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/krisefikser/krisefikser/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// HouseholdIDKey is the context key for the authenticated household ID.
	HouseholdIDKey contextKey = "household_id"
	// UserIDKey is the context key for the authenticated user ID.
	UserIDKey contextKey = "user_id"
)

// GetHouseholdID extracts the household ID from the context.
// Returns empty string if not found.
func GetHouseholdID(ctx context.Context) string {
	householdID, _ := ctx.Value(HouseholdIDKey).(string)
	return householdID
}

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// WithHouseholdID returns a copy of ctx carrying householdID.
func WithHouseholdID(ctx context.Context, householdID string) context.Context {
	return context.WithValue(ctx, HouseholdIDKey, householdID)
}

// RequireAuth returns a middleware that validates JWT tokens and requires authentication.
// It extracts the token from the Authorization header, validates it, and adds
// the household and user IDs to the request context.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			// Extract Authorization header
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			// Parse Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			ctx = WithHouseholdID(ctx, claims.HouseholdID)
			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)

			return next(ctx, req)
		}
	}
}
