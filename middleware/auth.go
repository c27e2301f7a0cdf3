package middleware

import (
	"context"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	"famledger/logger"
	"famledger/session"
)

type contextKey string

const identityKey contextKey = "identity"

var firebaseAuth *auth.Client

// InitializeAuth wires the Firebase Admin SDK auth client used to verify
// ID tokens. With a nil app (dev mode) verification is disabled and the
// identity comes from X-Dev-* headers instead.
func InitializeAuth(ctx context.Context, app *firebase.App) error {
	if app == nil {
		logger.Get().Warn("auth running in dev mode, token verification disabled")
		return nil
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return err
	}
	firebaseAuth = client
	return nil
}

// Auth verifies the Bearer ID token and stores the caller's identity in
// the request context.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		if firebaseAuth == nil {
			// Dev mode: trust the headers.
			id := session.Identity{
				UID:   r.Header.Get("X-Dev-Uid"),
				Name:  r.Header.Get("X-Dev-Name"),
				Email: r.Header.Get("X-Dev-Email"),
			}
			if id.UID == "" {
				id.UID = "dev-user"
			}
			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
			return
		}

		idToken := extractToken(r.Header.Get("Authorization"))
		if idToken == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		token, err := firebaseAuth.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			logger.Get().Warn("token verification failed", zap.Error(err))
			http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
			return
		}

		id := session.Identity{
			UID:   token.UID,
			Name:  claimString(token, "name"),
			Email: claimString(token, "email"),
		}
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
	})
}

func extractToken(authHeader string) string {
	parts := strings.SplitN(authHeader, "Bearer ", 2)
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}

func claimString(token *auth.Token, key string) string {
	if v, ok := token.Claims[key].(string); ok {
		return v
	}
	return ""
}

func withIdentity(ctx context.Context, id session.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromRequest returns the authenticated identity placed in the
// context by Auth.
func IdentityFromRequest(r *http.Request) (session.Identity, bool) {
	id, ok := r.Context().Value(identityKey).(session.Identity)
	return id, ok
}
