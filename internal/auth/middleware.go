package auth

import (
	"context"
	"net/http"
)

type ctxUserKey struct{}

// UserFrom returns the authenticated user placed in ctx by the middleware, or nil.
func UserFrom(ctx context.Context) *Claims {
	c, _ := ctx.Value(ctxUserKey{}).(*Claims)
	return c
}

// WithUser returns a copy of ctx carrying c.
func WithUser(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, c)
}

// RequireAuth enforces a valid token for a user that still exists.
func RequireAuth(t Tokens, users *Users) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := t.FromRequest(r)
			if tokenStr == "" {
				http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
				return
			}
			claims, err := t.Parse(tokenStr)
			if err != nil {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			if _, err := users.FindByID(r.Context(), claims.ID); err != nil {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), &claims)))
		})
	}
}

// OptionalAuth attaches the user when a valid token is present. It never rejects.
func OptionalAuth(t Tokens, users *Users) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := t.FromRequest(r); tok != "" {
				if claims, err := t.Parse(tok); err == nil {
					if u, err := users.FindByID(r.Context(), claims.ID); err == nil {
						r = r.WithContext(WithUser(r.Context(), &Claims{ID: u.ID, Username: u.Username}))
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
