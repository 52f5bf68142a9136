package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"finanx/internal/auth"
)

// SessionCookie is the cookie the login/register handlers set and this
// middleware reads. A bearer Authorization header is accepted as well.
const SessionCookie = "auth_token"

type contextKey int

const userKey contextKey = iota

// User is the authenticated caller attached to the request context.
type User struct {
	ID    string
	Email string
}

type Authenticator struct {
	tokens *auth.Manager
}

func NewAuthenticator(tokens *auth.Manager) *Authenticator {
	return &Authenticator{tokens: tokens}
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := sessionToken(r)
		if !ok {
			unauthorized(w)
			return
		}

		session, err := a.tokens.Verify(token)
		if err != nil {
			unauthorized(w)
			return
		}

		ctx := WithUser(r.Context(), User{ID: session.UserID, Email: session.Email})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionToken(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1], true
	}
	return "", false
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userKey).(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    "unauthenticated",
			"message": "authentication required",
		},
	})
}
